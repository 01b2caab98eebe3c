package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the cart service, directly or through the gateway.
type Client struct {
	baseURL string
	token   string
	http    HTTPClient
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, token, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL, token string, doer HTTPClient) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    doer,
	}
}

func (c *Client) GetRestaurant(ctx context.Context, restaurantID int) (Restaurant, error) {
	var out Restaurant
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/restaurants/%d", restaurantID), nil, &out)
	return out, err
}

func (c *Client) ListMenus(ctx context.Context, restaurantID int) ([]Menu, error) {
	var out []Menu
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/restaurants/%d/menus", restaurantID), nil, &out)
	return out, err
}

func (c *Client) ReadState(ctx context.Context, restaurantID int) (State, error) {
	var out State
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/restaurants/%d/state", restaurantID), nil, &out)
	return out, err
}

// ApplyDelta uses the combined form, which moves the item count and the
// shared total together.
func (c *Client) ApplyDelta(ctx context.Context, restaurantID, menuID, delta int) (CombinedResult, error) {
	var out CombinedResult
	path := fmt.Sprintf("/api/restaurants/%d/menus/%d/amount", restaurantID, menuID)
	err := c.do(ctx, http.MethodPatch, path, map[string]int{"delta": delta}, &out)
	return out, err
}

func (c *Client) Checkout(ctx context.Context, restaurantID int) (CheckoutResult, error) {
	var out CheckoutResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/restaurants/%d/checkout", restaurantID), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	var msg struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&msg)
	if msg.Message == "" {
		msg.Message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrNotFound, msg.Message)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrInvalidDelta, msg.Message)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s %s: %w: status %d: %s", method, path, ErrTransientNetwork, resp.StatusCode, msg.Message)
	default:
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, msg.Message)
	}
}
