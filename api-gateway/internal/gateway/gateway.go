package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"groupcart/logger"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	CartSvcURL  string
	StatsSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *logger.Logger
}

func NewGateway(config Config, client HTTPClient, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ProxyRequest forwards the request to targetURL keeping path, query, headers
// and body. The caller's context bounds the upstream call.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.log.Debug("proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.log.Error("failed to create upstream request", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to create upstream request")
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("upstream unavailable", "target", targetURL, "error", err)
		writeMessage(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Warn("failed to copy upstream response", "error", err)
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case strings.HasPrefix(path, "/api/stats/"):
		g.ProxyRequest(w, r, g.config.StatsSvcURL)
	case path == "/api/restaurants" || strings.HasPrefix(path, "/api/restaurants/"):
		g.ProxyRequest(w, r, g.config.CartSvcURL)
	case strings.HasPrefix(path, "/api/orders/"):
		g.ProxyRequest(w, r, g.config.CartSvcURL)
	default:
		g.log.Debug("unmatched api route", "path", path)
		writeMessage(w, http.StatusNotFound, "API route not found")
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	return r
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
