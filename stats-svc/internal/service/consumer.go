package service

import (
	"context"
	"encoding/json"
	"errors"

	"groupcart/logger"
	"groupcart/stats-svc/internal/domain"
)

type Consumer struct {
	Reader MessageReader
	Store  StatsStore
	Log    *logger.Logger
}

func NewConsumer(reader MessageReader, store StatsStore, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{
		Reader: reader,
		Store:  store,
		Log:    log,
	}
}

// Start reads until ctx is cancelled. Malformed messages are logged and
// skipped.
func (c *Consumer) Start(ctx context.Context) {
	c.Log.Info("stats consumer started")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.Log.Info("stats consumer stopped")
				return
			}
			c.Log.Warn("error reading message", "error", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Log.Warn("error unmarshaling message", "error", err, "offset", message.Offset)
			continue
		}

		if err := c.ProcessEvent(ctx, event); err != nil {
			c.Log.Error("error processing event", "order_id", event.OrderID, "error", err)
		}
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	if event.Type != domain.EventOrderCompleted {
		c.Log.Debug("ignoring event", "type", event.Type)
		return nil
	}

	first, err := c.Store.MarkProcessed(ctx, event.OrderID)
	if err != nil {
		return err
	}
	if !first {
		c.Log.Debug("duplicate order event", "order_id", event.OrderID)
		return nil
	}

	if err := c.Store.RecordOrder(ctx, event); err != nil {
		if clearErr := c.Store.ClearProcessed(ctx, event.OrderID); clearErr != nil {
			c.Log.Warn("failed to clear processed marker",
				"order_id", event.OrderID,
				"error", clearErr)
		}
		return err
	}
	c.Log.Info("order recorded",
		"order_id", event.OrderID,
		"restaurant_id", event.RestaurantID,
		"total_price", event.TotalPrice)
	return nil
}
