package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/lemon630/order-meal/stats-svc/internal/domain"
)

const retryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

// Start reads order events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	log.Println("[stats-svc] starting order event consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Println("[stats-svc] consumer stopped")
				return nil
			}
			log.Printf("[stats-svc] error reading message: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}

		var msg domain.KafkaMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			log.Printf("[stats-svc] error unmarshaling message at offset %d: %v", message.Offset, err)
			continue
		}
		c.ProcessMessage(ctx, msg)
	}
}

// ProcessMessage folds one event into the counters of the day it happened on.
func (c *Consumer) ProcessMessage(ctx context.Context, msg domain.KafkaMessage) {
	date := day(msg.Timestamp)

	var (
		applied bool
		err     error
	)
	switch msg.Type {
	case domain.EventOrderPlaced:
		applied, err = c.Store.RecordPlaced(ctx, date, msg)
	case domain.EventOrderCompleted:
		applied, err = c.Store.RecordCompleted(ctx, date, msg.OrderID)
	default:
		log.Printf("[stats-svc] ignoring event type %q", msg.Type)
		return
	}

	if err != nil {
		log.Printf("[stats-svc] error recording %s for order %d: %v", msg.Type, msg.OrderID, err)
		return
	}
	if !applied {
		log.Printf("[stats-svc] duplicate %s for order %d skipped", msg.Type, msg.OrderID)
		return
	}
	log.Printf("[stats-svc] recorded %s for order %d on %s", msg.Type, msg.OrderID, date)
}

func day(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Local().Format("2006-01-02")
}
