package service

import (
	"context"

	"github.com/lemon630/order-meal/stats-svc/internal/domain"
	"github.com/lemon630/order-meal/stats-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	RecordPlaced(ctx context.Context, date string, msg domain.KafkaMessage) (bool, error)
	RecordCompleted(ctx context.Context, date string, orderID int) (bool, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessMessage(ctx context.Context, msg domain.KafkaMessage)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
