package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lemon630/order-meal/stats-svc/internal/domain"
	"github.com/lemon630/order-meal/stats-svc/internal/mocks"
	"github.com/lemon630/order-meal/stats-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var placedAt = time.Date(2026, 10, 16, 12, 30, 0, 0, time.Local)

func TestConsumer_ProcessMessage(t *testing.T) {
	placed := domain.KafkaMessage{
		Type:      domain.EventOrderPlaced,
		OrderID:   41,
		Table:     5,
		Total:     208,
		Lines:     []domain.MessageLine{{Name: "Burger", Qty: 2}, {Name: "Juice", Qty: 1}},
		Timestamp: placedAt,
	}
	completed := domain.KafkaMessage{Type: domain.EventOrderCompleted, OrderID: 41, Timestamp: placedAt}

	tests := []struct {
		name           string
		inputMessage   domain.KafkaMessage
		setupMockStore func(*mocks.StoreInterface)
	}{
		{
			name:         "order placed",
			inputMessage: placed,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordPlaced", mock.Anything, "2026-10-16", placed).Return(true, nil).Once()
			},
		},
		{
			name:         "order completed",
			inputMessage: completed,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordCompleted", mock.Anything, "2026-10-16", 41).Return(true, nil).Once()
			},
		},
		{
			name:         "duplicate delivery",
			inputMessage: placed,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordPlaced", mock.Anything, "2026-10-16", placed).Return(false, nil).Once()
			},
		},
		{
			name:         "redis error",
			inputMessage: completed,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordCompleted", mock.Anything, "2026-10-16", 41).Return(false, errors.New("redis error")).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &service.Consumer{
				Store: mockStore,
			}

			consumer.ProcessMessage(context.Background(), testCase.inputMessage)
		})
	}
}

func TestConsumer_UnknownMessageType(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := &service.Consumer{
		Store: mockStore,
	}

	consumer.ProcessMessage(context.Background(), domain.KafkaMessage{Type: "new_review", OrderID: 1})

	mockStore.AssertNotCalled(t, "RecordPlaced", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "RecordCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := mocks.NewMessageReader(t)
	mockStore := mocks.NewStoreInterface(t)

	reader.On("ReadMessage", mock.Anything).
		Return(kafka.Message{Value: []byte(`{"type":"order_completed","order_id":7,"timestamp":"2026-10-16T12:30:00Z"}`)}, nil).Once()
	reader.On("ReadMessage", mock.Anything).
		Return(kafka.Message{Value: []byte(`not json`)}, nil).Once()
	reader.On("ReadMessage", mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()
	mockStore.On("RecordCompleted", mock.Anything, mock.AnythingOfType("string"), 7).Return(true, nil).Once()

	done := make(chan error, 1)
	go func() { done <- service.NewConsumer(reader, mockStore).Start(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}
