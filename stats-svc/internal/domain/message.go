package domain

import "time"

const (
	EventOrderPlaced    = "order_placed"
	EventOrderCompleted = "order_completed"
)

type KafkaMessage struct {
	Type      string        `json:"type"`
	OrderID   int           `json:"order_id"`
	Table     int           `json:"table"`
	Total     float64       `json:"total"`
	Lines     []MessageLine `json:"lines,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type MessageLine struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}
