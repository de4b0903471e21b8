package domain

import (
	"strings"
	"time"
)

type MenuItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDish is the caller-supplied shape of a dish before the store assigns an id.
type NewDish struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
)

// LegacyCompletedLabels are the fragments older deployments wrote for a finished
// order, e.g. "已出餐 ✅".
var LegacyCompletedLabels = []string{"已出餐", "已完成"}

// ParseStatus maps stored status text onto the two canonical values. Rows written
// by older deployments carry localized labels such as "新订单 ⚡" or "已出餐 ✅".
func ParseStatus(raw string) OrderStatus {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, string(StatusCompleted)) {
		return StatusCompleted
	}
	for _, label := range LegacyCompletedLabels {
		if strings.Contains(s, label) {
			return StatusCompleted
		}
	}
	return StatusPending
}

type Order struct {
	ID        int         `json:"id"`
	Table     int         `json:"table"`
	Items     []OrderLine `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderLine is a value copy of one cart entry taken when the order is placed.
// DishID is informational; the line never follows later menu edits.
type OrderLine struct {
	DishID   int     `json:"dish_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Subtotal float64 `json:"subtotal"`
}

// DailyStats is the kitchen summary kept in Redis by stats-svc.
type DailyStats struct {
	Date      string      `json:"date"`
	Orders    int         `json:"orders"`
	Completed int         `json:"completed"`
	Revenue   float64     `json:"revenue"`
	TopDishes []DishCount `json:"top_dishes"`
}

type DishCount struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}
