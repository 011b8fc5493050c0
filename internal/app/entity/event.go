package entity

import "time"

type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order.created"
	EventOrderUpdated       OrderEventType = "order.updated"
	EventOrderStatusChanged OrderEventType = "order.status_changed"
	EventOrderDeleted       OrderEventType = "order.deleted"
)

type OrderEvent struct {
	Type       OrderEventType `json:"type"`
	OrderID    OrderID        `json:"order_id"`
	TeamID     TeamID         `json:"team_id"`
	Status     OrderStatus    `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
