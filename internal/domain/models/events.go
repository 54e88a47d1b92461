package models

import (
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
)

/* ======================= rabbitmq ======================= */

// OrderConfirmedMessage is published once, when confirmation succeeds.
type OrderConfirmedMessage struct {
	OrderID      string            `json:"order_id"`
	Service      types.ServiceType `json:"service"`
	Price        int               `json:"price"`
	BalanceAfter int               `json:"balance_after"`
	ConfirmedAt  time.Time         `json:"confirmed_at"`
}

// OrderStatusMessage is published on every lifecycle or phase change of
// the active order.
type OrderStatusMessage struct {
	OrderID      string              `json:"order_id"`
	Status       types.OrderStatus   `json:"status"`
	Phase        types.DeliveryPhase `json:"phase,omitempty"`
	EtaMinutes   int                 `json:"eta_minutes"`
	Timestamp    time.Time           `json:"timestamp"`
	RefundAmount int                 `json:"refund_amount,omitempty"`
}

/* ======================= websocket ======================= */

// TrackingUpdate is pushed to the customer's tracking connection.
type TrackingUpdate struct {
	Type       string              `json:"type"` // always "tracking_update"
	OrderID    string              `json:"order_id"`
	Status     types.OrderStatus   `json:"status"`
	Phase      types.DeliveryPhase `json:"phase"`
	EtaMinutes int                 `json:"eta_minutes"`
	SentAt     time.Time           `json:"sent_at"`
}
