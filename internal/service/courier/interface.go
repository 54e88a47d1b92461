package courier

import (
	"context"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
)

// OrderFlow is the slice of the booking service the simulator drives:
// transit start, completion and cancellation of the active order.
type OrderFlow interface {
	ActiveOrder(ctx context.Context) (*models.Order, error)
	StartTransit(ctx context.Context) (*models.Order, error)
	CompleteActive(ctx context.Context) (*models.Order, error)
	CancelActive(ctx context.Context) (*models.Order, error)
}

// Notifier pushes tracking updates to whoever is watching the delivery.
type Notifier interface {
	Notify(update models.TrackingUpdate)
}

// EventProducer announces phase changes of the active delivery.
type EventProducer interface {
	PublishOrderStatus(ctx context.Context, msg models.OrderStatusMessage) error
}
