package booking

import (
	"context"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
)

// OrderRepo persists the draft under construction, the current and
// active order snapshots, and the order history.
type OrderRepo interface {
	LoadDraft(ctx context.Context) (*models.Draft, error)
	SavePickup(ctx context.Context, rec models.LocationRecord, phone string) error
	SaveDropoff(ctx context.Context, rec models.LocationRecord, phone string) error
	SaveSelection(ctx context.Context, service types.ServiceType, delivery types.DeliveryType, scheduledAt *time.Time) error
	SaveDeliveryNote(ctx context.Context, note string) error
	SaveQuote(ctx context.Context, price int, route models.RouteInfo) error
	SaveDraftStatus(ctx context.Context, status types.OrderStatus) error
	ClearDraft(ctx context.Context) error

	SaveCurrentOrder(ctx context.Context, order *models.Order) error
	CurrentOrder(ctx context.Context) (*models.Order, error)
	SaveActiveOrder(ctx context.Context, order *models.Order) error
	ActiveOrder(ctx context.Context) (*models.Order, error)
	DeleteActiveOrder(ctx context.Context) error

	History(ctx context.Context) ([]models.Order, error)
	InsertHistory(ctx context.Context, order *models.Order) error
	UpdateHistory(ctx context.Context, order *models.Order) error
	CountHistoryByDate(ctx context.Context, day time.Time) (int, error)
}

// Ledger is the wallet the booking flow debits and refunds.
type Ledger interface {
	Balance(ctx context.Context) (int, error)
	Credit(ctx context.Context, amount int) (int, error)
	Debit(ctx context.Context, amount int) (int, error)
	Shortfall(ctx context.Context, price int) (int, error)
}

// Geo resolves addresses to coordinates and back.
type Geo interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
	ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error)
}

// Estimator prices a pickup/dropoff coordinate pair.
type Estimator interface {
	Estimate(ctx context.Context, pickup, dropoff models.Coordinate) (models.RouteInfo, int)
}

// EventProducer announces order lifecycle changes.
type EventProducer interface {
	PublishOrderConfirmed(ctx context.Context, msg models.OrderConfirmedMessage) error
	PublishOrderStatus(ctx context.Context, msg models.OrderStatusMessage) error
}
