package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/metrics"
)

const serviceName = "swiftdrop"

const (
	// MaxNoteLength bounds the free-text delivery note.
	MaxNoteLength = 200
	// MaxScheduleAhead bounds how far in the future a delivery can be booked.
	MaxScheduleAhead = 30 * 24 * time.Hour
)

// BookingService drives an order from an empty draft through pricing,
// review and confirmation into the active delivery, and finally into
// history. It owns the lifecycle rules; the repo only persists.
type BookingService struct {
	repo      OrderRepo
	ledger    Ledger
	geo       Geo
	estimator Estimator
	producer  EventProducer
	log       logger.Logger

	now func() time.Time
}

func NewBookingService(repo OrderRepo, ledger Ledger, geo Geo, estimator Estimator, producer EventProducer, log logger.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		ledger:    ledger,
		geo:       geo,
		estimator: estimator,
		producer:  producer,
		log:       log,
		now:       time.Now,
	}
}

func (s *BookingService) Draft(ctx context.Context) (*models.Draft, error) {
	return s.repo.LoadDraft(ctx)
}

// SetPickup stores the pickup end of the draft. When the record carries
// no coordinates the address is geocoded; when geocoding fails the
// error surfaces so the customer can retry the input.
func (s *BookingService) SetPickup(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error) {
	ctx = wrap.WithAction(ctx, "set_pickup")

	resolved, err := s.resolveLocation(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SavePickup(ctx, *resolved, resolved.Phone); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not save pickup: %w", err))
	}

	return resolved, nil
}

// SetDropoff stores the dropoff end of the draft.
func (s *BookingService) SetDropoff(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error) {
	ctx = wrap.WithAction(ctx, "set_dropoff")

	resolved, err := s.resolveLocation(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveDropoff(ctx, *resolved, resolved.Phone); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not save dropoff: %w", err))
	}

	return resolved, nil
}

func (s *BookingService) resolveLocation(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error) {
	if rec.Coords == nil {
		if rec.Address == "" {
			return nil, wrap.Error(ctx, types.ErrDraftIncomplete)
		}
		coords, err := s.geo.Geocode(ctx, rec.Address)
		if err != nil {
			return nil, err
		}
		rec.Coords = &coords
	} else if !rec.Coords.Valid() {
		return nil, wrap.Error(ctx, types.ErrDraftIncomplete)
	} else if rec.Address == "" {
		label, err := s.geo.ReverseGeocode(ctx, *rec.Coords)
		if err != nil {
			// degrade to a formatted coordinate string
			label = fmt.Sprintf("%.6f, %.6f", rec.Coords.Lat, rec.Coords.Lng)
		}
		rec.Address = label
	}

	rec.Timestamp = s.now()
	return &rec, nil
}

// SetSelection stores the service type and delivery timing. A scheduled
// delivery must be strictly in the future and at most 30 days ahead.
func (s *BookingService) SetSelection(ctx context.Context, service types.ServiceType, delivery types.DeliveryType, scheduledAt *time.Time) error {
	ctx = wrap.WithAction(ctx, "set_selection")

	if !service.Valid() || !delivery.Valid() {
		return wrap.Error(ctx, types.ErrDraftIncomplete)
	}

	if delivery == types.DeliveryScheduled {
		if scheduledAt == nil {
			return wrap.Error(ctx, types.ErrInvalidSchedule)
		}
		now := s.now()
		if !scheduledAt.After(now) || scheduledAt.After(now.Add(MaxScheduleAhead)) {
			return wrap.Error(ctx, types.ErrInvalidSchedule)
		}
	} else {
		scheduledAt = nil
	}

	if err := s.repo.SaveSelection(ctx, service, delivery, scheduledAt); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not save selection: %w", err))
	}

	return nil
}

func (s *BookingService) SetDeliveryNote(ctx context.Context, note string) error {
	ctx = wrap.WithAction(ctx, "set_delivery_note")

	if len([]rune(note)) > MaxNoteLength {
		return wrap.Error(ctx, types.ErrNoteTooLong)
	}

	if err := s.repo.SaveDeliveryNote(ctx, note); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not save delivery note: %w", err))
	}

	return nil
}

// Quote prices the draft and moves it draft -> priced. Both ends must
// be geocoded first. Pricing itself cannot fail: the estimator always
// falls through to pure coordinate math.
func (s *BookingService) Quote(ctx context.Context) (*models.Draft, error) {
	ctx = wrap.WithAction(ctx, "quote_draft")

	draft, err := s.repo.LoadDraft(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not load draft: %w", err))
	}

	if !draft.Routable() {
		return nil, wrap.Error(ctx, types.ErrDraftIncomplete)
	}

	// re-quoting a priced draft is allowed, leaving priced is not
	if draft.Status != types.StatusPriced && !draft.Status.CanTransitionTo(types.StatusPriced) {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	route, price := s.estimator.Estimate(ctx, *draft.Pickup.Coords, *draft.Dropoff.Coords)

	if err := s.repo.SaveQuote(ctx, price, route); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not save quote: %w", err))
	}
	if err := s.repo.SaveDraftStatus(ctx, types.StatusPriced); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not advance draft: %w", err))
	}

	draft.EstimatedPrice = price
	draft.RouteInfo = &route
	draft.Status = types.StatusPriced

	return draft, nil
}

// Review assembles the priced draft into an order snapshot awaiting
// confirmation and moves it priced -> pending_review. The returned
// shortfall is zero when the balance covers the price; otherwise it is
// recorded so the top-up flow can suggest the exact amount.
func (s *BookingService) Review(ctx context.Context) (*models.Order, int, error) {
	ctx = wrap.WithAction(ctx, "review_order")

	draft, err := s.repo.LoadDraft(ctx)
	if err != nil {
		return nil, 0, wrap.Error(ctx, fmt.Errorf("could not load draft: %w", err))
	}

	if !draft.Priced() || !draft.Routable() {
		return nil, 0, wrap.Error(ctx, types.ErrDraftIncomplete)
	}
	if draft.Status != types.StatusPendingReview && !draft.Status.CanTransitionTo(types.StatusPendingReview) {
		return nil, 0, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	pickup := *draft.Pickup
	pickup.Phone = draft.PickupPhone
	dropoff := *draft.Dropoff
	dropoff.Phone = draft.DropoffPhone

	order := &models.Order{
		Pickup:          pickup,
		Dropoff:         dropoff,
		DeliveryNote:    draft.DeliveryNote,
		SelectedService: draft.SelectedService,
		DeliveryType:    draft.DeliveryType,
		ScheduledAt:     draft.ScheduledAt,
		Price:           draft.EstimatedPrice,
		RouteInfo:       *draft.RouteInfo,
		Status:          types.StatusPendingReview,
	}

	if err := s.repo.SaveCurrentOrder(ctx, order); err != nil {
		return nil, 0, wrap.Error(ctx, fmt.Errorf("could not save order snapshot: %w", err))
	}
	if err := s.repo.SaveDraftStatus(ctx, types.StatusPendingReview); err != nil {
		return nil, 0, wrap.Error(ctx, fmt.Errorf("could not advance draft: %w", err))
	}

	shortfall, err := s.ledger.Shortfall(ctx, order.Price)
	if err != nil {
		return nil, 0, wrap.Error(ctx, fmt.Errorf("could not check balance: %w", err))
	}

	return order, shortfall, nil
}

// Confirm is the single logical step that turns the reviewed snapshot
// into a confirmed order: assign the id, record it in history, debit
// the wallet, make it the active order and wipe the draft. The history
// insert happens before the debit, so a crash in between can never
// leave money taken for an unrecorded order. Confirming with an
// insufficient balance changes nothing.
func (s *BookingService) Confirm(ctx context.Context) (*models.Order, error) {
	ctx = wrap.WithAction(ctx, "confirm_order")

	order, err := s.repo.CurrentOrder(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if !order.Status.CanTransitionTo(types.StatusConfirmed) {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	if _, err := s.repo.ActiveOrder(ctx); err == nil {
		return nil, wrap.Error(ctx, types.ErrActiveOrderExists)
	}

	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not read balance: %w", err))
	}
	if balance < order.Price {
		if _, err := s.ledger.Shortfall(ctx, order.Price); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("could not record shortfall: %w", err))
		}
		return nil, wrap.Error(ctx, types.ErrInsufficientFunds)
	}

	id, err := s.generateOrderNumber(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not generate order number: %w", err))
	}

	order.ID = id
	order.Status = types.StatusConfirmed
	order.CreatedAt = s.now()

	ctx = wrap.WithOrderID(ctx, order.ID)

	if err := s.repo.InsertHistory(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not record order in history: %w", err))
	}

	newBalance, err := s.ledger.Debit(ctx, order.Price)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not debit wallet: %w", err))
	}

	order.BalanceAfter = &newBalance
	if err := s.repo.UpdateHistory(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update history entry: %w", err))
	}

	if err := s.repo.SaveActiveOrder(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not save active order: %w", err))
	}

	if err := s.repo.ClearDraft(ctx); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not clear draft: %w", err))
	}

	if err := s.producer.PublishOrderConfirmed(ctx, models.OrderConfirmedMessage{
		OrderID:      order.ID,
		Service:      order.SelectedService,
		Price:        order.Price,
		BalanceAfter: newBalance,
		ConfirmedAt:  order.CreatedAt,
	}); err != nil {
		s.log.Error(ctx, "failed to publish order confirmed event", err)
	}

	metrics.OrdersTotal.WithLabelValues(serviceName, types.StatusConfirmed.String()).Inc()
	s.log.Info(ctx, "order confirmed")

	return order, nil
}

// CancelDraft discards the draft before confirmation. Nothing was
// debited yet, so nothing is refunded.
func (s *BookingService) CancelDraft(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "cancel_draft")

	draft, err := s.repo.LoadDraft(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not load draft: %w", err))
	}

	if !draft.Status.CanTransitionTo(types.StatusCancelled) {
		return wrap.Error(ctx, types.ErrInvalidTransition)
	}

	if err := s.repo.ClearDraft(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not clear draft: %w", err))
	}

	s.log.Info(ctx, "draft cancelled")
	return nil
}

// CancelActive cancels the confirmed order before the courier picks it
// up, refunding the full price. A delivery already in transit can no
// longer be cancelled.
func (s *BookingService) CancelActive(ctx context.Context) (*models.Order, error) {
	ctx = wrap.WithAction(ctx, "cancel_active_order")

	order, err := s.repo.ActiveOrder(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithOrderID(ctx, order.ID)

	if order.Status == types.StatusInTransit {
		return nil, wrap.Error(ctx, types.ErrCancellationNotAllowed)
	}
	if !order.Status.CanTransitionTo(types.StatusCancelled) {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	if _, err := s.ledger.Credit(ctx, order.Price); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not refund: %w", err))
	}

	now := s.now()
	order.Status = types.StatusCancelled
	order.CancelledAt = &now

	// the history entry stays, marked cancelled
	if err := s.repo.UpdateHistory(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update history entry: %w", err))
	}
	if err := s.repo.DeleteActiveOrder(ctx); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not remove active order: %w", err))
	}

	if err := s.producer.PublishOrderStatus(ctx, models.OrderStatusMessage{
		OrderID:      order.ID,
		Status:       types.StatusCancelled,
		Timestamp:    now,
		RefundAmount: order.Price,
	}); err != nil {
		s.log.Error(ctx, "failed to publish cancellation event", err)
	}

	metrics.OrdersTotal.WithLabelValues(serviceName, types.StatusCancelled.String()).Inc()
	s.log.Info(ctx, "active order cancelled, price refunded")

	return order, nil
}

// StartTransit moves the active order confirmed -> in_transit when the
// courier simulation picks it up.
func (s *BookingService) StartTransit(ctx context.Context) (*models.Order, error) {
	ctx = wrap.WithAction(ctx, "start_transit")

	order, err := s.repo.ActiveOrder(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithOrderID(ctx, order.ID)

	if !order.Status.CanTransitionTo(types.StatusInTransit) {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	order.Status = types.StatusInTransit
	if err := s.repo.SaveActiveOrder(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not save active order: %w", err))
	}
	if err := s.repo.UpdateHistory(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update history entry: %w", err))
	}

	metrics.ActiveDeliveriesGauge.WithLabelValues(serviceName).Inc()

	return order, nil
}

// CompleteActive finishes the delivery: in_transit -> delivered, the
// history entry updated in place, the active slot freed.
func (s *BookingService) CompleteActive(ctx context.Context) (*models.Order, error) {
	ctx = wrap.WithAction(ctx, "complete_delivery")

	order, err := s.repo.ActiveOrder(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithOrderID(ctx, order.ID)

	if !order.Status.CanTransitionTo(types.StatusDelivered) {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	now := s.now()
	order.Status = types.StatusDelivered
	order.DeliveredAt = &now

	if err := s.repo.UpdateHistory(ctx, order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update history entry: %w", err))
	}
	if err := s.repo.DeleteActiveOrder(ctx); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not remove active order: %w", err))
	}

	if err := s.producer.PublishOrderStatus(ctx, models.OrderStatusMessage{
		OrderID:   order.ID,
		Status:    types.StatusDelivered,
		Phase:     types.PhaseDelivered,
		Timestamp: now,
	}); err != nil {
		s.log.Error(ctx, "failed to publish delivery event", err)
	}

	metrics.ActiveDeliveriesGauge.WithLabelValues(serviceName).Dec()
	metrics.OrdersTotal.WithLabelValues(serviceName, types.StatusDelivered.String()).Inc()
	s.log.Info(ctx, "delivery completed")

	return order, nil
}

func (s *BookingService) ActiveOrder(ctx context.Context) (*models.Order, error) {
	return s.repo.ActiveOrder(ctx)
}

func (s *BookingService) History(ctx context.Context) ([]models.Order, error) {
	return s.repo.History(ctx)
}

// OrderByID resolves an order number against the active order first,
// then the history list.
func (s *BookingService) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	ctx = wrap.WithOrderID(ctx, id)

	if active, err := s.repo.ActiveOrder(ctx); err == nil && active.ID == id {
		return active, nil
	}

	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not load history: %w", err))
	}
	for i := range history {
		if history[i].ID == id {
			return &history[i], nil
		}
	}

	return nil, types.ErrOrderNotFound
}
