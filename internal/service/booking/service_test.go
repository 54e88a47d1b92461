package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
)

/* ======================= fakes ======================= */

type memRepo struct {
	draft   models.Draft
	current *models.Order
	active  *models.Order
	history []models.Order
}

func newMemRepo() *memRepo {
	return &memRepo{draft: models.Draft{Status: types.StatusDraft}}
}

func (m *memRepo) LoadDraft(_ context.Context) (*models.Draft, error) {
	d := m.draft
	if d.Status == "" {
		d.Status = types.StatusDraft
	}
	return &d, nil
}

func (m *memRepo) SavePickup(_ context.Context, rec models.LocationRecord, phone string) error {
	m.draft.Pickup = &rec
	m.draft.PickupPhone = phone
	return nil
}

func (m *memRepo) SaveDropoff(_ context.Context, rec models.LocationRecord, phone string) error {
	m.draft.Dropoff = &rec
	m.draft.DropoffPhone = phone
	return nil
}

func (m *memRepo) SaveSelection(_ context.Context, service types.ServiceType, delivery types.DeliveryType, scheduledAt *time.Time) error {
	m.draft.SelectedService = service
	m.draft.DeliveryType = delivery
	m.draft.ScheduledAt = scheduledAt
	return nil
}

func (m *memRepo) SaveDeliveryNote(_ context.Context, note string) error {
	m.draft.DeliveryNote = note
	return nil
}

func (m *memRepo) SaveQuote(_ context.Context, price int, route models.RouteInfo) error {
	m.draft.EstimatedPrice = price
	m.draft.RouteInfo = &route
	return nil
}

func (m *memRepo) SaveDraftStatus(_ context.Context, status types.OrderStatus) error {
	m.draft.Status = status
	return nil
}

func (m *memRepo) ClearDraft(_ context.Context) error {
	m.draft = models.Draft{Status: types.StatusDraft}
	m.current = nil
	return nil
}

func (m *memRepo) SaveCurrentOrder(_ context.Context, order *models.Order) error {
	cp := *order
	m.current = &cp
	return nil
}

func (m *memRepo) CurrentOrder(_ context.Context) (*models.Order, error) {
	if m.current == nil {
		return nil, types.ErrOrderNotFound
	}
	cp := *m.current
	return &cp, nil
}

func (m *memRepo) SaveActiveOrder(_ context.Context, order *models.Order) error {
	cp := *order
	m.active = &cp
	return nil
}

func (m *memRepo) ActiveOrder(_ context.Context) (*models.Order, error) {
	if m.active == nil {
		return nil, types.ErrNoActiveOrder
	}
	cp := *m.active
	return &cp, nil
}

func (m *memRepo) DeleteActiveOrder(_ context.Context) error {
	m.active = nil
	return nil
}

func (m *memRepo) History(_ context.Context) ([]models.Order, error) {
	out := make([]models.Order, len(m.history))
	copy(out, m.history)
	return out, nil
}

func (m *memRepo) InsertHistory(_ context.Context, order *models.Order) error {
	for _, existing := range m.history {
		if existing.ID == order.ID {
			return nil
		}
	}
	m.history = append([]models.Order{*order}, m.history...)
	return nil
}

func (m *memRepo) UpdateHistory(_ context.Context, order *models.Order) error {
	for i, existing := range m.history {
		if existing.ID == order.ID {
			m.history[i] = *order
			return nil
		}
	}
	m.history = append([]models.Order{*order}, m.history...)
	return nil
}

func (m *memRepo) CountHistoryByDate(_ context.Context, day time.Time) (int, error) {
	y, mo, d := day.Date()
	count := 0
	for _, order := range m.history {
		oy, om, od := order.CreatedAt.Date()
		if oy == y && om == mo && od == d {
			count++
		}
	}
	return count, nil
}

type memLedger struct {
	balance  int
	required int
}

func (m *memLedger) Balance(_ context.Context) (int, error) { return m.balance, nil }

func (m *memLedger) Credit(_ context.Context, amount int) (int, error) {
	m.balance += amount
	return m.balance, nil
}

func (m *memLedger) Debit(_ context.Context, amount int) (int, error) {
	if amount > m.balance {
		return m.balance, types.ErrInsufficientFunds
	}
	m.balance -= amount
	return m.balance, nil
}

func (m *memLedger) Shortfall(_ context.Context, price int) (int, error) {
	if price <= m.balance {
		return 0, nil
	}
	m.required = price - m.balance
	return m.required, nil
}

type fakeGeo struct{}

func (fakeGeo) Geocode(_ context.Context, _ string) (models.Coordinate, error) {
	return models.Coordinate{Lat: 6.5244, Lng: 3.3792}, nil
}

func (fakeGeo) ReverseGeocode(_ context.Context, c models.Coordinate) (string, error) {
	return "somewhere", nil
}

type fixedEstimator struct {
	price int
}

func (f fixedEstimator) Estimate(_ context.Context, _, _ models.Coordinate) (models.RouteInfo, int) {
	return models.RouteInfo{
		DurationSeconds: 1800,
		DistanceMeters:  12000,
		Method:          types.FareMethodAPI,
	}, f.price
}

type memProducer struct {
	confirmed []models.OrderConfirmedMessage
	statuses  []models.OrderStatusMessage
}

func (m *memProducer) PublishOrderConfirmed(_ context.Context, msg models.OrderConfirmedMessage) error {
	m.confirmed = append(m.confirmed, msg)
	return nil
}

func (m *memProducer) PublishOrderStatus(_ context.Context, msg models.OrderStatusMessage) error {
	m.statuses = append(m.statuses, msg)
	return nil
}

/* ======================= helpers ======================= */

type fixture struct {
	svc      *BookingService
	repo     *memRepo
	ledger   *memLedger
	producer *memProducer
}

func newFixture(t *testing.T, balance, price int) *fixture {
	t.Helper()
	repo := newMemRepo()
	ledger := &memLedger{balance: balance}
	producer := &memProducer{}
	svc := NewBookingService(repo, ledger, fakeGeo{}, fixedEstimator{price: price}, producer,
		logger.InitLogger("test", "ERROR"))
	return &fixture{svc: svc, repo: repo, ledger: ledger, producer: producer}
}

// buildDraft walks the fixture through pickup, dropoff, selection,
// quote and review, leaving the order in pending_review.
func (f *fixture) buildDraft(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	pickup := models.LocationRecord{
		Address: "12 Marina Road, Lagos",
		Coords:  &models.Coordinate{Lat: 6.4541, Lng: 3.3947},
		Phone:   "08011111111",
	}
	if _, err := f.svc.SetPickup(ctx, pickup); err != nil {
		t.Fatalf("SetPickup: %v", err)
	}

	dropoff := models.LocationRecord{
		Address: "3 Allen Avenue, Ikeja",
		Coords:  &models.Coordinate{Lat: 6.6018, Lng: 3.3515},
		Phone:   "08022222222",
	}
	if _, err := f.svc.SetDropoff(ctx, dropoff); err != nil {
		t.Fatalf("SetDropoff: %v", err)
	}

	if err := f.svc.SetSelection(ctx, types.ServiceParcel, types.DeliveryInstant, nil); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}
	if _, err := f.svc.Quote(ctx); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if _, _, err := f.svc.Review(ctx); err != nil {
		t.Fatalf("Review: %v", err)
	}
}

/* ======================= tests ======================= */

func TestConfirm(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	order, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if order.ID == "" {
		t.Error("order has no id")
	}
	if order.Status != types.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", order.Status)
	}
	if f.ledger.balance != 1000 {
		t.Errorf("balance = %d, want 1000", f.ledger.balance)
	}
	if order.BalanceAfter == nil || *order.BalanceAfter != 1000 {
		t.Errorf("balanceAfter = %v, want 1000", order.BalanceAfter)
	}
	if len(f.repo.history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(f.repo.history))
	}
	if f.repo.history[0].ID != order.ID {
		t.Errorf("history entry id = %s, want %s", f.repo.history[0].ID, order.ID)
	}
	if f.repo.active == nil || f.repo.active.ID != order.ID {
		t.Error("order not saved as active")
	}
	if f.repo.draft.Pickup != nil || f.repo.current != nil {
		t.Error("draft not cleared after confirmation")
	}
	if len(f.producer.confirmed) != 1 {
		t.Errorf("confirmed events = %d, want 1", len(f.producer.confirmed))
	}
}

func TestConfirm_InsufficientFunds(t *testing.T) {
	f := newFixture(t, 1000, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx)
	if !errors.Is(err, types.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// no partial application
	if f.ledger.balance != 1000 {
		t.Errorf("balance = %d, want unchanged 1000", f.ledger.balance)
	}
	if len(f.repo.history) != 0 {
		t.Errorf("history has %d entries, want 0", len(f.repo.history))
	}
	if f.ledger.required != 500 {
		t.Errorf("recorded shortfall = %d, want 500", f.ledger.required)
	}
	// snapshot survives so the customer can top up and retry
	if f.repo.current == nil {
		t.Error("order snapshot lost on failed confirmation")
	}
}

func TestConfirm_Twice(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	first, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("first Confirm: %v", err)
	}

	if _, err := f.svc.Confirm(ctx); err == nil {
		t.Fatal("second Confirm succeeded, want error")
	}

	count := 0
	for _, entry := range f.repo.history {
		if entry.ID == first.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("history has %d entries with id %s, want 1", count, first.ID)
	}
	if f.ledger.balance != 1000 {
		t.Errorf("balance = %d, want 1000 after single debit", f.ledger.balance)
	}
}

func TestCancelActive_Refunds(t *testing.T) {
	f := newFixture(t, 1000, 800)
	f.buildDraft(t)
	ctx := context.Background()

	order, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if f.ledger.balance != 200 {
		t.Fatalf("balance = %d, want 200", f.ledger.balance)
	}

	cancelled, err := f.svc.CancelActive(ctx)
	if err != nil {
		t.Fatalf("CancelActive: %v", err)
	}

	if f.ledger.balance != 1000 {
		t.Errorf("balance = %d, want full refund to 1000", f.ledger.balance)
	}
	if cancelled.Status != types.StatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if f.repo.active != nil {
		t.Error("order still active after cancellation")
	}
	// the history entry stays, marked cancelled
	if len(f.repo.history) != 1 || f.repo.history[0].Status != types.StatusCancelled {
		t.Errorf("history entry = %+v, want one cancelled entry", f.repo.history)
	}
	if f.repo.history[0].ID != order.ID {
		t.Errorf("history entry id = %s, want %s", f.repo.history[0].ID, order.ID)
	}
	if len(f.producer.statuses) == 0 || f.producer.statuses[0].RefundAmount != 800 {
		t.Errorf("cancellation event missing refund amount: %+v", f.producer.statuses)
	}
}

func TestCancelActive_InTransit(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := f.svc.StartTransit(ctx); err != nil {
		t.Fatalf("StartTransit: %v", err)
	}

	_, err := f.svc.CancelActive(ctx)
	if !errors.Is(err, types.ErrCancellationNotAllowed) {
		t.Fatalf("err = %v, want ErrCancellationNotAllowed", err)
	}
	if f.ledger.balance != 1000 {
		t.Errorf("balance = %d, refund happened for in-transit order", f.ledger.balance)
	}
}

func TestLifecycle_ConfirmToDelivered(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	order, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	inTransit, err := f.svc.StartTransit(ctx)
	if err != nil {
		t.Fatalf("StartTransit: %v", err)
	}
	if inTransit.Status != types.StatusInTransit {
		t.Fatalf("status = %s, want in_transit", inTransit.Status)
	}

	delivered, err := f.svc.CompleteActive(ctx)
	if err != nil {
		t.Fatalf("CompleteActive: %v", err)
	}
	if delivered.Status != types.StatusDelivered {
		t.Fatalf("status = %s, want delivered", delivered.Status)
	}
	if delivered.DeliveredAt == nil {
		t.Error("deliveredAt not set")
	}

	// updated in place, not duplicated
	if len(f.repo.history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(f.repo.history))
	}
	if f.repo.history[0].ID != order.ID || f.repo.history[0].Status != types.StatusDelivered {
		t.Errorf("history entry = %+v", f.repo.history[0])
	}
	if f.repo.active != nil {
		t.Error("order still active after delivery")
	}
}

func TestCompleteActive_NotInTransit(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// confirmed order cannot jump straight to delivered
	if _, err := f.svc.CompleteActive(ctx); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestQuote_RequiresBothEnds(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	ctx := context.Background()

	pickup := models.LocationRecord{
		Address: "12 Marina Road, Lagos",
		Coords:  &models.Coordinate{Lat: 6.4541, Lng: 3.3947},
	}
	if _, err := f.svc.SetPickup(ctx, pickup); err != nil {
		t.Fatalf("SetPickup: %v", err)
	}

	if _, err := f.svc.Quote(ctx); !errors.Is(err, types.ErrDraftIncomplete) {
		t.Fatalf("err = %v, want ErrDraftIncomplete", err)
	}
}

func TestQuote_AdvancesDraft(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	ctx := context.Background()

	if _, err := f.svc.SetPickup(ctx, models.LocationRecord{
		Address: "a", Coords: &models.Coordinate{Lat: 6.45, Lng: 3.39},
	}); err != nil {
		t.Fatalf("SetPickup: %v", err)
	}
	if _, err := f.svc.SetDropoff(ctx, models.LocationRecord{
		Address: "b", Coords: &models.Coordinate{Lat: 6.60, Lng: 3.35},
	}); err != nil {
		t.Fatalf("SetDropoff: %v", err)
	}

	draft, err := f.svc.Quote(ctx)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if draft.Status != types.StatusPriced {
		t.Errorf("status = %s, want priced", draft.Status)
	}
	if draft.EstimatedPrice != 1500 {
		t.Errorf("price = %d, want 1500", draft.EstimatedPrice)
	}
	if draft.RouteInfo == nil {
		t.Error("route info not stored")
	}
}

func TestSetPickup_GeocodesMissingCoords(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	ctx := context.Background()

	rec, err := f.svc.SetPickup(ctx, models.LocationRecord{Address: "12 Marina Road, Lagos"})
	if err != nil {
		t.Fatalf("SetPickup: %v", err)
	}
	if rec.Coords == nil {
		t.Fatal("address not geocoded")
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestSetSelection_ScheduleValidation(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	if err := f.svc.SetSelection(ctx, types.ServiceFood, types.DeliveryScheduled, &past); !errors.Is(err, types.ErrInvalidSchedule) {
		t.Errorf("past schedule: err = %v, want ErrInvalidSchedule", err)
	}

	tooFar := time.Now().Add(MaxScheduleAhead + time.Hour)
	if err := f.svc.SetSelection(ctx, types.ServiceFood, types.DeliveryScheduled, &tooFar); !errors.Is(err, types.ErrInvalidSchedule) {
		t.Errorf("too far schedule: err = %v, want ErrInvalidSchedule", err)
	}

	if err := f.svc.SetSelection(ctx, types.ServiceFood, types.DeliveryScheduled, nil); !errors.Is(err, types.ErrInvalidSchedule) {
		t.Errorf("nil schedule: err = %v, want ErrInvalidSchedule", err)
	}

	ok := time.Now().Add(48 * time.Hour)
	if err := f.svc.SetSelection(ctx, types.ServiceFood, types.DeliveryScheduled, &ok); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
}

func TestSetDeliveryNote_TooLong(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	ctx := context.Background()

	long := make([]rune, MaxNoteLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := f.svc.SetDeliveryNote(ctx, string(long)); !errors.Is(err, types.ErrNoteTooLong) {
		t.Fatalf("err = %v, want ErrNoteTooLong", err)
	}
}

func TestCancelDraft(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	if err := f.svc.CancelDraft(ctx); err != nil {
		t.Fatalf("CancelDraft: %v", err)
	}
	if f.repo.draft.Pickup != nil {
		t.Error("draft not cleared")
	}
	if f.ledger.balance != 2500 {
		t.Errorf("balance = %d, nothing was debited so nothing should change", f.ledger.balance)
	}
}

func TestConfirm_ActiveOrderExists(t *testing.T) {
	f := newFixture(t, 5000, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	f.buildDraft(t)
	if _, err := f.svc.Confirm(ctx); !errors.Is(err, types.ErrActiveOrderExists) {
		t.Fatalf("err = %v, want ErrActiveOrderExists", err)
	}
}

func TestOrderByID(t *testing.T) {
	f := newFixture(t, 2500, 1500)
	f.buildDraft(t)
	ctx := context.Background()

	confirmed, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	got, err := f.svc.OrderByID(ctx, confirmed.ID)
	if err != nil {
		t.Fatalf("OrderByID: %v", err)
	}
	if got.ID != confirmed.ID {
		t.Fatalf("ID = %q, want %q", got.ID, confirmed.ID)
	}

	if _, err := f.svc.OrderByID(ctx, "ORD_19700101_999"); !errors.Is(err, types.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
