package courier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
)

type fakeFlow struct {
	mu        sync.Mutex
	order     *models.Order
	cancelErr error
	started   int
	completed int
	cancelled int
}

func (f *fakeFlow) ActiveOrder(_ context.Context) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil {
		return nil, types.ErrNoActiveOrder
	}
	cp := *f.order
	return &cp, nil
}

func (f *fakeFlow) StartTransit(_ context.Context) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	f.order.Status = types.StatusInTransit
	cp := *f.order
	return &cp, nil
}

func (f *fakeFlow) CompleteActive(_ context.Context) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed++
	f.order.Status = types.StatusDelivered
	cp := *f.order
	return &cp, nil
}

func (f *fakeFlow) CancelActive(_ context.Context) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	if f.order.Status == types.StatusInTransit {
		return nil, types.ErrCancellationNotAllowed
	}
	f.cancelled++
	f.order.Status = types.StatusCancelled
	cp := *f.order
	return &cp, nil
}

type recordingProducer struct {
	mu     sync.Mutex
	phases []types.DeliveryPhase
}

func (r *recordingProducer) PublishOrderStatus(_ context.Context, msg models.OrderStatusMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, msg.Phase)
	return nil
}

func (r *recordingProducer) seen() []types.DeliveryPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.DeliveryPhase, len(r.phases))
	copy(out, r.phases)
	return out
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates []models.TrackingUpdate
}

func (r *recordingNotifier) Notify(update models.TrackingUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
}

func confirmedOrder() *models.Order {
	return &models.Order{
		ID:     "ORD_20260830_001",
		Status: types.StatusConfirmed,
		Price:  1500,
		RouteInfo: models.RouteInfo{
			DurationSeconds: 0.02, // keeps on_the_way short in tests
			Method:          types.FareMethodAPI,
		},
	}
}

func fastPlan() PhasePlan {
	return PhasePlan{
		Pending:  10 * time.Millisecond,
		Assigned: 10 * time.Millisecond,
		Pickup:   10 * time.Millisecond,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSimulator_RunsToDelivered(t *testing.T) {
	flow := &fakeFlow{order: confirmedOrder()}
	producer := &recordingProducer{}
	notifier := &recordingNotifier{}
	sim := NewSimulator(flow, producer, notifier, fastPlan(), logger.InitLogger("test", "ERROR"))

	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return !sim.Running() })

	flow.mu.Lock()
	defer flow.mu.Unlock()
	if flow.started != 1 {
		t.Errorf("StartTransit called %d times, want 1", flow.started)
	}
	if flow.completed != 1 {
		t.Errorf("CompleteActive called %d times, want exactly 1", flow.completed)
	}

	want := []types.DeliveryPhase{
		types.PhasePending, types.PhaseAssigned, types.PhasePickup,
		types.PhaseOnTheWay, types.PhaseDelivered,
	}
	got := producer.seen()
	if len(got) != len(want) {
		t.Fatalf("announced phases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.updates) != len(want) {
		t.Errorf("tracking updates = %d, want %d", len(notifier.updates), len(want))
	}
}

func TestSimulator_CancelWhilePending(t *testing.T) {
	flow := &fakeFlow{order: confirmedOrder()}
	plan := PhasePlan{Pending: time.Hour, Assigned: time.Hour, Pickup: time.Hour}
	sim := NewSimulator(flow, &recordingProducer{}, nil, plan, logger.InitLogger("test", "ERROR"))

	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	order, err := sim.Cancel(context.Background())
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if order.Status != types.StatusCancelled {
		t.Errorf("status = %s, want cancelled", order.Status)
	}
	if sim.Running() {
		t.Error("simulation still running after cancel")
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	if flow.cancelled != 1 {
		t.Errorf("CancelActive called %d times, want 1", flow.cancelled)
	}
	if flow.completed != 0 {
		t.Error("stale timer fired after cancellation")
	}
}

func TestSimulator_FailedCancelKeepsRunning(t *testing.T) {
	flow := &fakeFlow{order: confirmedOrder(), cancelErr: errors.New("store unavailable")}
	plan := PhasePlan{Pending: 20 * time.Millisecond, Assigned: time.Hour, Pickup: time.Hour}
	sim := NewSimulator(flow, &recordingProducer{}, nil, plan, logger.InitLogger("test", "ERROR"))

	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := sim.Cancel(context.Background()); err == nil {
		t.Fatal("Cancel succeeded, want store error")
	}
	if !sim.Running() {
		t.Fatal("simulation stopped after a failed cancel")
	}

	// the phase timer must have survived the failed cancel
	waitFor(t, time.Second, func() bool {
		_, phase, _, err := sim.Status(context.Background())
		return err == nil && phase == types.PhaseAssigned
	})

	flow.mu.Lock()
	flow.cancelErr = nil
	flow.mu.Unlock()

	order, err := sim.Cancel(context.Background())
	if err != nil {
		t.Fatalf("Cancel after store recovery: %v", err)
	}
	if order.Status != types.StatusCancelled {
		t.Errorf("status = %s, want cancelled", order.Status)
	}
	if sim.Running() {
		t.Error("simulation still running after cancel")
	}
}

func TestSimulator_CancelAfterPickupRejected(t *testing.T) {
	flow := &fakeFlow{order: confirmedOrder()}
	plan := PhasePlan{
		Pending:  5 * time.Millisecond,
		Assigned: 5 * time.Millisecond,
		Pickup:   time.Hour,
	}
	sim := NewSimulator(flow, &recordingProducer{}, nil, plan, logger.InitLogger("test", "ERROR"))

	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, phase, _, err := sim.Status(context.Background())
		return err == nil && phase == types.PhasePickup
	})

	if _, err := sim.Cancel(context.Background()); !errors.Is(err, types.ErrCancellationNotAllowed) {
		t.Fatalf("err = %v, want ErrCancellationNotAllowed", err)
	}
	if !sim.Running() {
		t.Error("simulation stopped by rejected cancel")
	}
}

func TestSimulator_StartTwice(t *testing.T) {
	flow := &fakeFlow{order: confirmedOrder()}
	plan := PhasePlan{Pending: time.Hour, Assigned: time.Hour, Pickup: time.Hour}
	sim := NewSimulator(flow, &recordingProducer{}, nil, plan, logger.InitLogger("test", "ERROR"))

	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sim.Start(context.Background()); !errors.Is(err, types.ErrActiveOrderExists) {
		t.Fatalf("err = %v, want ErrActiveOrderExists", err)
	}
}

func TestSimulator_StartWithoutActiveOrder(t *testing.T) {
	flow := &fakeFlow{}
	sim := NewSimulator(flow, &recordingProducer{}, nil, fastPlan(), logger.InitLogger("test", "ERROR"))

	if err := sim.Start(context.Background()); !errors.Is(err, types.ErrNoActiveOrder) {
		t.Fatalf("err = %v, want ErrNoActiveOrder", err)
	}
}

func TestSimulator_EtaDecreasesByPhase(t *testing.T) {
	sim := NewSimulator(&fakeFlow{}, &recordingProducer{}, nil, DefaultPhasePlan, logger.InitLogger("test", "ERROR"))
	sim.order = &models.Order{RouteInfo: models.RouteInfo{DurationSeconds: 1800}}

	// 2 + 3 + 5 + 30 minutes
	if got := sim.etaMinutes(types.PhasePending); got != 40 {
		t.Errorf("eta(pending) = %d, want 40", got)
	}
	if got := sim.etaMinutes(types.PhaseAssigned); got != 38 {
		t.Errorf("eta(assigned) = %d, want 38", got)
	}
	if got := sim.etaMinutes(types.PhasePickup); got != 35 {
		t.Errorf("eta(pickup) = %d, want 35", got)
	}
	if got := sim.etaMinutes(types.PhaseOnTheWay); got != 30 {
		t.Errorf("eta(on_the_way) = %d, want 30", got)
	}
	if got := sim.etaMinutes(types.PhaseDelivered); got != 0 {
		t.Errorf("eta(delivered) = %d, want 0", got)
	}
}
