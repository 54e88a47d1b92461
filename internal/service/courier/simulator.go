package courier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
)

// PhasePlan holds the nominal duration of each fixed courier phase.
// The on_the_way phase is not here: its length comes from the route.
type PhasePlan struct {
	Pending  time.Duration
	Assigned time.Duration
	Pickup   time.Duration
}

// DefaultPhasePlan mirrors a typical city pickup: two minutes to find a
// courier, three to assign, five to reach the pickup point.
var DefaultPhasePlan = PhasePlan{
	Pending:  2 * time.Minute,
	Assigned: 3 * time.Minute,
	Pickup:   5 * time.Minute,
}

// Simulator advances the active delivery through a fixed phase sequence
// on cancellable timers: pending -> assigned -> pickup -> on_the_way ->
// delivered. Transit formally starts when the courier has the package,
// so the order stays cancellable through pending and assigned.
type Simulator struct {
	flow     OrderFlow
	producer EventProducer
	notifier Notifier
	plan     PhasePlan
	log      logger.Logger

	mu      sync.Mutex
	order   *models.Order
	phase   types.DeliveryPhase
	timer   *time.Timer
	running bool
}

func NewSimulator(flow OrderFlow, producer EventProducer, notifier Notifier, plan PhasePlan, log logger.Logger) *Simulator {
	return &Simulator{
		flow:     flow,
		producer: producer,
		notifier: notifier,
		plan:     plan,
		log:      log,
	}
}

// Start begins simulating the active order. Fails when no order is
// active or a simulation is already running.
func (s *Simulator) Start(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "start_delivery_simulation")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return wrap.Error(ctx, types.ErrActiveOrderExists)
	}

	order, err := s.flow.ActiveOrder(ctx)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	ctx = wrap.WithOrderID(ctx, order.ID)

	s.order = order
	s.running = true
	s.enterPhase(ctx, types.PhasePending)

	s.log.Info(ctx, "delivery simulation started")
	return nil
}

// Cancel aborts the simulation and cancels the order. Only allowed
// before the courier picks the package up, i.e. during pending or
// assigned.
func (s *Simulator) Cancel(ctx context.Context) (*models.Order, error) {
	ctx = wrap.WithAction(ctx, "cancel_delivery")

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, wrap.Error(ctx, types.ErrNoActiveOrder)
	}
	if s.phase != types.PhasePending && s.phase != types.PhaseAssigned {
		return nil, wrap.Error(ctx, types.ErrCancellationNotAllowed)
	}

	// The cancel must go through before the timer is touched: advance
	// blocks on s.mu while we hold it, so nothing can fire mid-cancel,
	// and a failed cancel leaves the simulation running on its timer.
	order, err := s.flow.CancelActive(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	// reset stops the timer, so no stale transition fires after the refund
	s.reset()
	s.log.Info(wrap.WithOrderID(ctx, order.ID), "delivery cancelled during simulation")

	return order, nil
}

// Status returns the current phase and ETA of the running simulation.
func (s *Simulator) Status(ctx context.Context) (*models.Order, types.DeliveryPhase, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, "", 0, wrap.Error(ctx, types.ErrNoActiveOrder)
	}

	return s.order, s.phase, s.etaMinutes(s.phase), nil
}

// Running reports whether a simulation is in progress.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// enterPhase records the phase, announces it and schedules the next
// transition. Caller must hold s.mu.
func (s *Simulator) enterPhase(ctx context.Context, phase types.DeliveryPhase) {
	s.phase = phase
	s.announce(ctx, phase)

	if phase == types.PhaseDelivered {
		return
	}

	duration := s.phaseDuration(phase)
	s.timer = time.AfterFunc(duration, func() {
		s.advance(context.Background())
	})
}

// advance moves to the next phase when the current phase timer fires.
func (s *Simulator) advance(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx = wrap.WithAction(ctx, "advance_delivery_phase")
	if s.order != nil {
		ctx = wrap.WithOrderID(ctx, s.order.ID)
	}

	switch s.phase {
	case types.PhasePending:
		s.enterPhase(ctx, types.PhaseAssigned)

	case types.PhaseAssigned:
		// a courier is committed and heading to pickup: transit formally
		// begins and cancellation closes
		order, err := s.flow.StartTransit(ctx)
		if err != nil {
			s.log.Error(ctx, "failed to start transit", err)
			s.reset()
			return
		}
		s.order = order
		s.enterPhase(ctx, types.PhasePickup)

	case types.PhasePickup:
		s.enterPhase(ctx, types.PhaseOnTheWay)

	case types.PhaseOnTheWay:
		order, err := s.flow.CompleteActive(ctx)
		if err != nil {
			s.log.Error(ctx, "failed to complete delivery", err)
			s.reset()
			return
		}
		s.order = order
		s.enterPhase(ctx, types.PhaseDelivered)
		s.reset()
	}
}

func (s *Simulator) phaseDuration(phase types.DeliveryPhase) time.Duration {
	switch phase {
	case types.PhasePending:
		return s.plan.Pending
	case types.PhaseAssigned:
		return s.plan.Assigned
	case types.PhasePickup:
		return s.plan.Pickup
	case types.PhaseOnTheWay:
		if s.order != nil {
			return time.Duration(s.order.RouteInfo.DurationSeconds * float64(time.Second))
		}
	}
	return 0
}

// etaMinutes is the sum of the remaining phase durations, the current
// phase included in full.
func (s *Simulator) etaMinutes(from types.DeliveryPhase) int {
	sequence := []types.DeliveryPhase{
		types.PhasePending, types.PhaseAssigned, types.PhasePickup, types.PhaseOnTheWay,
	}

	var total time.Duration
	counting := false
	for _, phase := range sequence {
		if phase == from {
			counting = true
		}
		if counting {
			total += s.phaseDuration(phase)
		}
	}

	return int(total.Round(time.Minute) / time.Minute)
}

func (s *Simulator) announce(ctx context.Context, phase types.DeliveryPhase) {
	if s.order == nil {
		return
	}

	eta := s.etaMinutes(phase)
	now := time.Now()

	if err := s.producer.PublishOrderStatus(ctx, models.OrderStatusMessage{
		OrderID:    s.order.ID,
		Status:     s.order.Status,
		Phase:      phase,
		EtaMinutes: eta,
		Timestamp:  now,
	}); err != nil {
		s.log.Error(ctx, fmt.Sprintf("failed to publish phase %s", phase), err)
	}

	if s.notifier != nil {
		s.notifier.Notify(models.TrackingUpdate{
			Type:       "tracking_update",
			OrderID:    s.order.ID,
			Status:     s.order.Status,
			Phase:      phase,
			EtaMinutes: eta,
			SentAt:     now,
		})
	}
}

// reset clears the run state. Caller must hold s.mu.
func (s *Simulator) reset() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.order = nil
	s.running = false
}
