package rediskv

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
)

// LoadDraft assembles the draft under construction from its individual
// keys. Absent keys simply leave fields empty; a draft always exists
// conceptually, even when nothing has been written yet.
func (s *Store) LoadDraft(ctx context.Context) (*models.Draft, error) {
	draft := &models.Draft{Status: types.StatusDraft}

	var pickup models.LocationRecord
	switch err := s.getJSON(ctx, KeyPickup, &pickup); {
	case err == nil:
		draft.Pickup = &pickup
	case !errors.Is(err, types.ErrKeyNotFound):
		return nil, err
	}

	var dropoff models.LocationRecord
	switch err := s.getJSON(ctx, KeyDropoff, &dropoff); {
	case err == nil:
		draft.Dropoff = &dropoff
	case !errors.Is(err, types.ErrKeyNotFound):
		return nil, err
	}

	if v, err := s.get(ctx, KeyPickupPhone); err == nil {
		draft.PickupPhone = v
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}
	if v, err := s.get(ctx, KeyDropoffPhone); err == nil {
		draft.DropoffPhone = v
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}
	if v, err := s.get(ctx, KeySelectedService); err == nil {
		draft.SelectedService = types.ServiceType(v)
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}
	if v, err := s.get(ctx, KeyDeliveryType); err == nil {
		draft.DeliveryType = types.DeliveryType(v)
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}
	if v, err := s.get(ctx, KeyDeliveryNote); err == nil {
		draft.DeliveryNote = v
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}
	if v, err := s.get(ctx, KeyScheduledAt); err == nil {
		if t, perr := time.Parse(time.RFC3339, v); perr == nil {
			draft.ScheduledAt = &t
		}
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}
	if v, err := s.get(ctx, KeyEstimatedPrice); err == nil {
		if p, perr := strconv.Atoi(v); perr == nil {
			draft.EstimatedPrice = p
		}
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}

	var route models.RouteInfo
	switch err := s.getJSON(ctx, KeyRouteInfo, &route); {
	case err == nil:
		draft.RouteInfo = &route
	case !errors.Is(err, types.ErrKeyNotFound):
		return nil, err
	}

	if v, err := s.get(ctx, KeyDraftStatus); err == nil {
		if st := types.OrderStatus(v); st.Valid() {
			draft.Status = st
		}
	} else if !errors.Is(err, types.ErrKeyNotFound) {
		return nil, err
	}

	return draft, nil
}

func (s *Store) SavePickup(ctx context.Context, rec models.LocationRecord, phone string) error {
	if err := s.setJSON(ctx, KeyPickup, rec); err != nil {
		return err
	}
	return s.set(ctx, KeyPickupPhone, phone)
}

func (s *Store) SaveDropoff(ctx context.Context, rec models.LocationRecord, phone string) error {
	if err := s.setJSON(ctx, KeyDropoff, rec); err != nil {
		return err
	}
	return s.set(ctx, KeyDropoffPhone, phone)
}

func (s *Store) SaveSelection(ctx context.Context, service types.ServiceType, delivery types.DeliveryType, scheduledAt *time.Time) error {
	if err := s.set(ctx, KeySelectedService, string(service)); err != nil {
		return err
	}
	if err := s.set(ctx, KeyDeliveryType, string(delivery)); err != nil {
		return err
	}
	if scheduledAt != nil {
		return s.set(ctx, KeyScheduledAt, scheduledAt.Format(time.RFC3339))
	}
	return nil
}

func (s *Store) SaveDeliveryNote(ctx context.Context, note string) error {
	return s.set(ctx, KeyDeliveryNote, note)
}

// SaveQuote stores the estimate the fare pipeline produced.
func (s *Store) SaveQuote(ctx context.Context, price int, route models.RouteInfo) error {
	if err := s.set(ctx, KeyEstimatedPrice, strconv.Itoa(price)); err != nil {
		return err
	}
	return s.setJSON(ctx, KeyRouteInfo, route)
}

func (s *Store) SaveDraftStatus(ctx context.Context, status types.OrderStatus) error {
	return s.set(ctx, KeyDraftStatus, string(status))
}

// ClearDraft removes every key the draft was built from, including the
// assembled snapshot and the shortfall marker.
func (s *Store) ClearDraft(ctx context.Context) error {
	return s.del(ctx,
		KeyPickup, KeyDropoff, KeyPickupPhone, KeyDropoffPhone,
		KeySelectedService, KeyDeliveryType, KeyDeliveryNote, KeyScheduledAt,
		KeyEstimatedPrice, KeyRouteInfo, KeyDraftStatus,
		KeyCurrentOrder, KeyRequiredAmount,
	)
}

func (s *Store) SaveCurrentOrder(ctx context.Context, order *models.Order) error {
	return s.setJSON(ctx, KeyCurrentOrder, order)
}

func (s *Store) CurrentOrder(ctx context.Context) (*models.Order, error) {
	var order models.Order
	if err := s.getJSON(ctx, KeyCurrentOrder, &order); err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return nil, types.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) SaveActiveOrder(ctx context.Context, order *models.Order) error {
	return s.setJSON(ctx, KeyActiveOrder, order)
}

func (s *Store) ActiveOrder(ctx context.Context) (*models.Order, error) {
	var order models.Order
	if err := s.getJSON(ctx, KeyActiveOrder, &order); err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return nil, types.ErrNoActiveOrder
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) DeleteActiveOrder(ctx context.Context) error {
	return s.del(ctx, KeyActiveOrder)
}

// History returns all past orders, newest first.
func (s *Store) History(ctx context.Context) ([]models.Order, error) {
	var history []models.Order
	if err := s.getJSON(ctx, KeyOrderHistory, &history); err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return []models.Order{}, nil
		}
		return nil, err
	}
	return history, nil
}

// InsertHistory prepends the order to history. Inserting an id that is
// already present is a no-op, so a retried confirmation cannot produce
// a duplicate entry.
func (s *Store) InsertHistory(ctx context.Context, order *models.Order) error {
	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	for _, existing := range history {
		if existing.ID == order.ID {
			return nil
		}
	}
	history = append([]models.Order{*order}, history...)
	return s.setJSON(ctx, KeyOrderHistory, history)
}

// UpdateHistory replaces the entry with the same id in place; when the
// entry is somehow missing it is prepended instead, so the record is
// never lost.
func (s *Store) UpdateHistory(ctx context.Context, order *models.Order) error {
	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	for i, existing := range history {
		if existing.ID == order.ID {
			history[i] = *order
			return s.setJSON(ctx, KeyOrderHistory, history)
		}
	}
	history = append([]models.Order{*order}, history...)
	return s.setJSON(ctx, KeyOrderHistory, history)
}

// CountHistoryByDate counts orders confirmed on the given day, used for
// sequential order numbers.
func (s *Store) CountHistoryByDate(ctx context.Context, day time.Time) (int, error) {
	history, err := s.History(ctx)
	if err != nil {
		return 0, err
	}
	y, m, d := day.Date()
	count := 0
	for _, order := range history {
		oy, om, od := order.CreatedAt.Date()
		if oy == y && om == m && od == d {
			count++
		}
	}
	return count, nil
}
