package rediskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/metrics"
	goredis "github.com/go-redis/redis/v8"
)

const serviceName = "swiftdrop"

// Store keys. The layout mirrors the booking flow one-to-one: each key
// holds one piece of the draft, the active order, or the wallet.
const (
	KeyPickup          = "pickup"
	KeyDropoff         = "dropoff"
	KeyPickupPhone     = "pickupPhone"
	KeyDropoffPhone    = "dropoffPhone"
	KeyEstimatedPrice  = "estimatedPrice"
	KeyRouteInfo       = "routeInfo"
	KeySelectedService = "selectedService"
	KeyDeliveryType    = "deliveryType"
	KeyDeliveryNote    = "deliveryNote"
	KeyScheduledAt     = "scheduledDateTime"
	KeyDraftStatus     = "draftStatus"
	KeyCurrentOrder    = "currentOrder"
	KeyActiveOrder     = "activeOrder"
	KeyOrderHistory    = "orderHistory"
	KeyUserBalance     = "userBalance"
	KeyRequiredAmount  = "requiredAmount"
	KeyUserProfile     = "userProfile"
	KeySeenOnboarding  = "seenOnboarding"
	KeyUserRegistered  = "userRegistered"
)

// Store is the Redis-backed key-value system of record.
type Store struct {
	rdb *goredis.Client
}

func NewStore(rdb *goredis.Client) *Store {
	return &Store{rdb: rdb}
}

// get returns the raw value under key, or types.ErrKeyNotFound.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		metrics.RecordStoreOperation(serviceName, "get", nil, time.Since(start))
		return "", types.ErrKeyNotFound
	}
	metrics.RecordStoreOperation(serviceName, "get", err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("store get %q: %w", key, err)
	}
	return val, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.rdb.Set(ctx, key, value, 0).Err()
	metrics.RecordStoreOperation(serviceName, "set", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("store set %q: %w", key, err)
	}
	return nil
}

func (s *Store) del(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := s.rdb.Del(ctx, keys...).Err()
	metrics.RecordStoreOperation(serviceName, "del", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("store del %v: %w", keys, err)
	}
	return nil
}

// getJSON unmarshals the value under key into dst.
func (s *Store) getJSON(ctx context.Context, key string, dst any) error {
	raw, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("store decode %q: %w", key, err)
	}
	return nil
}

func (s *Store) setJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store encode %q: %w", key, err)
	}
	return s.set(ctx, key, string(raw))
}
