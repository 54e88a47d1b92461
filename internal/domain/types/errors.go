package types

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrRouteUnavailable = errors.New("route unavailable")

	ErrInsufficientFunds      = errors.New("insufficient wallet balance")
	ErrInvalidAmount          = errors.New("amount must be a positive integer")
	ErrInvalidTransition      = errors.New("order status transition not allowed")
	ErrOrderNotFound          = errors.New("order not found")
	ErrNoActiveOrder          = errors.New("no active order")
	ErrActiveOrderExists      = errors.New("another delivery is already in progress")
	ErrDraftIncomplete        = errors.New("draft is missing required fields")
	ErrInvalidSchedule        = errors.New("scheduled time must be in the future, at most 30 days ahead")
	ErrNoteTooLong            = errors.New("delivery note exceeds maximum length")
	ErrCancellationNotAllowed = errors.New("order can no longer be cancelled")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrKeyNotFound = errors.New("key not found")
)
