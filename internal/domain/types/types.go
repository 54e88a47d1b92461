package types

// OrderStatus describes where an order is in its lifecycle.
// Statuses only move forward, except cancellation which is allowed
// before the courier picks the package up.
type OrderStatus string

const (
	StatusDraft         OrderStatus = "draft"
	StatusPriced        OrderStatus = "priced"
	StatusPendingReview OrderStatus = "pending_review"
	StatusConfirmed     OrderStatus = "confirmed"
	StatusInTransit     OrderStatus = "in_transit"
	StatusDelivered     OrderStatus = "delivered"
	StatusCancelled     OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPriced, StatusPendingReview, StatusConfirmed,
		StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// transitions is the full lifecycle table. Anything not listed is illegal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusDraft:         {StatusPriced, StatusCancelled},
	StatusPriced:        {StatusPendingReview, StatusCancelled},
	StatusPendingReview: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:     {StatusInTransit, StatusCancelled},
	StatusInTransit:     {StatusDelivered},
	StatusDelivered:     {},
	StatusCancelled:     {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Enum for service selection on the home screen
type ServiceType string

const (
	ServiceFood       ServiceType = "food"
	ServiceParcel     ServiceType = "parcel"
	ServiceFurniture  ServiceType = "furniture"
	ServiceRelocation ServiceType = "relocation"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceFood, ServiceParcel, ServiceFurniture, ServiceRelocation:
		return true
	}
	return false
}

// Enum for delivery timing
type DeliveryType string

const (
	DeliveryInstant   DeliveryType = "instant"
	DeliveryScheduled DeliveryType = "scheduled"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryInstant || d == DeliveryScheduled
}

// FareMethod records which estimation tier produced the figures.
type FareMethod string

const (
	FareMethodAPI      FareMethod = "api"
	FareMethodFallback FareMethod = "fallback"
	FareMethodSimple   FareMethod = "simple"
)

// DeliveryPhase is the courier progress shown on the tracking screen.
// Finer-grained than OrderStatus: every phase except "delivered" maps
// to OrderStatus in_transit.
type DeliveryPhase string

const (
	PhasePending   DeliveryPhase = "pending"
	PhaseAssigned  DeliveryPhase = "assigned"
	PhasePickup    DeliveryPhase = "pickup"
	PhaseOnTheWay  DeliveryPhase = "on_the_way"
	PhaseDelivered DeliveryPhase = "delivered"
)

func (p DeliveryPhase) String() string {
	return string(p)
}

// Enum for user roles
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)
