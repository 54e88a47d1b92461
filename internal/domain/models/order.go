package models

import (
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid checks the coordinate is inside the usual lat/lng ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LocationRecord is one end of a delivery: the geocoded address plus
// the extra details the customer fills in on the pickup/dropoff screens.
type LocationRecord struct {
	Address             string      `json:"address"`
	Coords              *Coordinate `json:"coords,omitempty"`
	StreetNumber        string      `json:"street_number,omitempty"`
	LocationDescription string      `json:"location_description,omitempty"`
	Phone               string      `json:"phone,omitempty"`
	Timestamp           time.Time   `json:"timestamp"`
}

// RouteInfo holds the figures a fare was computed from and which
// estimation tier produced them.
type RouteInfo struct {
	DurationSeconds float64          `json:"duration_seconds"`
	DistanceMeters  float64          `json:"distance_meters"`
	Method          types.FareMethod `json:"method"`
}

// Order is the central entity. A draft accumulates fields as the
// customer walks through the flow; the id is only assigned at
// confirmation.
type Order struct {
	ID              string             `json:"id,omitempty"`
	Pickup          LocationRecord     `json:"pickup"`
	Dropoff         LocationRecord     `json:"dropoff"`
	DeliveryNote    string             `json:"delivery_note,omitempty"`
	SelectedService types.ServiceType  `json:"selected_service"`
	DeliveryType    types.DeliveryType `json:"delivery_type"`
	ScheduledAt     *time.Time         `json:"scheduled_at,omitempty"`
	Price           int                `json:"price"`
	RouteInfo       RouteInfo          `json:"route_info"`
	Status          types.OrderStatus  `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	BalanceAfter    *int               `json:"balance_after,omitempty"`

	// Set when the order reaches a terminal state.
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Draft is the order under construction, spread over individual store
// keys the same way the original flow keeps them.
type Draft struct {
	Pickup          *LocationRecord    `json:"pickup,omitempty"`
	Dropoff         *LocationRecord    `json:"dropoff,omitempty"`
	PickupPhone     string             `json:"pickup_phone,omitempty"`
	DropoffPhone    string             `json:"dropoff_phone,omitempty"`
	SelectedService types.ServiceType  `json:"selected_service,omitempty"`
	DeliveryType    types.DeliveryType `json:"delivery_type,omitempty"`
	DeliveryNote    string             `json:"delivery_note,omitempty"`
	ScheduledAt     *time.Time         `json:"scheduled_at,omitempty"`
	EstimatedPrice  int                `json:"estimated_price,omitempty"`
	RouteInfo       *RouteInfo         `json:"route_info,omitempty"`
	Status          types.OrderStatus  `json:"status"`
}

// Priced reports whether the draft has been through fare estimation.
func (d *Draft) Priced() bool {
	return d.RouteInfo != nil && d.EstimatedPrice > 0
}

// Routable reports whether both ends are geocoded.
func (d *Draft) Routable() bool {
	return d.Pickup != nil && d.Pickup.Coords != nil &&
		d.Dropoff != nil && d.Dropoff.Coords != nil
}
