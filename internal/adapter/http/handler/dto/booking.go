package dto

import (
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/validator"
)

// LocationRequest is one end of the delivery as submitted by the
// customer. Either coordinates or a non-empty address must be present.
type LocationRequest struct {
	Address             string             `json:"address"`
	Coords              *models.Coordinate `json:"coords,omitempty"`
	StreetNumber        string             `json:"street_number,omitempty"`
	LocationDescription string             `json:"location_description,omitempty"`
	Phone               string             `json:"phone"`
}

func (r *LocationRequest) ToModel() models.LocationRecord {
	return models.LocationRecord{
		Address:             r.Address,
		Coords:              r.Coords,
		StreetNumber:        r.StreetNumber,
		LocationDescription: r.LocationDescription,
		Phone:               r.Phone,
	}
}

func ValidateLocation(v *validator.Validator, req *LocationRequest) {
	v.Check(req.Address != "" || req.Coords != nil, "address", "address or coords must be provided")
	if req.Coords != nil {
		v.Check(req.Coords.Valid(), "coords", "latitude must be -90..90 and longitude -180..180")
	}
	v.Check(req.Phone != "", "phone", "must be provided")
}

type SelectionRequest struct {
	Service      string     `json:"service"`
	DeliveryType string     `json:"delivery_type"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

func ValidateSelection(v *validator.Validator, req *SelectionRequest) {
	v.Check(req.Service != "", "service", "must be provided")
	v.Check(types.ServiceType(req.Service).Valid(), "service", "must be one of food, parcel, furniture, relocation")
	v.Check(req.DeliveryType != "", "delivery_type", "must be provided")
	v.Check(types.DeliveryType(req.DeliveryType).Valid(), "delivery_type", "must be instant or scheduled")
	if types.DeliveryType(req.DeliveryType) == types.DeliveryScheduled {
		v.Check(req.ScheduledAt != nil, "scheduled_at", "must be provided for a scheduled delivery")
	}
}

type DeliveryNoteRequest struct {
	Note string `json:"note"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID              string                `json:"id,omitempty"`
	Pickup          models.LocationRecord `json:"pickup"`
	Dropoff         models.LocationRecord `json:"dropoff"`
	DeliveryNote    string                `json:"delivery_note,omitempty"`
	SelectedService types.ServiceType     `json:"selected_service"`
	DeliveryType    types.DeliveryType    `json:"delivery_type"`
	ScheduledAt     *time.Time            `json:"scheduled_at,omitempty"`
	Price           int                   `json:"price"`
	RouteInfo       models.RouteInfo      `json:"route_info"`
	Status          types.OrderStatus     `json:"status"`
	CreatedAt       *time.Time            `json:"created_at,omitempty"`
	BalanceAfter    *int                  `json:"balance_after,omitempty"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
}

func FromOrder(order *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		Pickup:          order.Pickup,
		Dropoff:         order.Dropoff,
		DeliveryNote:    order.DeliveryNote,
		SelectedService: order.SelectedService,
		DeliveryType:    order.DeliveryType,
		ScheduledAt:     order.ScheduledAt,
		Price:           order.Price,
		RouteInfo:       order.RouteInfo,
		Status:          order.Status,
		BalanceAfter:    order.BalanceAfter,
		DeliveredAt:     order.DeliveredAt,
		CancelledAt:     order.CancelledAt,
	}
	if !order.CreatedAt.IsZero() {
		created := order.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func FromOrders(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, FromOrder(&orders[i]))
	}
	return out
}
