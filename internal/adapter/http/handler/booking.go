package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/validator"
)

type BookingFlow interface {
	Draft(ctx context.Context) (*models.Draft, error)
	SetPickup(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error)
	SetDropoff(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error)
	SetSelection(ctx context.Context, service types.ServiceType, delivery types.DeliveryType, scheduledAt *time.Time) error
	SetDeliveryNote(ctx context.Context, note string) error
	Quote(ctx context.Context) (*models.Draft, error)
	Review(ctx context.Context) (*models.Order, int, error)
	Confirm(ctx context.Context) (*models.Order, error)
	CancelDraft(ctx context.Context) error
}

type Booking struct {
	flow BookingFlow
	l    logger.Logger
}

func NewBooking(flow BookingFlow, l logger.Logger) *Booking {
	return &Booking{
		flow: flow,
		l:    l,
	}
}

// Draft godoc
// @Summary      Current draft
// @Description  Returns the delivery draft under construction
// @Tags         Booking
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/booking/draft [get]
func (h *Booking) Draft(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_draft")

	draft, err := h.flow.Draft(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load draft", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"draft": draft}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SetPickup godoc
// @Summary      Set pickup
// @Description  Stores the pickup location, geocoding the address when no coordinates are given
// @Tags         Booking
// @Accept       json
// @Produce      json
// @Param        request body dto.LocationRequest true "Pickup location"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/booking/pickup [put]
func (h *Booking) SetPickup(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_pickup")
	h.setLocation(ctx, w, r, h.flow.SetPickup, "pickup")
}

// SetDropoff godoc
// @Summary      Set dropoff
// @Description  Stores the dropoff location, geocoding the address when no coordinates are given
// @Tags         Booking
// @Accept       json
// @Produce      json
// @Param        request body dto.LocationRequest true "Dropoff location"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/booking/dropoff [put]
func (h *Booking) SetDropoff(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_dropoff")
	h.setLocation(ctx, w, r, h.flow.SetDropoff, "dropoff")
}

func (h *Booking) setLocation(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	save func(context.Context, models.LocationRecord) (*models.LocationRecord, error),
	field string,
) {
	req := &dto.LocationRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLocation(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	rec, err := save(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save "+field, err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{field: rec}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SetSelection godoc
// @Summary      Select service
// @Description  Stores the service type and delivery timing
// @Tags         Booking
// @Accept       json
// @Produce      json
// @Param        request body dto.SelectionRequest true "Service selection"
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/booking/selection [put]
func (h *Booking) SetSelection(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_selection")

	req := &dto.SelectionRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateSelection(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	err := h.flow.SetSelection(ctx, types.ServiceType(req.Service), types.DeliveryType(req.DeliveryType), req.ScheduledAt)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save selection", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "selection saved"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SetDeliveryNote godoc
// @Summary      Delivery note
// @Description  Stores the free-text note for the courier
// @Tags         Booking
// @Accept       json
// @Produce      json
// @Param        request body dto.DeliveryNoteRequest true "Note"
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/booking/note [put]
func (h *Booking) SetDeliveryNote(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_delivery_note")

	req := &dto.DeliveryNoteRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.flow.SetDeliveryNote(ctx, req.Note); err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "note saved"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Quote godoc
// @Summary      Price the draft
// @Description  Estimates the fare for the draft and advances it to priced
// @Tags         Booking
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/booking/quote [post]
func (h *Booking) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "quote_draft")

	draft, err := h.flow.Quote(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to quote draft", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"price":      draft.EstimatedPrice,
		"route_info": draft.RouteInfo,
		"status":     draft.Status,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Review godoc
// @Summary      Review the order
// @Description  Assembles the priced draft into an order awaiting confirmation
// @Tags         Booking
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/booking/review [post]
func (h *Booking) Review(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "review_order")

	order, shortfall, err := h.flow.Review(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to review order", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"order": dto.FromOrder(order)}
	if shortfall > 0 {
		response["required_amount"] = shortfall
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Confirm godoc
// @Summary      Confirm the order
// @Description  Debits the wallet, records the order and makes it the active delivery
// @Tags         Booking
// @Produce      json
// @Success      201  {object}  map[string]any
// @Failure      402  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/booking/confirm [post]
func (h *Booking) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "confirm_order")

	order, err := h.flow.Confirm(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to confirm order", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"order": dto.FromOrder(order)}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// CancelDraft godoc
// @Summary      Discard the draft
// @Description  Drops the delivery draft; nothing was debited, nothing is refunded
// @Tags         Booking
// @Produce      json
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/booking/draft [delete]
func (h *Booking) CancelDraft(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_draft")

	if err := h.flow.CancelDraft(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel draft", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "draft discarded"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
