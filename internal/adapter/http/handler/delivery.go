package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
)

type OrderReader interface {
	ActiveOrder(ctx context.Context) (*models.Order, error)
	History(ctx context.Context) ([]models.Order, error)
	OrderByID(ctx context.Context, id string) (*models.Order, error)
}

type CourierSimulator interface {
	Start(ctx context.Context) error
	Cancel(ctx context.Context) (*models.Order, error)
	Status(ctx context.Context) (*models.Order, types.DeliveryPhase, int, error)
}

type Delivery struct {
	orders    OrderReader
	simulator CourierSimulator
	l         logger.Logger
}

func NewDelivery(orders OrderReader, simulator CourierSimulator, l logger.Logger) *Delivery {
	return &Delivery{
		orders:    orders,
		simulator: simulator,
		l:         l,
	}
}

// ActiveOrder godoc
// @Summary      Active order
// @Description  Returns the delivery currently in progress
// @Tags         Delivery
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/delivery/active [get]
func (h *Delivery) ActiveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_active_order")

	order, err := h.orders.ActiveOrder(ctx)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"order": dto.FromOrder(order)}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Start godoc
// @Summary      Start the delivery
// @Description  Begins the courier simulation for the confirmed order
// @Tags         Delivery
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/delivery/start [post]
func (h *Delivery) Start(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_delivery")

	if err := h.simulator.Start(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start delivery", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusAccepted, envelope{"message": "delivery started"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Cancel godoc
// @Summary      Cancel the delivery
// @Description  Cancels the active order and refunds the price; rejected once the courier has the package
// @Tags         Delivery
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/delivery/cancel [post]
func (h *Delivery) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_delivery")

	order, err := h.simulator.Cancel(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel delivery", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"order":         dto.FromOrder(order),
		"refund_amount": order.Price,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Status godoc
// @Summary      Delivery status
// @Description  Returns the current courier phase and ETA
// @Tags         Delivery
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/delivery/status [get]
func (h *Delivery) Status(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delivery_status")

	order, phase, eta, err := h.simulator.Status(ctx)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"order_id":    order.ID,
		"status":      order.Status,
		"phase":       phase,
		"eta_minutes": eta,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// History godoc
// @Summary      Order history
// @Description  Returns past orders, newest first
// @Tags         Delivery
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/orders/history [get]
func (h *Delivery) History(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_order_history")

	history, err := h.orders.History(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load history", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"orders": dto.FromOrders(history),
		"count":  len(history),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// OrderByID godoc
// @Summary      Order by id
// @Description  Returns a single order, active or from history
// @Tags         Delivery
// @Produce      json
// @Param        id   path      string  true  "Order number"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/orders/{id} [get]
func (h *Delivery) OrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_order")

	id := r.PathValue("id")
	if id == "" {
		badRequestResponse(w, "order id is required")
		return
	}

	order, err := h.orders.OrderByID(ctx, id)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"order": dto.FromOrder(order)}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
