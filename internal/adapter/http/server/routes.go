package server

import (
	"net/http"

	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/middleware"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes wires every endpoint of the service.
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// system
	mux.HandleFunc("/health", routes.health.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// auth
	mux.HandleFunc("POST /v1/auth/register", routes.auth.Register)
	mux.HandleFunc("POST /v1/auth/login", routes.auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", routes.auth.Refresh)

	// booking flow
	mux.Handle("GET /v1/booking/draft", m.RequireRoles(routes.booking.Draft, types.RoleCustomer))
	mux.Handle("DELETE /v1/booking/draft", m.RequireRoles(routes.booking.CancelDraft, types.RoleCustomer))
	mux.Handle("PUT /v1/booking/pickup", m.RequireRoles(routes.booking.SetPickup, types.RoleCustomer))
	mux.Handle("PUT /v1/booking/dropoff", m.RequireRoles(routes.booking.SetDropoff, types.RoleCustomer))
	mux.Handle("PUT /v1/booking/selection", m.RequireRoles(routes.booking.SetSelection, types.RoleCustomer))
	mux.Handle("PUT /v1/booking/note", m.RequireRoles(routes.booking.SetDeliveryNote, types.RoleCustomer))
	mux.Handle("POST /v1/booking/quote", m.RequireRoles(routes.booking.Quote, types.RoleCustomer))
	mux.Handle("POST /v1/booking/review", m.RequireRoles(routes.booking.Review, types.RoleCustomer))
	mux.Handle("POST /v1/booking/confirm", m.RequireRoles(routes.booking.Confirm, types.RoleCustomer))

	// active delivery
	mux.Handle("GET /v1/delivery/active", m.RequireRoles(routes.delivery.ActiveOrder, types.RoleCustomer))
	mux.Handle("POST /v1/delivery/start", m.RequireRoles(routes.delivery.Start, types.RoleCustomer))
	mux.Handle("POST /v1/delivery/cancel", m.RequireRoles(routes.delivery.Cancel, types.RoleCustomer))
	mux.Handle("GET /v1/delivery/status", m.RequireRoles(routes.delivery.Status, types.RoleCustomer))
	mux.HandleFunc("GET /v1/delivery/track", routes.tracking.Track)

	// history, wallet, profile
	mux.Handle("GET /v1/orders/history", m.RequireRoles(routes.delivery.History, types.RoleCustomer))
	mux.Handle("GET /v1/orders/{id}", m.RequireRoles(routes.delivery.OrderByID, types.RoleCustomer))
	mux.Handle("GET /v1/wallet", m.RequireRoles(routes.wallet.Balance, types.RoleCustomer))
	mux.Handle("POST /v1/wallet/topup", m.RequireRoles(routes.wallet.TopUp, types.RoleCustomer))
	mux.Handle("GET /v1/profile", m.RequireRoles(routes.profile.Get, types.RoleCustomer))
	mux.Handle("PUT /v1/profile", m.RequireRoles(routes.profile.Update, types.RoleCustomer))
	mux.Handle("POST /v1/profile/onboarding", m.RequireRoles(routes.profile.MarkOnboardingSeen, types.RoleCustomer))
	mux.Handle("DELETE /v1/profile", m.RequireRoles(routes.profile.Reset, types.RoleCustomer))
}
