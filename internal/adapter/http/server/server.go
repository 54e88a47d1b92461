package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/swiftdrop/config"
	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/handler"
	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/swiftdrop/internal/adapter/http/ws"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

const serviceName = "swiftdrop"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health   *handler.Health
	auth     *handler.Auth
	booking  *handler.Booking
	delivery *handler.Delivery
	wallet   *handler.Wallet
	profile  *handler.Profile
	tracking *wshandler.TrackingHandler
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	bookingFlow handler.BookingFlow,
	orders handler.OrderReader,
	simulator handler.CourierSimulator,
	walletService handler.WalletService,
	profileStore handler.ProfileStore,
	tracking *wshandler.TrackingHandler,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	addr := fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port)

	routes := &handlers{
		health:   handler.NewHealth(serviceName, log),
		auth:     handler.NewAuth(authService, log),
		booking:  handler.NewBooking(bookingFlow, log),
		delivery: handler.NewDelivery(orders, simulator, log),
		wallet:   handler.NewWallet(walletService, log),
		profile:  handler.NewProfile(profileStore, log),
		tracking: tracking,
	}

	mid := middleware.NewMiddleware(authService, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes, api.m)

	return api, nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies the outer middleware chain to the mux.
func (a *API) withMiddleware() http.Handler {
	chain := a.m.Metrics(serviceName)(a.mux)
	chain = a.m.Logging(chain)
	chain = a.m.Auth(chain)
	chain = a.m.RequestID(chain)
	return a.m.Recover(chain)
}
