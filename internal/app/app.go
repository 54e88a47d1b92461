package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/swiftdrop/config"
	httpserver "github.com/Temutjin2k/swiftdrop/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/swiftdrop/internal/adapter/http/ws"
	"github.com/Temutjin2k/swiftdrop/internal/adapter/openroute"
	rabbitadapter "github.com/Temutjin2k/swiftdrop/internal/adapter/rabbit"
	"github.com/Temutjin2k/swiftdrop/internal/adapter/rediskv"
	"github.com/Temutjin2k/swiftdrop/internal/service/auth"
	"github.com/Temutjin2k/swiftdrop/internal/service/booking"
	"github.com/Temutjin2k/swiftdrop/internal/service/courier"
	"github.com/Temutjin2k/swiftdrop/internal/service/fare"
	"github.com/Temutjin2k/swiftdrop/internal/service/wallet"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	"github.com/Temutjin2k/swiftdrop/pkg/rabbit"
	redisclient "github.com/Temutjin2k/swiftdrop/pkg/redis"
	ws "github.com/Temutjin2k/swiftdrop/pkg/wsHub"
)

type App struct {
	redisDB    *redisclient.Client
	rabbitMQ   *rabbit.RabbitMQ
	hub        *ws.ConnectionHub
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

// NewApplication wires every layer of the service together.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	redisDB, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	rabbitMQ, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	// repositories
	store := rediskv.NewStore(redisDB.RDB)

	// producers
	orderProducer, err := rabbitadapter.NewOrderProducer(rabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("failed to init order producer: %w", err)
	}

	// external routing and geocoding
	ors := openroute.New(cfg.ExternalAPIConfig.OpenRouteServiceKey)

	// services
	estimator := fare.NewEstimator(ors, log)
	ledger := wallet.NewLedger(store, log)
	bookingSvc := booking.NewBookingService(store, ledger, ors, estimator, orderProducer, log)

	accessTTL, err := time.ParseDuration(cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid access token ttl %q: %w", cfg.Auth.AccessTokenTTL, err)
	}
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, accessTTL, log)
	authSvc := auth.NewAuthService(store, tokenSvc, log)

	// live tracking over websocket
	hub := ws.NewConnHub(log)
	tracking := wshandler.NewTrackingHandler(hub, log)

	simulator := courier.NewSimulator(bookingSvc, orderProducer, tracking, courier.DefaultPhasePlan, log)

	server, err := httpserver.New(cfg, authSvc, bookingSvc, bookingSvc, simulator, ledger, store, tracking, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init http server: %w", err)
	}

	return &App{
		redisDB:    redisDB,
		rabbitMQ:   rabbitMQ,
		hub:        hub,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	a.hub.Close()

	if err := a.rabbitMQ.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to close rabbitmq connection", err)
	}

	if err := a.redisDB.Close(); err != nil {
		a.log.Error(ctx, "failed to close redis connection", err)
	}
}
