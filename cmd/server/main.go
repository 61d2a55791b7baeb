package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complimart/internal/detector"
	detectorhandler "complimart/internal/detector/handler"
	"complimart/internal/jwttoken"
	"complimart/internal/notification/dispatcher"
	"complimart/internal/notification/feed"
	notificationhandler "complimart/internal/notification/handler"
	"complimart/internal/notification/metrics"
	refreshsignal "complimart/internal/notification/signal"
	notifstore "complimart/internal/notification/store"
	"complimart/internal/platform/config"
	"complimart/internal/platform/httpserver"
	"complimart/internal/platform/logger"
	platformredis "complimart/internal/platform/redis"
	httptransport "complimart/internal/transport/http"
	"complimart/internal/vendorapi"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	st, cleanup, err := newStore(cfg, log)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	refresh := refreshsignal.New()
	refresh.Register(func() {
		log.Debug("feed refresh signaled")
	})

	disp := dispatcher.New(st, refresh,
		dispatcher.WithLogger(log),
		dispatcher.WithMetrics(m),
	)

	profiles, documents := newMarketplaceClients(cfg, log)
	svc := feed.New(st, disp, profiles, documents, refresh,
		feed.WithLogger(log),
		feed.WithMetrics(m),
	)

	det := detector.New(documents, disp,
		detector.WithInterval(cfg.PollInterval),
		detector.WithTickTimeout(cfg.PollTickTimeout),
		detector.WithLogger(log),
		detector.WithMetrics(m),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Validator:     jwtService,
		Notifications: notificationhandler.New(svc, disp, log),
		Detector:      detectorhandler.New(det, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting notification engine", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	det.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newStore picks the store backend from configuration: Redis when a URL is
// set, then Postgres, falling back to the in-memory store for single-instance
// development.
func newStore(cfg config.Config, log *slog.Logger) (feed.Store, func(), error) {
	if cfg.Redis.URL != "" {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis notification store")
		return notifstore.NewRedis(client.Client), func() { _ = client.Close() }, nil
	}

	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		pg := notifstore.NewPostgres(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres notification store")
		return pg, func() { _ = db.Close() }, nil
	}

	log.Warn("no store backend configured, using in-memory store")
	return notifstore.NewInMemory(), func() {}, nil
}

// newMarketplaceClients returns HTTP clients against the marketplace backend,
// or mock clients when no base URL is configured so the engine runs standalone.
func newMarketplaceClients(cfg config.Config, log *slog.Logger) (vendorapi.ProfileClient, vendorapi.DocumentsClient) {
	if cfg.MarketplaceBaseURL == "" {
		log.Warn("MARKETPLACE_BASE_URL not set, using mock marketplace clients")
		return vendorapi.MockProfileClient{Score: 72}, vendorapi.NewMockDocumentsClient(nil)
	}
	return vendorapi.NewHTTPProfileClient(cfg.MarketplaceBaseURL),
		vendorapi.NewHTTPDocumentsClient(cfg.MarketplaceBaseURL)
}
