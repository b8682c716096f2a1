package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storelocator/internal/address"
	"storelocator/internal/config"
	"storelocator/internal/db"
	"storelocator/internal/delivery"
	"storelocator/internal/distance"
	"storelocator/internal/logger"
	"storelocator/internal/quotation"
	"storelocator/internal/rate"
	"storelocator/internal/server"
	"storelocator/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v. Please export DATABASE_URL before running.", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Error("api stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := db.NewPool(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	// Verify connectivity proactively
	if err := pool.Ping(connectCtx); err != nil {
		return err
	}
	if cfg.SchemaBootstrap {
		if err := db.EnsureSchema(connectCtx, pool); err != nil {
			return err
		}
	}

	// One client for every upstream; per-call deadlines come from the clients.
	httpClient := &http.Client{Transport: http.DefaultTransport}
	policy := delivery.DefaultPolicy()

	quoter := rate.NewByName(cfg.QuoteProvider, policy, rate.MelhorEnvioOptions{
		BaseURL:    cfg.MelhorEnvioBaseURL,
		Token:      cfg.MelhorEnvioToken,
		Timeout:    cfg.QuoteTimeout,
		HTTPClient: httpClient,
		Logger:     lg,
	})
	matrix := distance.NewGoogleMatrix(cfg.GoogleMapsBaseURL, cfg.GoogleMapsAPIKey, cfg.UpstreamTimeout, httpClient)
	addresses := address.NewViaCEP(cfg.ViaCEPBaseURL, cfg.UpstreamTimeout, httpClient)
	repo := store.NewRepositoryPgx(pool)

	resolver := quotation.NewResolver(matrix, quoter, policy, lg)
	engine := quotation.NewEngine(addresses, repo, resolver, cfg.MaxConcurrency, lg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(engine, repo, lg),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("api listening", zap.String("port", cfg.Port), zap.String("quote_provider", cfg.QuoteProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
