package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/allotments"
	"github.com/wenwu/saas-platform/pricing-service/internal/changes"
	"github.com/wenwu/saas-platform/pricing-service/internal/config"
	"github.com/wenwu/saas-platform/pricing-service/internal/http"
	"github.com/wenwu/saas-platform/pricing-service/internal/pricing"
	"github.com/wenwu/saas-platform/pricing-service/internal/quotes"
	"github.com/wenwu/saas-platform/pricing-service/internal/scheduler"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
	"github.com/wenwu/saas-platform/pricing-service/internal/templates"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()
	logger.Infow("starting pricing service", "env", cfg.Env, "storage", cfg.Storage.Type)

	// Initialize storage
	store, err := newStore(cfg)
	if err != nil {
		logger.Fatalw("storage initialization failed", "error", err)
	}
	defer store.Close()

	// Initialize services
	changeService := changes.NewService(store, logger)

	pricingService := pricing.NewService(
		store,
		pricing.NewScraper(cfg.Scraper.Timeout, logger),
		changeService,
		cfg.Scraper.DefaultRegion,
		logger,
	)
	allotmentService := allotments.NewService(
		store,
		allotments.NewScraper(cfg.Scraper.Timeout, logger),
		changeService,
		cfg.Scraper.DefaultRegion,
		logger,
	)
	pricingService.SetMatcher(allotmentService)

	quoteService := quotes.NewService(
		store,
		pricingService,
		allotmentService,
		cfg.Quotes.MaxQuotes,
		cfg.Quotes.TTL,
		cfg.Storage.Type,
		logger,
	)
	templateService := templates.NewService(store, cfg.Storage.DataDir, logger)

	// Warm up stored data; failures are logged, the API serves regardless.
	warmup(pricingService, allotmentService, templateService, cfg.Scraper.DefaultRegion, logger)

	// Background sync
	sched := scheduler.New(pricingService, allotmentService, cfg.Scraper.SyncInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalw("scheduler start failed", "error", err)
	}

	// Initialize HTTP server
	handler := http.NewHandler(pricingService, allotmentService, quoteService, templateService, changeService, cfg.Scraper.DefaultRegion)
	server := http.NewServer(cfg, store, handler)

	srv := &nethttp.Server{
		Addr:    cfg.Server.Addr(),
		Handler: server.Engine(),
	}

	// Start server in goroutine
	go func() {
		logger.Infow("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("shutdown error", "error", err)
	}
	logger.Infow("server exited")
}

func newLogger(env string) *zap.SugaredLogger {
	var logger *zap.Logger
	var err error
	if env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger.Sugar()
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Type == config.StorageRedis {
		return storage.NewRedisStore(cfg.Storage.RedisURL)
	}
	return storage.NewFileStore(cfg.Storage.DataDir)
}

// warmup loads or fetches the default region's catalog, the allotment set
// and the template files, so the first request never waits on a scrape.
func warmup(pricingSvc *pricing.Service, allotSvc *allotments.Service,
	templateSvc *templates.Service, defaultRegion string, logger *zap.SugaredLogger) {

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if res := pricingSvc.EnsureData(ctx, defaultRegion); !res.Success {
		logger.Warnw("pricing warmup failed", "region", defaultRegion, "message", res.Message)
	} else {
		logger.Infow("pricing ready", "region", defaultRegion, "message", res.Message)
	}

	if res := allotSvc.EnsureData(ctx); !res.Success {
		logger.Warnw("allotments warmup failed", "message", res.Message)
	} else {
		logger.Infow("allotments ready", "message", res.Message)
	}

	if res := templateSvc.SyncFromFiles(ctx); !res.Success {
		logger.Warnw("templates warmup failed", "message", res.Message)
	} else {
		logger.Infow("templates ready", "message", res.Message)
	}
}
