package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/iliyamo/showtime-booking/internal/booking"
	"github.com/iliyamo/showtime-booking/internal/catalog"
	"github.com/iliyamo/showtime-booking/internal/config"
	"github.com/iliyamo/showtime-booking/internal/database"
	"github.com/iliyamo/showtime-booking/internal/handler"
	"github.com/iliyamo/showtime-booking/internal/inventory"
	"github.com/iliyamo/showtime-booking/internal/logger"
	"github.com/iliyamo/showtime-booking/internal/metrics"
	"github.com/iliyamo/showtime-booking/internal/middleware"
	"github.com/iliyamo/showtime-booking/internal/payment"
	"github.com/iliyamo/showtime-booking/internal/queue"
	"github.com/iliyamo/showtime-booking/internal/repository"
	"github.com/iliyamo/showtime-booking/internal/router"
	"github.com/iliyamo/showtime-booking/internal/service"
	"github.com/iliyamo/showtime-booking/internal/worker"
)

func main() {
	// a missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, cfgErr := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	if cfgErr != nil {
		log.Fatal("invalid configuration", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal("load catalog", zap.String("source", cfg.CatalogSource), zap.Error(err))
	}
	inv, err := inventory.FromCatalog(cat)
	if err != nil {
		log.Fatal("build seat inventory", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	mgr := booking.NewManager(cat, inv, repository.NewBookingRepo(),
		booking.WithHoldTTL(cfg.HoldTTL),
		booking.WithLogger(log.Named("booking")),
		booking.WithMetrics(m),
	)

	payOpts := []payment.Option{
		payment.WithDecider(payment.RandomFailure(cfg.PaymentFailureRate)),
		payment.WithCatalog(cat),
		payment.WithLogger(log.Named("payment")),
		payment.WithMetrics(m),
	}
	if cfg.EventsEnabled {
		payOpts = append(payOpts, payment.WithPublisher(service.NewQueuePublisher(cfg.RabbitMQURL, log.Named("publisher"))))
		consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.BookingLogDir, log.Named("booking-consumer"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}
	proc := payment.NewProcessor(mgr, repository.NewPaymentRepo(), payOpts...)

	expiry := worker.NewExpiryWorker(mgr, worker.ExpiryWorkerConfig{
		HoldTTL:      mgr.HoldTTL(),
		ScanInterval: cfg.ReclaimInterval,
	}, log.Named("expiry"))
	expiry.Start(ctx)
	defer expiry.Stop()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := router.New(router.Deps{
		Catalog:  &handler.CatalogHandler{Catalog: cat},
		Seats:    &handler.SeatHandler{Catalog: cat, Inventory: inv},
		Bookings: &handler.BookingHandler{Bookings: mgr},
		Payments: &handler.PaymentHandler{Payments: proc},
		Gatherer: reg,
		Metrics:  m,
		Logger:   log,
		CacheMW:  middleware.NewRedisCache(cfg.Cache, rdb, log.Named("cache")),
		LimitMW:  middleware.NewTokenBucket(cfg.RateLimit, rdb, log.Named("ratelimit")),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.Duration("hold_ttl", mgr.HoldTTL()), zap.Bool("events", cfg.EventsEnabled))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

func loadCatalog(ctx context.Context, cfg config.Config, log *zap.Logger) (*catalog.Store, error) {
	if cfg.CatalogSource != config.CatalogMySQL {
		log.Info("loading catalog", zap.String("dir", cfg.DataDir))
		return catalog.LoadJSONDir(cfg.DataDir)
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	log.Info("loading catalog", zap.String("db", cfg.DB.Name), zap.String("host", cfg.DB.Host))
	return catalog.LoadMySQL(ctx, db)
}
