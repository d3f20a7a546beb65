package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/zeroclasses/coaching-service/internal/api/http"
	"github.com/zeroclasses/coaching-service/internal/api/http/handlers"
	"github.com/zeroclasses/coaching-service/internal/config"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/notify"
	"github.com/zeroclasses/coaching-service/internal/observability"
	"github.com/zeroclasses/coaching-service/internal/otp"
	"github.com/zeroclasses/coaching-service/internal/persistence"
	"github.com/zeroclasses/coaching-service/internal/rate"
	"github.com/zeroclasses/coaching-service/internal/repository"
	"github.com/zeroclasses/coaching-service/internal/repository/memstore"
	"github.com/zeroclasses/coaching-service/internal/repository/mongostore"
	"github.com/zeroclasses/coaching-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	health := map[string]handlers.Pinger{}

	var store repository.Store
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), "migrations", logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pg.PoolHandle())
		health["postgres"] = pg
	case config.StoreDriverMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to connect mongo", zap.Error(err))
		}
		defer mg.Close(context.Background())

		store = mongostore.New(mg.DB)
		health["mongo"] = mg
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		store = memstore.New()
	}

	otpOpts := otp.Options{TTL: cfg.OTP.TTL, Length: cfg.OTP.Length}
	var (
		ledger  otp.Ledger
		limiter rate.Limiter
	)
	if cfg.OTP.Store == "redis" {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()

		ledger = otp.NewRedisLedger(redis.Client, otpOpts)
		limiter = rate.NewRedisLimiter(redis.Client, "otp:send:", cfg.OTP.SendLimit, cfg.OTP.SendWindow)
		health["redis"] = redis
	} else {
		memLedger := otp.NewMemoryLedger(otpOpts)
		worker.StartOTPJanitor(ctx, memLedger, cfg.OTP.JanitorInterval, logger)
		ledger = memLedger
		limiter = rate.NewMemoryLimiter(cfg.OTP.SendLimit, cfg.OTP.SendWindow)
	}

	email, err := notify.NewEmailSender(cfg.Notification, logger)
	if err != nil {
		logger.Fatal("failed to configure email", zap.Error(err))
	}

	app, err := httptransport.NewApp(httptransport.Dependencies{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Store:      store,
		Ledger:     ledger,
		Limiter:    limiter,
		Email:      email,
		SMS:        notify.NewSMSSender(cfg.Notification, logger),
		Dispatcher: events.NewInMemoryDispatcher(),
		Health:     health,
	})
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver), zap.String("otp_store", cfg.OTP.Store))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
