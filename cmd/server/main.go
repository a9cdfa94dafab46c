package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/config"
	"github.com/iliyamo/flight-inventory/internal/database"
	"github.com/iliyamo/flight-inventory/internal/handler"
	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/logger"
	"github.com/iliyamo/flight-inventory/internal/memstore"
	"github.com/iliyamo/flight-inventory/internal/middleware"
	"github.com/iliyamo/flight-inventory/internal/observability"
	"github.com/iliyamo/flight-inventory/internal/queue"
	"github.com/iliyamo/flight-inventory/internal/repository"
	"github.com/iliyamo/flight-inventory/internal/router"
	"github.com/iliyamo/flight-inventory/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

// backend is the persistence chosen by STORE_DRIVER.
type backend struct {
	store   inventory.Store
	users   handler.UserAccounts
	tokens  handler.RefreshTokens
	pingers []handler.Pinger
	close   func() error
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing := config.LoadTracingConfig()
	shutdownTracing, err := observability.SetupTracingSDK(ctx, tracing)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	// Notifications: broker when configured, otherwise mail inline.
	var mailer queue.Mailer = queue.NewLogMailer(log.Named("mail"))
	if cfg.SMTPHost != "" {
		mailer = queue.NewSMTPMailer(queue.SMTPConfig{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
		})
	}
	var notifier inventory.Notifier = mailer
	consumerDone := make(chan struct{})
	if cfg.RabbitURL != "" {
		pub, err := service.NewPublisher(cfg.RabbitURL, cfg.NotifyQueue, log.Named("publisher"))
		if err != nil {
			log.Warn("rabbitmq unavailable, mailing inline", zap.Error(err))
			close(consumerDone)
		} else {
			defer pub.Close()
			notifier = pub
			consumer := queue.NewConsumer(cfg.RabbitURL, cfg.NotifyQueue, mailer, log.Named("consumer"), cfg.NotifyTimeout)
			go func() {
				defer close(consumerDone)
				_ = consumer.Run(ctx)
			}()
		}
	} else {
		close(consumerDone)
	}

	inv := inventory.New(be.store,
		inventory.WithNotifier(notifier),
		inventory.WithLogger(log.Named("inventory")),
		inventory.WithNotifyTimeout(cfg.NotifyTimeout),
	)

	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		log.Warn("redis unavailable, report cache and rate limit disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	e := newEcho(cfg, tracing.ServiceName, log, inv, be, rdb)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	inv.WaitNotifications()
	<-consumerDone
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}
	return nil
}

func openBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		st := memstore.New()
		for _, a := range database.DefaultAirports {
			st.AddAirport(a)
		}
		log.Warn("using in-memory store; data is lost on exit")
		return &backend{
			store:  st,
			users:  st.Accounts(),
			tokens: st.Tokens(),
			close:  func() error { return nil },
		}, nil
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		if err := database.SeedAirports(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &backend{
			store:   repository.NewStore(db),
			users:   repository.NewUserRepo(db),
			tokens:  repository.NewTokenRepo(db),
			pingers: []handler.Pinger{db},
			close:   db.Close,
		}, nil
	}
}

func newEcho(cfg config.Config, serviceName string, log *zap.Logger, inv *inventory.Service, be *backend, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = handler.NewRequestValidator()
	e.Use(
		echoMw.Recover(),
		echoMw.RequestID(),
		middleware.Tracing(serviceName),
		middleware.RequestLogger(log.Named("http")),
	)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log.Named("cache"))
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.Named("ratelimit"))

	router.RegisterRoutes(e, be.pingers...)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, be.users, be.tokens), cfg.JWTSecret)
	router.RegisterPublic(e, inv)
	router.RegisterOwner(e, handler.NewOwnerHandler(inv), cfg.JWTSecret, cache, limit)
	router.RegisterCustomer(e, handler.NewCustomerHandler(inv), cfg.JWTSecret)
	return e
}
