package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/billing"
	appinventory "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/inventory"
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/cache"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/config"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/event"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/logger"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/notification"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/telemetry"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/interfaces/http/handler"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// notifier is both the job notice dispatcher and the stock alert sender
type notifier interface {
	appproduction.NotificationDispatcher
	appinventory.StockAlertNotifier
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ThermoGestion",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = providers.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.StartProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	providers.EnableSpanProfiles(profiler)

	db, err := persistence.NewDatabase(cfg.Database, persistence.Options{
		Logger:       log,
		TraceEnabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:   cfg.Telemetry.DBLogFullSQL,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	checks := map[string]handler.Pinger{"database": db}

	// Redis backs the invoice counter. Without it numbers come from scanning the
	// latest invoice.
	var numbering appbilling.InvoiceNumberingService
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, invoice numbers will be scanned from the database", zap.Error(err))
	} else {
		defer redisClient.Close()
		numbering = cache.NewRedisInvoiceCounter(redisClient, cfg.Automation.InvoicePrefix)
		checks["redis"] = redisPinger(redisClient)
	}

	var notify notifier = notification.NewLogDispatcher(log)
	var worker *notification.Worker
	if cfg.Notification.Enabled {
		asynqClient := asynq.NewClient(notification.RedisOpt(cfg.Redis))
		defer asynqClient.Close()
		notify = notification.NewAsynqDispatcher(asynqClient, cfg.Notification.Queue, cfg.Notification.MaxRetry, log)
		worker = notification.NewWorker(cfg.Redis, cfg.Notification, notification.NewLogSink(log), log)
	}

	bus := event.NewInMemoryEventBus(log)
	if cfg.Automation.LowStockAlerts {
		bus.Subscribe(appinventory.NewMaterialStockLowHandler(log).WithNotifier(notify))
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	metrics, err := telemetry.NewTransitionMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatal("Failed to create transition metrics", zap.Error(err))
	}

	ledger := appinventory.NewStockLedger(persistence.NewGormStockScope(db.DB), log).
		WithEventPublisher(bus)
	invoices := appbilling.NewInvoiceAutoGenerator(
		persistence.NewGormBillingScope(db.DB),
		numbering,
		appbilling.GeneratorConfig{
			Prefix:          cfg.Automation.InvoicePrefix,
			PaymentTermDays: cfg.Automation.PaymentTermDays,
			DefaultVATRate:  cfg.Automation.DefaultVATRate,
		},
		log,
	).WithEventPublisher(bus)

	estimator := production.ConsumptionEstimator{
		DefaultRateKgPerM2: cfg.Automation.DefaultConsumptionRate,
		MinimumKg:          cfg.Automation.MinimumConsumptionKg,
	}
	coordinator := appproduction.NewStatusTransitionCoordinator(
		persistence.NewGormProductionScope(db.DB),
		[]appproduction.AutomationPolicy{
			appproduction.NewStockDecrementPolicy(estimator, ledger),
			appproduction.NewAutoInvoicePolicy(invoices),
			appproduction.NewNotificationPolicy(notify),
		},
		appproduction.NewAuditRecorder(persistence.NewGormAuditLogRepository(db.DB), log),
		appproduction.CoordinatorConfig{
			StepTimeout:       cfg.Automation.StepTimeout,
			StrictTransitions: cfg.Automation.StrictTransitions,
		},
		log,
	).WithEventPublisher(bus).WithMetrics(metrics)

	mode := gin.DebugMode
	if cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	engine := router.NewEngine(router.EngineConfig{
		Mode:           mode,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: providers.TracingEnabled(),
	}, log)
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	router.NewRouter(engine).
		RegisterRoot(handler.NewHealthHandler(version, checks)).
		Register(handler.NewJobHandler(coordinator)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	workerDone := make(chan struct{})
	if worker != nil {
		go func() {
			defer close(workerDone)
			if err := worker.Run(ctx); err != nil {
				log.Error("Notification worker failed", zap.Error(err))
				stop()
			}
		}()
	} else {
		close(workerDone)
	}

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	<-workerDone
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	log.Info("Server exited")
}

func redisPinger(client *redis.Client) handler.Pinger {
	return handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
