package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	auditapp "github.com/waterworks/backend/internal/application/audit"
	billingapp "github.com/waterworks/backend/internal/application/billing"
	identityapp "github.com/waterworks/backend/internal/application/identity"
	meteringapp "github.com/waterworks/backend/internal/application/metering"
	notificationapp "github.com/waterworks/backend/internal/application/notification"
	tariffapp "github.com/waterworks/backend/internal/application/tariff"
	"github.com/waterworks/backend/internal/infrastructure/auth"
	"github.com/waterworks/backend/internal/infrastructure/config"
	"github.com/waterworks/backend/internal/infrastructure/logger"
	"github.com/waterworks/backend/internal/infrastructure/persistence"
	"github.com/waterworks/backend/internal/infrastructure/sms"
	"github.com/waterworks/backend/internal/interfaces/http/dto"
	"github.com/waterworks/backend/internal/interfaces/http/handler"
	"github.com/waterworks/backend/internal/interfaces/http/middleware"
	"github.com/waterworks/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting waterworks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	configRepo := persistence.NewGormConfigurationRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	meterRepo := persistence.NewGormMeterRepository(db.DB)
	settingsRepo := persistence.NewGormAlertSettingsRepository(db.DB)
	smsLogRepo := persistence.NewGormSMSLogRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	recorder := auditapp.NewRecorder(auditLogRepo, log)
	sender := sms.NewVonageSender(cfg.SMS)
	notifier := notificationapp.NewNotifier(settingsRepo, smsLogRepo, sender, log)
	generator := billingapp.NewGenerator()

	tariffService := tariffapp.NewService(configRepo, recorder)
	accountService := meteringapp.NewAccountService(accountRepo, meterRepo, recorder)
	meterService := meteringapp.NewMeterService(meterRepo, accountRepo, recorder)
	readingService := meteringapp.NewReadingService(scope, generator, notifier, recorder)
	billingService := billingapp.NewBillingService(scope, notifier, recorder)
	paymentService := billingapp.NewPaymentService(scope, notifier, recorder)
	settingsService := notificationapp.NewSettingsService(settingsRepo, smsLogRepo, recorder)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, recorder)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterCustomValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewConfigurationHandler(tariffService)).
		Register(handler.NewAccountHandler(accountService, meterService)).
		Register(handler.NewMeterHandler(meterService)).
		Register(handler.NewReadingHandler(readingService)).
		Register(handler.NewBillingHandler(billingService)).
		Register(handler.NewPaymentHandler(paymentService)).
		Register(handler.NewAlertSettingsHandler(settingsService)).
		Register(handler.NewAuditLogHandler(recorder))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
