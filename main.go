package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy-service/apperrors"
	"academy-service/controllers"
	"academy-service/database"
	"academy-service/logger"
	"academy-service/middleware"
	"academy-service/notifications"
	"academy-service/repository"
	"academy-service/routes"
	"academy-service/services"
	"academy-service/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	log := logger.Initialize(os.Getenv("APP_ENV"))
	defer func() { _ = log.Sync() }()

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.RunMigrations(cfg.MigrationsPath, cfg.MigrateURL(), log); err != nil {
		if database.IsDirty(err) {
			log.Fatal("Database schema is dirty, fix the failed migration before starting", zap.Error(err))
		}
		log.Warn("Versioned migrations unavailable, falling back to AutoMigrate", zap.Error(err))
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
	}
	if cfg.SeedOnStart {
		if err := database.Seed(ctx, db, database.SeedOptions{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword}, log); err != nil {
			log.Fatal("Seed failed", zap.Error(err))
		}
	}

	// --- Infrastructure ---
	store, receiptDir, err := buildReceiptStore(ctx, cfg)
	if err != nil {
		log.Fatal("Receipt storage init failed", zap.Error(err))
	}
	keys, err := storage.NewKeyGenerator()
	if err != nil {
		log.Fatal("Key generator init failed", zap.Error(err))
	}
	publisher, err := buildPublisher(ctx, cfg)
	if err != nil {
		log.Fatal("Event publisher init failed", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	courseCache, closeCache := buildCourseCache(ctx, cfg, log)
	defer closeCache()
	if courseCache != nil && cfg.SeedOnStart {
		courseCache.Invalidate(ctx)
	}

	var mailer notifications.EmailSender = notifications.NewLogSender(log)
	if cfg.SMTPHost != "" {
		mailer = notifications.NewSMTPSender(notifications.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			User:       cfg.SMTPUser,
			Pass:       cfg.SMTPPass,
			SenderName: cfg.SMTPSenderName,
		})
	} else {
		log.Warn("SMTP not configured, reset emails will only be logged")
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal("Token service init failed", zap.Error(err))
	}

	// --- Dependency injection ---
	userRepo := repository.NewGormUserRepository(db)
	courseRepo := repository.NewGormCourseRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)

	authService := services.NewAuthService(userRepo, tokens, mailer, cfg.FrontendURL, log)
	courseService := services.NewCourseService(courseRepo, courseCache)
	orderService := services.NewOrderService(services.OrderDeps{
		Courses:         courseRepo,
		Orders:          orderRepo,
		Payments:        paymentRepo,
		Store:           store,
		Keys:            keys,
		Publisher:       publisher,
		DefaultCurrency: cfg.DefaultCurrency,
		Logger:          log,
	})
	accountService := services.NewAccountService(orderRepo)
	crmService := services.NewCRMService(userRepo, orderRepo, cfg.DefaultCurrency)

	// --- HTTP router ---
	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal("Validator registration failed", zap.Error(err))
	}

	r := gin.New()
	r.Use(apperrors.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(apperrors.ErrorMiddleware())

	routes.Register(r, routes.Controllers{
		Auth:    controllers.NewAuthController(authService),
		Courses: controllers.NewCourseController(courseService),
		Orders:  controllers.NewOrderController(orderService),
		Account: controllers.NewAccountController(accountService),
		Admin:   controllers.NewAdminController(crmService),
	}, routes.Options{
		Authenticator: middleware.NewAuthenticator(tokens),
		AuthLimiter:   middleware.RateLimitMiddleware(20, 10, ctx.Done()),
		ReceiptDir:    receiptDir,
	})

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Academy service started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Academy service stopped gracefully")
}
