// Package main runs the event platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aurelius-events/backend/config"
	"github.com/aurelius-events/backend/internal/analytics"
	"github.com/aurelius-events/backend/internal/auth"
	"github.com/aurelius-events/backend/internal/billing"
	"github.com/aurelius-events/backend/internal/events"
	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/notifications"
	"github.com/aurelius-events/backend/internal/payments"
	"github.com/aurelius-events/backend/internal/registrations"
	"github.com/aurelius-events/backend/internal/reports"
	"github.com/aurelius-events/backend/internal/tickets"
	"github.com/aurelius-events/backend/internal/vendors"
	"github.com/aurelius-events/backend/internal/worker"
	"github.com/aurelius-events/backend/pkg/database"
	"github.com/aurelius-events/backend/pkg/queue"
	"github.com/aurelius-events/backend/pkg/redis"
	"github.com/aurelius-events/backend/pkg/response"
	"github.com/aurelius-events/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			BillingBucket:        cfg.AWS.BillingBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	var notifier *notifications.Publisher
	if cfg.RabbitMQ.URL != "" {
		notifier, err = notifications.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Warn("notifications disabled", zap.Error(err))
		} else {
			defer notifier.Close()
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Analytics
	analyticsRepo := analytics.NewRepository(pool)
	analyticsHandler := analytics.NewHandler(analyticsRepo, cfg.Billing.CommissionPercent, logger)

	// Vendors and service types
	vendorRepo := vendors.NewRepository(pool)
	vendorHandler := vendors.NewHandler(vendorRepo, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, vendorRepo, analyticsRepo, logger)

	// Tickets
	ticketRepo := tickets.NewRepository(pool)
	ticketHandler := tickets.NewHandler(ticketRepo, eventRepo, logger)

	// Registrations
	registrationRepo := registrations.NewRepository(pool)
	registrationHandler := registrations.NewHandler(registrationRepo, eventRepo, notifier, logger)

	// Payments
	paymentRepo := payments.NewRepository(pool)
	paymentHandler := payments.NewHandler(paymentRepo, registrationRepo, notifier, cfg.Billing.DefaultCurrency, logger)

	// Billing (invoices, payouts)
	billingRepo := billing.NewRepository(pool)
	billingHandler := billing.NewHandler(billingRepo, paymentRepo, registrationRepo, analyticsRepo,
		jobQueue, notifier, s3Client, cfg.Billing.DefaultCurrency, cfg.Billing.InvoiceNumberPrefix, logger)

	// Reports
	reportRepo := reports.NewRepository(pool)
	reportHandler := reports.NewHandler(reportRepo, eventRepo, analyticsRepo, s3Client, cfg.Billing.DefaultCurrency, logger)

	payoutProcessor := worker.NewProcessor(jobQueue, billingRepo, notifier, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Public browsing
	router.GET("/events", eventHandler.List)
	router.GET("/events/upcoming", eventHandler.ListUpcoming)
	router.GET("/events/:id", eventHandler.Get)
	router.GET("/events/:id/tickets", ticketHandler.ListByEvent)
	router.GET("/categories", eventHandler.Categories)
	router.GET("/venues", eventHandler.Venues)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Events
		api.POST("/events", middleware.RequireRole("organizer", "admin"), eventHandler.Create)
		api.GET("/events/mine", middleware.RequireRole("organizer", "admin"), eventHandler.ListMine)
		api.PUT("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.POST("/events/:id/publish", eventHandler.Publish)
		api.POST("/events/:id/cancel", eventHandler.Cancel)
		api.GET("/events/:id/financials", eventHandler.Financials)
		api.GET("/events/:id/analytics", analyticsHandler.GetEventAnalytics)

		// Event services
		api.POST("/events/:id/services", eventHandler.AddService)
		api.GET("/events/:id/services", eventHandler.ListServices)
		api.DELETE("/events/:id/services/:serviceId", eventHandler.RemoveService)

		// Tickets
		api.POST("/events/:id/tickets", ticketHandler.Create)
		api.GET("/tickets/:id", ticketHandler.Get)
		api.PUT("/tickets/:id", ticketHandler.Update)
		api.DELETE("/tickets/:id", ticketHandler.Delete)

		// Registrations
		api.POST("/registrations", registrationHandler.Create)
		api.GET("/registrations/mine", registrationHandler.ListMine)
		api.GET("/registrations/:id", registrationHandler.Get)
		api.POST("/registrations/:id/cancel", registrationHandler.Cancel)
		api.GET("/registrations/checkin/:code", middleware.RequireRole("organizer", "admin"), registrationHandler.CheckIn)
		api.GET("/events/:id/registrations", registrationHandler.ListByEvent)
		api.POST("/events/:id/reminders", middleware.RequireRole("organizer", "admin"), registrationHandler.Remind)

		// Payments
		api.POST("/payments", paymentHandler.Process)
		api.GET("/payments/mine", paymentHandler.History)
		api.GET("/payments/:id", paymentHandler.Get)
		api.POST("/payments/:id/refund", middleware.RequireRole("admin"), paymentHandler.Refund)

		// Invoices
		api.POST("/payments/:id/invoice", billingHandler.GenerateInvoice)
		api.GET("/invoices/:id", billingHandler.GetInvoice)
		api.GET("/invoices/:id/download", billingHandler.DownloadInvoice)

		// Payouts
		api.POST("/payouts", middleware.RequireRole("admin"), billingHandler.CreatePayout)
		api.GET("/payouts", middleware.RequireRole("organizer", "admin"), billingHandler.ListPayouts)
		api.GET("/payouts/:id", billingHandler.GetPayout)
		api.POST("/payouts/:id/process", middleware.RequireRole("admin"), billingHandler.ProcessPayout)

		// Vendors and service types
		api.GET("/vendors", vendorHandler.List)
		api.GET("/vendors/:id", vendorHandler.Get)
		api.POST("/vendors", middleware.RequireRole("admin"), vendorHandler.Create)
		api.PUT("/vendors/:id", middleware.RequireRole("admin"), vendorHandler.Update)
		api.GET("/service-types", vendorHandler.ListServiceTypes)
		api.POST("/service-types", middleware.RequireRole("admin"), vendorHandler.CreateServiceType)

		// Categories and venues (admin management)
		api.POST("/categories", middleware.RequireRole("admin"), eventHandler.CreateCategory)
		api.POST("/venues", middleware.RequireRole("admin"), eventHandler.CreateVenue)

		// Dashboards
		api.GET("/organizers/:id/dashboard", middleware.RequireRole("organizer", "admin"), analyticsHandler.GetOrganizerDashboard)
		api.GET("/analytics/platform", middleware.RequireRole("admin"), analyticsHandler.GetPlatformAnalytics)

		// Reports
		api.GET("/events/:id/reports/registrations.csv", reportHandler.RegistrationsCSV)
		api.GET("/events/:id/reports/payments.csv", reportHandler.PaymentsCSV)
		api.GET("/events/:id/reports/summary.pdf", reportHandler.SummaryPDF)
		api.POST("/events/:id/reports/registrations/export", reportHandler.ExportRegistrations)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// In-process payout worker; the standalone cmd/worker binary can run it
	// instead when processing is scaled out.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go payoutProcessor.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
