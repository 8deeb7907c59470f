package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	assetapp "github.com/square15/backend/internal/application/asset"
	attachmentsapp "github.com/square15/backend/internal/application/attachments"
	billingapp "github.com/square15/backend/internal/application/billing"
	crmapp "github.com/square15/backend/internal/application/crm"
	financeapp "github.com/square15/backend/internal/application/finance"
	identityapp "github.com/square15/backend/internal/application/identity"
	insightsapp "github.com/square15/backend/internal/application/insights"
	"github.com/square15/backend/internal/application/jobs"
	payrollapp "github.com/square15/backend/internal/application/payroll"
	propertyapp "github.com/square15/backend/internal/application/property"
	taxapp "github.com/square15/backend/internal/application/tax"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/ai"
	"github.com/square15/backend/internal/infrastructure/auth"
	"github.com/square15/backend/internal/infrastructure/cache"
	"github.com/square15/backend/internal/infrastructure/config"
	"github.com/square15/backend/internal/infrastructure/event"
	"github.com/square15/backend/internal/infrastructure/logger"
	"github.com/square15/backend/internal/infrastructure/mailer"
	"github.com/square15/backend/internal/infrastructure/pdf"
	"github.com/square15/backend/internal/infrastructure/persistence"
	"github.com/square15/backend/internal/infrastructure/scheduler"
	"github.com/square15/backend/internal/infrastructure/storage"
	"github.com/square15/backend/internal/infrastructure/telemetry"
	"github.com/square15/backend/internal/interfaces/http/handler"
	"github.com/square15/backend/internal/interfaces/http/middleware"
	"github.com/square15/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/square15/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Square 15 Properties API
//	@version		1.0
//	@description	Property and facility management backend: billing, registrations, maintenance, finance, SARS compliance, payroll and CRM.

//	@contact.name	Square 15 Platform Team
//	@contact.url	https://github.com/square15/backend
//	@contact.email	support@square15.co.za

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token issued by /auth/login, sent as "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Square 15 Properties backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Database close failed", zap.Error(err))
		}
	}()
	log.Info("Database connection established")

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRequestRepo := persistence.NewGormPaymentRequestRepository(db.DB)
	registrationRepo := persistence.NewGormRegistrationRepository(db.DB)
	maintenanceRepo := persistence.NewGormMaintenanceRequestRepository(db.DB)
	expenseRepo := persistence.NewGormOperationalExpenseRepository(db.DB)
	revenueRepo := persistence.NewGormAlternativeRevenueRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	liabilityRepo := persistence.NewGormLiabilityRepository(db.DB)
	payslipRepo := persistence.NewGormPayslipRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)

	// Telemetry (tracing, metrics, logs, profiling, DB instrumentation)
	var meterProvider *telemetry.MeterProvider
	if cfg.Telemetry.Enabled {
		logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
			Enabled:           cfg.Telemetry.LogsEnabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize OTLP log export", zap.Error(err))
		} else if logsProvider.IsEnabled() {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := logsProvider.Shutdown(ctx); err != nil {
					log.Error("Error shutting down logger provider", zap.Error(err))
				}
			}()
			log = telemetry.BridgeLogger(log, logsProvider, cfg.Telemetry.ServiceName, zapcore.InfoLevel)
		}

		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize tracer provider", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracerProvider.Shutdown(ctx); err != nil {
					log.Error("Error shutting down tracer provider", zap.Error(err))
				}
			}()
		}

		if cfg.Telemetry.ProfilingEnabled {
			profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
				Enabled:         true,
				ServerAddress:   cfg.Telemetry.ProfilingServerAddr,
				ApplicationName: cfg.Telemetry.ServiceName,
			}, log)
			if err != nil {
				log.Warn("Failed to start continuous profiling", zap.Error(err))
			} else {
				defer func() {
					if err := profiler.Stop(); err != nil {
						log.Error("Error stopping profiler", zap.Error(err))
					}
				}()
				if tracerProvider != nil {
					if err := tracerProvider.EnableSpanProfiles(); err != nil {
						log.Warn("Failed to enable span profiles", zap.Error(err))
					}
				}
			}
		}

		meterProvider, err = telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize meter provider", zap.Error(err))
			meterProvider = nil
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := meterProvider.Shutdown(ctx); err != nil {
					log.Error("Error shutting down meter provider", zap.Error(err))
				}
			}()

			// Receivables and maintenance backlog gauges per tenant
			businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
				Meter:               meterProvider.Meter("square15.business"),
				Logger:              log,
				ReceivablesProvider: telemetry.NewGormReceivablesMetricsProvider(db.DB),
			})
			if err != nil {
				log.Warn("Failed to initialize business metrics", zap.Error(err))
			} else {
				businessMetrics.StartPeriodicCollection(context.Background(), &activeTenantProvider{tenants: tenantRepo}, 5*time.Minute)
				defer businessMetrics.Stop()
			}

			// Query latency and connection pool instrumentation
			dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
			if err != nil {
				log.Warn("Failed to register database metrics", zap.Error(err))
			} else if dbMetrics != nil {
				dbMetrics.StartPoolStatsCollection(context.Background())
				defer dbMetrics.Stop()
			}
		}

		if cfg.Telemetry.DBTraceEnabled {
			tracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := db.DB.Use(tracingPlugin); err != nil {
				log.Warn("Failed to register DB tracing plugin", zap.Error(err))
			}
		}
	}

	// Idempotency store for the payment request approval flow.
	// Redis when reachable, in-memory otherwise.
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Warn("Falling back to in-memory idempotency store", zap.Error(err))
		idempotencyStore = idempotencyFactory.CreateInMemoryStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Token blacklist for logout and forced revocation
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Mailer for invoices, statements, maintenance notices and campaigns
	var mail mailer.Mailer
	if cfg.Mail.Enabled {
		mail = mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, log)
		log.Info("SMTP mailer configured", zap.String("host", cfg.Mail.Host))
	} else {
		mail = mailer.NewNoopMailer(log)
		log.Warn("Mail delivery disabled, outbound mail will be dropped")
	}

	// PDF rendering for invoices and payslips
	documents, err := pdf.NewDocumentBuilder()
	if err != nil {
		log.Fatal("Failed to initialize document builder", zap.Error(err))
	}
	renderer, err := pdf.NewChromedpRenderer(&pdf.ChromedpConfig{
		Headless:   true,
		DisableGPU: true,
		NoSandbox:  true,
		Logger:     log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Object storage for attachment uploads and downloads
	var objectStorage attachmentsapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage disabled, attachment URLs are stubs")
	}

	// Chat client for the insights assistant
	chat := ai.NewClient(ai.Config{
		Enabled: cfg.AI.Enabled,
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, log)

	// Billing services
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, tenantRepo, documents, renderer, mail, log)
	quotationService := billingapp.NewQuotationService(quotationRepo, invoiceRepo, log)

	// Domain event bus: overdue invoices trigger payment reminders. The
	// reminder handler is wrapped for idempotency so redelivered events do
	// not mail the customer twice.
	eventBus := event.NewInMemoryEventBus(log)
	overdueNotices := billingapp.NewOverdueNoticeHandler(log).WithMailer(mail)
	eventBus.Subscribe(event.NewIdempotentHandler(overdueNotices, idempotencyStore, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Event bus failed to start", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Event bus stop failed", zap.Error(err))
		}
	}()
	invoiceService.SetEventPublisher(eventBus)

	orderService := billingapp.NewOrderService(orderRepo, log)
	paymentRequestService := billingapp.NewPaymentRequestService(paymentRequestRepo, invoiceRepo, idempotencyStore, log)

	// Property services
	registrationService := propertyapp.NewRegistrationService(registrationRepo, log)
	billingRunService := propertyapp.NewBillingRunService(registrationRepo, invoiceRepo, log)
	maintenanceService := propertyapp.NewMaintenanceService(maintenanceRepo, registrationRepo, mail, log)

	// Finance services
	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	revenueService := financeapp.NewRevenueService(revenueRepo, log)
	reportService := financeapp.NewReportService(invoiceRepo, expenseRepo, revenueRepo, assetRepo, liabilityRepo, payslipRepo, log)

	// SARS compliance
	complianceService := taxapp.NewComplianceService(invoiceRepo, expenseRepo, revenueRepo, assetRepo, payslipRepo, log)

	// Asset register
	assetService := assetapp.NewAssetService(assetRepo, log)
	liabilityService := assetapp.NewLiabilityService(liabilityRepo, log)

	// Payroll
	payslipService := payrollapp.NewPayslipService(payslipRepo, tenantRepo, documents, renderer, log)

	// CRM and insights
	campaignService := crmapp.NewCampaignService(campaignRepo, registrationRepo, invoiceRepo, quotationRepo, mail, log)
	insightService := insightsapp.NewInsightService(invoiceRepo, expenseRepo, revenueRepo, maintenanceRepo, payslipRepo, chat, log)

	// Attachments
	attachmentService := attachmentsapp.NewAttachmentService(objectStorage)

	// Background jobs: monthly billing run, overdue sweep, quotation expiry,
	// campaign dispatch
	if cfg.Scheduler.Enabled {
		dailyHour, dailyMinute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Warn("Invalid daily cron schedule, using defaults", zap.Error(err))
		}
		billingDay, billingHour, billingMinute, err := scheduler.ParseMonthlyCronSchedule(cfg.Scheduler.BillingCronSchedule)
		if err != nil {
			log.Warn("Invalid billing cron schedule, using defaults", zap.Error(err))
		}

		executor := jobs.NewExecutor(billingRunService, invoiceService, quotationService, tenantRepo, log)
		jobRepo := scheduler.NewSchedulerJobRepository(db.DB)
		cronScheduler := scheduler.NewCronScheduler(scheduler.CronSchedulerConfig{
			Enabled:             true,
			DailyHour:           dailyHour,
			DailyMinute:         dailyMinute,
			BillingDay:          billingDay,
			BillingHour:         billingHour,
			BillingMinute:       billingMinute,
			DailyCronSchedule:   cfg.Scheduler.DailyCronSchedule,
			BillingCronSchedule: cfg.Scheduler.BillingCronSchedule,
			JobTimeout:          cfg.Scheduler.JobTimeout,
			MaxConcurrentJobs:   cfg.Scheduler.MaxConcurrentJobs,
			RetryAttempts:       cfg.Scheduler.RetryAttempts,
			RetryDelay:          cfg.Scheduler.RetryDelay,
		}, executor, tenantRepo, jobRepo, log)
		if err := cronScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron scheduler", zap.Error(err))
		}
		defer func() {
			if err := cronScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron scheduler", zap.Error(err))
			}
		}()
		log.Info("Cron scheduler started",
			zap.String("daily_schedule", cfg.Scheduler.DailyCronSchedule),
			zap.String("billing_schedule", cfg.Scheduler.BillingCronSchedule),
		)

		dispatchPoller, err := scheduler.NewCampaignDispatchPoller(scheduler.CampaignDispatchPollerConfig{
			Enabled:      true,
			PollInterval: cfg.Scheduler.DispatchPollInterval,
		}, campaignService, log)
		if err != nil {
			log.Fatal("Failed to create campaign dispatch poller", zap.Error(err))
		}
		if err := dispatchPoller.Start(context.Background()); err != nil {
			log.Fatal("Failed to start campaign dispatch poller", zap.Error(err))
		}
		defer func() {
			if err := dispatchPoller.Stop(context.Background()); err != nil {
				log.Error("Error stopping campaign dispatch poller", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentRequestHandler := handler.NewPaymentRequestHandler(paymentRequestService)
	registrationHandler := handler.NewRegistrationHandler(registrationService, billingRunService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	revenueHandler := handler.NewRevenueHandler(revenueService)
	financeReportHandler := handler.NewFinanceReportHandler(reportService)
	taxHandler := handler.NewTaxHandler(complianceService)
	assetHandler := handler.NewAssetHandler(assetService)
	liabilityHandler := handler.NewLiabilityHandler(liabilityService)
	payslipHandler := handler.NewPayslipHandler(payslipService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	insightHandler := handler.NewInsightHandler(insightService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Trusted proxies not applied", zap.Error(err))
		}
	}

	// Middleware order matters: the request ID must exist before the
	// recovery and logging layers run, and CORS must answer preflights
	// before the body limit or rate limiter can reject them.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Global rate limiter active",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Request tracing and HTTP metrics (if telemetry enabled)
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		if meterProvider != nil {
			engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("square15.http"), true))
		}
		if cfg.Telemetry.ProfilingEnabled {
			engine.Use(middleware.Profiling())
		}
	}

	// Liveness probe, outside the versioned API
	engine.GET("/health", healthHandler(db, log))

	if cfg.Swagger.Enabled {
		swaggerCfg := middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(swaggerCfg, middleware.JWTAuthMiddleware(jwtService)),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Everything under /api/v1 requires a bearer token except the
	// login, refresh and probe routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	if cfg.Telemetry.Enabled {
		// Re-tag spans with the identity established by the JWT layer.
		r.Use(middleware.TracingAttributeInjector())
	}
	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Required = false
	tenantCfg.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantCfg))

	// Identity domain (authentication, users, tenants)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.POST("", tenantHandler.Create)
	tenantRoutes.GET("", tenantHandler.List)
	tenantRoutes.GET("/:id", tenantHandler.Get)
	tenantRoutes.PUT("/:id", tenantHandler.Update)
	tenantRoutes.PUT("/:id/tax-profile", tenantHandler.SetTaxProfile)
	tenantRoutes.POST("/:id/suspend", tenantHandler.Suspend)
	tenantRoutes.POST("/:id/reactivate", tenantHandler.Reactivate)
	tenantRoutes.POST("/:id/close", tenantHandler.Close)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/role", userHandler.ChangeRole)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	userRoutes.DELETE("/:id", userHandler.Delete)

	// Billing domain (invoices, quotations, orders, payment requests)
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.POST("/:id/lines", invoiceHandler.AddLine)
	invoiceRoutes.DELETE("/:id/lines/:lineId", invoiceHandler.RemoveLine)
	invoiceRoutes.POST("/:id/send", invoiceHandler.Send)
	invoiceRoutes.POST("/:id/pay", invoiceHandler.MarkPaid)
	invoiceRoutes.POST("/:id/cancel", invoiceHandler.Cancel)
	invoiceRoutes.DELETE("/:id", invoiceHandler.Delete)
	invoiceRoutes.GET("/:id/pdf", invoiceHandler.DownloadPDF)
	invoiceRoutes.POST("/statements/:customerId/email", invoiceHandler.EmailStatement)
	invoiceRoutes.POST("/sweeps/overdue", invoiceHandler.RunOverdueSweep)

	quotationRoutes := router.NewDomainGroup("quotations", "/quotations")
	quotationRoutes.POST("", quotationHandler.Create)
	quotationRoutes.GET("", quotationHandler.List)
	quotationRoutes.GET("/:id", quotationHandler.Get)
	quotationRoutes.POST("/:id/lines", quotationHandler.AddLine)
	quotationRoutes.POST("/:id/send", quotationHandler.Send)
	quotationRoutes.POST("/:id/accept", quotationHandler.Accept)
	quotationRoutes.POST("/:id/reject", quotationHandler.Reject)
	quotationRoutes.POST("/:id/convert", quotationHandler.Convert)
	quotationRoutes.DELETE("/:id", quotationHandler.Delete)
	quotationRoutes.POST("/sweeps/expiry", quotationHandler.RunExpirySweep)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("/:id/lines", orderHandler.AddLine)
	orderRoutes.POST("/:id/confirm", orderHandler.Confirm)
	orderRoutes.POST("/:id/fulfill", orderHandler.Fulfill)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.DELETE("/:id", orderHandler.Delete)

	paymentRequestRoutes := router.NewDomainGroup("payment-requests", "/payment-requests")
	paymentRequestRoutes.POST("", paymentRequestHandler.Create)
	paymentRequestRoutes.GET("", paymentRequestHandler.List)
	paymentRequestRoutes.GET("/:id", paymentRequestHandler.Get)
	paymentRequestRoutes.POST("/:id/approve", middleware.RequireApprover(), paymentRequestHandler.Approve)
	paymentRequestRoutes.POST("/:id/decline", middleware.RequireApprover(), paymentRequestHandler.Decline)
	paymentRequestRoutes.POST("/:id/pay", paymentRequestHandler.MarkPaid)

	// Property domain (registrations, monthly billing run, maintenance)
	registrationRoutes := router.NewDomainGroup("registrations", "/registrations")
	registrationRoutes.POST("", registrationHandler.Create)
	registrationRoutes.GET("", registrationHandler.List)
	registrationRoutes.GET("/:id", registrationHandler.Get)
	registrationRoutes.POST("/:id/approve", middleware.RequireApprover(), registrationHandler.Approve)
	registrationRoutes.POST("/:id/decline", middleware.RequireApprover(), registrationHandler.Decline)
	registrationRoutes.POST("/:id/terminate", registrationHandler.Terminate)
	registrationRoutes.PUT("/:id/billing", registrationHandler.AmendBilling)
	registrationRoutes.DELETE("/:id", registrationHandler.Delete)
	registrationRoutes.POST("/billing-runs", registrationHandler.RunMonthlyBilling)

	maintenanceRoutes := router.NewDomainGroup("maintenance", "/maintenance")
	maintenanceRoutes.POST("", maintenanceHandler.Submit)
	maintenanceRoutes.GET("", maintenanceHandler.List)
	maintenanceRoutes.GET("/queue", maintenanceHandler.Queue)
	maintenanceRoutes.GET("/:id", maintenanceHandler.Get)
	maintenanceRoutes.POST("/:id/triage", maintenanceHandler.Triage)
	maintenanceRoutes.POST("/:id/schedule", maintenanceHandler.Schedule)
	maintenanceRoutes.POST("/:id/start", maintenanceHandler.Start)
	maintenanceRoutes.POST("/:id/complete", maintenanceHandler.Complete)
	maintenanceRoutes.POST("/:id/cancel", maintenanceHandler.Cancel)
	maintenanceRoutes.DELETE("/:id", maintenanceHandler.Delete)

	// Finance domain (expenses, alternative revenue, reports)
	expenseRoutes := router.NewDomainGroup("expenses", "/expenses")
	expenseRoutes.POST("", expenseHandler.Create)
	expenseRoutes.GET("", expenseHandler.List)
	expenseRoutes.GET("/summary", expenseHandler.SummariseByCategory)
	expenseRoutes.GET("/:id", expenseHandler.Get)
	expenseRoutes.PUT("/:id", expenseHandler.Update)
	expenseRoutes.POST("/:id/submit", expenseHandler.Submit)
	expenseRoutes.POST("/:id/approve", middleware.RequireApprover(), expenseHandler.Approve)
	expenseRoutes.POST("/:id/reject", middleware.RequireApprover(), expenseHandler.Reject)
	expenseRoutes.POST("/:id/cancel", expenseHandler.Cancel)
	expenseRoutes.POST("/:id/pay", expenseHandler.MarkPaid)
	expenseRoutes.DELETE("/:id", expenseHandler.Delete)

	revenueRoutes := router.NewDomainGroup("revenue", "/revenue")
	revenueRoutes.POST("", revenueHandler.Create)
	revenueRoutes.GET("", revenueHandler.List)
	revenueRoutes.GET("/summary", revenueHandler.SummariseByCategory)
	revenueRoutes.GET("/:id", revenueHandler.Get)
	revenueRoutes.PUT("/:id", revenueHandler.Update)
	revenueRoutes.POST("/:id/confirm", revenueHandler.Confirm)
	revenueRoutes.POST("/:id/cancel", revenueHandler.Cancel)
	revenueRoutes.POST("/:id/receive", revenueHandler.MarkReceived)
	revenueRoutes.DELETE("/:id", revenueHandler.Delete)

	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/profit-and-loss", financeReportHandler.ProfitAndLoss)
	reportRoutes.GET("/balance-sheet", financeReportHandler.BalanceSheet)
	reportRoutes.GET("/cash-flow", financeReportHandler.CashFlow)

	// SARS tax compliance returns
	taxRoutes := router.NewDomainGroup("tax", "/tax")
	taxRoutes.GET("/vat201", taxHandler.VAT201)
	taxRoutes.GET("/emp201", taxHandler.EMP201)
	taxRoutes.GET("/irp6", taxHandler.IRP6)
	taxRoutes.GET("/it14", taxHandler.IT14)

	// Asset and liability register
	assetRoutes := router.NewDomainGroup("assets", "/assets")
	assetRoutes.POST("", assetHandler.Register)
	assetRoutes.GET("", assetHandler.List)
	assetRoutes.GET("/register-report", assetHandler.RegisterReport)
	assetRoutes.GET("/:id", assetHandler.Get)
	assetRoutes.PUT("/:id", assetHandler.Update)
	assetRoutes.POST("/:id/dispose", assetHandler.Dispose)
	assetRoutes.POST("/:id/write-off", assetHandler.WriteOff)
	assetRoutes.DELETE("/:id", assetHandler.Delete)

	liabilityRoutes := router.NewDomainGroup("liabilities", "/liabilities")
	liabilityRoutes.POST("", liabilityHandler.Record)
	liabilityRoutes.GET("", liabilityHandler.List)
	liabilityRoutes.GET("/:id", liabilityHandler.Get)
	liabilityRoutes.PUT("/:id/terms", liabilityHandler.SetTerms)
	liabilityRoutes.POST("/:id/repayments", liabilityHandler.RecordRepayment)
	liabilityRoutes.POST("/:id/interest", liabilityHandler.AccrueInterest)
	liabilityRoutes.DELETE("/:id", liabilityHandler.Delete)

	// Payroll
	payslipRoutes := router.NewDomainGroup("payslips", "/payslips")
	payslipRoutes.POST("", payslipHandler.Create)
	payslipRoutes.GET("", payslipHandler.List)
	payslipRoutes.GET("/:id", payslipHandler.Get)
	payslipRoutes.PUT("/:id/earnings", payslipHandler.UpdateEarnings)
	payslipRoutes.POST("/:id/finalise", payslipHandler.Finalise)
	payslipRoutes.POST("/:id/pay", payslipHandler.MarkPaid)
	payslipRoutes.POST("/:id/void", payslipHandler.Void)
	payslipRoutes.GET("/:id/pdf", payslipHandler.DownloadPDF)
	payslipRoutes.DELETE("/:id", payslipHandler.Delete)

	// CRM campaigns
	campaignRoutes := router.NewDomainGroup("campaigns", "/campaigns")
	campaignRoutes.POST("", campaignHandler.Create)
	campaignRoutes.GET("", campaignHandler.List)
	campaignRoutes.GET("/:id", campaignHandler.Get)
	campaignRoutes.PUT("/:id", campaignHandler.Update)
	campaignRoutes.POST("/:id/schedule", campaignHandler.Schedule)
	campaignRoutes.POST("/:id/cancel", campaignHandler.Cancel)
	campaignRoutes.DELETE("/:id", campaignHandler.Delete)
	campaignRoutes.POST("/dispatch", campaignHandler.DispatchDue)

	// Insights assistant
	insightRoutes := router.NewDomainGroup("insights", "/insights")
	insightRoutes.GET("/snapshot", insightHandler.Snapshot)
	insightRoutes.POST("/ask", insightHandler.Ask)

	// Attachments: storage keys are slash-separated, so downloads and
	// deletes bind the key with a catch-all
	attachmentRoutes := router.NewDomainGroup("attachments", "/attachments")
	attachmentRoutes.POST("/uploads", attachmentHandler.InitiateUpload)
	attachmentRoutes.GET("/*key", attachmentHandler.PresignDownload)
	attachmentRoutes.DELETE("/*key", attachmentHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(tenantRoutes).
		Register(userRoutes).
		Register(invoiceRoutes).
		Register(quotationRoutes).
		Register(orderRoutes).
		Register(paymentRequestRoutes).
		Register(registrationRoutes).
		Register(maintenanceRoutes).
		Register(expenseRoutes).
		Register(revenueRoutes).
		Register(reportRoutes).
		Register(taxRoutes).
		Register(assetRoutes).
		Register(liabilityRoutes).
		Register(payslipRoutes).
		Register(campaignRoutes).
		Register(insightRoutes).
		Register(attachmentRoutes).
		Register(systemRoutes)

	r.Setup()

	// Unauthenticated ping for load balancer checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()

	// Block until a shutdown signal arrives
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Shutdown deadline exceeded", zap.Error(err))
	}

	log.Info("Server stopped cleanly")
}

// healthHandler answers the liveness probe, degrading to 503 when the
// database does not respond
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health probe failed, database unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

// activeTenantProvider feeds the periodic business metrics collector with
// the tenants that are currently active
type activeTenantProvider struct {
	tenants identity.TenantRepository
}

func (p *activeTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	tenants, err := p.tenants.FindAll(ctx, shared.Filter{Page: 1, PageSize: 1000})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(tenants))
	for i := range tenants {
		if tenants[i].IsActive() {
			ids = append(ids, tenants[i].ID)
		}
	}
	return ids, nil
}
