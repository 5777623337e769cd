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
	analyticsapp "github.com/homehub/backend/internal/application/analytics"
	assistantapp "github.com/homehub/backend/internal/application/assistant"
	billingapp "github.com/homehub/backend/internal/application/billing"
	budgetapp "github.com/homehub/backend/internal/application/budget"
	choreapp "github.com/homehub/backend/internal/application/chore"
	eventapp "github.com/homehub/backend/internal/application/event"
	identityapp "github.com/homehub/backend/internal/application/identity"
	mealapp "github.com/homehub/backend/internal/application/meal"
	messagingapp "github.com/homehub/backend/internal/application/messaging"
	notificationapp "github.com/homehub/backend/internal/application/notification"
	rewardsapp "github.com/homehub/backend/internal/application/rewards"
	taskapp "github.com/homehub/backend/internal/application/task"
	domainassistant "github.com/homehub/backend/internal/domain/assistant"
	domainbilling "github.com/homehub/backend/internal/domain/billing"
	infraassistant "github.com/homehub/backend/internal/infrastructure/assistant"
	"github.com/homehub/backend/internal/infrastructure/auth"
	infrabilling "github.com/homehub/backend/internal/infrastructure/billing"
	"github.com/homehub/backend/internal/infrastructure/cache"
	"github.com/homehub/backend/internal/infrastructure/config"
	"github.com/homehub/backend/internal/infrastructure/event"
	"github.com/homehub/backend/internal/infrastructure/logger"
	"github.com/homehub/backend/internal/infrastructure/persistence"
	"github.com/homehub/backend/internal/infrastructure/persistence/spacescope"
	"github.com/homehub/backend/internal/infrastructure/realtime"
	"github.com/homehub/backend/internal/infrastructure/scheduler"
	"github.com/homehub/backend/internal/infrastructure/storage"
	"github.com/homehub/backend/internal/infrastructure/telemetry"
	"github.com/homehub/backend/internal/interfaces/http/handler"
	"github.com/homehub/backend/internal/interfaces/http/middleware"
	"github.com/homehub/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/homehub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			HomeHub Backend API
//	@version		1.0
//	@description	Household management backend API - shared spaces, chores, rewards, budgets, meals and messaging

//	@contact.name	API Support
//	@contact.url	https://github.com/homehub/backend
//	@contact.email	support@homehub.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HomeHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry providers. All of these degrade to no-ops when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilingEnabled,
		ServerAddress:       cfg.Telemetry.ProfilingServer,
		ApplicationName:     cfg.App.Name,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register otelgorm instrumentation for query tracing
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Space-scoped DB wrapper used by repositories that must never leak
	// rows across household boundaries
	spaceDB := spacescope.NewSpaceDB(db.DB)

	// Redis-backed infrastructure (token blacklist, plan feature cache,
	// event idempotency). Falls back to in-memory when Redis is down.
	var redisClient *redis.Client
	var tokenBlacklist auth.TokenBlacklist
	var featureCache cache.PlanFeatureCache
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unreachable, using in-memory fallbacks", zap.Error(err))
			redisClient = nil
		}
	}
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		featureCache = cache.NewRedisPlanFeatureCacheWithClient(redisClient)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		featureCache = cache.NewInMemoryPlanFeatureCache()
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	spaceRepo := persistence.NewGormSpaceRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	choreRepo := persistence.NewGormChoreRepository(spaceDB)
	completionRepo := persistence.NewGormCompletionRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(spaceDB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	rewardItemRepo := persistence.NewGormRewardItemRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(spaceDB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	mealPlanRepo := persistence.NewGormMealPlanRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	chatMessageRepo := persistence.NewGormChatMessageRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	planFeatureRepo := persistence.NewGormPlanFeatureRepository(db.DB)
	webhookEventStore := persistence.NewGormWebhookEventStore(db.DB)
	activityReader := persistence.NewGormActivityReader(db.DB)
	statsReader := persistence.NewGormStatsReader(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	snapshotSource := persistence.NewGormSnapshotSource(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Feature entitlement guard backed by the cached plan feature repository
	cachedFeatureRepo := cache.NewCachedPlanFeatureRepository(planFeatureRepo, featureCache)
	featureGuard := billingapp.NewFeatureGuard(subscriptionRepo, cachedFeatureRepo, log)

	// Receipt storage: S3 (or any S3-compatible store) when configured,
	// otherwise a stub that rejects uploads
	var receiptStorage budgetapp.ReceiptStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ReceiptStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		receiptStorage = s3Storage
		log.Info("Receipt storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		receiptStorage = storage.NewStubReceiptStorage()
	}

	// Payment gateway: Stripe when configured, noop otherwise
	var paymentGateway billingapp.PaymentGateway
	if cfg.Stripe.Enabled {
		stripeAdapter, err := infrabilling.NewStripeAdapter(&infrabilling.StripeConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			PriceIDs: map[string]string{
				"family":  cfg.Stripe.FamilyPriceID,
				"premium": cfg.Stripe.PremiumPriceID,
			},
			SuccessURL:             cfg.Stripe.SuccessURL,
			CancelURL:              cfg.Stripe.CancelURL,
			BillingPortalReturnURL: cfg.Stripe.SuccessURL,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe adapter", zap.Error(err))
		}
		paymentGateway = stripeAdapter
		log.Info("Stripe billing enabled")
	} else {
		paymentGateway = infrabilling.NewNoopGateway()
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, membershipRepo, spaceRepo, jwtService, tokenBlacklist, outboxPublisher, identityapp.DefaultAuthServiceConfig(), log)
	spaceService := identityapp.NewSpaceService(spaceRepo, membershipRepo, userRepo, subscriptionRepo, featureGuard, outboxPublisher, log)

	// Household services
	choreService := choreapp.NewChoreService(choreRepo, completionRepo, featureGuard, outboxPublisher, log)
	taskService := taskapp.NewTaskService(taskRepo, log)
	rewardsService := rewardsapp.NewRewardsService(accountRepo, transactionRepo, rewardItemRepo, outboxPublisher, log)
	budgetService := budgetapp.NewBudgetService(budgetRepo, expenseRepo, spaceRepo, log)
	expenseService := budgetapp.NewExpenseService(expenseRepo, receiptStorage, featureGuard, log)
	mealService := mealapp.NewMealService(recipeRepo, mealPlanRepo, featureGuard, log)
	messagingService := messagingapp.NewMessagingService(messageRepo, featureGuard, outboxPublisher, log)
	billingService := billingapp.NewBillingService(subscriptionRepo, webhookEventStore, paymentGateway, featureGuard, outboxPublisher, log)
	analyticsService := analyticsapp.NewAnalyticsService(activityReader, statsReader, snapshotRepo, featureGuard, log)
	rollupService := analyticsapp.NewRollupService(snapshotSource, snapshotRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Assistant service wired to a model API when one is configured
	completer := newChatCompleter(cfg, log)
	assistantService := assistantapp.NewAssistantService(conversationRepo, chatMessageRepo, completer, featureGuard, log)

	// Realtime hub for household chat fan-out
	hub := realtime.NewHub(log)
	defer hub.Close()

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Chore completion -> reward points credit. Wrapped in an idempotent
	// handler so redelivered outbox events never double-credit points.
	choreCompletedHandler := rewardsapp.NewChoreCompletedHandler(spaceRepo, accountRepo, transactionRepo, completionRepo, outboxPublisher, log)
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	eventBus.Subscribe(event.NewIdempotentHandler(choreCompletedHandler, idempotencyStore, log))

	// Domain events -> in-app notifications for space members
	notificationEventHandler := notificationapp.NewNotificationEventHandler(notificationService, membershipRepo, userRepo, log)
	eventBus.Subscribe(notificationEventHandler)

	// Sent messages -> websocket broadcast to connected household members
	broadcastHandler := realtime.NewBroadcastHandler(hub, log)
	eventBus.Subscribe(broadcastHandler)

	log.Info("Event handlers registered",
		zap.Strings("chore_completed_events", choreCompletedHandler.EventTypes()),
		zap.Strings("notification_events", notificationEventHandler.EventTypes()),
		zap.Strings("broadcast_events", broadcastHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Nightly maintenance scheduler: analytics rollup, chat history and
	// notification pruning, overdue chore reminders
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}
		maintenanceExecutor := scheduler.NewMaintenanceExecutor(rollupService, messagingService, notificationService, choreRepo, notificationService, log)
		maintenanceScheduler := scheduler.NewScheduler(schedulerConfig, maintenanceExecutor, log)
		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()

		cronConfig := scheduler.DefaultCronTriggerConfig()
		if hour, minute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule); err == nil {
			cronConfig.MaintenanceHour = hour
			cronConfig.MaintenanceMinute = minute
		} else {
			log.Warn("Invalid daily cron schedule, using default", zap.Error(err))
		}
		cronTrigger := scheduler.NewCronTrigger(cronConfig, maintenanceScheduler, activeSpaceSource{snapshotSource}, log)
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	spaceHandler := handler.NewSpaceHandler(spaceService)
	choreHandler := handler.NewChoreHandler(choreService)
	taskHandler := handler.NewTaskHandler(taskService)
	rewardsHandler := handler.NewRewardsHandler(rewardsService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	mealHandler := handler.NewMealHandler(mealService)
	messageHandler := handler.NewMessageHandler(messagingService)
	chatSocketHandler := handler.NewChatSocketHandler(hub, log)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	subscriptionHandler := handler.NewSubscriptionHandler(billingService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	outboxHandler := handler.NewOutboxHandler(outboxService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics/Profiling - Telemetry (when enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// JWT middleware configuration, shared by the API router and the
	// protected Swagger endpoint
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/webhooks",
		},
		Logger: log,
	}

	// Swagger documentation endpoint (if enabled)
	if cfg.Swagger.Enabled {
		swaggerProtection := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
		engine.GET("/swagger/*any", swaggerProtection, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stripe webhook endpoint. Registered directly on the engine so it
	// bypasses JWT and space middleware; authenticity comes from the
	// webhook signature instead.
	if cfg.Stripe.Enabled {
		webhookParser, err := infrabilling.NewWebhookParser(cfg.Stripe.WebhookSecret, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe webhook parser", zap.Error(err))
		}
		stripeWebhookHandler := handler.NewStripeWebhookHandler(webhookParser, billingService, log)
		webhookGroup := engine.Group("/api/v1/webhooks")
		webhookGroup.POST("/stripe", stripeWebhookHandler.HandleStripeWebhook)
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Resolve the active household space from JWT claims (or the
	// X-Space-ID header). Handlers enforce presence where they need it.
	spaceConfig := middleware.DefaultSpaceConfig()
	spaceConfig.Required = false
	spaceConfig.Logger = log
	r.Use(middleware.SpaceMiddlewareWithConfig(spaceConfig))

	// Plan gate for feature-flagged route groups. Services re-check the
	// plan on writes; the middleware rejects gated reads early too.
	featureGateConfig := middleware.DefaultFeatureMiddlewareConfig()
	featureGateConfig.FeatureChecker = cachedFeatureRepo
	featureGateConfig.SpacePlanProvider = featureGuard
	featureGateConfig.Logger = log

	// Identity domain (registration, login, session, profile)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/select-space", authHandler.SelectSpace)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)
	authRoutes.PUT("/profile", authHandler.UpdateProfile)

	// Spaces domain (households, membership, invites)
	spaceRoutes := router.NewDomainGroup("spaces", "/spaces")
	spaceRoutes.POST("", spaceHandler.CreateSpace)
	spaceRoutes.GET("", spaceHandler.ListSpaces)
	spaceRoutes.POST("/join", spaceHandler.JoinSpace)
	spaceRoutes.GET("/:id", spaceHandler.GetSpace)
	spaceRoutes.PUT("/:id", spaceHandler.UpdateSpace)
	spaceRoutes.DELETE("/:id", spaceHandler.ArchiveSpace)
	spaceRoutes.PUT("/:id/chore-settings", spaceHandler.UpdateChoreSettings)
	spaceRoutes.POST("/:id/invite-code", spaceHandler.RegenerateInviteCode)
	spaceRoutes.GET("/:id/members", spaceHandler.ListMembers)
	spaceRoutes.PUT("/:id/members/:userId/role", spaceHandler.ChangeMemberRole)
	spaceRoutes.DELETE("/:id/members/:userId", spaceHandler.RemoveMember)
	spaceRoutes.POST("/:id/transfer-ownership", spaceHandler.TransferOwnership)

	// Chores domain (recurring chores, completions)
	choreRoutes := router.NewDomainGroup("chores", "/chores")
	choreRoutes.POST("", choreHandler.CreateChore)
	choreRoutes.GET("", choreHandler.ListChores)
	choreRoutes.GET("/:id", choreHandler.GetChore)
	choreRoutes.PUT("/:id", choreHandler.UpdateChore)
	choreRoutes.DELETE("/:id", choreHandler.DeleteChore)
	choreRoutes.PUT("/:id/assign", choreHandler.AssignChore)
	choreRoutes.POST("/:id/complete", choreHandler.CompleteChore)
	choreRoutes.GET("/:id/completions", choreHandler.ListCompletions)
	choreRoutes.POST("/:id/pause", choreHandler.PauseChore)
	choreRoutes.POST("/:id/resume", choreHandler.ResumeChore)
	choreRoutes.POST("/:id/archive", choreHandler.ArchiveChore)

	// Tasks domain (one-off todos)
	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.POST("", taskHandler.CreateTask)
	taskRoutes.GET("", taskHandler.ListTasks)
	taskRoutes.GET("/:id", taskHandler.GetTask)
	taskRoutes.PUT("/:id", taskHandler.UpdateTask)
	taskRoutes.DELETE("/:id", taskHandler.DeleteTask)
	taskRoutes.POST("/:id/start", taskHandler.StartTask)
	taskRoutes.POST("/:id/complete", taskHandler.CompleteTask)
	taskRoutes.POST("/:id/reopen", taskHandler.ReopenTask)
	taskRoutes.POST("/:id/cancel", taskHandler.CancelTask)

	// Rewards domain (point accounts, reward catalog, redemptions)
	rewardsRoutes := router.NewDomainGroup("rewards", "/rewards")
	rewardsRoutes.GET("/account", rewardsHandler.GetMyAccount)
	rewardsRoutes.GET("/accounts/:user_id", rewardsHandler.GetMemberAccount)
	rewardsRoutes.GET("/leaderboard", rewardsHandler.GetLeaderboard)
	rewardsRoutes.GET("/transactions", rewardsHandler.ListTransactions)
	rewardsRoutes.POST("/items", middleware.RequireAdmin(), rewardsHandler.CreateRewardItem)
	rewardsRoutes.GET("/items", rewardsHandler.ListRewardItems)
	rewardsRoutes.PUT("/items/:id", middleware.RequireAdmin(), rewardsHandler.UpdateRewardItem)
	rewardsRoutes.DELETE("/items/:id", middleware.RequireAdmin(), rewardsHandler.DeactivateRewardItem)
	rewardsRoutes.POST("/items/:id/redeem", rewardsHandler.Redeem)
	rewardsRoutes.POST("/adjust", middleware.RequireAdmin(), rewardsHandler.Adjust)

	// Budget domain (monthly budgets and shared expenses)
	budgetRoutes := router.NewDomainGroup("budgets", "/budgets")
	budgetRoutes.POST("", budgetHandler.CreateBudget)
	budgetRoutes.GET("", budgetHandler.ListBudgets)
	budgetRoutes.GET("/:id", budgetHandler.GetBudget)
	budgetRoutes.PUT("/:id", budgetHandler.UpdateBudget)
	budgetRoutes.DELETE("/:id", budgetHandler.ArchiveBudget)

	expenseRoutes := router.NewDomainGroup("expenses", "/expenses")
	expenseRoutes.POST("", expenseHandler.CreateExpense)
	expenseRoutes.GET("", expenseHandler.ListExpenses)
	expenseRoutes.GET("/:id", expenseHandler.GetExpense)
	expenseRoutes.PUT("/:id", expenseHandler.UpdateExpense)
	expenseRoutes.DELETE("/:id", expenseHandler.DeleteExpense)
	expenseRoutes.POST("/:id/receipt", expenseHandler.RequestReceiptUpload)
	expenseRoutes.GET("/:id/receipt", expenseHandler.GetReceiptDownload)
	expenseRoutes.DELETE("/:id/receipt", expenseHandler.RemoveReceipt)

	// Meals domain (recipes, weekly plan, shopping list); gated by plan
	mealRoutes := router.NewDomainGroup("meals", "/meals")
	mealRoutes.Use(middleware.RequireFeatureWithConfig(domainbilling.FeatureMealPlanning, featureGateConfig))
	mealRoutes.POST("/recipes", mealHandler.CreateRecipe)
	mealRoutes.GET("/recipes", mealHandler.ListRecipes)
	mealRoutes.GET("/recipes/:id", mealHandler.GetRecipe)
	mealRoutes.PUT("/recipes/:id", mealHandler.UpdateRecipe)
	mealRoutes.DELETE("/recipes/:id", mealHandler.DeleteRecipe)
	mealRoutes.GET("/plan", mealHandler.GetWeekPlan)
	mealRoutes.PUT("/plan/entries", mealHandler.SetPlanEntry)
	mealRoutes.DELETE("/plan/entries", mealHandler.ClearPlanEntry)
	mealRoutes.GET("/plan/shopping-list", mealHandler.GetShoppingList)

	// Messaging domain (household chat, websocket stream)
	messageRoutes := router.NewDomainGroup("messages", "/messages")
	messageRoutes.POST("", messageHandler.SendMessage)
	messageRoutes.GET("", messageHandler.ListMessages)
	messageRoutes.GET("/stream", chatSocketHandler.Connect)
	messageRoutes.PUT("/:id", messageHandler.EditMessage)
	messageRoutes.DELETE("/:id", messageHandler.DeleteMessage)

	// Assistant domain (AI household assistant); gated by plan
	assistantRoutes := router.NewDomainGroup("assistant", "/assistant")
	assistantRoutes.Use(middleware.RequireFeatureWithConfig(domainbilling.FeatureAssistant, featureGateConfig))
	assistantRoutes.POST("/chat", assistantHandler.Chat)
	assistantRoutes.GET("/conversations", assistantHandler.ListConversations)
	assistantRoutes.GET("/conversations/:id", assistantHandler.GetConversation)
	assistantRoutes.POST("/conversations/:id/archive", assistantHandler.ArchiveConversation)
	assistantRoutes.DELETE("/conversations/:id", assistantHandler.DeleteConversation)

	// Billing domain (subscription, checkout, portal)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/subscription", subscriptionHandler.GetSubscription)
	billingRoutes.DELETE("/subscription", subscriptionHandler.CancelSubscription)
	billingRoutes.POST("/checkout", subscriptionHandler.StartCheckout)
	billingRoutes.POST("/portal", subscriptionHandler.OpenBillingPortal)

	// Analytics domain (dashboard, retention, history)
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.GET("/dashboard", analyticsHandler.GetDashboard)
	analyticsRoutes.GET("/retention", analyticsHandler.GetRetention)
	analyticsRoutes.GET("/history", analyticsHandler.GetHistory)

	// Notifications domain (in-app notification feed)
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.ListNotifications)
	notificationRoutes.GET("/unread-count", notificationHandler.CountUnread)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)

	// Register all domain groups
	r.Register(authRoutes).
		Register(spaceRoutes).
		Register(choreRoutes).
		Register(taskRoutes).
		Register(rewardsRoutes).
		Register(budgetRoutes).
		Register(expenseRoutes).
		Register(mealRoutes).
		Register(messageRoutes).
		Register(assistantRoutes).
		Register(billingRoutes).
		Register(analyticsRoutes).
		Register(notificationRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// activeSpaceSource adapts the analytics snapshot source to the
// scheduler's SpaceProvider interface.
type activeSpaceSource struct {
	source *persistence.GormSnapshotSource
}

func (s activeSpaceSource) GetAllActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.source.ListActiveSpaceIDs(ctx)
}

// newChatCompleter picks the assistant backend: an OpenAI-compatible
// API when configured, otherwise a stub that fails cleanly.
func newChatCompleter(cfg *config.Config, log *zap.Logger) domainassistant.ChatCompleter {
	if !cfg.Assistant.Enabled {
		return infraassistant.NewDisabledCompleter()
	}
	client, err := infraassistant.NewOpenAIClient(&cfg.Assistant, infraassistant.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize assistant client", zap.Error(err))
	}
	log.Info("Assistant enabled", zap.String("model", cfg.Assistant.Model))
	return client
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
