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

	cartapp "github.com/quickshop/backend/internal/application/cart"
	catalogapp "github.com/quickshop/backend/internal/application/catalog"
	checkoutapp "github.com/quickshop/backend/internal/application/checkout"
	identityapp "github.com/quickshop/backend/internal/application/identity"
	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/infrastructure/auth"
	"github.com/quickshop/backend/internal/infrastructure/config"
	"github.com/quickshop/backend/internal/infrastructure/event"
	"github.com/quickshop/backend/internal/infrastructure/logger"
	"github.com/quickshop/backend/internal/infrastructure/persistence"
	"github.com/quickshop/backend/internal/infrastructure/session"
	"github.com/quickshop/backend/internal/interfaces/http/handler"
	"github.com/quickshop/backend/internal/interfaces/http/middleware"
	"github.com/quickshop/backend/internal/interfaces/http/router"
)

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

	log.Info("Starting QuickShop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Session cart store: Redis with an in-memory fallback for local runs
	var cartStore cart.Store
	redisStore, err := session.NewRedisCartStore(cfg.Redis, cfg.Session)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory cart store",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		cartStore = session.NewMemoryCartStore(cfg.Session.TTL)
	} else {
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis cart store", zap.Error(err))
			}
		}()
		cartStore = redisStore
		log.Info("Redis cart store connected",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Duration("ttl", cfg.Session.TTL),
		)
	}

	// Pricing policy (shipping threshold, fee, tax rate)
	pricing, err := cartapp.PricingFromConfig(cfg.Pricing)
	if err != nil {
		log.Fatal("Invalid pricing configuration", zap.Error(err))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	orderPlacedHandler := checkoutapp.NewOrderPlacedHandler(log)
	eventBus.Subscribe(orderPlacedHandler)
	log.Info("Event handlers registered",
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	productService := catalogapp.NewProductService(productRepo)
	cartService := cartapp.NewCartService(cartStore, productRepo, pricing, log)
	checkoutService := checkoutapp.NewCheckoutService(orderRepo, cartStore, pricing, eventBus, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
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
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside the API group)
	engine.GET("/health", healthHandler(db, log))

	// Authentication for protected routes; entirely public routes never
	// pass through this middleware.
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})
	adminOnly := middleware.RequireAdmin()

	// Stricter rate limit on credential endpoints
	var authRateLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRateLimit = middleware.RateLimit(authLimiter)
	} else {
		authRateLimit = func(c *gin.Context) { c.Next() }
	}

	r := router.NewRouter(engine)

	// Identity routes (register/login public, profile behind JWT)
	authRoutes := router.NewDomainGroup("/auth")
	authRoutes.POST("/register", authRateLimit, authHandler.Register)
	authRoutes.POST("/login", authRateLimit, authHandler.Login)
	authRoutes.GET("/me", jwtAuth, authHandler.GetCurrentUser)

	// Catalog routes (reads public, writes admin-gated)
	productRoutes := router.NewDomainGroup("/products")
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.POST("", jwtAuth, adminOnly, productHandler.Create)
	productRoutes.PUT("/:id", jwtAuth, adminOnly, productHandler.Update)
	productRoutes.DELETE("/:id", jwtAuth, adminOnly, productHandler.Delete)

	categoryRoutes := router.NewDomainGroup("/categories")
	categoryRoutes.GET("", categoryHandler.List)

	// Cart routes, scoped to the caller's session
	cartRoutes := router.NewDomainGroup("/cart")
	cartRoutes.Use(middleware.SessionRequired())
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.UpdateQuantity)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)
	cartRoutes.DELETE("", cartHandler.Clear)

	// Checkout and order history, also session-scoped
	checkoutRoutes := router.NewDomainGroup("/checkout")
	checkoutRoutes.Use(middleware.SessionRequired())
	checkoutRoutes.POST("", checkoutHandler.Submit)

	orderRoutes := router.NewDomainGroup("/orders")
	orderRoutes.Use(middleware.SessionRequired())
	orderRoutes.GET("", checkoutHandler.ListOrders)
	orderRoutes.GET("/:id", checkoutHandler.GetOrder)

	r.Register(authRoutes).
		Register(productRoutes).
		Register(categoryRoutes).
		Register(cartRoutes).
		Register(checkoutRoutes).
		Register(orderRoutes)

	// System routes (ping, build info)
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

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
