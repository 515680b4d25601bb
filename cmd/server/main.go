package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/vendora/backend/internal/application/cart"
	catalogapp "github.com/vendora/backend/internal/application/catalog"
	identityapp "github.com/vendora/backend/internal/application/identity"
	orderapp "github.com/vendora/backend/internal/application/order"
	reviewapp "github.com/vendora/backend/internal/application/review"
	"github.com/vendora/backend/internal/infrastructure/auth"
	"github.com/vendora/backend/internal/infrastructure/config"
	"github.com/vendora/backend/internal/infrastructure/logger"
	"github.com/vendora/backend/internal/infrastructure/persistence"
	"github.com/vendora/backend/internal/interfaces/http/handler"
	"github.com/vendora/backend/internal/interfaces/http/middleware"
	"github.com/vendora/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(zapLogger)

	zapLogger.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(zapLogger, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	reviewTxScope := persistence.NewGormReviewTransactionScope(db.DB)
	orderTxScope := persistence.NewGormOrderTransactionScope(db.DB)

	// Auth infrastructure. Redis backs the token blacklist when
	// reachable; otherwise logout revocation is process-local.
	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zapLogger.Warn("redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, hasher, jwtService, blacklist)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, reviewRepo, orderRepo)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, orderRepo, reviewTxScope)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	orderService := orderapp.NewOrderService(orderRepo, orderTxScope)

	// HTTP engine and middleware stack
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			zapLogger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(zapLogger),
		logger.GinMiddleware(zapLogger),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     zapLogger,
	})

	r := router.NewRouter(engine,
		router.WithAuthMiddleware(authMiddleware),
		router.WithAdminMiddleware(middleware.RequireAdmin()),
	)
	r.Register(handler.NewSystemHandler(db)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewCategoryHandler(categoryService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewReviewHandler(reviewService)).
		Register(handler.NewCartHandler(cartService)).
		Register(handler.NewOrderHandler(orderService))
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
		zapLogger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("forced shutdown", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
