package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "petonrent-backend/internal/api/grpc"
	httpapi "petonrent-backend/internal/api/http"
	"petonrent-backend/internal/config"
	"petonrent-backend/internal/gateway"
	"petonrent-backend/internal/lock"
	"petonrent-backend/internal/logger"
	"petonrent-backend/internal/pricing"
	"petonrent-backend/internal/repository/postgres"
	"petonrent-backend/internal/security"
	"petonrent-backend/internal/service"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PetOnRent checkout backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Gateway configuration", "base_url", cfg.Gateway.BaseURL, "key_id", logger.Mask(cfg.Gateway.KeyID), "currency", cfg.Gateway.Currency)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	if cfg.Database.RunMigrations {
		if err := store.RunMigrations(); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Database migrations applied")
	}

	// Initialize verification lock
	var locker lock.Locker = lock.NopLocker{}
	healthChecks := map[string]httpapi.PingFunc{"database": store.Ping}
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid Redis URL: %v", err)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL())
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("Payment verification lock enabled", "redis", opt.Addr)
	} else {
		logger.Warn("REDIS_URL not set, payment verification lock disabled")
	}

	// Initialize payment gateway
	gw := gateway.NewRazorpayClient(gateway.Config{
		BaseURL:         cfg.Gateway.BaseURL,
		KeyID:           cfg.Gateway.KeyID,
		KeySecret:       cfg.Gateway.KeySecret,
		MaxAmountMinor:  cfg.Gateway.MaxAmountMinor,
		Timeout:         cfg.Gateway.Timeout(),
		BreakerFailures: cfg.Gateway.BreakerFailures,
		BreakerOpenFor:  cfg.Gateway.BreakerOpenFor(),
	})

	// Initialize Email Service
	var notifier service.Notifier
	if cfg.SendGrid.APIKey != "" {
		notifier = service.NewSendGridNotifier(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, cfg.SendGrid.AdminEmail)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, emails disabled")
		notifier = service.NewNopNotifier()
	}

	// Initialize Services
	coupons := pricing.NewCouponBook(cfg.Coupons)
	checkoutSvc := service.NewCheckoutService(coupons)
	orderSvc := service.NewOrderService(store.OrderRepository, coupons, notifier, cfg.Gateway.Currency)
	paymentSvc := service.NewPaymentService(store.OrderRepository, gw, locker, notifier, service.PaymentConfig{
		KeyID:         cfg.Gateway.KeyID,
		KeySecret:     cfg.Gateway.KeySecret,
		WebhookSecret: cfg.Gateway.WebhookSecret,
		Currency:      cfg.Gateway.Currency,
	})

	// Initialize HTTP handlers
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:    httpapi.NewAuthMiddleware(tokenManager),
		Orders:  httpapi.NewOrderHandler(orderSvc),
		Payment: httpapi.NewPaymentHandler(paymentSvc),
		Cart:    httpapi.NewCartHandler(checkoutSvc),
		Health:  httpapi.NewHealthHandler(healthChecks),
	}, cfg.Server.ClientURL)

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up gRPC health server on the side port
	monitor := grpcapi.NewHealthMonitor(store, 15*time.Second)
	grpcServer := monitor.NewServer()
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	go monitor.Run(ctx)
	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}
