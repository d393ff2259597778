package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/gateway"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/discovery"
	grpcserver "github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/grpc"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/logging"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/metrics"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/notifier"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the YAML config file")
	flag.Parse()

	// Load config
	path := *configPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	loc, _ := cfg.Business.Location()

	logger.Info("Starting Fresh Bread API",
		zap.String("name", cfg.Server.Name),
		zap.String("address", cfg.Server.Address()),
		zap.String("database", cfg.Database.Driver),
		zap.String("timezone", loc.String()))

	ctx := context.Background()

	// Relational store
	db, err := repository.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to access database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	orderRepository := repository.NewOrderRepository(logger, db)
	revenueLedger := repository.NewRevenueLedger(logger, db)
	contentRepository := repository.NewContentRepository(logger, db)
	adminRepository := repository.NewAdminRepository(logger, db)

	if err := contentRepository.Seed(ctx, models.DefaultContent); err != nil {
		logger.Fatal("Failed to seed site content", zap.Error(err))
	}

	// Optional content cache
	cache := repository.NoopContentCache()
	if cfg.Redis.Addr != "" {
		rdb := repository.NewRedisRepository(&cfg.Redis)
		if err := rdb.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed, continuing without content cache", zap.Error(err))
			rdb.Close()
		} else {
			logger.Info("Redis connected successfully")
			defer rdb.Close()
			cache = rdb
		}
	}

	// Optional audit log
	audit := repository.NoopAuditRecorder()
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			logger.Warn("MongoDB connection failed, continuing without audit log", zap.Error(err))
		} else if err := mongoRepo.Ping(ctx); err != nil {
			logger.Warn("MongoDB ping failed, continuing without audit log", zap.Error(err))
			mongoRepo.Close(ctx)
		} else {
			logger.Info("MongoDB connected successfully")
			defer mongoRepo.Close(context.Background())
			audit = mongoRepo
		}
	}

	reg := metrics.NewRegistry()

	orderNotifier, dispatcher := newOrderNotifier(cfg, loc, logger, reg)

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = uuid.NewString() + uuid.NewString()
		logger.Warn("auth.jwt_secret not set, using a random secret; tokens will not survive a restart")
	}

	orderService := service.NewOrderService(service.OrderServiceProperty{
		Logger:            logger,
		OrderRepository:   orderRepository,
		RevenueLedger:     revenueLedger,
		Notifier:          orderNotifier,
		Audit:             audit,
		Metrics:           reg,
		Location:          loc,
		StrictTransitions: cfg.Orders.StrictTransitions,
		DefaultLimit:      cfg.Orders.DefaultLimit,
	})
	contentService := service.NewContentService(service.ContentServiceProperty{
		Logger:            logger,
		ContentRepository: contentRepository,
		Cache:             cache,
	})
	authService := service.NewAuthService(service.AuthServiceProperty{
		Logger:          logger,
		AdminRepository: adminRepository,
		JWTSecret:       jwtSecret,
		JWTExpire:       cfg.Auth.JWTExpire,
	})

	if err := authService.EnsureDefaultAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("Failed to provision admin account", zap.Error(err))
	}

	// Create gateway
	gw := gateway.NewGateway(gateway.GatewayProperty{
		Config:         cfg,
		Logger:         logger,
		Metrics:        reg,
		OrderService:   orderService,
		ContentService: contentService,
		AuthService:    authService,
	})
	gw.SetupRoutes()

	serverErr := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- err
		}
	}()

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()

	var healthServer *grpcserver.HealthServer
	if cfg.Server.GRPCPort > 0 {
		healthServer = grpcserver.NewHealthServer(sqlDB, logger)
		go func() {
			if err := healthServer.Start(healthCtx, cfg.Server.Host, cfg.Server.GRPCPort); err != nil {
				serverErr <- err
			}
		}()
	}

	// Register in etcd so pollers can find the API
	var (
		sd       *discovery.ServiceDiscovery
		instance = &discovery.ServiceInstance{
			Name: cfg.Server.Name,
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
		}
	)
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, logger)
		if err != nil {
			logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else {
			regCtx, cancel := context.WithTimeout(ctx, cfg.Etcd.DialTimeout)
			if err := sd.Register(regCtx, instance); err != nil {
				logger.Warn("Failed to register service", zap.Error(err))
			} else {
				logger.Info("Service registered in etcd",
					zap.String("name", instance.Name),
					zap.String("address", instance.Address()))
			}
			cancel()
		}
	}

	logger.Info("Fresh Bread API started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			logger.Warn("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}

	if err := gw.Shutdown(shutdownCtx); err != nil {
		logger.Error("Gateway shutdown failed", zap.Error(err))
	}
	if healthServer != nil {
		healthServer.Stop()
	}

	if dispatcher != nil {
		if err := dispatcher.Close(); err != nil {
			logger.Warn("Notification dispatcher did not stop cleanly", zap.Error(err))
		}
	}

	logger.Info("Fresh Bread API stopped")
}

// newOrderNotifier builds the owner notification path. Email runs on an
// actor so order placement never waits on SMTP; without email credentials
// orders are not announced and no dispatcher is started.
func newOrderNotifier(cfg *config.Config, loc *time.Location, logger *zap.Logger, reg *metrics.Registry) (notifier.Notifier, *notifier.Dispatcher) {
	if !cfg.Email.Enabled() {
		logger.Warn("Email credentials not configured, order notifications disabled")
		return notifier.Null{}, nil
	}

	transport := notifier.NewSMTPTransport(cfg.Email, cfg.Business.Name)
	email := notifier.NewEmail(transport, cfg.Email.Recipient(), cfg.Business.Name, loc)
	logger.Info("Email notifications enabled", zap.String("recipient", cfg.Email.Recipient()))

	dispatcher := notifier.NewDispatcher(logger, email, reg.NotificationOutcome)
	return dispatcher, dispatcher
}
