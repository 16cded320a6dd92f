package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	handlers "github.com/wekeepgrowing/charge-orchestrator/internal/adapter/handler/http"
	"github.com/wekeepgrowing/charge-orchestrator/internal/config"
	"github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/http"
	"github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/metrics"
	stripeProvider "github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/scheduler"
	"github.com/wekeepgrowing/charge-orchestrator/internal/usecase"
	"github.com/wekeepgrowing/charge-orchestrator/pkg/logger"
	"github.com/wekeepgrowing/charge-orchestrator/pkg/messaging"
	"go.uber.org/zap"
)

const (
	shutdownTimeout         = 15 * time.Second
	defaultSchedulerTimeout = 4 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting charge service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version),
		zap.String("mode", cfg.Stripe.Mode()))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	encryption, err := crypto.NewAESEncryptionService(cfg.Service.EncryptionKey)
	if err != nil {
		zapLogger.Fatal("Failed to initialize wallet encryption", zap.Error(err))
	}

	repos := database.NewRepositories(db, encryption, cfg.Stripe.Mode(), zapLogger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hostname, _ := os.Hostname()
	processorMetrics := metrics.NewProcessorCollectors(registry, cfg.Service.Name, hostname)

	// Processor client
	processor := metrics.NewInstrumentedProcessor(
		stripeProvider.NewStripeProvider(stripeProvider.Config{
			SecretKey:  cfg.Stripe.SecretKey(),
			APIURL:     cfg.Stripe.APIURL,
			Timeout:    cfg.Stripe.Timeout,
			MaxRetries: cfg.Stripe.MaxRetries,
		}, zapLogger),
		processorMetrics,
	)

	opts := []usecase.ChargeOption{
		usecase.WithExtensions(usecase.OrderMetadataExtension),
	}
	if cfg.Redis.Enabled {
		publisher, err := messaging.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer publisher.Close()
		opts = append(opts, usecase.WithEventPublisher(publisher))
	}

	chargeService, err := usecase.NewChargeService(usecase.ChargeServiceConfig{
		StoreName:           cfg.Store.Name,
		Currency:            cfg.Store.ChargeCurrency(),
		DescriptionTemplate: cfg.Store.DescriptionTemplate,
		ClientURL:           cfg.Service.ClientURL,
		EventChannel:        cfg.Redis.Channel,
	}, repos.CustomerRecord, repos.OrderLedger, processor, zapLogger, opts...)
	if err != nil {
		zapLogger.Fatal("Failed to initialize charge service", zap.Error(err))
	}
	walletService := usecase.NewWalletService(repos.CustomerRecord, processor, cfg.Stripe.Mode(), zapLogger)

	// Renewal scheduler
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		timeout := cfg.Scheduler.Timeout
		if timeout <= 0 {
			timeout = defaultSchedulerTimeout
		}
		cronScheduler = scheduler.NewScheduler(zapLogger)
		job := scheduler.NewRenewalJob(repos.Renewals, repos.OrderLedger, chargeService, cfg.Scheduler.BatchSize, zapLogger)
		if _, err := cronScheduler.Register(cfg.Scheduler.Spec, job, timeout); err != nil {
			zapLogger.Fatal("Failed to schedule renewals", zap.String("spec", cfg.Scheduler.Spec), zap.Error(err))
		}
		cronScheduler.Start()
	}

	// Initialize servers
	grpcSrv := grpcServer.NewServer(
		grpcServer.WithAddress(cfg.Server.GRPC.Host, cfg.Server.GRPC.Port),
		grpcServer.WithLogger(zapLogger),
	)
	httpSrv := httpServer.NewServer(cfg, zapLogger, httpServer.Handlers{
		Checkout: handlers.NewCheckoutHandler(chargeService, walletService, repos.OrderLedger, zapLogger),
		Cards:    handlers.NewCardHandler(walletService, zapLogger),
		Orders:   handlers.NewOrderHandler(chargeService, repos.OrderLedger, zapLogger),
	}, registry)

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if cronScheduler != nil {
		if err := cronScheduler.Stop(ctx); err != nil {
			zapLogger.Error("Failed to stop scheduler", zap.Error(err))
		}
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
