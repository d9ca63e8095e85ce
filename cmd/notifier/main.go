package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/config"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/notifier"
	"github.com/pagemill/deploy-engine/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadNotifierConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "notifier",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting deploy engine notifier")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	// Connect to NATS JetStream
	opts := []nats.Option{
		nats.Name(cfg.NATS.ConnectionName),
		nats.MaxReconnects(cfg.NATS.MaxReconnects),
		nats.ReconnectWait(cfg.NATS.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
	nc, js, err := adapter.NewNatsJetStream().Connect(cfg.NATS.URL, opts...)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
	}
	defer nc.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))

	// Assemble the delivery pipeline
	requestTimeout := cfg.Delivery.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	deliverer := notifier.NewDeliverer(
		notifier.DelivererConfig{
			PoolSize:        cfg.Delivery.PoolSize,
			QueueSize:       cfg.Delivery.QueueSize,
			InitialInterval: cfg.Delivery.InitialInterval,
			MaxAttempts:     cfg.Delivery.MaxAttempts,
			ChatWebhookURL:  cfg.Notify.ChatWebhookURL,
		},
		dataStore,
		adapter.NewHTTPClient(requestTimeout),
		adapter.NewClock(),
	)
	consumer := notifier.NewConsumer(
		notifier.ConsumerConfig{
			StreamName:   cfg.NATS.StreamName,
			ConsumerName: cfg.NATS.ConsumerName,
			AckWait:      cfg.NATS.AckWait,
			MaxDeliver:   cfg.NATS.MaxDeliver,
		},
		js,
		adapter.NewJSON(),
		deliverer,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Run(ctx)
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			logger.Error(err, zap.String("component", "consumer"))
		}
	}

	// Flush in-flight deliveries before exiting
	deliverer.StopAndWait()

	logger.Info("Notifier stopped")
}
