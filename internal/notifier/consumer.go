package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/webhook"
)

const (
	// DEFAULT_ACK_WAIT is the default redelivery window for unacked messages
	DEFAULT_ACK_WAIT = 30 * time.Second
	// DEFAULT_MAX_DELIVER caps redeliveries of a poisoned message
	DEFAULT_MAX_DELIVER = 5
)

// deploymentSubjects matches every deployment event regardless of outcome
// and project
const deploymentSubjects = "deployments.>"

// ConsumerConfig holds the consumer configuration
type ConsumerConfig struct {
	StreamName   string
	ConsumerName string
	AckWait      time.Duration
	MaxDeliver   int
}

// EventDeliverer hands a decoded deployment event to the delivery layer
//
//go:generate mockgen -source=consumer.go -destination=../mocks/event_deliverer.go -package=mocks -mock_names=EventDeliverer=MockEventDeliverer
type EventDeliverer interface {
	Deliver(ctx context.Context, event *webhook.Event) error
}

// Consumer reads deployment events from JetStream and fans them out
type Consumer struct {
	config    ConsumerConfig
	js        adapter.JetStream
	json      adapter.JSON
	deliverer EventDeliverer
}

// NewConsumer creates a deployment event consumer
func NewConsumer(cfg ConsumerConfig, js adapter.JetStream, json adapter.JSON, deliverer EventDeliverer) *Consumer {
	if cfg.AckWait <= 0 {
		cfg.AckWait = DEFAULT_ACK_WAIT
	}
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = DEFAULT_MAX_DELIVER
	}

	return &Consumer{
		config:    cfg,
		js:        js,
		json:      json,
		deliverer: deliverer,
	}
}

// Run consumes deployment events until the context is canceled
func (c *Consumer) Run(ctx context.Context) error {
	logger.Info("Starting deployment event consumer",
		zap.String("stream", c.config.StreamName),
		zap.String("consumer", c.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWait,
		MaxDeliver:    c.config.MaxDeliver,
		FilterSubject: deploymentSubjects,
	}

	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	sub, err := consumer.Consume(func(msg adapter.Message) {
		c.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming deployment events")

	<-ctx.Done()
	logger.Info("Shutting down deployment event consumer")
	return ctx.Err()
}

// handleMessage decodes and delivers one deployment event. Unparseable
// messages are terminated; delivery lookup failures are NAKed for redelivery.
func (c *Consumer) handleMessage(ctx context.Context, msg adapter.Message) {
	var event webhook.Event
	if err := c.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal deployment event"),
			zap.String("subject", msg.Subject()))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	logger.Info("Received deployment event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("project_id", event.Data.ProjectID))

	if err := c.deliverer.Deliver(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to deliver deployment event"),
			zap.String("event_id", event.EventID))
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}
