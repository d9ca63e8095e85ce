package notifier

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
	"github.com/pagemill/deploy-engine/internal/webhook"
)

const (
	// DEFAULT_POOL_SIZE is the default number of concurrent delivery workers
	DEFAULT_POOL_SIZE = 10
	// DEFAULT_QUEUE_SIZE is the default delivery queue capacity
	DEFAULT_QUEUE_SIZE = 256
	// DEFAULT_INITIAL_INTERVAL is the default first retry delay
	DEFAULT_INITIAL_INTERVAL = 5 * time.Second
	// DEFAULT_MAX_ATTEMPTS is the attempt budget for clients without one
	DEFAULT_MAX_ATTEMPTS = 5

	// maxResponseBody caps stored client response bodies
	maxResponseBody = 4 * 1024
)

// DelivererConfig holds the deliverer configuration
type DelivererConfig struct {
	PoolSize        int
	QueueSize       int
	InitialInterval time.Duration
	// MaxAttempts is the fallback attempt budget for clients that do not
	// configure their own.
	MaxAttempts int
	// ChatWebhookURL receives human-readable deployment notifications.
	// Empty disables chat notification.
	ChatWebhookURL string
}

// Deliverer fans a deployment event out to every matching webhook client,
// signing each payload, and posts the chat notification
type Deliverer struct {
	config DelivererConfig
	store  store.Store
	http   adapter.HTTPClient
	clock  adapter.Clock
	pool   pond.Pool
}

// NewDeliverer creates a deliverer with its worker pool started
func NewDeliverer(cfg DelivererConfig, st store.Store, http adapter.HTTPClient, clock adapter.Clock) *Deliverer {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DEFAULT_POOL_SIZE
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DEFAULT_QUEUE_SIZE
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DEFAULT_INITIAL_INTERVAL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}

	return &Deliverer{
		config: cfg,
		store:  st,
		http:   http,
		clock:  clock,
		pool:   pond.NewPool(cfg.PoolSize, pond.WithQueueSize(cfg.QueueSize)),
	}
}

// Deliver schedules delivery of one deployment event to all matching clients
// and to the chat channel. Returns an error only when the client lookup
// fails; individual delivery failures are recorded per delivery row.
func (d *Deliverer) Deliver(ctx context.Context, event *webhook.Event) error {
	clients, err := d.store.GetActiveWebhookClientsByEvent(ctx, event.EventType, event.Data.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to get webhook clients: %w", err)
	}

	logger.InfoCtx(ctx, "Delivering deployment event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.Int("clients", len(clients)))

	for _, client := range clients {
		client := client
		d.pool.Submit(func() {
			d.deliverToClient(ctx, client, event)
		})
	}

	if d.config.ChatWebhookURL != "" {
		d.pool.Submit(func() {
			d.notifyChat(ctx, event)
		})
	}

	return nil
}

// StopAndWait drains the worker pool
func (d *Deliverer) StopAndWait() {
	logger.Info("Shutting down delivery worker pool",
		zap.Uint64("submitted", d.pool.SubmittedTasks()),
		zap.Uint64("waiting", d.pool.WaitingTasks()),
		zap.Uint64("failed", d.pool.FailedTasks()))
	d.pool.StopAndWait()
}

// deliverToClient signs and posts one event to one client, retrying with
// exponential backoff up to the client's configured attempt budget. Every
// outcome is recorded on the delivery row.
func (d *Deliverer) deliverToClient(ctx context.Context, client *schema.WebhookClient, event *webhook.Event) {
	payload, signature, timestamp, err := webhook.GenerateSignedPayload(client.WebhookSecret, *event, d.clock.Now())
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to generate signed payload: %w", err),
			zap.String("client_id", client.ClientID),
			zap.String("event_id", event.EventID))
		return
	}

	deliveryID, err := d.store.CreateWebhookDelivery(ctx, &schema.WebhookDelivery{
		ClientID:       client.ClientID,
		EventID:        event.EventID,
		EventType:      event.EventType,
		Payload:        datatypes.JSON(payload),
		DeliveryStatus: schema.WebhookDeliveryStatusPending,
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to create webhook delivery record: %w", err),
			zap.String("client_id", client.ClientID),
			zap.String("event_id", event.EventID))
		return
	}

	headers := map[string]string{
		"Content-Type":         "application/json",
		"X-Webhook-Signature":  signature,
		"X-Webhook-Event-ID":   event.EventID,
		"X-Webhook-Event-Type": event.EventType,
		"X-Webhook-Timestamp":  fmt.Sprintf("%d", timestamp),
		"User-Agent":           "Deploy-Engine-Webhook/1.0",
	}

	attempts := 0
	var lastResult webhook.DeliveryResult

	operation := func() error {
		attempts++
		result, err := d.attempt(ctx, client.WebhookURL, headers, payload)
		lastResult = result
		d.recordAttempt(ctx, deliveryID, attempts, result)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.config.InitialInterval

	maxAttempts := client.RetryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = d.config.MaxAttempts
	}

	err = backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(maxAttempts-1)), ctx))
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("webhook delivery exhausted retries: %w", err),
			zap.String("client_id", client.ClientID),
			zap.String("event_id", event.EventID),
			zap.Int("attempts", attempts),
			zap.Int("status_code", lastResult.StatusCode))
		return
	}

	logger.InfoCtx(ctx, "Webhook delivered",
		zap.String("client_id", client.ClientID),
		zap.String("event_id", event.EventID),
		zap.Int("attempts", attempts),
		zap.Int("status_code", lastResult.StatusCode))
}

// attempt performs a single delivery POST
func (d *Deliverer) attempt(ctx context.Context, url string, headers map[string]string, payload []byte) (webhook.DeliveryResult, error) {
	resp, err := d.http.Post(ctx, url, headers, bytes.NewReader(payload))
	if err != nil {
		return webhook.DeliveryResult{Error: err.Error()}, err
	}

	body := resp.Body
	if len(body) > maxResponseBody {
		body = body[:maxResponseBody]
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("HTTP %d", resp.StatusCode)
		return webhook.DeliveryResult{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Error:      err.Error(),
		}, err
	}

	return webhook.DeliveryResult{
		Success:    true,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

// recordAttempt persists the outcome of one attempt on the delivery row
func (d *Deliverer) recordAttempt(ctx context.Context, deliveryID uint64, attempts int, result webhook.DeliveryResult) {
	status := schema.WebhookDeliveryStatusFailed
	if result.Success {
		status = schema.WebhookDeliveryStatusSuccess
	}

	input := store.UpdateWebhookDeliveryInput{
		DeliveryID:   deliveryID,
		Status:       status,
		Attempts:     attempts,
		ResponseBody: result.Body,
		ErrorMessage: result.Error,
		At:           d.clock.Now().UTC(),
	}
	if result.StatusCode != 0 {
		statusCode := result.StatusCode
		input.ResponseStatus = &statusCode
	}

	if err := d.store.UpdateWebhookDelivery(ctx, input); err != nil {
		logger.WarnCtx(ctx, "failed to update webhook delivery status",
			zap.Error(err),
			zap.Uint64("delivery_id", deliveryID))
	}
}

// chatMessage is the payload posted to the chat webhook
type chatMessage struct {
	Text string `json:"text"`
}

// notifyChat posts a human-readable deployment status message. Failures are
// logged and never retried; chat notification is best-effort.
func (d *Deliverer) notifyChat(ctx context.Context, event *webhook.Event) {
	var text string
	if event.EventType == webhook.EventTypeDeploymentCompleted {
		text = fmt.Sprintf("Deployment succeeded: %s (branch %s, job %s, %d pages)",
			event.Data.ProjectSlug, event.Data.Branch, event.Data.JobID, event.Data.PageCount)
	} else {
		text = fmt.Sprintf("Deployment failed: %s (branch %s, job %s): %s",
			event.Data.ProjectSlug, event.Data.Branch, event.Data.JobID, event.Data.Error)
	}

	err := d.http.PostJSON(ctx, d.config.ChatWebhookURL, nil, chatMessage{Text: text}, nil)
	if err != nil {
		logger.WarnCtx(ctx, "failed to post chat notification",
			zap.Error(err),
			zap.String("event_id", event.EventID))
	}
}
