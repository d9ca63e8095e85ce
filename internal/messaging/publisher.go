package messaging

import (
	"context"

	"github.com/pagemill/deploy-engine/internal/webhook"
)

// Publisher defines the interface for publishing deployment events to the
// message broker. The API server publishes; the notifier worker consumes.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishDeploymentEvent publishes a terminal deployment event
	PublishDeploymentEvent(ctx context.Context, event *webhook.Event) error
	// Close closes the connection
	Close()
}
