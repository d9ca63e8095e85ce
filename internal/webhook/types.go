package webhook

import "time"

// Event type constants
const (
	// EventTypeDeploymentCompleted is fired when a deployment job finishes
	// successfully and the deployment record has been materialized
	EventTypeDeploymentCompleted = "deployment.completed"

	// EventTypeDeploymentFailed is fired when a deployment job ends in failure
	EventTypeDeploymentFailed = "deployment.failed"

	// EventTypeWildcard is a special filter that matches all event types
	EventTypeWildcard = "*"
)

// SupportedEventTypes lists the event types a client may subscribe to
var SupportedEventTypes = []string{
	EventTypeDeploymentCompleted,
	EventTypeDeploymentFailed,
	EventTypeWildcard,
}

// IsValidEventType checks whether eventType is a supported filter value
func IsValidEventType(eventType string) bool {
	for _, t := range SupportedEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

// Event represents a webhook event to be delivered to clients
type Event struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the type of event (e.g., "deployment.completed")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data contains the event-specific payload
	Data DeploymentData `json:"data"`
}

// DeploymentData contains the deployment event payload
type DeploymentData struct {
	// ProjectID is the project the deployment belongs to
	ProjectID string `json:"project_id"`
	// ProjectSlug is the project's URL slug
	ProjectSlug string `json:"project_slug"`
	// JobID is the job that produced this deployment
	JobID string `json:"job_id"`
	// Status is the terminal deployment status ("completed" or "failed")
	Status string `json:"status"`
	// Branch is the branch that was deployed
	Branch string `json:"branch"`
	// Commit is the deployed commit SHA
	Commit string `json:"commit,omitempty"`
	// CommitMessage is the head commit message, if known
	CommitMessage string `json:"commit_message,omitempty"`
	// PageCount is the number of pages rendered
	PageCount int `json:"page_count,omitempty"`
	// FileCount is the number of files published
	FileCount int `json:"file_count,omitempty"`
	// BuildTimeMS is the build duration in milliseconds
	BuildTimeMS int64 `json:"build_time_ms,omitempty"`
	// Active indicates whether this deployment became the active revision
	Active bool `json:"active"`
	// Error contains failure details when Status is "failed"
	Error string `json:"error,omitempty"`
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Error contains error details if delivery failed
	Error string
}
