package rest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pagemill/deploy-engine/internal/store/schema"
	"github.com/pagemill/deploy-engine/internal/webhook"
)

const (
	defaultRetryMaxAttempts = 5
	maxRetryMaxAttempts     = 10

	defaultDeploymentsLimit = 20
	maxDeploymentsLimit     = 100
)

// CreateWebhookClientRequest represents the request body for registering an
// outgoing webhook client
type CreateWebhookClientRequest struct {
	WebhookURL       string   `json:"webhook_url"`
	ProjectID        *string  `json:"project_id,omitempty"`
	EventFilters     []string `json:"event_filters"`
	RetryMaxAttempts *int     `json:"retry_max_attempts,omitempty"`
}

// Validate validates the request body
func (r *CreateWebhookClientRequest) Validate(debug bool) error {
	// Validate: webhook URL must be provided
	if r.WebhookURL == "" {
		return fmt.Errorf("webhook_url is required")
	}

	// Validate: webhook URL must be valid; HTTPS is required outside debug
	u, err := url.Parse(r.WebhookURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("webhook_url must be a valid URL")
	}
	if !debug && u.Scheme != "https" {
		return fmt.Errorf("webhook_url must be a valid HTTPS URL")
	}

	// Validate: event filters must be provided
	if len(r.EventFilters) == 0 {
		return fmt.Errorf("event_filters is required and must not be empty")
	}

	// Validate: each event filter must be supported
	for _, eventType := range r.EventFilters {
		if !webhook.IsValidEventType(eventType) {
			return fmt.Errorf("unsupported event type: %s. Supported types: %v", eventType, webhook.SupportedEventTypes)
		}
	}

	// Validate: retry_max_attempts must be valid if provided
	if r.RetryMaxAttempts != nil {
		if *r.RetryMaxAttempts < 0 || *r.RetryMaxAttempts > maxRetryMaxAttempts {
			return fmt.Errorf("retry_max_attempts must be between 0 and %d", maxRetryMaxAttempts)
		}
	}

	return nil
}

// CreateWebhookClientResponse represents the response for registering a
// webhook client. The secret is only returned here, at creation time.
type CreateWebhookClientResponse struct {
	ClientID         string    `json:"client_id"`
	ProjectID        *string   `json:"project_id,omitempty"`
	WebhookURL       string    `json:"webhook_url"`
	WebhookSecret    string    `json:"webhook_secret"`
	EventFilters     []string  `json:"event_filters"`
	IsActive         bool      `json:"is_active"`
	RetryMaxAttempts int       `json:"retry_max_attempts"`
	CreatedAt        time.Time `json:"created_at"`
}

// GitEventResponse represents a provider webhook event
type GitEventResponse struct {
	ID            string          `json:"id"`
	DeliveryID    string          `json:"delivery_id"`
	EventType     string          `json:"event_type"`
	RepoFullName  string          `json:"repo_full_name,omitempty"`
	ProjectID     *string         `json:"project_id,omitempty"`
	Status        string          `json:"status"`
	SkipReason    string          `json:"skip_reason,omitempty"`
	Logs          json.RawMessage `json:"logs"`
	TriggeredJobs json.RawMessage `json:"triggered_jobs"`
	Result        string          `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`
}

// MapGitEventToDTO converts a stored provider event to its API representation
func MapGitEventToDTO(e *schema.GitEvent) *GitEventResponse {
	return &GitEventResponse{
		ID:            e.ID,
		DeliveryID:    e.DeliveryID,
		EventType:     e.EventType,
		RepoFullName:  e.RepoFullName,
		ProjectID:     e.ProjectID,
		Status:        string(e.Status),
		SkipReason:    e.SkipReason,
		Logs:          json.RawMessage(e.Logs),
		TriggeredJobs: json.RawMessage(e.TriggeredJobs),
		Result:        e.Result,
		Error:         e.Error,
		ReceivedAt:    e.ReceivedAt,
		FinalizedAt:   e.FinalizedAt,
	}
}

// WebhookEventResponse represents a project webhook event
type WebhookEventResponse struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	Method        string          `json:"method"`
	IP            string          `json:"ip,omitempty"`
	Status        string          `json:"status"`
	Logs          json.RawMessage `json:"logs"`
	TriggeredJobs json.RawMessage `json:"triggered_jobs"`
	Result        string          `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`
}

// MapWebhookEventToDTO converts a stored project webhook event to its API
// representation. Request headers and body are retained in the store for
// debugging but not exposed here.
func MapWebhookEventToDTO(e *schema.WebhookEvent) *WebhookEventResponse {
	return &WebhookEventResponse{
		ID:            e.ID,
		ProjectID:     e.ProjectID,
		Method:        e.Method,
		IP:            e.IP,
		Status:        string(e.Status),
		Logs:          json.RawMessage(e.Logs),
		TriggeredJobs: json.RawMessage(e.TriggeredJobs),
		Result:        e.Result,
		Error:         e.Error,
		ReceivedAt:    e.ReceivedAt,
		FinalizedAt:   e.FinalizedAt,
	}
}

// JobResponse represents a job
type JobResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	ProjectID   string          `json:"project_id"`
	Status      string          `json:"status"`
	Output      json.RawMessage `json:"output,omitempty"`
	Error       string          `json:"error,omitempty"`
	Logs        json.RawMessage `json:"logs"`
	DurationMS  *int64          `json:"duration_ms,omitempty"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MapJobToDTO converts a stored job to its API representation. The job input
// carries repository credentials and is never exposed.
func MapJobToDTO(j *schema.Job) *JobResponse {
	return &JobResponse{
		ID:          j.ID,
		Type:        j.Type,
		ProjectID:   j.ProjectID,
		Status:      string(j.Status),
		Output:      json.RawMessage(j.Output),
		Error:       j.Error,
		Logs:        json.RawMessage(j.Logs),
		DurationMS:  j.DurationMS,
		ProcessedAt: j.ProcessedAt,
		CompletedAt: j.CompletedAt,
		CreatedAt:   j.CreatedAt,
	}
}

// DeploymentResponse represents a deployment
type DeploymentResponse struct {
	JobID         string    `json:"job_id"`
	ProjectID     string    `json:"project_id"`
	Status        string    `json:"status"`
	Branch        string    `json:"branch,omitempty"`
	Commit        string    `json:"commit,omitempty"`
	CommitMessage string    `json:"commit_message,omitempty"`
	PageCount     int       `json:"page_count"`
	FileCount     int       `json:"file_count"`
	BuildTimeMS   int64     `json:"build_time_ms"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MapDeploymentToDTO converts a stored deployment to its API representation
func MapDeploymentToDTO(d *schema.Deployment) *DeploymentResponse {
	return &DeploymentResponse{
		JobID:         d.JobID,
		ProjectID:     d.ProjectID,
		Status:        string(d.Status),
		Branch:        d.Branch,
		Commit:        d.Commit,
		CommitMessage: d.CommitMessage,
		PageCount:     d.PageCount,
		FileCount:     d.FileCount,
		BuildTimeMS:   d.BuildTimeMS,
		Error:         d.Error,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ListDeploymentsResponse is the paginated deployments listing
type ListDeploymentsResponse struct {
	Deployments []*DeploymentResponse `json:"deployments"`
	Total       int64                 `json:"total"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
}
