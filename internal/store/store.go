package store

import (
	"context"
	"time"

	"github.com/pagemill/deploy-engine/internal/store/schema"
)

// FinalizeGitEventInput carries the terminal status write for a git event
type FinalizeGitEventInput struct {
	EventID    string
	Status     schema.GitEventStatus
	SkipReason string
	Result     string
	Error      string
	At         time.Time
}

// FinalizeWebhookEventInput carries the terminal status write for a project
// webhook event
type FinalizeWebhookEventInput struct {
	EventID string
	Status  schema.WebhookEventStatus
	Result  string
	Error   string
	At      time.Time
}

// CompleteJobInput carries a terminal job transition
type CompleteJobInput struct {
	JobID       string
	Status      schema.JobStatus
	Output      []byte
	Error       string
	DurationMS  *int64
	ProcessedAt *time.Time
	At          time.Time
}

// UpdateWebhookDeliveryInput carries the outcome of a delivery attempt
type UpdateWebhookDeliveryInput struct {
	DeliveryID     uint64
	Status         schema.WebhookDeliveryStatus
	Attempts       int
	ResponseStatus *int
	ResponseBody   string
	ErrorMessage   string
	At             time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetProjectByID retrieves a project by its ID
	GetProjectByID(ctx context.Context, id string) (*schema.Project, error)
	// GetProjectByRepo retrieves the project connected to a repository
	GetProjectByRepo(ctx context.Context, repoFullName string) (*schema.Project, error)
	// AdvanceActiveRev conditionally sets the project's active revision to
	// jobID. The update applies only when the project has no active revision
	// yet or the current one's ULID (creation time) is older than jobID's.
	// Returns whether the revision advanced.
	AdvanceActiveRev(ctx context.Context, projectID string, jobID string) (bool, error)

	// GetEndpointByToken retrieves an active webhook endpoint by its opaque token
	GetEndpointByToken(ctx context.Context, token string) (*schema.WebhookEndpoint, error)
	// TouchEndpointUsage increments the endpoint call counter and stamps last use
	TouchEndpointUsage(ctx context.Context, endpointID uint64, at time.Time) error

	// CreateWebhookEvent records an inbound project webhook delivery
	CreateWebhookEvent(ctx context.Context, event *schema.WebhookEvent) error
	// GetWebhookEvent retrieves a project webhook event by ID
	GetWebhookEvent(ctx context.Context, id string) (*schema.WebhookEvent, error)
	// AppendWebhookEventLog appends a log line to an event (append-only)
	AppendWebhookEventLog(ctx context.Context, id string, entry schema.LogEntry) error
	// AppendWebhookEventJob appends a triggered-job reference to an event
	AppendWebhookEventJob(ctx context.Context, id string, job schema.TriggeredJob) error
	// FinalizeWebhookEvent writes the terminal status. The write is
	// conditional on the event still being in processing; returns whether
	// this call performed the transition.
	FinalizeWebhookEvent(ctx context.Context, input FinalizeWebhookEventInput) (bool, error)

	// CreateGitEvent records an inbound provider webhook delivery
	CreateGitEvent(ctx context.Context, event *schema.GitEvent) error
	// GetGitEvent retrieves a provider webhook event by ID
	GetGitEvent(ctx context.Context, id string) (*schema.GitEvent, error)
	// SetGitEventProject backfills the repository and resolved project onto
	// a git event once resolution succeeds
	SetGitEventProject(ctx context.Context, id string, repoFullName string, projectID string) error
	// AppendGitEventLog appends a log line to an event (append-only)
	AppendGitEventLog(ctx context.Context, id string, entry schema.LogEntry) error
	// AppendGitEventJob appends a triggered-job reference to an event
	AppendGitEventJob(ctx context.Context, id string, job schema.TriggeredJob) error
	// FinalizeGitEvent writes the terminal status, conditional on the event
	// still being in processing; returns whether this call performed the
	// transition
	FinalizeGitEvent(ctx context.Context, input FinalizeGitEventInput) (bool, error)

	// CreateJob records a job accepted by the compute service
	CreateJob(ctx context.Context, job *schema.Job) error
	// GetJob retrieves a job by ID
	GetJob(ctx context.Context, id string) (*schema.Job, error)
	// AppendJobLogs appends log lines to a job (append-only)
	AppendJobLogs(ctx context.Context, id string, entries []schema.LogEntry) error
	// MarkJobRunning moves a pending job to running. No-op when the job has
	// already progressed past pending.
	MarkJobRunning(ctx context.Context, id string) error
	// CompleteJob applies a terminal transition, conditional on the job not
	// already being terminal; returns whether this call won the transition
	CompleteJob(ctx context.Context, input CompleteJobInput) (bool, error)

	// GetRepoCredential retrieves the repository access credential for a project
	GetRepoCredential(ctx context.Context, projectID string) (*schema.RepoCredential, error)

	// UpsertDeployment creates the deployment row for a job or updates it in place
	UpsertDeployment(ctx context.Context, deployment *schema.Deployment) error
	// GetDeploymentByJobID retrieves the deployment materialized for a job
	GetDeploymentByJobID(ctx context.Context, jobID string) (*schema.Deployment, error)
	// ListDeployments lists a project's deployments, newest first
	ListDeployments(ctx context.Context, projectID string, limit int, offset int) ([]schema.Deployment, int64, error)

	// CreateWebhookClient registers an outgoing webhook client
	CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error
	// GetActiveWebhookClientsByEvent retrieves active clients whose filters
	// match eventType for the given project (project-scoped clients plus
	// global ones)
	GetActiveWebhookClientsByEvent(ctx context.Context, eventType string, projectID string) ([]*schema.WebhookClient, error)
	// CreateWebhookDelivery records a pending outgoing delivery and returns its ID
	CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) (uint64, error)
	// UpdateWebhookDelivery records the outcome of a delivery attempt
	UpdateWebhookDelivery(ctx context.Context, input UpdateWebhookDeliveryInput) error
}
