package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pagemill/deploy-engine/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// jsonArrayElement marshals v into a single-element JSON array, the shape
// required for appending to a jsonb array column with the || operator
func jsonArrayElement(v interface{}) (string, error) {
	b, err := json.Marshal([]interface{}{v})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json element: %w", err)
	}
	return string(b), nil
}

// GetProjectByID retrieves a project by its ID
func (s *pgStore) GetProjectByID(ctx context.Context, id string) (*schema.Project, error) {
	var project schema.Project
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// GetProjectByRepo retrieves the project connected to a repository
func (s *pgStore) GetProjectByRepo(ctx context.Context, repoFullName string) (*schema.Project, error) {
	var project schema.Project
	err := s.db.WithContext(ctx).Where("repo_full_name = ?", repoFullName).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project by repo: %w", err)
	}
	return &project, nil
}

// AdvanceActiveRev conditionally sets the project's active revision to jobID.
// ULIDs compare lexicographically in creation-time order, so a single
// conditional UPDATE closes the compare-then-set race between concurrent
// completions.
func (s *pgStore) AdvanceActiveRev(ctx context.Context, projectID string, jobID string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&schema.Project{}).
		Where("id = ? AND (active_rev_job_id IS NULL OR active_rev_job_id < ?)", projectID, jobID).
		Updates(map[string]interface{}{
			"active_rev_job_id": jobID,
			"updated_at":        gorm.Expr("now()"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to advance active revision: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetEndpointByToken retrieves an active webhook endpoint by its opaque token
func (s *pgStore) GetEndpointByToken(ctx context.Context, token string) (*schema.WebhookEndpoint, error) {
	var endpoint schema.WebhookEndpoint
	err := s.db.WithContext(ctx).Where("token = ? AND is_active = true", token).First(&endpoint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return &endpoint, nil
}

// TouchEndpointUsage increments the endpoint call counter and stamps last use
func (s *pgStore) TouchEndpointUsage(ctx context.Context, endpointID uint64, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&schema.WebhookEndpoint{}).
		Where("id = ?", endpointID).
		Updates(map[string]interface{}{
			"total_calls":  gorm.Expr("total_calls + 1"),
			"last_used_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to touch endpoint usage: %w", err)
	}
	return nil
}

// CreateWebhookEvent records an inbound project webhook delivery
func (s *pgStore) CreateWebhookEvent(ctx context.Context, event *schema.WebhookEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create webhook event: %w", err)
	}
	return nil
}

// GetWebhookEvent retrieves a project webhook event by ID
func (s *pgStore) GetWebhookEvent(ctx context.Context, id string) (*schema.WebhookEvent, error) {
	var event schema.WebhookEvent
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}
	return &event, nil
}

// AppendWebhookEventLog appends a log line to an event's jsonb log array
func (s *pgStore) AppendWebhookEventLog(ctx context.Context, id string, entry schema.LogEntry) error {
	element, err := jsonArrayElement(entry)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&schema.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"logs":       gorm.Expr("logs || ?::jsonb", element),
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to append webhook event log: %w", err)
	}
	return nil
}

// AppendWebhookEventJob appends a triggered-job reference to an event
func (s *pgStore) AppendWebhookEventJob(ctx context.Context, id string, job schema.TriggeredJob) error {
	element, err := jsonArrayElement(job)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&schema.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"triggered_jobs": gorm.Expr("triggered_jobs || ?::jsonb", element),
			"updated_at":     gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to append webhook event job: %w", err)
	}
	return nil
}

// FinalizeWebhookEvent writes the terminal status, conditional on the event
// still being in processing
func (s *pgStore) FinalizeWebhookEvent(ctx context.Context, input FinalizeWebhookEventInput) (bool, error) {
	if !input.Status.Terminal() {
		return false, fmt.Errorf("status %q is not terminal", input.Status)
	}

	result := s.db.WithContext(ctx).Model(&schema.WebhookEvent{}).
		Where("id = ? AND status = ?", input.EventID, schema.WebhookEventStatusProcessing).
		Updates(map[string]interface{}{
			"status":       input.Status,
			"result":       input.Result,
			"error":        input.Error,
			"finalized_at": input.At,
			"updated_at":   gorm.Expr("now()"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to finalize webhook event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateGitEvent records an inbound provider webhook delivery
func (s *pgStore) CreateGitEvent(ctx context.Context, event *schema.GitEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create git event: %w", err)
	}
	return nil
}

// GetGitEvent retrieves a provider webhook event by ID
func (s *pgStore) GetGitEvent(ctx context.Context, id string) (*schema.GitEvent, error) {
	var event schema.GitEvent
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get git event: %w", err)
	}
	return &event, nil
}

// SetGitEventProject backfills the repository and resolved project
func (s *pgStore) SetGitEventProject(ctx context.Context, id string, repoFullName string, projectID string) error {
	err := s.db.WithContext(ctx).Model(&schema.GitEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"repo_full_name": repoFullName,
			"project_id":     projectID,
			"updated_at":     gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set git event project: %w", err)
	}
	return nil
}

// AppendGitEventLog appends a log line to an event's jsonb log array
func (s *pgStore) AppendGitEventLog(ctx context.Context, id string, entry schema.LogEntry) error {
	element, err := jsonArrayElement(entry)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&schema.GitEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"logs":       gorm.Expr("logs || ?::jsonb", element),
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to append git event log: %w", err)
	}
	return nil
}

// AppendGitEventJob appends a triggered-job reference to an event
func (s *pgStore) AppendGitEventJob(ctx context.Context, id string, job schema.TriggeredJob) error {
	element, err := jsonArrayElement(job)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&schema.GitEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"triggered_jobs": gorm.Expr("triggered_jobs || ?::jsonb", element),
			"updated_at":     gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to append git event job: %w", err)
	}
	return nil
}

// FinalizeGitEvent writes the terminal status, conditional on the event still
// being in processing
func (s *pgStore) FinalizeGitEvent(ctx context.Context, input FinalizeGitEventInput) (bool, error) {
	if !input.Status.Terminal() {
		return false, fmt.Errorf("status %q is not terminal", input.Status)
	}

	result := s.db.WithContext(ctx).Model(&schema.GitEvent{}).
		Where("id = ? AND status = ?", input.EventID, schema.GitEventStatusProcessing).
		Updates(map[string]interface{}{
			"status":       input.Status,
			"skip_reason":  input.SkipReason,
			"result":       input.Result,
			"error":        input.Error,
			"finalized_at": input.At,
			"updated_at":   gorm.Expr("now()"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to finalize git event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateJob records a job accepted by the compute service
func (s *pgStore) CreateJob(ctx context.Context, job *schema.Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID
func (s *pgStore) GetJob(ctx context.Context, id string) (*schema.Job, error) {
	var job schema.Job
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// AppendJobLogs appends log lines to a job's jsonb log array
func (s *pgStore) AppendJobLogs(ctx context.Context, id string, entries []schema.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal log entries: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&schema.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"logs":       gorm.Expr("logs || ?::jsonb", string(b)),
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to append job logs: %w", err)
	}
	return nil
}

// MarkJobRunning moves a pending job to running. The guard keeps late
// "running" callbacks from resurrecting a terminal job.
func (s *pgStore) MarkJobRunning(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&schema.Job{}).
		Where("id = ? AND status = ?", id, schema.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     schema.JobStatusRunning,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}
	return nil
}

// CompleteJob applies a terminal transition, conditional on the job not
// already being terminal. The condition is what makes repeated terminal
// callbacks idempotent: only one caller wins the transition.
func (s *pgStore) CompleteJob(ctx context.Context, input CompleteJobInput) (bool, error) {
	if !input.Status.Terminal() {
		return false, fmt.Errorf("status %q is not terminal", input.Status)
	}

	updates := map[string]interface{}{
		"status":       input.Status,
		"error":        input.Error,
		"completed_at": input.At,
		"updated_at":   gorm.Expr("now()"),
	}
	if len(input.Output) > 0 {
		updates["output"] = datatypes.JSON(input.Output)
	}
	if input.DurationMS != nil {
		updates["duration_ms"] = *input.DurationMS
	}
	if input.ProcessedAt != nil {
		updates["processed_at"] = *input.ProcessedAt
	}

	result := s.db.WithContext(ctx).Model(&schema.Job{}).
		Where("id = ? AND status IN ?", input.JobID, []schema.JobStatus{schema.JobStatusPending, schema.JobStatusRunning}).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to complete job: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetRepoCredential retrieves the repository access credential for a project
func (s *pgStore) GetRepoCredential(ctx context.Context, projectID string) (*schema.RepoCredential, error) {
	var credential schema.RepoCredential
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get repo credential: %w", err)
	}
	return &credential, nil
}

// UpsertDeployment creates the deployment row for a job or updates it in place
func (s *pgStore) UpsertDeployment(ctx context.Context, deployment *schema.Deployment) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "branch", "commit", "commit_message",
			"page_count", "file_count", "build_time_ms", "error", "updated_at",
		}),
	}).Create(deployment).Error
	if err != nil {
		return fmt.Errorf("failed to upsert deployment: %w", err)
	}
	return nil
}

// GetDeploymentByJobID retrieves the deployment materialized for a job
func (s *pgStore) GetDeploymentByJobID(ctx context.Context, jobID string) (*schema.Deployment, error) {
	var deployment schema.Deployment
	err := s.db.WithContext(ctx).Where("job_id = ?", jobID).First(&deployment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}
	return &deployment, nil
}

// ListDeployments lists a project's deployments, newest first
func (s *pgStore) ListDeployments(ctx context.Context, projectID string, limit int, offset int) ([]schema.Deployment, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&schema.Deployment{}).
		Where("project_id = ?", projectID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count deployments: %w", err)
	}

	var deployments []schema.Deployment
	err = s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&deployments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deployments: %w", err)
	}
	return deployments, total, nil
}

// CreateWebhookClient registers an outgoing webhook client
func (s *pgStore) CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create webhook client: %w", err)
	}
	return nil
}

// GetActiveWebhookClientsByEvent retrieves active clients whose filters match
// eventType for the given project
func (s *pgStore) GetActiveWebhookClientsByEvent(ctx context.Context, eventType string, projectID string) ([]*schema.WebhookClient, error) {
	typeFilter, err := json.Marshal([]string{eventType})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event filter: %w", err)
	}
	wildcardFilter, err := json.Marshal([]string{"*"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wildcard filter: %w", err)
	}

	var clients []*schema.WebhookClient
	err = s.db.WithContext(ctx).
		Where("is_active = true").
		Where("project_id IS NULL OR project_id = ?", projectID).
		Where("event_filters @> ?::jsonb OR event_filters @> ?::jsonb", string(typeFilter), string(wildcardFilter)).
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook clients: %w", err)
	}
	return clients, nil
}

// CreateWebhookDelivery records a pending outgoing delivery and returns its ID
func (s *pgStore) CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) (uint64, error) {
	if err := s.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return 0, fmt.Errorf("failed to create webhook delivery: %w", err)
	}
	return delivery.ID, nil
}

// UpdateWebhookDelivery records the outcome of a delivery attempt
func (s *pgStore) UpdateWebhookDelivery(ctx context.Context, input UpdateWebhookDeliveryInput) error {
	updates := map[string]interface{}{
		"delivery_status": input.Status,
		"attempts":        input.Attempts,
		"last_attempt_at": input.At,
		"response_body":   input.ResponseBody,
		"error_message":   input.ErrorMessage,
		"updated_at":      gorm.Expr("now()"),
	}
	if input.ResponseStatus != nil {
		updates["response_status"] = *input.ResponseStatus
	}

	err := s.db.WithContext(ctx).Model(&schema.WebhookDelivery{}).
		Where("id = ?", input.DeliveryID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update webhook delivery: %w", err)
	}
	return nil
}
