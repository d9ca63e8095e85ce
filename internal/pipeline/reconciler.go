package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/messaging"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
	"github.com/pagemill/deploy-engine/internal/webhook"
)

// Reconciler applies job-status callbacks from the compute service. Terminal
// transitions are conditional store updates, so a redelivered terminal
// callback loses the transition and produces no side effects.
type Reconciler struct {
	store     store.Store
	publisher messaging.Publisher
	json      adapter.JSON
	clock     adapter.Clock
}

// NewReconciler creates a callback reconciler
func NewReconciler(st store.Store, publisher messaging.Publisher, json adapter.JSON, clock adapter.Clock) *Reconciler {
	return &Reconciler{store: st, publisher: publisher, json: json, clock: clock}
}

// CallbackResult summarizes what a callback did
type CallbackResult struct {
	// Duplicate is true when the job was already terminal and the callback
	// was acknowledged without effect
	Duplicate bool
	// Terminal is true when this callback applied a terminal transition
	Terminal bool
	// ActiveRevAdvanced is true when the completion advanced the project's
	// published revision
	ActiveRevAdvanced bool
}

// HandleCallback applies one job-status callback. The caller validates the
// payload shape; unknown jobs surface as domain.ErrJobNotFound.
func (r *Reconciler) HandleCallback(ctx context.Context, cb *domain.JobCallback) (*CallbackResult, error) {
	job, err := r.store.GetJob(ctx, cb.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrJobNotFound
	}

	// Logs land before the status does, also for duplicates
	r.appendLogs(ctx, cb)

	status := schema.JobStatus(cb.Status)
	if !status.Terminal() {
		if status == schema.JobStatusRunning {
			if err := r.store.MarkJobRunning(ctx, cb.JobID); err != nil {
				return nil, err
			}
		}
		return &CallbackResult{}, nil
	}

	now := r.clock.Now().UTC()
	input := store.CompleteJobInput{
		JobID:       cb.JobID,
		Status:      status,
		Output:      cb.OutputPayload(),
		Error:       cb.ErrorMessage(),
		DurationMS:  cb.Duration,
		ProcessedAt: cb.ProcessedAt,
		At:          now,
	}
	applied, err := r.store.CompleteJob(ctx, input)
	if err != nil {
		return nil, err
	}
	if !applied {
		logger.InfoCtx(ctx, "duplicate terminal callback ignored",
			zap.String("job_id", cb.JobID), zap.String("status", cb.Status))
		return &CallbackResult{Duplicate: true}, nil
	}

	result := &CallbackResult{Terminal: true}
	if job.Type == string(domain.JobTypeDeployRepo) && job.ProjectID != "" {
		result.ActiveRevAdvanced = r.applyDeploymentEffects(ctx, job, cb, status)
	}
	return result, nil
}

// appendLogs records callback-supplied log lines. Best effort.
func (r *Reconciler) appendLogs(ctx context.Context, cb *domain.JobCallback) {
	if len(cb.Logs) == 0 {
		return
	}
	entries := make([]schema.LogEntry, 0, len(cb.Logs))
	now := r.clock.Now().UTC()
	for _, line := range cb.Logs {
		entries = append(entries, schema.LogEntry{Timestamp: now, Level: "info", Message: line})
	}
	if err := r.store.AppendJobLogs(ctx, cb.JobID, entries); err != nil {
		logger.WarnCtx(ctx, "failed to append job logs", zap.Error(err), zap.String("job_id", cb.JobID))
	}
}

// applyDeploymentEffects materializes the Deployment row, advances the
// active revision on success, and publishes the deployment event. These are
// fire-and-forget from the callback's perspective: failures are logged, the
// compute service still gets its acknowledgment. Returns whether the active
// revision advanced.
func (r *Reconciler) applyDeploymentEffects(ctx context.Context, job *schema.Job, cb *domain.JobCallback, status schema.JobStatus) bool {
	var jobInput domain.JobInput
	if len(job.Input) > 0 {
		if err := r.json.Unmarshal(job.Input, &jobInput); err != nil {
			logger.WarnCtx(ctx, "unparseable job input", zap.Error(err), zap.String("job_id", job.ID))
		}
	}

	var stats domain.DeploymentStats
	if output := cb.OutputPayload(); len(output) > 0 {
		if err := r.json.Unmarshal(output, &stats); err != nil {
			logger.WarnCtx(ctx, "unparseable job output", zap.Error(err), zap.String("job_id", job.ID))
		}
	}

	deploymentStatus := schema.DeploymentStatusCompleted
	if status == schema.JobStatusFailed {
		deploymentStatus = schema.DeploymentStatusFailed
	}

	now := r.clock.Now().UTC()
	deployment := &schema.Deployment{
		JobID:         job.ID,
		ProjectID:     job.ProjectID,
		Status:        deploymentStatus,
		Branch:        jobInput.Branch,
		Commit:        jobInput.Commit,
		CommitMessage: jobInput.CommitMessage,
		PageCount:     stats.PageCount,
		FileCount:     stats.FileCount,
		BuildTimeMS:   stats.BuildTimeMS,
		Error:         cb.ErrorMessage(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.store.UpsertDeployment(ctx, deployment); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "failed to upsert deployment"), zap.String("job_id", job.ID))
	}

	advanced := false
	if status == schema.JobStatusCompleted {
		var err error
		advanced, err = r.store.AdvanceActiveRev(ctx, job.ProjectID, job.ID)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "failed to advance active revision"), zap.String("job_id", job.ID))
		} else if advanced {
			logger.InfoCtx(ctx, "active revision advanced",
				zap.String("project_id", job.ProjectID), zap.String("job_id", job.ID))
		}
	}

	r.publishDeploymentEvent(ctx, job, jobInput, deployment, advanced)
	return advanced
}

// publishDeploymentEvent hands the terminal deployment off to the broker for
// outgoing webhooks and chat notification. Best effort.
func (r *Reconciler) publishDeploymentEvent(ctx context.Context, job *schema.Job, jobInput domain.JobInput, deployment *schema.Deployment, advanced bool) {
	eventType := webhook.EventTypeDeploymentCompleted
	if deployment.Status == schema.DeploymentStatusFailed {
		eventType = webhook.EventTypeDeploymentFailed
	}

	now := r.clock.Now().UTC()
	event := &webhook.Event{
		EventID:   domain.NewID(now),
		EventType: eventType,
		Timestamp: now,
		Data: webhook.DeploymentData{
			ProjectID:     job.ProjectID,
			ProjectSlug:   jobInput.ProjectSlug,
			JobID:         job.ID,
			Status:        string(deployment.Status),
			Branch:        deployment.Branch,
			Commit:        deployment.Commit,
			CommitMessage: deployment.CommitMessage,
			PageCount:     deployment.PageCount,
			FileCount:     deployment.FileCount,
			BuildTimeMS:   deployment.BuildTimeMS,
			Active:        advanced,
			Error:         deployment.Error,
		},
	}

	if err := r.publisher.PublishDeploymentEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "failed to publish deployment event"),
			zap.String("job_id", job.ID), zap.String("event_type", eventType))
	}
}

// ValidateCallback checks the required fields of a callback payload.
// Returns a descriptive error suitable for a 400 response.
func ValidateCallback(cb *domain.JobCallback) error {
	if cb.JobID == "" {
		return fmt.Errorf("jobId is required")
	}
	if cb.Status == "" {
		return fmt.Errorf("status is required")
	}
	if !schema.ValidJobStatus(cb.Status) {
		return fmt.Errorf("invalid status %q", cb.Status)
	}
	return nil
}
