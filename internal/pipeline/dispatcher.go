package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/compute"
	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

// Dispatcher submits jobs to the compute service and records them
type Dispatcher struct {
	store   store.Store
	compute compute.Client
	json    adapter.JSON
	clock   adapter.Clock
}

// NewDispatcher creates a job dispatcher
func NewDispatcher(st store.Store, cc compute.Client, json adapter.JSON, clock adapter.Clock) *Dispatcher {
	return &Dispatcher{store: st, compute: cc, json: json, clock: clock}
}

// DispatchInput describes the work a resolved action wants done
type DispatchInput struct {
	Branch        string
	Commit        string
	CommitMessage string
	Parameters    map[string]interface{}
	Trigger       domain.JobTrigger
}

// Dispatch builds the job spec for an action and submits it. A repository
// credential must be resolvable for the project; absence aborts with
// ErrMissingCredential before any job row exists. A compute submission
// failure leaves the job row terminal failed, never dangling pending.
func (d *Dispatcher) Dispatch(ctx context.Context, project *schema.Project, action domain.Action, input DispatchInput) (*schema.Job, error) {
	jobType := domain.JobTypeForAction(action)
	if jobType == "" {
		return nil, fmt.Errorf("action %q does not map to a job type", action)
	}

	credential, err := d.store.GetRepoCredential(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository credential: %w", err)
	}
	if credential == nil {
		return nil, domain.ErrMissingCredential
	}

	branch := input.Branch
	if branch == "" {
		branch = firstString(input.Parameters, "branch")
	}
	commit := input.Commit
	if commit == "" {
		commit = firstString(input.Parameters, "commit")
	}

	jobInput := domain.JobInput{
		RepoURL:       project.RepoCloneURL,
		Branch:        branch,
		Commit:        commit,
		CommitMessage: input.CommitMessage,
		AuthToken:     credential.Token,
		ProjectSlug:   project.Slug,
		OrgSlug:       project.OrgSlug,
		OutputPath:    project.OutputPath,
		Format:        project.Format,
		Parameters:    input.Parameters,
		Trigger:       input.Trigger,
	}

	inputJSON, err := d.json.Marshal(jobInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job input: %w", err)
	}

	now := d.clock.Now().UTC()
	job := &schema.Job{
		ID:        domain.NewID(now),
		Type:      string(jobType),
		ProjectID: project.ID,
		Input:     inputJSON,
		Status:    schema.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := d.compute.SubmitJob(ctx, job.ID, jobType, jobInput); err != nil {
		d.failJob(ctx, job.ID, err)
		return nil, fmt.Errorf("failed to submit job to compute service: %w", err)
	}

	logger.InfoCtx(ctx, "job dispatched",
		zap.String("job_id", job.ID),
		zap.String("type", job.Type),
		zap.String("project_id", project.ID))
	return job, nil
}

// failJob marks a job failed after a submission error so no job is left
// pending forever. Best effort.
func (d *Dispatcher) failJob(ctx context.Context, jobID string, cause error) {
	_, err := d.store.CompleteJob(ctx, store.CompleteJobInput{
		JobID:  jobID,
		Status: schema.JobStatusFailed,
		Error:  cause.Error(),
		At:     d.clock.Now().UTC(),
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "failed to mark job failed after submit error"), zap.String("job_id", jobID))
	}
}

func firstString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
