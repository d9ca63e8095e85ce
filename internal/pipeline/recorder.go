// Package pipeline implements the webhook processing flow: record the
// delivery, resolve it to an action, dispatch a job, and reconcile the job's
// status callbacks.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

// Recorder owns the event-store discipline: every accepted delivery gets
// exactly one event row, logs are append-only, and log or finalize failures
// never fail the caller's flow.
type Recorder struct {
	store store.Store
	clock adapter.Clock
}

// NewRecorder creates an event recorder
func NewRecorder(st store.Store, clock adapter.Clock) *Recorder {
	return &Recorder{store: st, clock: clock}
}

// LogGitEvent appends a log line to a git event. Failures are reported and
// swallowed.
func (r *Recorder) LogGitEvent(ctx context.Context, eventID string, level string, message string) {
	entry := schema.LogEntry{Timestamp: r.clock.Now().UTC(), Level: level, Message: message}
	if err := r.store.AppendGitEventLog(ctx, eventID, entry); err != nil {
		logger.WarnCtx(ctx, "failed to append git event log", zap.Error(err), zap.String("event_id", eventID))
	}
}

// LogWebhookEvent appends a log line to a webhook event. Failures are
// reported and swallowed.
func (r *Recorder) LogWebhookEvent(ctx context.Context, eventID string, level string, message string) {
	entry := schema.LogEntry{Timestamp: r.clock.Now().UTC(), Level: level, Message: message}
	if err := r.store.AppendWebhookEventLog(ctx, eventID, entry); err != nil {
		logger.WarnCtx(ctx, "failed to append webhook event log", zap.Error(err), zap.String("event_id", eventID))
	}
}

// AttachGitEventJob records a triggered-job reference on a git event
func (r *Recorder) AttachGitEventJob(ctx context.Context, eventID string, job *schema.Job) {
	ref := schema.TriggeredJob{JobID: job.ID, Type: job.Type, Status: string(job.Status)}
	if err := r.store.AppendGitEventJob(ctx, eventID, ref); err != nil {
		logger.WarnCtx(ctx, "failed to attach job to git event", zap.Error(err), zap.String("event_id", eventID), zap.String("job_id", job.ID))
	}
}

// AttachWebhookEventJob records a triggered-job reference on a webhook event
func (r *Recorder) AttachWebhookEventJob(ctx context.Context, eventID string, job *schema.Job) {
	ref := schema.TriggeredJob{JobID: job.ID, Type: job.Type, Status: string(job.Status)}
	if err := r.store.AppendWebhookEventJob(ctx, eventID, ref); err != nil {
		logger.WarnCtx(ctx, "failed to attach job to webhook event", zap.Error(err), zap.String("event_id", eventID), zap.String("job_id", job.ID))
	}
}

// FinalizeGitEvent records the terminal status of a git event. Called on
// every code path out of push handling; a second call loses the conditional
// update and is reported, keeping the first terminal status in place.
func (r *Recorder) FinalizeGitEvent(ctx context.Context, eventID string, status schema.GitEventStatus, skipReason string, result string, errMsg string) {
	applied, err := r.store.FinalizeGitEvent(ctx, store.FinalizeGitEventInput{
		EventID:    eventID,
		Status:     status,
		SkipReason: skipReason,
		Result:     result,
		Error:      errMsg,
		At:         r.clock.Now().UTC(),
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "failed to finalize git event"), zap.String("event_id", eventID))
		return
	}
	if !applied {
		logger.WarnCtx(ctx, "git event already finalized", zap.String("event_id", eventID), zap.String("status", string(status)))
	}
}

// FinalizeWebhookEvent records the terminal status of a webhook event
func (r *Recorder) FinalizeWebhookEvent(ctx context.Context, eventID string, status schema.WebhookEventStatus, result string, errMsg string) {
	applied, err := r.store.FinalizeWebhookEvent(ctx, store.FinalizeWebhookEventInput{
		EventID: eventID,
		Status:  status,
		Result:  result,
		Error:   errMsg,
		At:      r.clock.Now().UTC(),
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "failed to finalize webhook event"), zap.String("event_id", eventID))
		return
	}
	if !applied {
		logger.WarnCtx(ctx, "webhook event already finalized", zap.String("event_id", eventID), zap.String("status", string(status)))
	}
}
