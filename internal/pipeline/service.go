package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/dedup"
	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/github"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
	"github.com/pagemill/deploy-engine/internal/webhook"
)

// Service runs the inbound webhook flows end to end: validate, record,
// resolve, dispatch, finalize. Every accepted delivery leaves with exactly
// one terminal event status on all code paths.
type Service struct {
	store         store.Store
	recorder      *Recorder
	resolver      *Resolver
	dispatcher    *Dispatcher
	parser        *github.Parser
	dedup         dedup.Cache
	json          adapter.JSON
	clock         adapter.Clock
	webhookSecret string
}

// NewService creates the webhook pipeline service. An empty webhookSecret
// disables provider signature validation (permissive dev mode); this is
// loudly logged as a configuration risk at construction.
func NewService(
	st store.Store,
	recorder *Recorder,
	resolver *Resolver,
	dispatcher *Dispatcher,
	parser *github.Parser,
	dedupCache dedup.Cache,
	json adapter.JSON,
	clock adapter.Clock,
	webhookSecret string,
) *Service {
	if webhookSecret == "" {
		logger.Warn("provider webhook secret is not configured; signature validation is DISABLED")
	}
	return &Service{
		store:         st,
		recorder:      recorder,
		resolver:      resolver,
		dispatcher:    dispatcher,
		parser:        parser,
		dedup:         dedupCache,
		json:          json,
		clock:         clock,
		webhookSecret: webhookSecret,
	}
}

// PushRequest is an inbound provider (GitHub) webhook delivery
type PushRequest struct {
	DeliveryID string
	EventType  string
	Signature  string
	Body       []byte
}

// PushResult is the outcome reported to the provider
type PushResult struct {
	EventID string
	Message string
	Skipped bool
	JobID   string
}

// HandlePush processes a provider webhook delivery.
// Returns domain.ErrInvalidSignature before any event is recorded when the
// signature check fails; after the event row exists, processing errors
// finalize it failed and are returned for the HTTP layer to surface.
func (s *Service) HandlePush(ctx context.Context, req PushRequest) (*PushResult, error) {
	if s.webhookSecret != "" {
		if !webhook.VerifyGitHubSignature(s.webhookSecret, req.Body, req.Signature) {
			return nil, domain.ErrInvalidSignature
		}
	}

	now := s.clock.Now().UTC()
	event := &schema.GitEvent{
		ID:         domain.NewID(now),
		DeliveryID: req.DeliveryID,
		EventType:  req.EventType,
		Payload:    jsonBody(req.Body),
		Signature:  req.Signature,
		Status:     schema.GitEventStatusProcessing,
		ReceivedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateGitEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record git event: %w", err)
	}

	// Every delivery is stored, retries included; the cache only suppresses
	// reprocessing within its window.
	if s.dedup.Seen(req.DeliveryID) {
		s.recorder.LogGitEvent(ctx, event.ID, "info", fmt.Sprintf("duplicate delivery %s suppressed", req.DeliveryID))
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusSkipped, "duplicate delivery", "", "")
		return &PushResult{EventID: event.ID, Message: "Duplicate delivery ignored", Skipped: true}, nil
	}

	if req.EventType != "push" {
		reason := fmt.Sprintf("event type %q is not handled", req.EventType)
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusSkipped, reason, "", "")
		return &PushResult{EventID: event.ID, Message: reason, Skipped: true}, nil
	}

	push, err := s.parser.ParsePushEvent(req.Body)
	if err != nil {
		s.recorder.LogGitEvent(ctx, event.ID, "error", err.Error())
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusFailed, "", "", err.Error())
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedPayload, err.Error())
	}
	s.recorder.LogGitEvent(ctx, event.ID, "info",
		fmt.Sprintf("push to %s on %s", push.Ref, push.Repository.FullName))

	project, err := s.store.GetProjectByRepo(ctx, push.Repository.FullName)
	if err != nil {
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusFailed, "", "", err.Error())
		return nil, err
	}
	if project == nil {
		reason := fmt.Sprintf("no project connected to repository %q", push.Repository.FullName)
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusSkipped, reason, "", "")
		return &PushResult{EventID: event.ID, Message: reason, Skipped: true}, nil
	}
	s.setGitEventContext(ctx, event, push.Repository.FullName, project.ID)

	resolution := s.resolver.ResolvePush(project, push)
	if resolution.SkipReason != "" {
		s.recorder.LogGitEvent(ctx, event.ID, "info", resolution.SkipReason)
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusSkipped, resolution.SkipReason, "", "")
		return &PushResult{EventID: event.ID, Message: resolution.SkipReason, Skipped: true}, nil
	}

	input := DispatchInput{
		Branch:  resolution.Branch,
		Trigger: domain.JobTrigger{Source: domain.EventSourceGitHub, EventID: event.ID},
	}
	if push.HeadCommit != nil {
		input.Commit = push.HeadCommit.ID
		input.CommitMessage = push.HeadCommit.Message
	}

	job, err := s.dispatcher.Dispatch(ctx, project, resolution.Action, input)
	if err != nil {
		s.recorder.LogGitEvent(ctx, event.ID, "error", err.Error())
		s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusFailed, "", "", err.Error())
		return nil, err
	}

	s.recorder.AttachGitEventJob(ctx, event.ID, job)
	result := fmt.Sprintf("deployment job %s created", job.ID)
	s.recorder.FinalizeGitEvent(ctx, event.ID, schema.GitEventStatusProcessed, "", result, "")
	return &PushResult{EventID: event.ID, Message: result, JobID: job.ID}, nil
}

// setGitEventContext backfills the repository and resolved project onto the
// event row. Best effort; the terminal status write is what matters.
func (s *Service) setGitEventContext(ctx context.Context, event *schema.GitEvent, repo string, projectID string) {
	event.RepoFullName = repo
	event.ProjectID = &projectID
	if err := s.store.SetGitEventProject(ctx, event.ID, repo, projectID); err != nil {
		logger.WarnCtx(ctx, "failed to set git event project", zap.Error(err), zap.String("event_id", event.ID))
	}
}

// ProjectWebhookRequest is an inbound call to a project webhook endpoint
type ProjectWebhookRequest struct {
	Token   string
	Method  string
	IP      string
	Headers map[string]string
	Body    []byte
}

// ProjectWebhookResult is the outcome reported to the caller
type ProjectWebhookResult struct {
	EventID string
	Message string
	JobID   string
}

// HandleProjectWebhook processes a call to a project webhook endpoint.
// Token and method failures return before any event is recorded; IP
// rejections persist a terminal rejected event per the audit requirement.
func (s *Service) HandleProjectWebhook(ctx context.Context, req ProjectWebhookRequest) (*ProjectWebhookResult, error) {
	endpoint, err := s.store.GetEndpointByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if endpoint == nil {
		return nil, domain.ErrWebhookNotFound
	}

	if !s.methodAllowed(endpoint, req.Method) {
		return nil, domain.ErrMethodNotAllowed
	}

	if !s.ipAllowed(endpoint, req.IP) {
		event := s.newWebhookEvent(endpoint, req)
		event.Status = schema.WebhookEventStatusRejected
		now := s.clock.Now().UTC()
		event.FinalizedAt = &now
		event.Error = fmt.Sprintf("ip %s is not allowed", req.IP)
		if err := s.store.CreateWebhookEvent(ctx, event); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "failed to record rejected webhook event"))
		}
		return nil, domain.ErrIPNotAllowed
	}

	if err := s.store.TouchEndpointUsage(ctx, endpoint.ID, s.clock.Now().UTC()); err != nil {
		logger.WarnCtx(ctx, "failed to update endpoint usage", zap.Error(err), zap.Uint64("endpoint_id", endpoint.ID))
	}

	event := s.newWebhookEvent(endpoint, req)
	if err := s.store.CreateWebhookEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	resolution, err := s.resolver.ResolveWebhookAction(ctx, endpoint, req.Body)
	if err != nil {
		s.recorder.LogWebhookEvent(ctx, event.ID, "error", err.Error())
		s.recorder.FinalizeWebhookEvent(ctx, event.ID, schema.WebhookEventStatusFailed, "", err.Error())
		return nil, err
	}

	if resolution.Action == domain.ActionNone {
		message := resolution.Note
		if message == "" {
			message = "no action taken"
		}
		s.recorder.LogWebhookEvent(ctx, event.ID, "info", message)
		s.recorder.FinalizeWebhookEvent(ctx, event.ID, schema.WebhookEventStatusSuccess, message, "")
		return &ProjectWebhookResult{EventID: event.ID, Message: message}, nil
	}

	project, err := s.store.GetProjectByID(ctx, endpoint.ProjectID)
	if err != nil {
		s.recorder.FinalizeWebhookEvent(ctx, event.ID, schema.WebhookEventStatusFailed, "", err.Error())
		return nil, err
	}
	if project == nil {
		err := domain.ErrProjectNotFound
		s.recorder.FinalizeWebhookEvent(ctx, event.ID, schema.WebhookEventStatusFailed, "", err.Error())
		return nil, err
	}

	s.recorder.LogWebhookEvent(ctx, event.ID, "info",
		fmt.Sprintf("resolved action %s (%s)", resolution.Action, resolution.RawAction))

	job, err := s.dispatcher.Dispatch(ctx, project, resolution.Action, DispatchInput{
		Parameters: resolution.Parameters,
		Trigger:    domain.JobTrigger{Source: domain.EventSourceProjectWebhook, EventID: event.ID},
	})
	if err != nil {
		s.recorder.LogWebhookEvent(ctx, event.ID, "error", err.Error())
		s.recorder.FinalizeWebhookEvent(ctx, event.ID, schema.WebhookEventStatusFailed, "", err.Error())
		return nil, err
	}

	s.recorder.AttachWebhookEventJob(ctx, event.ID, job)
	result := fmt.Sprintf("%s job %s created", job.Type, job.ID)
	s.recorder.FinalizeWebhookEvent(ctx, event.ID, schema.WebhookEventStatusSuccess, result, "")
	return &ProjectWebhookResult{EventID: event.ID, Message: result, JobID: job.ID}, nil
}

func (s *Service) newWebhookEvent(endpoint *schema.WebhookEndpoint, req ProjectWebhookRequest) *schema.WebhookEvent {
	now := s.clock.Now().UTC()
	headers, err := s.json.Marshal(req.Headers)
	if err != nil {
		headers = nil
	}
	return &schema.WebhookEvent{
		ID:         domain.NewID(now),
		EndpointID: endpoint.ID,
		ProjectID:  endpoint.ProjectID,
		Method:     req.Method,
		Headers:    headers,
		Body:       jsonBody(req.Body),
		IP:         req.IP,
		Status:     schema.WebhookEventStatusProcessing,
		ReceivedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// jsonBody keeps empty request bodies storable in a jsonb column
func jsonBody(body []byte) []byte {
	if len(body) == 0 {
		return []byte("null")
	}
	return body
}

func (s *Service) methodAllowed(endpoint *schema.WebhookEndpoint, method string) bool {
	if len(endpoint.AllowedMethods) == 0 {
		return true
	}
	var methods []string
	if err := s.json.Unmarshal(endpoint.AllowedMethods, &methods); err != nil || len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func (s *Service) ipAllowed(endpoint *schema.WebhookEndpoint, ip string) bool {
	if len(endpoint.AllowedIPs) == 0 {
		return true
	}
	var ips []string
	if err := s.json.Unmarshal(endpoint.AllowedIPs, &ips); err != nil || len(ips) == 0 {
		return true
	}
	for _, candidate := range ips {
		if candidate == ip {
			return true
		}
	}
	return false
}
