package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/agent"
	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/github"
	"github.com/pagemill/deploy-engine/internal/logger"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

// Resolver maps validated webhook payloads onto concrete actions
type Resolver struct {
	extractor       agent.Extractor
	json            adapter.JSON
	defaultBranches []string
}

// NewResolver creates an action resolver. defaultBranches is the service-wide
// branch allowlist applied to projects that configure none.
func NewResolver(extractor agent.Extractor, json adapter.JSON, defaultBranches []string) *Resolver {
	return &Resolver{
		extractor:       extractor,
		json:            json,
		defaultBranches: defaultBranches,
	}
}

// PushResolution is the outcome of resolving a provider push event.
// A non-empty SkipReason means the delivery is handled without work.
type PushResolution struct {
	Action     domain.Action
	Branch     string
	SkipReason string
}

// ResolvePush decides what a push event should trigger. Pushes without a head
// commit (branch create/delete) and pushes outside the deployment branch
// allowlist are skipped with a user-visible reason.
func (r *Resolver) ResolvePush(project *schema.Project, push *domain.PushEvent) PushResolution {
	branch := github.BranchFromRef(push.Ref)
	if branch == "" {
		return PushResolution{
			Action:     domain.ActionNone,
			SkipReason: fmt.Sprintf("ref %q is not a branch ref", push.Ref),
		}
	}
	if push.HeadCommit == nil {
		return PushResolution{
			Action:     domain.ActionNone,
			Branch:     branch,
			SkipReason: fmt.Sprintf("push to %q has no head commit (branch created or deleted)", branch),
		}
	}

	allowed := r.deployBranches(project)
	for _, candidate := range allowed {
		if candidate == branch {
			return PushResolution{Action: domain.ActionDeploy, Branch: branch}
		}
	}
	return PushResolution{
		Action:     domain.ActionNone,
		Branch:     branch,
		SkipReason: fmt.Sprintf("branch %q is not a deployment branch", branch),
	}
}

// deployBranches returns the project's branch allowlist, falling back to the
// service default when the project configures none
func (r *Resolver) deployBranches(project *schema.Project) []string {
	if len(project.DeployBranches) > 0 {
		var branches []string
		if err := r.json.Unmarshal(project.DeployBranches, &branches); err == nil && len(branches) > 0 {
			return branches
		}
	}
	return r.defaultBranches
}

// WebhookResolution is the outcome of resolving a project webhook payload
type WebhookResolution struct {
	// Action is the normalized action to dispatch; ActionNone means the
	// delivery is acknowledged without creating work
	Action domain.Action
	// RawAction is the action name as supplied or extracted, before
	// normalization; permission checks run against this name
	RawAction string
	// Parameters carries extracted or payload-supplied job parameters
	Parameters map[string]interface{}
	// Note is a user-visible explanation for ActionNone outcomes
	Note string
}

// ResolveWebhookAction resolves an arbitrary project webhook payload to an
// action. Endpoints carrying agent instructions route the payload through the
// AI extraction step; extraction failure degrades to action "none", never to
// an error. Endpoints with a permission map must grant the resolved action or
// resolution fails with PermissionDeniedError.
func (r *Resolver) ResolveWebhookAction(ctx context.Context, endpoint *schema.WebhookEndpoint, body []byte) (WebhookResolution, error) {
	var resolution WebhookResolution

	if endpoint.AgentInstructions != "" {
		resolution = r.resolveViaAgent(ctx, endpoint.AgentInstructions, body)
	} else {
		resolution = r.resolveFromPayload(body)
	}

	if resolution.Action != domain.ActionNone && len(endpoint.Permissions) > 0 {
		if !r.permissionGranted(endpoint.Permissions, resolution.RawAction) {
			return WebhookResolution{}, &domain.PermissionDeniedError{Action: resolution.RawAction}
		}
	}

	return resolution, nil
}

func (r *Resolver) resolveViaAgent(ctx context.Context, instructions string, body []byte) WebhookResolution {
	extracted, err := r.extractor.ExtractAction(ctx, instructions, body)
	if err != nil {
		logger.WarnCtx(ctx, "action extraction failed", zap.Error(err))
		return WebhookResolution{Action: domain.ActionNone, Note: "action extraction failed"}
	}
	if extracted == nil || extracted.Action == "" {
		return WebhookResolution{Action: domain.ActionNone, Note: "no action extracted from payload"}
	}

	action := domain.NormalizeAction(extracted.Action)
	if action == domain.ActionNone {
		return WebhookResolution{
			Action:    domain.ActionNone,
			RawAction: extracted.Action,
			Note:      fmt.Sprintf("extracted action %q is not supported", extracted.Action),
		}
	}
	return WebhookResolution{
		Action:     action,
		RawAction:  extracted.Action,
		Parameters: extracted.Parameters,
	}
}

func (r *Resolver) resolveFromPayload(body []byte) WebhookResolution {
	var payload map[string]interface{}
	if err := r.json.Unmarshal(body, &payload); err != nil {
		return WebhookResolution{Action: domain.ActionNone, Note: "payload is not a JSON object"}
	}

	if raw, ok := payload["action"].(string); ok && raw != "" {
		action := domain.NormalizeAction(raw)
		if action == domain.ActionNone {
			return WebhookResolution{
				Action:    domain.ActionNone,
				RawAction: raw,
				Note:      fmt.Sprintf("action %q is not supported", raw),
			}
		}
		return WebhookResolution{Action: action, RawAction: raw, Parameters: payload}
	}

	// No explicit action: a VCS-shaped payload implies a deploy
	for _, key := range []string{"branch", "commit", "ref"} {
		if _, ok := payload[key]; ok {
			return WebhookResolution{Action: domain.ActionDeploy, RawAction: "deploy", Parameters: payload}
		}
	}

	return WebhookResolution{Action: domain.ActionNone, Note: "payload carries no action"}
}

// permissionGranted checks a capability map of the form
// {"deployment": {"trigger_build": true}}. The action is granted when any
// category maps it to true.
func (r *Resolver) permissionGranted(permissions []byte, action string) bool {
	var categories map[string]map[string]bool
	if err := r.json.Unmarshal(permissions, &categories); err != nil {
		logger.Warn("unparseable endpoint permission map", zap.Error(err))
		return false
	}

	for _, capabilities := range categories {
		if capabilities[action] {
			return true
		}
	}
	return false
}
