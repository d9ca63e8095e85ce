package domain

import (
	"encoding/json"
	"time"
)

// EventSource identifies where an inbound delivery came from
type EventSource string

const (
	// EventSourceGitHub is a provider webhook delivery (push events)
	EventSourceGitHub EventSource = "github"
	// EventSourceProjectWebhook is a project-scoped webhook delivery
	EventSourceProjectWebhook EventSource = "project_webhook"
)

// Action is the unit of work a validated webhook payload resolves to
type Action string

const (
	// ActionDeploy triggers a repository build and deploy
	ActionDeploy Action = "deploy"
	// ActionImport triggers a repository content import
	ActionImport Action = "import"
	// ActionUpdate triggers a content update for an already-imported repository
	ActionUpdate Action = "update"
	// ActionNone means the delivery is acknowledged without creating work
	ActionNone Action = "none"
)

// JobType represents the kind of work submitted to the compute service
type JobType string

const (
	JobTypeDeployRepo    JobType = "deploy-repo"
	JobTypeImportRepo    JobType = "import-repo"
	JobTypeUpdateContent JobType = "update-content"
)

// JobTypeForAction maps a resolved action to the compute job type that serves it.
// Returns "" for actions that create no job.
func JobTypeForAction(action Action) JobType {
	switch action {
	case ActionDeploy:
		return JobTypeDeployRepo
	case ActionImport:
		return JobTypeImportRepo
	case ActionUpdate:
		return JobTypeUpdateContent
	default:
		return ""
	}
}

// NormalizeAction maps the aliases accepted on the wire onto an Action.
// Unknown values resolve to ActionNone.
func NormalizeAction(raw string) Action {
	switch raw {
	case "deploy", "trigger_build":
		return ActionDeploy
	case "import":
		return ActionImport
	case "update", "update_content":
		return ActionUpdate
	default:
		return ActionNone
	}
}

// PushEvent is the subset of a GitHub push payload the pipeline acts on
type PushEvent struct {
	Ref        string      `json:"ref"`
	Repository Repository  `json:"repository"`
	HeadCommit *HeadCommit `json:"head_commit"`
	Pusher     Pusher      `json:"pusher"`
}

// Repository describes the repository a push event belongs to
type Repository struct {
	FullName      string `json:"full_name"`
	CloneURL      string `json:"clone_url"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// HeadCommit is the head commit of a push. Nil on branch create/delete pushes.
type HeadCommit struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Pusher identifies who pushed
type Pusher struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ExtractedAction is the result of the AI extraction collaborator for a
// project webhook carrying natural-language agent instructions
type ExtractedAction struct {
	Action     string                 `json:"action"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Context    string                 `json:"context,omitempty"`
}

// JobInput describes the work submitted to the external compute service
type JobInput struct {
	RepoURL       string                 `json:"repo_url"`
	Branch        string                 `json:"branch"`
	Commit        string                 `json:"commit,omitempty"`
	CommitMessage string                 `json:"commit_message,omitempty"`
	AuthToken     string                 `json:"auth_token,omitempty"`
	ProjectSlug   string                 `json:"project_slug"`
	OrgSlug       string                 `json:"org_slug"`
	OutputPath    string                 `json:"output_path,omitempty"`
	Format        string                 `json:"format,omitempty"`
	Parameters    map[string]interface{} `json:"parameters,omitempty"`
	Trigger       JobTrigger             `json:"trigger"`
}

// JobTrigger records which inbound delivery caused a job
type JobTrigger struct {
	Source  EventSource `json:"source"`
	EventID string      `json:"event_id"`
}

// JobCallback is the payload the compute service posts when a job's status
// changes. Error accepts both a bare string and an {message} object.
type JobCallback struct {
	JobID       string          `json:"jobId"`
	Status      string          `json:"status"`
	Logs        []string        `json:"logs,omitempty"`
	Output      json.RawMessage `json:"output,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       json.RawMessage `json:"error,omitempty"`
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
	Duration    *int64          `json:"duration,omitempty"`
}

// OutputPayload returns whichever of output/result the callback carried.
// The compute service has used both field names across versions.
func (c *JobCallback) OutputPayload() json.RawMessage {
	if len(c.Output) > 0 {
		return c.Output
	}
	return c.Result
}

// ErrorMessage normalizes the callback error field into a plain string
func (c *JobCallback) ErrorMessage() string {
	if len(c.Error) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(c.Error, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(c.Error, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	return string(c.Error)
}

// DeploymentStats summarizes a completed build for UI and notifications
type DeploymentStats struct {
	PageCount   int   `json:"page_count,omitempty"`
	FileCount   int   `json:"file_count,omitempty"`
	BuildTimeMS int64 `json:"build_time_ms,omitempty"`
}
