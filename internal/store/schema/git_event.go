package schema

import (
	"time"

	"gorm.io/datatypes"
)

// GitEventStatus is the processing status of a provider webhook delivery.
// Same monotonic discipline as WebhookEventStatus, with skipped as the
// success-but-ignored terminal state.
type GitEventStatus string

const (
	// GitEventStatusProcessing is the initial status of every recorded delivery
	GitEventStatusProcessing GitEventStatus = "processing"
	// GitEventStatusProcessed is the terminal status of a delivery that triggered work
	GitEventStatusProcessed GitEventStatus = "processed"
	// GitEventStatusSkipped is the terminal status of a delivery handled without work
	GitEventStatusSkipped GitEventStatus = "skipped"
	// GitEventStatusFailed is the terminal status of a delivery whose processing errored
	GitEventStatusFailed GitEventStatus = "failed"
)

// Terminal reports whether s is a terminal status
func (s GitEventStatus) Terminal() bool {
	return s == GitEventStatusProcessed || s == GitEventStatusSkipped || s == GitEventStatusFailed
}

// GitEvent represents the git_events table - one row per provider (GitHub)
// webhook delivery. Deliveries are deliberately not deduplicated on delivery
// ID: every delivery is stored, even identical retries.
type GitEvent struct {
	// ID is the event identifier (ULID, time-sortable)
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// DeliveryID is the provider's delivery identifier (X-GitHub-Delivery)
	DeliveryID string `gorm:"column:delivery_id;not null;index;type:varchar(64)"`
	// EventType is the provider event name (X-GitHub-Event, e.g. "push")
	EventType string `gorm:"column:event_type;not null;type:varchar(50)"`
	// RepoFullName is the repository the delivery concerns
	RepoFullName string `gorm:"column:repo_full_name;index;type:varchar(255)"`
	// Payload is the raw JSON payload as delivered
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb"`
	// Signature is the X-Hub-Signature-256 header value
	Signature string `gorm:"column:signature;type:varchar(80)"`
	// ProjectID is the resolved project, when one matched the repository
	ProjectID *string `gorm:"column:project_id;index;type:varchar(36)"`
	// Status is the processing status; transitions are monotonic
	Status GitEventStatus `gorm:"column:status;not null;default:processing;type:varchar(20)"`
	// SkipReason is the user-visible reason when Status is skipped
	SkipReason string `gorm:"column:skip_reason;type:text"`
	// Logs is the append-only JSON array of LogEntry lines
	Logs datatypes.JSON `gorm:"column:logs;not null;default:'[]'"`
	// TriggeredJobs is the JSON array of TriggeredJob references
	TriggeredJobs datatypes.JSON `gorm:"column:triggered_jobs;not null;default:'[]'"`
	// Result is a short response summary recorded at finalization
	Result string `gorm:"column:result;type:text"`
	// Error is the failure reason when Status is failed
	Error string `gorm:"column:error;type:text"`
	// ReceivedAt is the timestamp the delivery arrived
	ReceivedAt time.Time `gorm:"column:received_at;not null;type:timestamptz"`
	// FinalizedAt is the timestamp the terminal status was recorded
	FinalizedAt *time.Time `gorm:"column:finalized_at;type:timestamptz"`
	// CreatedAt is the timestamp when the row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the GitEvent model
func (GitEvent) TableName() string {
	return "git_events"
}
