package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEventStatus is the processing status of a project webhook delivery.
// Status is monotonic: created as processing, transitions exactly once to a
// terminal value.
type WebhookEventStatus string

const (
	// WebhookEventStatusProcessing is the initial status of every recorded delivery
	WebhookEventStatusProcessing WebhookEventStatus = "processing"
	// WebhookEventStatusSuccess is the terminal status of a handled delivery
	WebhookEventStatusSuccess WebhookEventStatus = "success"
	// WebhookEventStatusFailed is the terminal status of a delivery whose processing errored
	WebhookEventStatusFailed WebhookEventStatus = "failed"
	// WebhookEventStatusRejected is the terminal status of a delivery denied by the IP allowlist
	WebhookEventStatusRejected WebhookEventStatus = "rejected"
)

// Terminal reports whether s is a terminal status
func (s WebhookEventStatus) Terminal() bool {
	return s == WebhookEventStatusSuccess || s == WebhookEventStatusFailed || s == WebhookEventStatusRejected
}

// LogEntry is one timestamped log line on an event or job record
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// TriggeredJob is a reference from an event to a job it caused
type TriggeredJob struct {
	JobID  string `json:"job_id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// WebhookEvent represents the webhook_events table - one row per inbound call
// to a project webhook endpoint
type WebhookEvent struct {
	// ID is the event identifier (ULID, time-sortable)
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// EndpointID is the endpoint that received the call
	EndpointID uint64 `gorm:"column:endpoint_id;not null;index"`
	// ProjectID is the endpoint's owning project
	ProjectID string `gorm:"column:project_id;not null;index;type:varchar(36)"`
	// Method is the HTTP method of the request
	Method string `gorm:"column:method;not null;type:varchar(10)"`
	// Headers is a JSON snapshot of the request headers
	Headers datatypes.JSON `gorm:"column:headers;type:jsonb"`
	// Body is the raw request body as received
	Body datatypes.JSON `gorm:"column:body;type:jsonb"`
	// IP is the observed client IP
	IP string `gorm:"column:ip;type:varchar(45)"`
	// Status is the processing status; transitions are monotonic
	Status WebhookEventStatus `gorm:"column:status;not null;default:processing;type:varchar(20)"`
	// Logs is the append-only JSON array of LogEntry lines
	Logs datatypes.JSON `gorm:"column:logs;not null;default:'[]'"`
	// TriggeredJobs is the JSON array of TriggeredJob references
	TriggeredJobs datatypes.JSON `gorm:"column:triggered_jobs;not null;default:'[]'"`
	// Result is a short response summary recorded at finalization
	Result string `gorm:"column:result;type:text"`
	// Error is the failure reason when Status is failed
	Error string `gorm:"column:error;type:text"`
	// ReceivedAt is the timestamp the request arrived
	ReceivedAt time.Time `gorm:"column:received_at;not null;type:timestamptz"`
	// FinalizedAt is the timestamp the terminal status was recorded
	FinalizedAt *time.Time `gorm:"column:finalized_at;type:timestamptz"`
	// CreatedAt is the timestamp when the row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the WebhookEvent model
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
