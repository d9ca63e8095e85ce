package schema

import (
	"time"

	"gorm.io/datatypes"
)

// JobStatus is the lifecycle state of a compute job
type JobStatus string

const (
	// JobStatusPending is the status of a job accepted but not yet started
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning is the status of a job the compute service is executing
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted is the terminal status of a successful job
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed is the terminal status of a failed job
	JobStatusFailed JobStatus = "failed"
)

// Terminal reports whether s is a terminal status
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ValidJobStatus checks whether raw names a defined job status
func ValidJobStatus(raw string) bool {
	switch JobStatus(raw) {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// Job represents the jobs table - one row per unit of work submitted to the
// external compute service. Rows are created by the dispatcher and mutated
// only by the callback reconciler.
type Job struct {
	// ID is the job identifier (ULID). The embedded timestamp is the
	// creation instant the active-revision comparison is based on.
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// Type is the kind of work (deploy-repo, import-repo, update-content)
	Type string `gorm:"column:type;not null;type:varchar(30)"`
	// ProjectID is the project the job belongs to
	ProjectID string `gorm:"column:project_id;not null;index;type:varchar(36)"`
	// Input is the JSON job spec submitted to the compute service
	Input datatypes.JSON `gorm:"column:input;type:jsonb"`
	// Status is the lifecycle state; terminal states are sticky
	Status JobStatus `gorm:"column:status;not null;default:pending;type:varchar(20)"`
	// Output is the JSON result reported by the compute service
	Output datatypes.JSON `gorm:"column:output;type:jsonb"`
	// Error is the normalized failure message when Status is failed
	Error string `gorm:"column:error;type:text"`
	// Logs is the append-only JSON array of LogEntry lines
	Logs datatypes.JSON `gorm:"column:logs;not null;default:'[]'"`
	// DurationMS is the execution duration reported by the compute service
	DurationMS *int64 `gorm:"column:duration_ms"`
	// ProcessedAt is the completion instant reported by the compute service
	ProcessedAt *time.Time `gorm:"column:processed_at;type:timestamptz"`
	// CompletedAt is the timestamp the terminal callback was reconciled
	CompletedAt *time.Time `gorm:"column:completed_at;type:timestamptz"`
	// CreatedAt is the timestamp when the job was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the job was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}
