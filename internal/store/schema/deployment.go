package schema

import (
	"time"
)

// DeploymentStatus is the user-facing status of a deploy job's outcome
type DeploymentStatus string

const (
	// DeploymentStatusCompleted is the status of a successful deployment
	DeploymentStatusCompleted DeploymentStatus = "completed"
	// DeploymentStatusFailed is the status of a failed deployment
	DeploymentStatusFailed DeploymentStatus = "failed"
)

// Deployment represents the deployments table - a materialized view of a
// deploy-type job's outcome for UI and notification purposes. Created lazily
// on the first callback for a job and updated on every subsequent one.
type Deployment struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// JobID is the deploy job this row materializes, unique per job
	JobID string `gorm:"column:job_id;not null;unique;type:varchar(26)"`
	// ProjectID is the deployed project
	ProjectID string `gorm:"column:project_id;not null;index;type:varchar(36)"`
	// Status is the deployment outcome
	Status DeploymentStatus `gorm:"column:status;not null;type:varchar(20)"`
	// Branch is the deployed branch
	Branch string `gorm:"column:branch;type:varchar(255)"`
	// Commit is the deployed commit SHA
	Commit string `gorm:"column:commit;type:varchar(64)"`
	// CommitMessage is the deployed commit's message
	CommitMessage string `gorm:"column:commit_message;type:text"`
	// PageCount is the number of pages produced by the build
	PageCount int `gorm:"column:page_count;not null;default:0"`
	// FileCount is the number of files produced by the build
	FileCount int `gorm:"column:file_count;not null;default:0"`
	// BuildTimeMS is the build duration reported by the compute service
	BuildTimeMS int64 `gorm:"column:build_time_ms;not null;default:0"`
	// Error is the failure message when Status is failed
	Error string `gorm:"column:error;type:text"`
	// CreatedAt is the timestamp when the row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Deployment model
func (Deployment) TableName() string {
	return "deployments"
}
