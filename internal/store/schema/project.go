package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents the projects table - a content project connected to a
// GitHub repository
type Project struct {
	// ID is the project identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:varchar(36)"`
	// Slug is the URL-safe project name, unique within an organization
	Slug string `gorm:"column:slug;not null;type:varchar(255)"`
	// OrgSlug is the owning organization's slug
	OrgSlug string `gorm:"column:org_slug;not null;type:varchar(255)"`
	// Name is the display name
	Name string `gorm:"column:name;not null;type:text"`
	// RepoFullName is the connected repository in owner/name form
	RepoFullName string `gorm:"column:repo_full_name;not null;index;type:varchar(255)"`
	// RepoCloneURL is the HTTPS clone URL of the connected repository
	RepoCloneURL string `gorm:"column:repo_clone_url;not null;type:text"`
	// DeployBranches is a JSON array of branches whose pushes trigger deploys.
	// Empty means the service-wide default applies.
	DeployBranches datatypes.JSON `gorm:"column:deploy_branches;type:jsonb"`
	// ActiveRevJobID is the job whose output is the published revision.
	// ULID ordering makes string comparison a creation-time comparison, so
	// advancement is a single conditional update.
	ActiveRevJobID *string `gorm:"column:active_rev_job_id;type:varchar(26)"`
	// OutputPath is the build output path setting passed to the compute service
	OutputPath string `gorm:"column:output_path;type:text"`
	// Format is the content formatting setting passed to the compute service
	Format string `gorm:"column:format;type:varchar(50)"`
	// CreatedAt is the timestamp when the project was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the project was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}
