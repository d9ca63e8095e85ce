package schema

import "time"

// RepoCredential represents the repo_credentials table - repository access
// credentials resolvable for a project. Dispatch requires one; absence is a
// hard error and no job is created.
type RepoCredential struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ProjectID is the project this credential grants access for
	ProjectID string `gorm:"column:project_id;not null;index;type:varchar(36)"`
	// Provider is the VCS provider (currently always "github")
	Provider string `gorm:"column:provider;not null;default:github;type:varchar(20)"`
	// Token is the repository access token
	Token string `gorm:"column:token;not null;type:text"`
	// ExpiresAt is the token expiry, when the provider reports one
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`
	// CreatedAt is the timestamp when the credential was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the credential was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the RepoCredential model
func (RepoCredential) TableName() string {
	return "repo_credentials"
}
