package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEndpoint represents the webhook_endpoints table - a project-scoped
// inbound trigger. Endpoints are never deleted, only deactivated.
type WebhookEndpoint struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ProjectID is the owning project
	ProjectID string `gorm:"column:project_id;not null;index;type:varchar(36)"`
	// Token is the opaque inbound token (UUID), unique across all endpoints
	Token string `gorm:"column:token;not null;unique;type:varchar(36)"`
	// IsActive indicates whether deliveries to this endpoint are accepted
	IsActive bool `gorm:"column:is_active;not null;default:true"`
	// AllowedIPs is a JSON array of client IPs allowed to call this endpoint.
	// Null or empty means no IP restriction.
	AllowedIPs datatypes.JSON `gorm:"column:allowed_ips;type:jsonb"`
	// AllowedMethods is a JSON array of permitted HTTP methods.
	// Null or empty means any method.
	AllowedMethods datatypes.JSON `gorm:"column:allowed_methods;type:jsonb"`
	// AgentInstructions is optional natural-language instructions; when set,
	// payloads are routed through the AI extraction step
	AgentInstructions string `gorm:"column:agent_instructions;type:text"`
	// Permissions is an optional capability map of the form
	// {"deployment": {"trigger_build": true}}. When set, resolved actions
	// must be granted by some category or processing fails.
	Permissions datatypes.JSON `gorm:"column:permissions;type:jsonb"`
	// LastUsedAt is the timestamp of the most recent accepted delivery
	LastUsedAt *time.Time `gorm:"column:last_used_at;type:timestamptz"`
	// TotalCalls counts accepted deliveries
	TotalCalls int64 `gorm:"column:total_calls;not null;default:0"`
	// CreatedAt is the timestamp when the endpoint was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the endpoint was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the WebhookEndpoint model
func (WebhookEndpoint) TableName() string {
	return "webhook_endpoints"
}
