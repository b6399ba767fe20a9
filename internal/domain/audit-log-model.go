package domain

import "time"

const (
	AuditApplicantDeleted = "applicant.deleted"
	AuditRoleChanged      = "user.role_changed"

	AuditEntityApplicant = "applicant"
	AuditEntityUser      = "user"

	// ActorCLI marks changes made out of band with adminctl.
	ActorCLI = "adminctl"
)

// AuditLog records one moderation action. Rows are append-only.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   string    `gorm:"type:varchar(64);not null;index" json:"actor_id"` // user id or ActorCLI
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Entity    string    `gorm:"type:varchar(100);not null" json:"entity"`
	EntityID  string    `gorm:"type:varchar(320);not null;index" json:"entity_id"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
