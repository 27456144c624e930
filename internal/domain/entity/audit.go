package entity

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the credential change authority.
const (
	AuditActionPasswordChange     = "password.change"
	AuditActionPasswordChangeSelf = "password.change.self"
)

// Audit decisions.
const (
	AuditDecisionAllowed = "allowed"
	AuditDecisionDenied  = "denied"
)

// AuditEntry captures one credential-change attempt, including denials, so
// the permission graph's vetoes stay traceable. Append-only.
type AuditEntry struct {
	ID                uuid.UUID
	ActorRole         Role
	ActorID           uuid.UUID
	Action            string
	SubjectCollection Collection
	SubjectID         uuid.UUID
	Decision          string
	Reason            string
	CreatedAt         time.Time
}
