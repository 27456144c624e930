// Package policy holds the static permission graph of the supervision
// hierarchy. Everything here is pure data and pure functions: no I/O, no
// mutable state, safe for any number of concurrent callers.
package policy

import (
	"strings"

	"guardpost/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller as tagged by the upstream auth layer.
type Actor struct {
	Role entity.Role
	ID   uuid.UUID
}

// Subject describes the target of a credential reset. SupervisorID is only
// meaningful for guard subjects.
type Subject struct {
	Role         entity.Role
	ID           uuid.UUID
	SupervisorID uuid.UUID
}

// resetEdges is the directed credential-reset permission graph. An edge
// actor→subject means the actor role may reset that subject role's
// credential; any pair not listed is denied. Ownership and self constraints
// are applied on top in CanResetPassword.
var resetEdges = map[entity.Role]map[entity.Role]bool{
	entity.RoleSuperAdmin: {
		entity.RoleSuperAdmin: true, // Self only; enforced below.
		entity.RoleAdmin:      true,
		entity.RoleSupervisor: true,
		entity.RoleGuard:      true,
	},
	entity.RoleAdmin: {
		entity.RoleSupervisor: true,
	},
	entity.RoleSupervisor: {
		entity.RoleGuard: true, // Own guards only; enforced below.
	},
	entity.RoleGuard: {},
}

// CanResetPassword evaluates the permission graph for one actor/subject pair.
func CanResetPassword(actor Actor, subject Subject) bool {
	if !resetEdges[actor.Role][subject.Role] {
		return false
	}

	switch {
	case actor.Role == entity.RoleSuperAdmin && subject.Role == entity.RoleSuperAdmin:
		// The only super-admin→super-admin edge is self.
		return actor.ID == subject.ID
	case actor.Role == entity.RoleSupervisor:
		return subject.SupervisorID == actor.ID
	default:
		return true
	}
}

// scanEdges maps scanner role to the issuer role whose codes it may scan:
// guards attend supervisor-issued codes, supervisors attend admin-issued
// codes.
var scanEdges = map[entity.Role]entity.Role{
	entity.RoleGuard:      entity.RoleSupervisor,
	entity.RoleSupervisor: entity.RoleAdmin,
}

// CanScan reports whether a scanner role may record attendance against a
// code issued by ownerRole.
func CanScan(scannerRole, ownerRole entity.Role) bool {
	return scanEdges[scannerRole] == ownerRole
}

// CanIssueQR reports whether a role may create and list QR codes.
func CanIssueQR(role entity.Role) bool {
	return role == entity.RoleAdmin || role == entity.RoleSupervisor
}

// SearchTarget is the outcome of keyword resolution: which collections to
// query and the text filter to apply, if any.
type SearchTarget struct {
	Collections    []entity.Collection
	EffectiveQuery string // Empty when the keyword was remapped away.
}

// ResolveSearchTarget maps a raw query string to its target collections.
// "field officer" variants list all supervisors, "supervisor" lists all
// guards; in both cases the literal keyword is dropped as a text filter.
// Any other string searches every collection as a substring match.
func ResolveSearchTarget(rawQuery string) SearchTarget {
	switch normalizeKeyword(rawQuery) {
	case "fieldofficer", "field officer":
		return SearchTarget{Collections: []entity.Collection{entity.CollectionSupervisors}}
	case "supervisor":
		return SearchTarget{Collections: []entity.Collection{entity.CollectionGuards}}
	default:
		return SearchTarget{
			Collections:    entity.AllCollections(),
			EffectiveQuery: rawQuery,
		}
	}
}

// normalizeKeyword trims, lowercases, and collapses runs of whitespace and
// hyphens to a single space before keyword comparison.
func normalizeKeyword(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lowered))

	pendingSpace := false
	for _, r := range lowered {
		if r == ' ' || r == '\t' || r == '-' {
			pendingSpace = b.Len() > 0

			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
