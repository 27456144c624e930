// Package entity contains the core business objects of the project.
package entity

// Role represents the tier a person occupies in the supervision hierarchy.
type Role string

const (
	// RoleSuperAdmin indicates the top-level operator role.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleAdmin indicates a state-level administrator role.
	RoleAdmin Role = "ADMIN"
	// RoleSupervisor indicates an area supervisor role.
	RoleSupervisor Role = "SUPERVISOR"
	// RoleGuard indicates a field guard role.
	RoleGuard Role = "GUARD"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleGuard:
		return true
	default:
		return false
	}
}

// Collection identifies one of the three record stores accounts live in.
type Collection string

const (
	// CollectionAdmins holds admin-tier accounts (ADMIN and SUPER_ADMIN rows).
	CollectionAdmins Collection = "admins"
	// CollectionSupervisors holds supervisor accounts.
	CollectionSupervisors Collection = "supervisors"
	// CollectionGuards holds guard accounts.
	CollectionGuards Collection = "guards"
)

// String returns the string representation of the Collection.
func (c Collection) String() string {
	return string(c)
}

// IsValid checks if the Collection is a valid value.
func (c Collection) IsValid() bool {
	switch c {
	case CollectionAdmins, CollectionSupervisors, CollectionGuards:
		return true
	default:
		return false
	}
}

// AllCollections lists every record store in the fixed resolution order used
// when a selector may match more than one collection.
func AllCollections() []Collection {
	return []Collection{CollectionAdmins, CollectionSupervisors, CollectionGuards}
}

// CollectionForRole maps a role to the collection its accounts live in.
func CollectionForRole(r Role) Collection {
	switch r {
	case RoleSupervisor:
		return CollectionSupervisors
	case RoleGuard:
		return CollectionGuards
	default:
		return CollectionAdmins
	}
}
