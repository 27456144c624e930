package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the common shape shared by every person in the system,
// regardless of which collection the record lives in. Role-specific data
// hangs off the profile pointers; a profile is nil unless the account is of
// the owning kind.
type Account struct {
	ID           uuid.UUID          // Unique within the owning collection only.
	Name         string             // Display name.
	Email        string             // Contact email; email or phone must be set.
	Phone        string             // Contact phone; email or phone must be set.
	Role         Role               // Hierarchy tier of this account.
	AreaState    string             // Assigned area / state.
	IsActive     bool               // Deactivation flag; records are never deleted.
	PasswordHash string             // Credential hash, mutated only through the credential authority.
	Supervisor   *SupervisorProfile // Set only for SUPERVISOR accounts.
	Guard        *GuardProfile      // Set only for GUARD accounts.
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time // Nil until the first login.
}

// SupervisorProfile holds data specific to supervisor accounts.
type SupervisorProfile struct {
	Code string // Unique supervisor code, e.g. "SUP001".
}

// GuardProfile holds data specific to guard accounts.
type GuardProfile struct {
	EmployeeCode string    // Unique employee code, e.g. "EMP-00001".
	SupervisorID uuid.UUID // Back-reference to the assigned supervisor; lookup only.
}

// Collection returns the record store this account belongs to.
func (a *Account) Collection() Collection {
	return CollectionForRole(a.Role)
}

// HasContact reports whether at least one contact method is present.
func (a *Account) HasContact() bool {
	return a.Email != "" || a.Phone != ""
}
