// Package usecase defines the application's business logic interfaces and
// their input/output types.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchAccountsInput represents the input for the unified account search.
type SearchAccountsInput struct {
	Query string `json:"query"`
	State string `json:"state"`
}

// AccountRecord is one unified search result row. Fields that only exist
// for one account kind are omitted for the others.
type AccountRecord struct {
	ID             uuid.UUID  `json:"id"`
	Collection     string     `json:"collection"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role"`
	AreaState      string     `json:"area_state,omitempty"`
	IsActive       bool       `json:"is_active"`
	SupervisorCode string     `json:"supervisor_code,omitempty"`
	EmployeeCode   string     `json:"employee_code,omitempty"`
	SupervisorID   *uuid.UUID `json:"supervisor_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// SearchAccountsOutput represents the merged, ordered search result.
type SearchAccountsOutput struct {
	Total   int              `json:"total"`
	Results []*AccountRecord `json:"results"`
}

// SearchUsecase defines the interface for the multi-collection account search.
type SearchUsecase interface {
	// SearchAccounts resolves the query keyword, searches the target
	// collections, and returns the merged results newest first.
	SearchAccounts(ctx context.Context, input *SearchAccountsInput) (*SearchAccountsOutput, error)
}
