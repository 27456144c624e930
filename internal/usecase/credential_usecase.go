package usecase

import (
	"context"

	"guardpost/internal/domain/policy"

	"github.com/google/uuid"
)

// ChangePasswordInput represents a credential reset aimed at another
// account. Selector is an account id, email address, or phone number.
type ChangePasswordInput struct {
	Selector    string `json:"selector"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordOutput identifies the account whose credential was changed.
type ChangePasswordOutput struct {
	SubjectID  uuid.UUID `json:"subject_id"`
	Collection string    `json:"collection"`
	Name       string    `json:"name"`
}

// ChangeOwnPasswordInput represents a self-service credential change.
// The caller proves knowledge of the current password.
type ChangeOwnPasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CredentialUsecase defines the interface for hierarchy-governed credential
// changes. Every attempt that reaches the policy decision is audited,
// including denials.
type CredentialUsecase interface {
	// ChangePassword resolves the selector to an account and, if the
	// permission graph allows the actor to manage it, replaces its
	// credential.
	ChangePassword(ctx context.Context, actor policy.Actor, input *ChangePasswordInput) (*ChangePasswordOutput, error)

	// ChangeOwnPassword replaces the actor's own credential after
	// verifying the presented current password.
	ChangeOwnPassword(ctx context.Context, actor policy.Actor, input *ChangeOwnPasswordInput) error
}
