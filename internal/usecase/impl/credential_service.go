package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"guardpost/config"
	deliverycontext "guardpost/internal/delivery/context"
	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/policy"
	"guardpost/internal/domain/repository"
	"guardpost/internal/domain/service"
	"guardpost/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMinPasswordLength = 8

// credentialService implements the CredentialUsecase interface.
type credentialService struct {
	accountRepo       repository.AccountRepository
	auditRepo         repository.AuditRepository
	hasher            service.PasswordHasher
	minPasswordLength int
	logger            *slog.Logger
}

// CredentialServiceParams holds dependencies for CredentialService, injected by Fx.
type CredentialServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	AuditRepo   repository.AuditRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCredentialService is the constructor for credentialService.
func NewCredentialService(params CredentialServiceParams) usecase.CredentialUsecase {
	minLength := defaultMinPasswordLength
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MinPasswordLength > 0 {
		minLength = params.Config.Auth.MinPasswordLength
	}

	return &credentialService{
		accountRepo:       params.AccountRepo,
		auditRepo:         params.AuditRepo,
		hasher:            params.Hasher,
		minPasswordLength: minLength,
		logger:            params.Logger,
	}
}

func (srv *credentialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ChangePassword resolves the selector, consults the permission graph, and
// replaces the subject's credential in a single update.
func (srv *credentialService) ChangePassword(ctx context.Context, actor policy.Actor, input *usecase.ChangePasswordInput) (*usecase.ChangePasswordOutput, error) {
	selector := strings.TrimSpace(input.Selector)
	if selector == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("selector must not be empty")
	}
	if err := srv.validatePassword(input.NewPassword); err != nil {
		return nil, err
	}

	account, collection, err := srv.resolveSelector(ctx, selector)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{Role: account.Role, ID: account.ID}
	if account.Guard != nil {
		subject.SupervisorID = account.Guard.SupervisorID
	}

	if !policy.CanResetPassword(actor, subject) {
		srv.appendAudit(ctx, actor, entity.AuditActionPasswordChange, collection, account.ID,
			entity.AuditDecisionDenied, "permission graph has no edge for this actor and subject")

		return nil, domainerrors.ErrPermissionDenied.WrapMessage("credential change not allowed for this subject")
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	if err := srv.accountRepo.UpdatePassword(ctx, collection, account.ID, hash); err != nil {
		return nil, errors.Wrap(err, "update password")
	}

	srv.appendAudit(ctx, actor, entity.AuditActionPasswordChange, collection, account.ID,
		entity.AuditDecisionAllowed, "")

	srv.log(ctx).Info("Password changed",
		slog.String("subject_id", account.ID.String()),
		slog.String("collection", string(collection)))

	return &usecase.ChangePasswordOutput{
		SubjectID:  account.ID,
		Collection: string(collection),
		Name:       account.Name,
	}, nil
}

// ChangeOwnPassword verifies the presented current password before
// replacing the actor's credential.
func (srv *credentialService) ChangeOwnPassword(ctx context.Context, actor policy.Actor, input *usecase.ChangeOwnPasswordInput) error {
	if err := srv.validatePassword(input.NewPassword); err != nil {
		return err
	}

	collection := entity.CollectionForRole(actor.Role)
	account, err := srv.accountRepo.FindByID(ctx, collection, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound.WrapMessage("actor account no longer exists")
		}

		return errors.Wrap(err, "find actor account")
	}

	if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
		srv.appendAudit(ctx, actor, entity.AuditActionPasswordChangeSelf, collection, actor.ID,
			entity.AuditDecisionDenied, "current password verification failed")

		return domainerrors.ErrCurrentPasswordMismatch
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	if err := srv.accountRepo.UpdatePassword(ctx, collection, actor.ID, hash); err != nil {
		return errors.Wrap(err, "update own password")
	}

	srv.appendAudit(ctx, actor, entity.AuditActionPasswordChangeSelf, collection, actor.ID,
		entity.AuditDecisionAllowed, "")

	return nil
}

func (srv *credentialService) validatePassword(password string) error {
	if len(password) < srv.minPasswordLength {
		return domainerrors.ErrWeakPassword.WrapMessage("password is shorter than the minimum length")
	}

	return nil
}

// resolveSelector finds the first account matching the selector, scanning
// collections in a fixed order so an id reused across collections always
// resolves the same way.
func (srv *credentialService) resolveSelector(ctx context.Context, selector string) (*entity.Account, entity.Collection, error) {
	for _, collection := range entity.AllCollections() {
		account, err := srv.accountRepo.FindBySelector(ctx, collection, selector)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				continue
			}

			return nil, "", errors.Wrapf(err, "resolve selector in %s", collection)
		}

		return account, collection, nil
	}

	return nil, "", domainerrors.ErrAccountNotFound.WrapMessage("no account matches the selector")
}

// appendAudit records one policy decision. The trail is best effort: a
// failed append is logged and never fails the credential operation.
func (srv *credentialService) appendAudit(ctx context.Context, actor policy.Actor, action string, collection entity.Collection, subjectID uuid.UUID, decision, reason string) {
	entry := &entity.AuditEntry{
		ID:                uuid.New(),
		ActorRole:         actor.Role,
		ActorID:           actor.ID,
		Action:            action,
		SubjectCollection: collection,
		SubjectID:         subjectID,
		Decision:          decision,
		Reason:            reason,
		CreatedAt:         time.Now(),
	}

	if err := srv.auditRepo.Append(ctx, entry); err != nil {
		srv.log(ctx).Warn("Audit append failed",
			slog.String("action", action),
			slog.Any("error", err))
	}
}
