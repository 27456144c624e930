package memory

import (
	"context"
	"testing"
	"time"

	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGuard(store *AccountStore, name, email, state string, supervisorID uuid.UUID) *entity.Account {
	account := &entity.Account{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      entity.RoleGuard,
		AreaState: state,
		IsActive:  true,
		Guard:     &entity.GuardProfile{EmployeeCode: "EMP-1", SupervisorID: supervisorID},
		CreatedAt: time.Now(),
	}
	store.Seed(account)

	return account
}

func TestAccountStore_FindBySelector(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	guard := seedGuard(store, "Ramesh Kumar", "ramesh@example.com", "MH", uuid.New())
	guard.Phone = "9876543210"
	store.Seed(guard)

	byEmail, err := store.FindBySelector(ctx, entity.CollectionGuards, "ramesh@example.com")
	require.NoError(t, err)
	assert.Equal(t, guard.ID, byEmail.ID)

	byPhone, err := store.FindBySelector(ctx, entity.CollectionGuards, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, guard.ID, byPhone.ID)

	byID, err := store.FindBySelector(ctx, entity.CollectionGuards, guard.ID.String())
	require.NoError(t, err)
	assert.Equal(t, guard.ID, byID.ID)

	_, err = store.FindBySelector(ctx, entity.CollectionGuards, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	// An empty selector must not match accounts with empty contact fields.
	seedGuard(store, "No Contact", "", "MH", uuid.New())
	_, err = store.FindBySelector(ctx, entity.CollectionGuards, "")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountStore_SearchFiltersAndExcludesSuperAdmin(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	store.Seed(&entity.Account{
		ID: uuid.New(), Name: "Root Operator", Role: entity.RoleSuperAdmin,
		IsActive: true, CreatedAt: time.Now(),
	})
	admin := &entity.Account{
		ID: uuid.New(), Name: "State Admin", Role: entity.RoleAdmin,
		AreaState: "MH", IsActive: true, CreatedAt: time.Now(),
	}
	store.Seed(admin)

	results, err := store.Search(ctx, entity.CollectionAdmins, "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, admin.ID, results[0].ID)

	results, err = store.Search(ctx, entity.CollectionAdmins, "", "mh")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = store.Search(ctx, entity.CollectionAdmins, "", "KA")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.Search(ctx, entity.CollectionAdmins, "state", "")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = store.Search(ctx, entity.CollectionAdmins, "root", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAccountStore_UpdatePassword(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	guard := seedGuard(store, "Ramesh Kumar", "ramesh@example.com", "MH", uuid.New())

	require.NoError(t, store.UpdatePassword(ctx, entity.CollectionGuards, guard.ID, "new-hash"))

	found, err := store.FindByID(ctx, entity.CollectionGuards, guard.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)

	err = store.UpdatePassword(ctx, entity.CollectionGuards, uuid.New(), "hash")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
