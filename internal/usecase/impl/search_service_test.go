package impl

import (
	"context"
	"testing"
	"time"

	"guardpost/internal/domain/entity"
	"guardpost/internal/infra/persistence/memory"
	"guardpost/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchFixture(t *testing.T) (usecase.SearchUsecase, *memory.AccountStore) {
	t.Helper()

	accounts := memory.NewAccountStore()
	service := NewSearchService(SearchServiceParams{
		AccountRepo: accounts,
		Logger:      testLogger(),
	})

	return service, accounts
}

func TestSearchService_KeywordRemapsToSupervisors(t *testing.T) {
	service, accounts := newSearchFixture(t)
	ctx := context.Background()

	seedAccount(t, accounts, entity.RoleAdmin, "Adam", "adam@example.com", "")
	supervisor := seedAccount(t, accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	seedAccount(t, accounts, entity.RoleGuard, "Ali", "ali@example.com", "")

	for _, query := range []string{"fieldofficer", "Field Officer", "  field-officer "} {
		result, err := service.SearchAccounts(ctx, &usecase.SearchAccountsInput{Query: query})
		require.NoError(t, err)
		require.Len(t, result.Results, 1, "query %q", query)
		assert.Equal(t, supervisor.ID, result.Results[0].ID)
		assert.Equal(t, string(entity.CollectionSupervisors), result.Results[0].Collection)
		assert.Equal(t, "SUP-Siti", result.Results[0].SupervisorCode)
	}
}

func TestSearchService_KeywordRemapsToGuards(t *testing.T) {
	service, accounts := newSearchFixture(t)
	ctx := context.Background()

	seedAccount(t, accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, accounts, entity.RoleGuard, "Ali", "ali@example.com", "")

	result, err := service.SearchAccounts(ctx, &usecase.SearchAccountsInput{Query: "supervisor"})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, guard.ID, result.Results[0].ID)
	assert.Equal(t, "EMP-Ali", result.Results[0].EmployeeCode)
}

func TestSearchService_GenericQuerySpansCollections(t *testing.T) {
	service, accounts := newSearchFixture(t)
	ctx := context.Background()

	seedAccount(t, accounts, entity.RoleSuperAdmin, "Ali Root", "root@example.com", "")
	admin := seedAccount(t, accounts, entity.RoleAdmin, "Ali Adam", "adam@example.com", "")
	supervisor := seedAccount(t, accounts, entity.RoleSupervisor, "Ali Siti", "siti@example.com", "")
	guard := seedAccount(t, accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	seedAccount(t, accounts, entity.RoleGuard, "Bala", "bala@example.com", "")

	result, err := service.SearchAccounts(ctx, &usecase.SearchAccountsInput{Query: "ali"})
	require.NoError(t, err)

	// Super admin rows never surface in search results.
	assert.Equal(t, 3, result.Total)
	ids := make(map[string]bool, len(result.Results))
	for _, record := range result.Results {
		ids[record.ID.String()] = true
	}
	assert.True(t, ids[admin.ID.String()])
	assert.True(t, ids[supervisor.ID.String()])
	assert.True(t, ids[guard.ID.String()])
}

func TestSearchService_ResultsNewestFirst(t *testing.T) {
	service, accounts := newSearchFixture(t)
	ctx := context.Background()

	older := seedAccount(t, accounts, entity.RoleGuard, "Ali One", "one@example.com", "")
	older.CreatedAt = time.Now().Add(-time.Hour)
	accounts.Seed(older)

	newer := seedAccount(t, accounts, entity.RoleSupervisor, "Ali Two", "two@example.com", "")
	newer.CreatedAt = time.Now()
	accounts.Seed(newer)

	result, err := service.SearchAccounts(ctx, &usecase.SearchAccountsInput{Query: "ali"})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, newer.ID, result.Results[0].ID)
	assert.Equal(t, older.ID, result.Results[1].ID)
}

func TestSearchService_StateFilter(t *testing.T) {
	service, accounts := newSearchFixture(t)
	ctx := context.Background()

	matching := seedAccount(t, accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	other := seedAccount(t, accounts, entity.RoleGuard, "Ali Too", "alitoo@example.com", "")
	other.AreaState = "Johor"
	accounts.Seed(other)

	result, err := service.SearchAccounts(ctx, &usecase.SearchAccountsInput{Query: "ali", State: "selangor"})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, matching.ID, result.Results[0].ID)
}
