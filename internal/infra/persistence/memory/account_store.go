// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back local development and tests; behavior
// mirrors the postgres implementations, including the bind compare-and-set.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/repository"

	"github.com/google/uuid"
)

// AccountStore is an in-memory repository.AccountRepository.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[entity.Collection]map[uuid.UUID]*entity.Account
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	accounts := make(map[entity.Collection]map[uuid.UUID]*entity.Account)
	for _, collection := range entity.AllCollections() {
		accounts[collection] = make(map[uuid.UUID]*entity.Account)
	}

	return &AccountStore{accounts: accounts}
}

// Seed inserts an account into its collection, replacing any previous row
// with the same id.
func (s *AccountStore) Seed(account *entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cloned := cloneAccount(account)
	s.accounts[account.Collection()][account.ID] = cloned
}

// FindByID retrieves a single account by id within one collection.
func (s *AccountStore) FindByID(_ context.Context, collection entity.Collection, id uuid.UUID) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if account, ok := s.accounts[collection][id]; ok {
		return cloneAccount(account), nil
	}

	return nil, repository.ErrAccountNotFound
}

// FindBySelector retrieves a single account whose id, email, or phone
// equals the selector.
func (s *AccountStore) FindBySelector(_ context.Context, collection entity.Collection, selector string) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, err := uuid.Parse(selector); err == nil {
		if account, ok := s.accounts[collection][id]; ok {
			return cloneAccount(account), nil
		}

		return nil, repository.ErrAccountNotFound
	}

	for _, account := range s.accounts[collection] {
		if (account.Email != "" && account.Email == selector) ||
			(account.Phone != "" && account.Phone == selector) {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

// Search retrieves matching accounts in one collection, newest first.
func (s *AccountStore) Search(_ context.Context, collection entity.Collection, query, state string) ([]*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	stateNeedle := strings.ToLower(state)

	results := make([]*entity.Account, 0)
	for _, account := range s.accounts[collection] {
		if collection == entity.CollectionAdmins && account.Role == entity.RoleSuperAdmin {
			continue
		}
		if stateNeedle != "" && strings.ToLower(account.AreaState) != stateNeedle {
			continue
		}
		if needle != "" && !matchesQuery(account, needle) {
			continue
		}
		results = append(results, cloneAccount(account))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// UpdatePassword replaces the stored credential hash of one account.
func (s *AccountStore) UpdatePassword(_ context.Context, collection entity.Collection, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[collection][id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.PasswordHash = passwordHash

	return nil
}

func matchesQuery(account *entity.Account, needle string) bool {
	return strings.Contains(strings.ToLower(account.Name), needle) ||
		strings.Contains(strings.ToLower(account.Email), needle) ||
		strings.Contains(strings.ToLower(account.Phone), needle)
}

func cloneAccount(account *entity.Account) *entity.Account {
	cloned := *account
	if account.Supervisor != nil {
		profile := *account.Supervisor
		cloned.Supervisor = &profile
	}
	if account.Guard != nil {
		profile := *account.Guard
		cloned.Guard = &profile
	}
	if account.LastLogin != nil {
		lastLogin := *account.LastLogin
		cloned.LastLogin = &lastLogin
	}

	return &cloned
}
