// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	deliverycontext "guardpost/internal/delivery/context"
	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/policy"
	"guardpost/internal/domain/repository"
	"guardpost/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// searchService implements the SearchUsecase interface.
type searchService struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// SearchServiceParams holds dependencies for SearchService, injected by Fx.
type SearchServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Logger      *slog.Logger
}

// NewSearchService is the constructor for searchService.
func NewSearchService(params SearchServiceParams) usecase.SearchUsecase {
	return &searchService{
		accountRepo: params.AccountRepo,
		logger:      params.Logger,
	}
}

func (srv *searchService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SearchAccounts resolves the query keyword, fans out to the target
// collections, and merges the results newest first.
func (srv *searchService) SearchAccounts(ctx context.Context, input *usecase.SearchAccountsInput) (*usecase.SearchAccountsOutput, error) {
	target := policy.ResolveSearchTarget(input.Query)
	state := strings.TrimSpace(input.State)

	srv.log(ctx).Info("Searching accounts",
		slog.String("query", input.Query),
		slog.String("state", state),
		slog.Int("collections", len(target.Collections)))

	records := make([]*usecase.AccountRecord, 0)
	for _, collection := range target.Collections {
		accounts, err := srv.accountRepo.Search(ctx, collection, target.EffectiveQuery, state)
		if err != nil {
			return nil, errors.Wrapf(err, "search collection %s", collection)
		}

		for _, account := range accounts {
			records = append(records, toAccountRecord(account, collection))
		}
	}

	// Stable keeps the per-collection order for ties on CreatedAt.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return &usecase.SearchAccountsOutput{
		Total:   len(records),
		Results: records,
	}, nil
}

// toAccountRecord flattens an account and its role profile into one unified
// search row tagged with its source collection.
func toAccountRecord(account *entity.Account, collection entity.Collection) *usecase.AccountRecord {
	record := &usecase.AccountRecord{
		ID:         account.ID,
		Collection: string(collection),
		Name:       account.Name,
		Email:      account.Email,
		Phone:      account.Phone,
		Role:       string(account.Role),
		AreaState:  account.AreaState,
		IsActive:   account.IsActive,
		CreatedAt:  account.CreatedAt,
		LastLogin:  account.LastLogin,
	}

	if account.Supervisor != nil {
		record.SupervisorCode = account.Supervisor.Code
	}
	if account.Guard != nil {
		record.EmployeeCode = account.Guard.EmployeeCode
		supervisorID := account.Guard.SupervisorID
		record.SupervisorID = &supervisorID
	}

	return record
}
