package handler

import (
	"log/slog"
	"net/http"

	"guardpost/internal/delivery/http/response"
	"guardpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SearchHandlerParams holds dependencies for SearchHandler, injected by Fx.
type SearchHandlerParams struct {
	fx.In

	SearchUC usecase.SearchUsecase
	Logger   *slog.Logger
}

// SearchHandler holds dependencies for the directory search handlers.
type SearchHandler struct {
	searchUC usecase.SearchUsecase
	logger   *slog.Logger
}

// NewSearchHandler is the constructor for SearchHandler
func NewSearchHandler(params SearchHandlerParams) *SearchHandler {
	return &SearchHandler{
		searchUC: params.SearchUC,
		logger:   params.Logger,
	}
}

// SearchUsers handles the directory search. The query keyword decides
// which collections are searched; the optional state narrows by area.
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	if _, err := requireActor(c); err != nil {
		return err
	}

	input := &usecase.SearchAccountsInput{
		Query: c.QueryParam("query"),
		State: c.QueryParam("state"),
	}

	result, err := h.searchUC.SearchAccounts(c.Request().Context(), input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Accounts retrieved successfully")
}
