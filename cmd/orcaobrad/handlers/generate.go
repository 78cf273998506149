package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	bindbudgets "github.com/opst/orcaobra/pkg/api-types-binding/budgets"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	apibudgets "github.com/opst/orcaobra/pkg/api/types/budgets"
	"github.com/opst/orcaobra/pkg/budgeting"
	"github.com/opst/orcaobra/pkg/domain"
	accountdb "github.com/opst/orcaobra/pkg/domain/account/db"
	budgetdb "github.com/opst/orcaobra/pkg/domain/budget/db"
	"github.com/opst/orcaobra/pkg/utils"
)

// BudgetGenerator drafts line items with AI.
type BudgetGenerator interface {
	Generate(ctx context.Context, h domain.BudgetHeader) ([]domain.LineItem, error)
	Suggest(ctx context.Context, b *domain.Budget, stage, hint string) ([]domain.LineItem, error)
}

var _ BudgetGenerator = &budgeting.Generator{}

func generationFailed(err error) *echo.HTTPError {
	if errors.Is(err, budgeting.ErrNoItems) {
		return binderr.ServiceUnavailable(
			"the assistant could not make line items for the project. retry, or describe the project in more detail.",
			err,
		)
	}
	return binderr.ServiceUnavailable("the assistant is not available now. retry later.", err)
}

// GenerateBudgetHandler creates a draft budget whose items are made by AI.
//
// Free users are limited by quota per calendar month, and beyond the quota
// it responds 402. The generation is counted before the assistant is asked.
func GenerateBudgetHandler(
	dbBudget budgetdb.BudgetInterface,
	dbAccount accountdb.AccountInterface,
	generator BudgetGenerator,
	quota domain.Quota,
	rec Recorder,
) echo.HandlerFunc {
	rec = recorderOrNop(rec)
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()

		req := new(apibudgets.GenerateRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		header, err := bindbudgets.ParseHeader(req.Header)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		// the usage is reserved before generating, and given back when no
		// budget comes of it.
		usageID, err := dbAccount.ReserveUsage(
			ctx, u.ID(), domain.UsageBudgetGeneration, domain.MonthStart(time.Now()), quota,
		)
		if err != nil {
			return binderr.FromDomain(err)
		}
		release := func() {
			if err := dbAccount.ReleaseUsage(context.WithoutCancel(ctx), u.ID(), usageID); err != nil {
				c.Logger().Errorf("failed to release usage %d of %s: %s", usageID, u.ID(), err)
			}
		}

		items, err := generator.Generate(ctx, header)
		if err != nil {
			release()
			return generationFailed(err)
		}

		created, err := dbBudget.Create(ctx, domain.Budget{
			OwnerID:      u.ID(),
			BudgetHeader: header,
			Status:       domain.BudgetDraft,
			Source:       domain.SourceAI,
			Items:        items,
		})
		if err != nil {
			release()
			return binderr.FromDomain(err)
		}
		rec.BudgetGenerated()

		return c.JSON(http.StatusCreated, bindbudgets.ComposeDetail(*created))
	}
}

// SuggestItemsHandler responds line items suggested by AI for a stage of
// the budget. They are not saved.
func SuggestItemsHandler(
	dbBudget budgetdb.BudgetInterface,
	dbAccount accountdb.AccountInterface,
	generator BudgetGenerator,
	param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()

		req := new(apibudgets.SuggestRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}

		b, err := dbBudget.Get(ctx, u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}

		items, err := generator.Suggest(ctx, b, req.Stage, req.Hint)
		if err != nil {
			return generationFailed(err)
		}
		if err := dbAccount.RecordUsage(ctx, u.ID(), domain.UsageItemSuggestion); err != nil {
			c.Logger().Errorf("failed to record usage of %s: %s", u.ID(), err)
		}

		return c.JSON(http.StatusOK, apibudgets.SuggestResponse{
			Items: utils.Map(items, bindbudgets.ComposeItem),
		})
	}
}
