package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	bindbudgets "github.com/opst/orcaobra/pkg/api-types-binding/budgets"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	apibudgets "github.com/opst/orcaobra/pkg/api/types/budgets"
	"github.com/opst/orcaobra/pkg/document"
	"github.com/opst/orcaobra/pkg/domain"
	budgetdb "github.com/opst/orcaobra/pkg/domain/budget/db"
	"github.com/opst/orcaobra/pkg/utils"
)

func parseBudgetRequest(c echo.Context) (domain.BudgetHeader, []domain.LineItem, error) {
	req := new(apibudgets.Request)
	if err := bindJSON(c, req); err != nil {
		return domain.BudgetHeader{}, nil, err
	}
	header, err := bindbudgets.ParseHeader(req.Header)
	if err != nil {
		return domain.BudgetHeader{}, nil, binderr.BadRequest(err.Error(), err)
	}
	items, err := bindbudgets.ParseItems(req.Items)
	if err != nil {
		return domain.BudgetHeader{}, nil, binderr.BadRequest(err.Error(), err)
	}
	return header, items, nil
}

func CreateBudgetHandler(dbBudget budgetdb.BudgetInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		header, items, err := parseBudgetRequest(c)
		if err != nil {
			return err
		}

		created, err := dbBudget.Create(c.Request().Context(), domain.Budget{
			OwnerID:      u.ID(),
			BudgetHeader: header,
			Status:       domain.BudgetDraft,
			Source:       domain.SourceManual,
			Items:        items,
		})
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindbudgets.ComposeDetail(*created))
	}
}

// ListBudgetsHandler lists budgets of the user. Query "status" filters them.
func ListBudgetsHandler(dbBudget budgetdb.BudgetInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}

		var status *domain.BudgetStatus
		if q := c.QueryParam("status"); q != "" {
			st, err := domain.AsBudgetStatus(q)
			if err != nil {
				return binderr.BadRequest(`status should be "draft" or "final"`, err)
			}
			status = &st
		}

		budgets, err := dbBudget.List(c.Request().Context(), u.ID(), status)
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(budgets, bindbudgets.ComposeDigest))
	}
}

func GetBudgetHandler(dbBudget budgetdb.BudgetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		b, err := dbBudget.Get(c.Request().Context(), u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindbudgets.ComposeDetail(*b))
	}
}

// UpdateBudgetHandler replaces the header and items of a budget.
func UpdateBudgetHandler(dbBudget budgetdb.BudgetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		header, items, err := parseBudgetRequest(c)
		if err != nil {
			return err
		}

		updated, err := dbBudget.Update(c.Request().Context(), domain.Budget{
			ID:           c.Param(param),
			OwnerID:      u.ID(),
			BudgetHeader: header,
			Items:        items,
		})
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindbudgets.ComposeDetail(*updated))
	}
}

func DeleteBudgetHandler(dbBudget budgetdb.BudgetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		if err := dbBudget.Delete(c.Request().Context(), u.ID(), c.Param(param)); err != nil {
			return binderr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// DuplicateBudgetHandler copies a budget into a new draft.
func DuplicateBudgetHandler(dbBudget budgetdb.BudgetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		original, err := dbBudget.Get(ctx, u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}
		created, err := dbBudget.Create(ctx, original.Duplicate())
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindbudgets.ComposeDetail(*created))
	}
}

func SetBudgetStatusHandler(dbBudget budgetdb.BudgetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		req := new(apibudgets.StatusRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		status, err := domain.AsBudgetStatus(req.Status)
		if err != nil {
			return binderr.BadRequest(`status should be "draft" or "final"`, err)
		}
		b, err := dbBudget.SetStatus(c.Request().Context(), u.ID(), c.Param(param), status)
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindbudgets.ComposeDetail(*b))
	}
}

// utf8BOM lets spreadsheet applications detect the encoding of CSV.
var utf8BOM = []byte("\xef\xbb\xbf")

// ExportBudgetCSVHandler responds the budget as a CSV attachment.
func ExportBudgetCSVHandler(dbBudget budgetdb.BudgetInterface, param string, rec Recorder) echo.HandlerFunc {
	rec = recorderOrNop(rec)
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		b, err := dbBudget.Get(c.Request().Context(), u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}

		buf := new(bytes.Buffer)
		buf.Write(utf8BOM)
		if err := document.BudgetCSV(buf, b); err != nil {
			return binderr.InternalServerError(err)
		}
		rec.DocumentRendered("budget.csv")
		c.Response().Header().Set(
			echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="orcamento-%s.csv"`, b.ID),
		)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

// BudgetDocumentHandler responds the printable HTML document of the budget.
func BudgetDocumentHandler(dbBudget budgetdb.BudgetInterface, param string, rec Recorder) echo.HandlerFunc {
	rec = recorderOrNop(rec)
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		b, err := dbBudget.Get(c.Request().Context(), u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}

		buf := new(bytes.Buffer)
		if err := document.Budget(buf, b); err != nil {
			return binderr.InternalServerError(err)
		}
		rec.DocumentRendered("budget")
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}
