package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	bindcatalog "github.com/opst/orcaobra/pkg/api-types-binding/catalog"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	apicatalog "github.com/opst/orcaobra/pkg/api/types/catalog"
	catalogdb "github.com/opst/orcaobra/pkg/domain/catalog/db"
	"github.com/opst/orcaobra/pkg/utils"
)

const (
	defaultCatalogLimit = 50
	maxCatalogLimit     = 500
)

// SearchCatalogHandler finds reference prices by query "q".
// Query "limit" caps the number of items.
func SearchCatalogHandler(dbCatalog catalogdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := defaultCatalogLimit
		if l := c.QueryParam("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n <= 0 {
				return binderr.BadRequest("limit should be a positive integer", err)
			}
			limit = min(n, maxCatalogLimit)
		}

		items, err := dbCatalog.Search(c.Request().Context(), c.QueryParam("q"), limit)
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(items, bindcatalog.Compose))
	}
}

// UpsertCatalogHandler creates or replaces reference prices by code.
// The body is an array of items.
func UpsertCatalogHandler(dbCatalog catalogdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := []apicatalog.Item{}
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if len(req) == 0 {
			return binderr.BadRequest("at least one item is required", nil)
		}

		items, err := utils.MapUntilError(req, bindcatalog.Parse)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}
		if err := dbCatalog.Upsert(c.Request().Context(), items); err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(items, bindcatalog.Compose))
	}
}

func DeleteCatalogHandler(dbCatalog catalogdb.CatalogInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := dbCatalog.Delete(c.Request().Context(), c.Param(param)); err != nil {
			return binderr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
