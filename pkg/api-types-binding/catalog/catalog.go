package catalog

import (
	"errors"
	"fmt"
	"strings"

	apicatalog "github.com/opst/orcaobra/pkg/api/types/catalog"
	"github.com/opst/orcaobra/pkg/domain"
)

func Compose(it domain.CatalogItem) apicatalog.Item {
	ret := apicatalog.Item{
		Code:        it.Code,
		Description: it.Description,
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice,
		Stage:       it.Stage,
	}
	if !it.UpdatedAt.IsZero() {
		t := it.UpdatedAt
		ret.UpdatedAt = &t
	}
	return ret
}

var ErrInvalidItem = errors.New("invalid catalog item")

// Parse validates a catalog item in a request.
func Parse(it apicatalog.Item) (domain.CatalogItem, error) {
	ret := domain.CatalogItem{
		Code:        strings.TrimSpace(it.Code),
		Description: strings.TrimSpace(it.Description),
		Unit:        strings.TrimSpace(it.Unit),
		UnitPrice:   it.UnitPrice,
		Stage:       strings.TrimSpace(it.Stage),
	}
	switch {
	case ret.Code == "":
		return domain.CatalogItem{}, fmt.Errorf("%w: code is required", ErrInvalidItem)
	case ret.Description == "":
		return domain.CatalogItem{}, fmt.Errorf("%w: %s: description is required", ErrInvalidItem, ret.Code)
	case ret.Unit == "":
		return domain.CatalogItem{}, fmt.Errorf("%w: %s: unit is required", ErrInvalidItem, ret.Code)
	case ret.UnitPrice < 0:
		return domain.CatalogItem{}, fmt.Errorf("%w: %s: unit price should not be negative", ErrInvalidItem, ret.Code)
	}
	return ret, nil
}
