package budgets

import (
	apibudgets "github.com/opst/orcaobra/pkg/api/types/budgets"
	"github.com/opst/orcaobra/pkg/domain"
	"github.com/opst/orcaobra/pkg/utils"
)

func ComposeHeader(h domain.BudgetHeader) apibudgets.Header {
	return apibudgets.Header{
		Title:       h.Title,
		Client:      h.Client,
		Location:    h.Location,
		Description: h.Description,
		ProjectType: h.ProjectType,
		Standard:    string(h.Standard),
		AreaM2:      h.AreaM2,
		BDIPercent:  h.BDIPercent,
	}
}

func ComposeItem(it domain.LineItem) apibudgets.Item {
	return apibudgets.Item{
		ID:          it.ID,
		Position:    it.Position,
		Stage:       it.Stage,
		Code:        it.Code,
		Description: it.Description,
		Unit:        it.Unit,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Total:       it.Total(),
	}
}

func ComposeSummary(s domain.Summary) apibudgets.Summary {
	return apibudgets.Summary{
		Stages: utils.Map(s.Stages, func(st domain.StageTotal) apibudgets.StageTotal {
			return apibudgets.StageTotal(st)
		}),
		DirectCost: s.DirectCost,
		BDI:        s.BDI,
		Total:      s.Total,
	}
}

func ComposeDetail(b domain.Budget) apibudgets.Detail {
	return apibudgets.Detail{
		ID:        b.ID,
		Header:    ComposeHeader(b.BudgetHeader),
		Status:    string(b.Status),
		Source:    string(b.Source),
		Items:     utils.Map(b.Items, ComposeItem),
		Summary:   ComposeSummary(b.Summary()),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func ComposeDigest(b domain.Budget) apibudgets.Digest {
	return apibudgets.Digest{
		ID:        b.ID,
		Title:     b.Title,
		Client:    b.Client,
		Status:    string(b.Status),
		Source:    string(b.Source),
		Items:     len(b.Items),
		Total:     b.Summary().Total,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ParseHeader converts a request header into the domain, validating it.
func ParseHeader(h apibudgets.Header) (domain.BudgetHeader, error) {
	standard, err := domain.AsStandard(h.Standard)
	if err != nil {
		return domain.BudgetHeader{}, err
	}
	ret := domain.BudgetHeader{
		Title:       h.Title,
		Client:      h.Client,
		Location:    h.Location,
		Description: h.Description,
		ProjectType: h.ProjectType,
		Standard:    standard,
		AreaM2:      h.AreaM2,
		BDIPercent:  h.BDIPercent,
	}
	if err := ret.Validate(); err != nil {
		return domain.BudgetHeader{}, err
	}
	return ret, nil
}

// ParseItems converts request items into the domain. Items are normalized
// and validated. Totals in the request are ignored.
func ParseItems(items []apibudgets.Item) ([]domain.LineItem, error) {
	ret := domain.NormalizeItems(utils.Map(items, func(it apibudgets.Item) domain.LineItem {
		return domain.LineItem{
			Stage:       it.Stage,
			Code:        it.Code,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}))
	for _, it := range ret {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
