package budgets_test

import (
	"errors"
	"testing"
	"time"

	bindbudgets "github.com/opst/orcaobra/pkg/api-types-binding/budgets"
	apibudgets "github.com/opst/orcaobra/pkg/api/types/budgets"
	"github.com/opst/orcaobra/pkg/domain"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
)

func TestComposeDetail(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	got := bindbudgets.ComposeDetail(domain.Budget{
		ID:           "b-1",
		BudgetHeader: domain.BudgetHeader{Title: "Casa", Standard: domain.StandardLow, BDIPercent: 10},
		Status:       domain.BudgetDraft,
		Source:       domain.SourceManual,
		Items: []domain.LineItem{
			{ID: "i-1", Position: 1, Stage: "A", Description: "x", Unit: "m", Quantity: 1.5, UnitPrice: 1000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})

	if got.ID != "b-1" || got.Title != "Casa" || got.Standard != "baixo" || got.Status != "draft" {
		t.Errorf("unexpected header: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Total != 1500 {
		t.Errorf("unexpected items: %+v", got.Items)
	}
	if got.Summary.DirectCost != 1500 || got.Summary.BDI != 150 || got.Summary.Total != 1650 {
		t.Errorf("unexpected summary: %+v", got.Summary)
	}
	if len(got.Summary.Stages) != 1 || got.Summary.Stages[0].Share != 1 {
		t.Errorf("unexpected stages: %+v", got.Summary.Stages)
	}
}

func TestParse(t *testing.T) {
	t.Run("header is validated", func(t *testing.T) {
		_, err := bindbudgets.ParseHeader(apibudgets.Header{Title: "", BDIPercent: 10})
		if !errors.Is(err, domerr.ErrInvalidBudget) {
			t.Errorf("want ErrInvalidBudget, got %v", err)
		}
		h, err := bindbudgets.ParseHeader(apibudgets.Header{Title: "Casa"})
		if err != nil {
			t.Fatal(err)
		}
		if h.Standard != domain.StandardMedium {
			t.Errorf("standard should default to medio: %s", h.Standard)
		}
	})

	t.Run("items are normalized and validated", func(t *testing.T) {
		got, err := bindbudgets.ParseItems([]apibudgets.Item{
			{Position: 5, Description: " Reboco ", Unit: "m2", Quantity: 10, UnitPrice: 2500, Total: 1},
		})
		if err != nil {
			t.Fatal(err)
		}
		want := domain.LineItem{Position: 1, Stage: domain.DefaultStage, Description: "Reboco", Unit: "m2", Quantity: 10, UnitPrice: 2500}
		if len(got) != 1 || got[0] != want {
			t.Errorf("unexpected: %+v", got)
		}

		_, err = bindbudgets.ParseItems([]apibudgets.Item{{Description: "x", Unit: "m", Quantity: -1}})
		if !errors.Is(err, domerr.ErrInvalidBudget) {
			t.Errorf("want ErrInvalidBudget, got %v", err)
		}
	})
}
