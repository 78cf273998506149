package budgeting_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opst/orcaobra/pkg/budgeting"
	"github.com/opst/orcaobra/pkg/domain"
	catalogmock "github.com/opst/orcaobra/pkg/domain/catalog/db/mock"
	"github.com/opst/orcaobra/pkg/llm"
	llmmock "github.com/opst/orcaobra/pkg/llm/mock"
)

const answer = `{"items": [
	{"stage": "Fundação", "code": "96522", "description": "Escavação manual de vala", "unit": "m³", "quantity": 10, "unitPrice": 80},
	{"stage": "Alvenaria", "description": "Alvenaria de bloco cerâmico", "unit": "m²", "quantity": 200, "unitPrice": 75.5}
]}`

func TestGenerate(t *testing.T) {
	t.Run("it puts matched catalog items into the prompt", func(t *testing.T) {
		catalog := catalogmock.NewCatalogInterface(t)
		catalog.Impl.Match = func(ctx context.Context, keywords []string, limit int) ([]domain.CatalogItem, error) {
			return []domain.CatalogItem{
				{Code: "87503", Description: "Alvenaria de vedação de blocos cerâmicos", Unit: "m²", UnitPrice: 7412},
			}, nil
		}
		completer := llmmock.NewCompleter(t, "groq")
		completer.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return answer, nil
		}

		testee := budgeting.New(completer, catalog)
		items, err := testee.Generate(context.Background(), domain.BudgetHeader{
			Title: "Casa Silva", ProjectType: "Casa térrea", Standard: domain.StandardMedium,
			AreaM2: 120, Location: "Campinas/SP", Description: "Alvenaria de bloco cerâmico",
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 || items[1].UnitPrice != 7550 || items[1].Position != 2 {
			t.Errorf("items: %+v", items)
		}

		if catalog.Calls.Match.Times() != 1 {
			t.Fatalf("Match is called %d times", catalog.Calls.Match.Times())
		}
		match := catalog.Calls.Match.Last()
		if match.Limit != budgeting.MaxReferences {
			t.Errorf("limit: %d", match.Limit)
		}
		expectedKeywords := []string{"casa", "terrea", "alvenaria", "bloco", "ceramico"}
		if strings.Join(match.Keywords, ",") != strings.Join(expectedKeywords, ",") {
			t.Errorf("keywords: %v", match.Keywords)
		}

		prompt := completer.Calls.Complete[0].Prompt
		if !prompt.JSON || prompt.System == "" {
			t.Errorf("prompt: %+v", prompt)
		}
		for _, want := range []string{
			"Tipo de obra: Casa térrea",
			"Área construída: 120,00 m²",
			"Padrão de acabamento: médio",
			"Localização: Campinas/SP",
			"- 87503 | Alvenaria de vedação de blocos cerâmicos | m² | R$ 74,12",
		} {
			if !strings.Contains(prompt.User, want) {
				t.Errorf("prompt should contain %q:\n%s", want, prompt.User)
			}
		}
	})

	t.Run("it works without catalog", func(t *testing.T) {
		completer := llmmock.NewCompleter(t, "groq")
		completer.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return answer, nil
		}
		items, err := budgeting.New(completer, nil).Generate(context.Background(), domain.BudgetHeader{Title: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 {
			t.Errorf("items: %+v", items)
		}
		if strings.Contains(completer.Calls.Complete[0].Prompt.User, "Preços de referência") {
			t.Error("prompt has references")
		}
	})

	t.Run("it returns errors of the provider", func(t *testing.T) {
		expectedErr := errors.New("fake")
		completer := llmmock.NewCompleter(t, "groq")
		completer.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return "", expectedErr
		}
		_, err := budgeting.New(completer, nil).Generate(context.Background(), domain.BudgetHeader{Title: "x"})
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("it returns errors of the catalog", func(t *testing.T) {
		expectedErr := errors.New("fake")
		catalog := catalogmock.NewCatalogInterface(t)
		catalog.Impl.Match = func(ctx context.Context, keywords []string, limit int) ([]domain.CatalogItem, error) {
			return nil, expectedErr
		}
		completer := llmmock.NewCompleter(t, "groq")
		_, err := budgeting.New(completer, catalog).Generate(
			context.Background(), domain.BudgetHeader{Title: "x", ProjectType: "Galpão"},
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSuggest(t *testing.T) {
	budget := &domain.Budget{
		BudgetHeader: domain.BudgetHeader{Title: "Casa", ProjectType: "Residência"},
		Items: []domain.LineItem{
			{Position: 1, Stage: "Alvenaria", Description: "Alvenaria de bloco cerâmico", Unit: "m²", Quantity: 200, UnitPrice: 7550},
		},
	}

	t.Run("it drops existing items and forces the stage", func(t *testing.T) {
		completer := llmmock.NewCompleter(t, "groq")
		completer.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return `{"items": [
				{"stage": "Alvenaria", "description": "ALVENARIA DE BLOCO CERAMICO", "unit": "m²", "quantity": 1, "unitPrice": 1},
				{"stage": "Vedação", "description": "Verga pré-moldada", "unit": "m", "quantity": 30, "unitPrice": 25}
			]}`, nil
		}
		items, err := budgeting.New(completer, nil).Suggest(context.Background(), budget, " Alvenaria ", "incluir vergas")
		if err != nil {
			t.Fatal(err)
		}
		expected := domain.LineItem{Position: 2, Stage: "Alvenaria", Description: "Verga pré-moldada", Unit: "m", Quantity: 30, UnitPrice: 2500}
		if len(items) != 1 || items[0] != expected {
			t.Errorf("items: %+v", items)
		}

		user := completer.Calls.Complete[0].Prompt.User
		for _, want := range []string{
			`etapa "Alvenaria"`,
			"Observação: incluir vergas",
			"- Alvenaria de bloco cerâmico (200,00 m²)",
		} {
			if !strings.Contains(user, want) {
				t.Errorf("prompt should contain %q:\n%s", want, user)
			}
		}
	})

	t.Run("nothing new", func(t *testing.T) {
		completer := llmmock.NewCompleter(t, "groq")
		completer.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return `[{"description": "Alvenaria de bloco cerâmico", "unit": "m²", "quantity": 1, "unitPrice": 1}]`, nil
		}
		_, err := budgeting.New(completer, nil).Suggest(context.Background(), budget, "Alvenaria", "")
		if !errors.Is(err, budgeting.ErrNoItems) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
