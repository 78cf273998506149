// Package budgeting drafts bills of quantities with a language model,
// grounded on reference prices of the catalog.
package budgeting

import (
	"context"
	"strings"

	"github.com/opst/orcaobra/pkg/domain"
	catalogdb "github.com/opst/orcaobra/pkg/domain/catalog/db"
	"github.com/opst/orcaobra/pkg/llm"
)

// MaxReferences is the number of catalog items put into a prompt at most.
const MaxReferences = 40

type Generator struct {
	completer llm.Completer
	catalog   catalogdb.CatalogInterface
}

// New returns a Generator.
//
// catalog can be nil; then prompts carry no reference prices.
func New(completer llm.Completer, catalog catalogdb.CatalogInterface) *Generator {
	return &Generator{completer: completer, catalog: catalog}
}

func (g *Generator) references(ctx context.Context, texts ...string) ([]domain.CatalogItem, error) {
	if g.catalog == nil {
		return nil, nil
	}
	keywords := domain.Keywords(texts...)
	if len(keywords) == 0 {
		return nil, nil
	}
	return g.catalog.Match(ctx, keywords, MaxReferences)
}

// Generate drafts the items of a budget for the project.
func (g *Generator) Generate(ctx context.Context, h domain.BudgetHeader) ([]domain.LineItem, error) {
	refs, err := g.references(ctx, h.ProjectType, h.Description)
	if err != nil {
		return nil, err
	}
	text, err := g.completer.Complete(ctx, BudgetPrompt(h, refs))
	if err != nil {
		return nil, err
	}
	return ParseItems(text)
}

// Suggest drafts more items for the stage of the budget.
//
// Returned items belong to the stage and are not in the budget yet.
// Their positions continue after the budget's items.
func (g *Generator) Suggest(ctx context.Context, b *domain.Budget, stage, hint string) ([]domain.LineItem, error) {
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = domain.DefaultStage
	}
	refs, err := g.references(ctx, stage, hint, b.ProjectType)
	if err != nil {
		return nil, err
	}
	text, err := g.completer.Complete(ctx, SuggestPrompt(b, stage, hint, refs))
	if err != nil {
		return nil, err
	}
	items, err := ParseItems(text)
	if err != nil {
		return nil, err
	}

	existing := map[string]struct{}{}
	for _, it := range b.Items {
		existing[domain.Fold(it.Description)] = struct{}{}
	}
	ret := []domain.LineItem{}
	for _, it := range items {
		if _, ok := existing[domain.Fold(it.Description)]; ok {
			continue
		}
		it.Stage = stage
		it.Position = len(b.Items) + len(ret) + 1
		ret = append(ret, it)
	}
	if len(ret) == 0 {
		return nil, ErrNoItems
	}
	return ret, nil
}
