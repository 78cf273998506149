package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	domerr "github.com/opst/orcaobra/pkg/domain/errors"
)

// Standard is the finishing standard of a construction.
type Standard string

const (
	StandardLow    Standard = "baixo"
	StandardMedium Standard = "medio"
	StandardHigh   Standard = "alto"
)

func AsStandard(s string) (Standard, error) {
	switch st := Standard(strings.ToLower(strings.TrimSpace(s))); st {
	case StandardLow, StandardMedium, StandardHigh:
		return st, nil
	case "", "médio":
		return StandardMedium, nil
	}
	return "", fmt.Errorf("%w: unknown standard %q", domerr.ErrInvalidBudget, s)
}

type BudgetStatus string

const (
	BudgetDraft BudgetStatus = "draft"
	BudgetFinal BudgetStatus = "final"
)

func AsBudgetStatus(s string) (BudgetStatus, error) {
	switch st := BudgetStatus(s); st {
	case BudgetDraft, BudgetFinal:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", domerr.ErrInvalidBudget, s)
}

// BudgetSource tells how the items of a budget were made.
type BudgetSource string

const (
	SourceManual BudgetSource = "manual"
	SourceAI     BudgetSource = "ai"
)

// DefaultStage is the stage of items which do not tell theirs.
const DefaultStage = "Geral"

// BudgetHeader is the part of a budget which describes the project.
type BudgetHeader struct {
	Title       string
	Client      string
	Location    string
	Description string
	ProjectType string
	Standard    Standard
	AreaM2      float64

	// BDI ("Benefícios e Despesas Indiretas") in percent of the direct cost.
	BDIPercent float64
}

func (h BudgetHeader) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("%w: title is required", domerr.ErrInvalidBudget)
	}
	if math.IsNaN(h.BDIPercent) || h.BDIPercent < 0 || 100 < h.BDIPercent {
		return fmt.Errorf("%w: bdi should be in [0, 100]: %v", domerr.ErrInvalidBudget, h.BDIPercent)
	}
	if math.IsNaN(h.AreaM2) || h.AreaM2 < 0 {
		return fmt.Errorf("%w: area should not be negative: %v", domerr.ErrInvalidBudget, h.AreaM2)
	}
	if _, err := AsStandard(string(h.Standard)); err != nil {
		return err
	}
	return nil
}

// LineItem is a row of a bill of quantities.
type LineItem struct {
	ID       string
	Position int

	Stage       string
	Code        string
	Description string
	Unit        string
	Quantity    float64

	// in cents of BRL.
	UnitPrice int64
}

// MaxTotal bounds the total of an item and the direct cost of a budget, in
// cents (R$ 10 trillion), so sums stay exact in int64 and float64.
const MaxTotal int64 = 1_000_000_000_000_000

// Total is Quantity × UnitPrice, rounded to cents.
func (li LineItem) Total() int64 {
	return int64(math.Round(li.Quantity * float64(li.UnitPrice)))
}

func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return fmt.Errorf("%w: item #%d: description is required", domerr.ErrInvalidBudget, li.Position)
	}
	if strings.TrimSpace(li.Unit) == "" {
		return fmt.Errorf("%w: item #%d: unit is required", domerr.ErrInvalidBudget, li.Position)
	}
	if math.IsNaN(li.Quantity) || math.IsInf(li.Quantity, 0) || li.Quantity < 0 {
		return fmt.Errorf("%w: item #%d: quantity should not be negative", domerr.ErrInvalidBudget, li.Position)
	}
	if li.UnitPrice < 0 {
		return fmt.Errorf("%w: item #%d: unit price should not be negative", domerr.ErrInvalidBudget, li.Position)
	}
	if float64(MaxTotal) < li.Quantity*float64(li.UnitPrice) {
		return fmt.Errorf("%w: item #%d: total is too large", domerr.ErrInvalidBudget, li.Position)
	}
	return nil
}

// NormalizeItems trims text fields, fills empty stages with DefaultStage and
// renumbers positions from 1 in the given order.
func NormalizeItems(items []LineItem) []LineItem {
	ret := make([]LineItem, len(items))
	for i, it := range items {
		it.Position = i + 1
		it.Stage = strings.TrimSpace(it.Stage)
		if it.Stage == "" {
			it.Stage = DefaultStage
		}
		it.Code = strings.TrimSpace(it.Code)
		it.Description = strings.TrimSpace(it.Description)
		it.Unit = strings.TrimSpace(it.Unit)
		ret[i] = it
	}
	return ret
}

type Budget struct {
	ID      string
	OwnerID string
	BudgetHeader

	Status BudgetStatus
	Source BudgetSource
	Items  []LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the header and every item.
func (b *Budget) Validate() error {
	if err := b.BudgetHeader.Validate(); err != nil {
		return err
	}
	direct := int64(0)
	for _, it := range b.Items {
		if err := it.Validate(); err != nil {
			return err
		}
		direct += it.Total()
		if MaxTotal < direct {
			return fmt.Errorf("%w: direct cost is too large", domerr.ErrInvalidBudget)
		}
	}
	return nil
}

func (b *Budget) Summary() Summary {
	return Summarize(b.Items, b.BDIPercent)
}

// Duplicate is a new draft with the content of b. IDs are left empty.
func (b *Budget) Duplicate() Budget {
	items := make([]LineItem, len(b.Items))
	for i, it := range b.Items {
		it.ID = ""
		items[i] = it
	}
	header := b.BudgetHeader
	header.Title = strings.TrimSpace(header.Title) + " (cópia)"
	return Budget{
		OwnerID:      b.OwnerID,
		BudgetHeader: header,
		Status:       BudgetDraft,
		Source:       b.Source,
		Items:        items,
	}
}

type StageTotal struct {
	Stage    string
	Items    int
	Subtotal int64

	// fraction of the direct cost, in [0, 1].
	Share float64
}

type Summary struct {
	// stages in the order of their first appearance in items.
	Stages []StageTotal

	DirectCost int64
	BDI        int64

	// DirectCost + BDI
	Total int64
}

// Summarize groups items by stage and totals them.
//
// BDI is DirectCost × bdiPercent / 100, rounded to cents.
func Summarize(items []LineItem, bdiPercent float64) Summary {
	stages := []StageTotal{}
	index := map[string]int{}
	direct := int64(0)

	for _, it := range items {
		stage := it.Stage
		if stage == "" {
			stage = DefaultStage
		}
		i, ok := index[stage]
		if !ok {
			i = len(stages)
			index[stage] = i
			stages = append(stages, StageTotal{Stage: stage})
		}
		total := it.Total()
		stages[i].Items += 1
		stages[i].Subtotal += total
		direct += total
	}

	if direct != 0 {
		for i := range stages {
			stages[i].Share = float64(stages[i].Subtotal) / float64(direct)
		}
	}

	bdi := int64(math.Round(float64(direct) * bdiPercent / 100))
	return Summary{
		Stages:     stages,
		DirectCost: direct,
		BDI:        bdi,
		Total:      direct + bdi,
	}
}
