package budgeting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/opst/orcaobra/pkg/domain"
	"github.com/opst/orcaobra/pkg/llm"
)

// ErrNoItems is returned when an answer carries no usable items.
var ErrNoItems = errors.New("no valid items are generated")

// number is a JSON number which may be quoted and written in pt-BR
// ("1.234,56").
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) == 0 || b[0] != '"' {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*n = number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = number(f)
	return nil
}

type answer struct {
	Items []answerItem `json:"items"`
}

type answerItem struct {
	Stage       string `json:"stage"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    number `json:"quantity"`

	// in BRL
	UnitPrice number `json:"unitPrice"`
}

// ParseItems reads line items from an answer of a model.
//
// Both {"items": [...]} and a bare array are accepted. Unit prices are in
// BRL and converted into cents. Rows which are not valid line items are
// dropped. When no rows remain, ErrNoItems is returned.
func ParseItems(text string) ([]domain.LineItem, error) {
	raw, err := llm.ExtractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoItems, err)
	}

	rows := []json.RawMessage{}
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoItems, err)
		}
	} else {
		var wrapper struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoItems, err)
		}
		rows = wrapper.Items
	}

	items := []domain.LineItem{}
	for _, row := range rows {
		ai := answerItem{}
		if err := json.Unmarshal(row, &ai); err != nil {
			continue
		}
		li := domain.LineItem{
			Stage:       ai.Stage,
			Code:        ai.Code,
			Description: ai.Description,
			Unit:        ai.Unit,
			Quantity:    float64(ai.Quantity),
			UnitPrice:   int64(math.Round(float64(ai.UnitPrice) * 100)),
		}
		items = append(items, li)
	}

	items = domain.NormalizeItems(items)
	valid := []domain.LineItem{}
	for _, li := range items {
		if li.Validate() != nil {
			continue
		}
		valid = append(valid, li)
	}
	if len(valid) == 0 {
		return nil, ErrNoItems
	}
	return domain.NormalizeItems(valid), nil
}
