package document

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/opst/orcaobra/pkg/domain"
)

// plain pt-BR number, without grouping: spreadsheets read it back as a number.
func plain(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	b := []byte(s)
	for i := range b {
		if b[i] == '.' {
			b[i] = ','
		}
	}
	return string(b)
}

func cents(v int64) string {
	return plain(float64(v)/100, 2)
}

// BudgetCSV writes the items of a budget as CSV for spreadsheets in pt-BR:
// fields are separated by ";" and decimals use ",".
//
// Rows of totals follow the items.
func BudgetCSV(w io.Writer, b *domain.Budget) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	rows := [][]string{
		{"Item", "Etapa", "Código", "Descrição", "Unidade", "Quantidade", "Preço unitário (R$)", "Total (R$)"},
	}
	for _, it := range b.Items {
		rows = append(rows, []string{
			strconv.Itoa(it.Position),
			it.Stage,
			it.Code,
			it.Description,
			it.Unit,
			plain(it.Quantity, 2),
			cents(it.UnitPrice),
			cents(it.Total()),
		})
	}

	s := b.Summary()
	rows = append(rows,
		[]string{"", "", "", "Custo direto", "", "", "", cents(s.DirectCost)},
		[]string{"", "", "", "BDI (" + plain(b.BDIPercent, 2) + "%)", "", "", "", cents(s.BDI)},
		[]string{"", "", "", "Total", "", "", "", cents(s.Total)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
