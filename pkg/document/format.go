package document

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats cents as "R$ 1.234,56".
func BRL(cents int64) string {
	return printer.Sprintf("R$ %.2f", float64(cents)/100)
}

// Decimal formats v with digits decimal places in pt-BR, with grouping.
func Decimal(v float64, digits int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", digits), v)
}

// Percent formats a fraction (0.125) as "12,50%".
func Percent(fraction float64) string {
	return printer.Sprintf("%.2f%%", fraction*100)
}

// Date formats t as dd/mm/yyyy.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
