package topography

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatDMS formats decimal degrees as DDD°MM'SS", rounded to the nearest second.
func FormatDMS(deg float64) string {
	total := int(math.Round(deg * 3600))
	total %= 360 * 3600
	if total < 0 {
		total += 360 * 3600
	}
	d := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%03d°%02d'%02d\"", d, m, s)
}

// FormatMeters formats a length with two decimals in Brazilian notation (1.234,56).
func FormatMeters(v float64) string {
	return ptBR.Sprintf("%.2f", v)
}

// FormatCoordinate formats a UTM coordinate with three decimals in Brazilian notation.
func FormatCoordinate(v float64) string {
	return ptBR.Sprintf("%.3f", v)
}

// FormatHectares formats hectares with four decimals in Brazilian notation.
func FormatHectares(v float64) string {
	return ptBR.Sprintf("%.4f", v)
}
