package topography_test

import (
	"strings"
	"testing"

	"github.com/opst/orcaobra/pkg/topography"
)

func TestFormatDMS(t *testing.T) {
	for when, then := range map[float64]string{
		0:          `000°00'00"`,
		90:         `090°00'00"`,
		123.5:      `123°30'00"`,
		45.2625:    `045°15'45"`,
		359.99999:  `000°00'00"`,
		12.9999999: `013°00'00"`,
		270.008333: `270°00'30"`,
	} {
		if got := topography.FormatDMS(when); got != then {
			t.Errorf("FormatDMS(%v): got %s, want %s", when, got, then)
		}
	}
}

func TestFormatNumbers(t *testing.T) {
	if got := topography.FormatMeters(1234.567); got != "1.234,57" {
		t.Errorf("FormatMeters: got %s", got)
	}
	if got := topography.FormatMeters(12.3); got != "12,30" {
		t.Errorf("FormatMeters: got %s", got)
	}
	if got := topography.FormatHectares(1.23456); got != "1,2346" {
		t.Errorf("FormatHectares: got %s", got)
	}
	if got := topography.FormatCoordinate(7394588.3194); got != "7.394.588,319" {
		t.Errorf("FormatCoordinate: got %s", got)
	}
}

func TestDescribe(t *testing.T) {
	m, err := topography.Compute(squareClockwise, topography.Options{
		Neighbors: []string{"Rua das Flores", "", "Lote 13", "Lote 11"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := topography.Describe(m, topography.Header{
		Property:     "Lote 12",
		Owner:        "Maria Silva",
		Municipality: "Macapá/AP",
	})

	for _, want := range []string{
		"MEMORIAL DESCRITIVO",
		"Imóvel: Lote 12",
		"Proprietário: Maria Silva",
		"Município: Macapá/AP",
		"fuso 23S",
		"Inicia-se a descrição deste perímetro no vértice P1, de coordenadas N ",
		`segue com azimute de 000°00'00" e distância de 110,5`,
		"confrontando com Rua das Flores, até o vértice P2",
		"até o vértice P1, ponto inicial da descrição deste perímetro.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Matrícula") {
		t.Errorf("empty header fields must be omitted:\n%s", got)
	}
	if strings.Count(got, "confrontando com") != 3 {
		t.Errorf("segments without neighbor must not name one:\n%s", got)
	}
}
