package topography

import (
	"fmt"
	"strings"
)

// Header identifies the property described by a memorial.
type Header struct {
	Property     string
	Owner        string
	Municipality string
	Registration string
}

// Describe writes the memorial descritivo narrative of m.
func Describe(m *Memorial, h Header) string {
	b := new(strings.Builder)

	b.WriteString("MEMORIAL DESCRITIVO\n\n")
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(b, "%s: %s\n", label, value)
		}
	}
	line("Imóvel", h.Property)
	line("Proprietário", h.Owner)
	line("Município", h.Municipality)
	line("Matrícula", h.Registration)
	fmt.Fprintf(b, "Área: %s m² (%s ha)\n", FormatMeters(m.Area), FormatHectares(m.Hectares()))
	fmt.Fprintf(b, "Perímetro: %s m\n", FormatMeters(m.Perimeter))
	fmt.Fprintf(
		b, "Sistema de coordenadas: UTM, fuso %d%s, datum SIRGAS 2000\n\n",
		m.Zone, m.Hemisphere(),
	)
	b.WriteString(Narrative(m))
	b.WriteString("\n")

	return b.String()
}

// Narrative is the walk around the perimeter, vertex by vertex, in one paragraph.
func Narrative(m *Memorial) string {
	b := new(strings.Builder)

	points := make(map[string]Point, len(m.Points))
	for _, p := range m.Points {
		points[p.Label] = p
	}
	at := func(label string) string {
		p := points[label]
		return fmt.Sprintf(
			"vértice %s, de coordenadas N %s m e E %s m",
			label, FormatCoordinate(p.Northing), FormatCoordinate(p.Easting),
		)
	}

	start := m.Points[0].Label
	fmt.Fprintf(b, "Inicia-se a descrição deste perímetro no %s", at(start))
	for i, s := range m.Segments {
		fmt.Fprintf(
			b, "; deste, segue com azimute de %s e distância de %s m",
			FormatDMS(s.Azimuth), FormatMeters(s.Distance),
		)
		if s.Neighbor != "" {
			fmt.Fprintf(b, ", confrontando com %s", s.Neighbor)
		}
		if i == len(m.Segments)-1 {
			fmt.Fprintf(b, ", até o vértice %s, ponto inicial da descrição deste perímetro.", s.To)
		} else {
			fmt.Fprintf(b, ", até o %s", at(s.To))
		}
	}
	return b.String()
}
