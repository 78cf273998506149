// Package document renders printable documents (HTML) and spreadsheets (CSV)
// of budgets, photo reports and memorials.
package document

import (
	"embed"
	"html/template"
	"io"

	"github.com/opst/orcaobra/pkg/domain"
	"github.com/opst/orcaobra/pkg/topography"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"brl":     BRL,
		"decimal": Decimal,
		"percent": Percent,
		"date":    Date,
		"dms":     topography.FormatDMS,
		"meters":  topography.FormatMeters,
		"coord":   topography.FormatCoordinate,
		"ha":      topography.FormatHectares,
		"inc":     func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html"),
)

type stageRows struct {
	Stage domain.StageTotal
	Items []domain.LineItem
}

type budgetView struct {
	Budget  *domain.Budget
	Summary domain.Summary
	Stages  []stageRows
}

// Budget writes the printable document of a budget: a table per stage and
// the totals with BDI.
func Budget(w io.Writer, b *domain.Budget) error {
	summary := b.Summary()
	stages := make([]stageRows, len(summary.Stages))
	index := map[string]int{}
	for i, st := range summary.Stages {
		stages[i] = stageRows{Stage: st}
		index[st.Stage] = i
	}
	for _, it := range b.Items {
		stage := it.Stage
		if stage == "" {
			stage = domain.DefaultStage
		}
		i := index[stage]
		stages[i].Items = append(stages[i].Items, it)
	}
	return templates.ExecuteTemplate(w, "budget.html", budgetView{
		Budget: b, Summary: summary, Stages: stages,
	})
}

type photoView struct {
	Photo domain.Photo
	URL   string
}

type photoReportView struct {
	Report *domain.PhotoReport
	Photos []photoView
}

// PhotoReport writes the printable document of a photo report.
//
// urls maps photo IDs to where their images are downloaded.
func PhotoReport(w io.Writer, r *domain.PhotoReport, urls map[string]string) error {
	photos := make([]photoView, len(r.Photos))
	for i, p := range r.Photos {
		photos[i] = photoView{Photo: p, URL: urls[p.ID]}
	}
	return templates.ExecuteTemplate(w, "photoreport.html", photoReportView{Report: r, Photos: photos})
}

type vertexRow struct {
	Point   topography.Point
	Segment topography.Segment
}

type memorialView struct {
	Name     string
	Header   topography.Header
	Memorial *topography.Memorial
	Rows     []vertexRow
	Text     string
}

// Memorial writes the printable memorial descritivo of a parcel.
func Memorial(w io.Writer, name string, m *topography.Memorial, h topography.Header) error {
	rows := make([]vertexRow, len(m.Segments))
	for i, s := range m.Segments {
		rows[i] = vertexRow{Point: m.Points[i], Segment: s}
	}
	return templates.ExecuteTemplate(w, "memorial.html", memorialView{
		Name: name, Header: h, Memorial: m, Rows: rows, Text: topography.Narrative(m),
	})
}
