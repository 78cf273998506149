package handlers_test

import (
	"archive/zip"
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/opst/orcaobra/internal/testutils/http"
	apimemorials "github.com/opst/orcaobra/pkg/api/types/memorials"

	"github.com/opst/orcaobra/cmd/orcaobrad/handlers"
)

const lotsKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <Placemark>
    <name>Lote 1</name>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>
      -47.0600,-22.9000 -47.0600,-22.8990 -47.0590,-22.8990 -47.0590,-22.9000 -47.0600,-22.9000
    </coordinates></LinearRing></outerBoundaryIs></Polygon>
  </Placemark>
  <Placemark>
    <name>Lote 2</name>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>
      -47.0590,-22.9000 -47.0590,-22.8990 -47.0585,-22.8990 -47.0590,-22.9000
    </coordinates></LinearRing></outerBoundaryIs></Polygon>
  </Placemark>
</Document>
</kml>`

func kmz(t *testing.T, kml string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, err := w.Create("doc.kml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(kml)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMemorialHandler(t *testing.T) {
	type then struct {
		name     string
		vertices int
		neighbor string
	}
	for name, testcase := range map[string]struct {
		when struct {
			fields map[string]string
			file   httptestutil.File
		}
		then
	}{
		"kml, first polygon": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{
				fields: map[string]string{"owner": "João da Silva"},
				file:   httptestutil.File{Field: "kml", Name: "lotes.kml", Content: []byte(lotsKML)},
			},
			then: then{name: "Lote 1", vertices: 4},
		},
		"kmz, named polygon with neighbors": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{
				fields: map[string]string{
					"polygon": "Lote 2", "prefix": "V", "orientation": "ccw",
					"neighbors": "Rua das Flores\r\nLote 1\r\nLote 3",
				},
				file: httptestutil.File{Field: "kmz", Name: "lotes.kmz", Content: kmz(t, lotsKML)},
			},
			then: then{name: "Lote 2", vertices: 3, neighbor: "Rua das Flores"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			body, ctype := httptestutil.Multipart(t, testcase.when.fields, testcase.when.file)
			c, resp := httptestutil.Post(e, "/api/memorials", body, ctype)

			if err := handlers.MemorialHandler()(c); err != nil {
				t.Fatal(err)
			}
			if resp.Code != http.StatusOK {
				t.Errorf("status: %d", resp.Code)
			}
			got := decode[apimemorials.Memorial](t, resp)
			if got.Name != testcase.then.name {
				t.Errorf("name: %s", got.Name)
			}
			if len(got.Points) != testcase.then.vertices || len(got.Segments) != testcase.then.vertices {
				t.Errorf("vertices: %d points, %d segments", len(got.Points), len(got.Segments))
			}
			if got.Zone != 23 || got.Hemisphere != "S" {
				t.Errorf("zone: %d%s", got.Zone, got.Hemisphere)
			}
			if got.Area <= 0 || got.Perimeter <= 0 {
				t.Errorf("area %f, perimeter %f", got.Area, got.Perimeter)
			}
			if !strings.HasPrefix(got.Text, "MEMORIAL DESCRITIVO") {
				t.Errorf("text:\n%s", got.Text)
			}
			if testcase.then.neighbor != "" {
				if got.Segments[0].Neighbor != testcase.then.neighbor {
					t.Errorf("neighbor: %s", got.Segments[0].Neighbor)
				}
				if got.Points[0].Label != "V1" || got.Orientation != "counterclockwise" {
					t.Errorf("label %s, orientation %s", got.Points[0].Label, got.Orientation)
				}
			}
			if owner := testcase.when.fields["owner"]; owner != "" && !strings.Contains(got.Text, owner) {
				t.Errorf("owner is missing:\n%s", got.Text)
			}
		})
	}

	for name, testcase := range map[string]struct {
		when struct {
			fields map[string]string
			file   httptestutil.File
		}
		then int
	}{
		"no file": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{file: httptestutil.File{Field: "doc", Name: "a.kml", Content: []byte(lotsKML)}},
			then: http.StatusBadRequest,
		},
		"not kml": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{file: httptestutil.File{Field: "kml", Name: "a.kml", Content: []byte("hello")}},
			then: http.StatusBadRequest,
		},
		"unknown polygon": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{
				fields: map[string]string{"polygon": "Lote 9"},
				file:   httptestutil.File{Field: "kml", Name: "a.kml", Content: []byte(lotsKML)},
			},
			then: http.StatusBadRequest,
		},
		"unknown orientation": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{
				fields: map[string]string{"orientation": "diagonal"},
				file:   httptestutil.File{Field: "kml", Name: "a.kml", Content: []byte(lotsKML)},
			},
			then: http.StatusBadRequest,
		},
		"zone out of range": {
			when: struct {
				fields map[string]string
				file   httptestutil.File
			}{
				fields: map[string]string{"zone": "61"},
				file:   httptestutil.File{Field: "kml", Name: "a.kml", Content: []byte(lotsKML)},
			},
			then: http.StatusBadRequest,
		},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			e := echo.New()
			body, ctype := httptestutil.Multipart(t, testcase.when.fields, testcase.when.file)
			c, _ := httptestutil.Post(e, "/api/memorials", body, ctype)

			if got := statusOf(t, handlers.MemorialHandler()(c)); got != testcase.then {
				t.Errorf("status: got %d, want %d", got, testcase.then)
			}
		})
	}
}

func TestMemorialDocumentHandler(t *testing.T) {
	rec := &countingRecorder{}
	e := echo.New()
	body, ctype := httptestutil.Multipart(
		t, map[string]string{"property": "Sítio Boa Vista"},
		httptestutil.File{Field: "kml", Name: "lotes.kml", Content: []byte(lotsKML)},
	)
	c, resp := httptestutil.Post(e, "/api/memorials/document", body, ctype)

	if err := handlers.MemorialDocumentHandler(rec)(c); err != nil {
		t.Fatal(err)
	}
	if ct := resp.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextHTML) {
		t.Errorf("content type: %s", ct)
	}
	html := resp.Body.String()
	for _, want := range []string{"Sítio Boa Vista", "P1", "Inicia-se a descrição"} {
		if !strings.Contains(html, want) {
			t.Errorf("%q is missing", want)
		}
	}
	if len(rec.documents) != 1 || rec.documents[0] != "memorial" {
		t.Errorf("recorded: %v", rec.documents)
	}
}
