package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	bindmemorials "github.com/opst/orcaobra/pkg/api-types-binding/memorials"
	"github.com/opst/orcaobra/pkg/document"
	"github.com/opst/orcaobra/pkg/topography"
)

// MaxParcelFileSize is the largest KMZ/KML file accepted, in bytes.
const MaxParcelFileSize = 20 << 20

type memorialRequest struct {
	name     string
	memorial *topography.Memorial
	header   topography.Header
}

// parseMemorialRequest reads a parcel file (multipart "kmz" or "kml") and
// the form fields, and computes its memorial.
//
// When the file has several polygons, field "polygon" names the one to
// describe; the first one is described otherwise.
func parseMemorialRequest(c echo.Context) (*memorialRequest, error) {
	fh, err := c.FormFile("kmz")
	if err != nil {
		fh, err = c.FormFile("kml")
	}
	if err != nil {
		return nil, binderr.BadRequest(`multipart field "kmz" or "kml" is required`, err)
	}
	if fh.Size > MaxParcelFileSize {
		return nil, binderr.TooLarge("parcel files should be up to 20 MiB")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, binderr.BadRequest("can not read the parcel file", err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, MaxParcelFileSize+1))
	if err != nil {
		return nil, binderr.BadRequest("can not read the parcel file", err)
	}
	if len(content) > MaxParcelFileSize {
		return nil, binderr.TooLarge("parcel files should be up to 20 MiB")
	}

	polygons, err := topography.Parse(content)
	if err != nil {
		return nil, binderr.BadRequest("the file should be KMZ or KML with a polygon", err)
	}
	polygon := polygons[0]
	if name := strings.TrimSpace(c.FormValue("polygon")); name != "" {
		found := false
		for _, p := range polygons {
			if p.Name == name {
				polygon, found = p, true
				break
			}
		}
		if !found {
			return nil, binderr.BadRequest("no polygon is named "+strconv.Quote(name), nil)
		}
	}

	orientation, err := topography.ParseOrientation(c.FormValue("orientation"))
	if err != nil {
		return nil, binderr.BadRequest(`orientation should be "clockwise" or "counterclockwise"`, err)
	}
	zone := 0
	if z := strings.TrimSpace(c.FormValue("zone")); z != "" {
		zone, err = strconv.Atoi(z)
		if err != nil || zone < 1 || 60 < zone {
			return nil, binderr.BadRequest("zone should be in 1-60", err)
		}
	}

	neighbors := []string{}
	if n := c.FormValue("neighbors"); n != "" {
		for _, line := range strings.Split(strings.ReplaceAll(n, "\r\n", "\n"), "\n") {
			neighbors = append(neighbors, strings.TrimSpace(line))
		}
	}

	m, err := topography.Compute(polygon.Coordinates, topography.Options{
		Orientation: orientation,
		Prefix:      strings.TrimSpace(c.FormValue("prefix")),
		Zone:        zone,
		Neighbors:   neighbors,
	})
	if err != nil {
		if errors.Is(err, topography.ErrInvalidPolygon) || errors.Is(err, topography.ErrOutOfRange) {
			return nil, binderr.BadRequest(err.Error(), err)
		}
		return nil, binderr.InternalServerError(err)
	}

	return &memorialRequest{
		name:     polygon.Name,
		memorial: m,
		header: topography.Header{
			Property:     strings.TrimSpace(c.FormValue("property")),
			Owner:        strings.TrimSpace(c.FormValue("owner")),
			Municipality: strings.TrimSpace(c.FormValue("municipality")),
			Registration: strings.TrimSpace(c.FormValue("registration")),
		},
	}, nil
}

// MemorialHandler computes the memorial descritivo of a parcel.
func MemorialHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := parseMemorialRequest(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, bindmemorials.Compose(
			req.name, req.memorial, topography.Describe(req.memorial, req.header),
		))
	}
}

// MemorialDocumentHandler responds the printable HTML memorial of a parcel.
func MemorialDocumentHandler(rec Recorder) echo.HandlerFunc {
	rec = recorderOrNop(rec)
	return func(c echo.Context) error {
		req, err := parseMemorialRequest(c)
		if err != nil {
			return err
		}
		buf := new(bytes.Buffer)
		if err := document.Memorial(buf, req.name, req.memorial, req.header); err != nil {
			return binderr.InternalServerError(err)
		}
		rec.DocumentRendered("memorial")
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}
