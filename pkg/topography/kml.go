package topography

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

var (
	ErrNoPolygon  = errors.New("no polygon found")
	ErrInvalidKMZ = errors.New("invalid kmz")
	ErrInvalidKML = errors.New("invalid kml")
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Polygon is an outer boundary read from a KML Placemark.
type Polygon struct {
	Name        string
	Coordinates []Coordinate
}

var zipMagic = []byte("PK\x03\x04")

// Parse reads polygons from KMZ or KML content, detecting the format by its leading bytes.
func Parse(content []byte) ([]Polygon, error) {
	if bytes.HasPrefix(content, zipMagic) {
		return ParseKMZ(bytes.NewReader(content), int64(len(content)))
	}
	return ParseKML(bytes.NewReader(content))
}

// ParseKMZ reads polygons from the KML document in a KMZ archive.
//
// "doc.kml" at the archive root is preferred. Otherwise the first .kml entry is used.
func ParseKMZ(r io.ReaderAt, size int64) ([]Polygon, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKMZ, err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".kml") {
			continue
		}
		if strings.EqualFold(f.Name, "doc.kml") {
			doc = f
			break
		}
		if doc == nil {
			doc = f
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no kml document in archive", ErrInvalidKMZ)
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKMZ, err)
	}
	defer rc.Close()

	return ParseKML(rc)
}

type kmlPolygon struct {
	Outer struct {
		Coordinates string `xml:"LinearRing>coordinates"`
	} `xml:"outerBoundaryIs"`
}

type kmlLineString struct {
	Coordinates string `xml:"coordinates"`
}

// ParseKML reads every Polygon outer boundary, and every closed LineString, in a KML document.
//
// The name of the enclosing Placemark becomes the polygon name.
func ParseKML(r io.Reader) ([]Polygon, error) {
	dec := xml.NewDecoder(r)

	polygons := []Polygon{}
	placemarkDepth := 0
	placemarkName := ""

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Placemark":
				placemarkDepth++
				placemarkName = ""
			case "name":
				if placemarkDepth == 0 || placemarkName != "" {
					continue
				}
				var name string
				if err := dec.DecodeElement(&name, &t); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidKML, err)
				}
				placemarkName = strings.TrimSpace(name)
			case "Polygon":
				var p kmlPolygon
				if err := dec.DecodeElement(&p, &t); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidKML, err)
				}
				coords, err := parseCoordinates(p.Outer.Coordinates)
				if err != nil {
					return nil, err
				}
				polygons = append(polygons, Polygon{Name: placemarkName, Coordinates: coords})
			case "LineString":
				var l kmlLineString
				if err := dec.DecodeElement(&l, &t); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidKML, err)
				}
				coords, err := parseCoordinates(l.Coordinates)
				if err != nil {
					return nil, err
				}
				if len(coords) < 4 || coords[0] != coords[len(coords)-1] {
					continue // open paths are not parcels
				}
				polygons = append(polygons, Polygon{Name: placemarkName, Coordinates: coords})
			}
		case xml.EndElement:
			if t.Name.Local == "Placemark" && placemarkDepth > 0 {
				placemarkDepth--
			}
		}
	}

	if len(polygons) == 0 {
		return nil, ErrNoPolygon
	}
	return polygons, nil
}

// parseCoordinates reads KML "lon,lat[,alt]" tuples separated by whitespace.
func parseCoordinates(text string) ([]Coordinate, error) {
	fields := strings.Fields(text)
	coords := make([]Coordinate, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: malformed coordinate %q", ErrInvalidKML, f)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed longitude %q", ErrInvalidKML, f)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed latitude %q", ErrInvalidKML, f)
		}
		if !finite(lon) || !finite(lat) {
			return nil, fmt.Errorf("%w: non-finite coordinate %q", ErrInvalidKML, f)
		}
		coords = append(coords, Coordinate{Lat: lat, Lon: lon})
	}
	return coords, nil
}
