package topography

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidPolygon     = errors.New("invalid polygon")
	ErrUnknownOrientation = errors.New("unknown orientation")
)

// Orientation is the winding of the vertex sequence, seen from above with grid north up.
type Orientation string

const (
	Clockwise        Orientation = "clockwise"
	CounterClockwise Orientation = "counterclockwise"
)

// ParseOrientation accepts "clockwise"/"cw" and "counterclockwise"/"ccw" (also
// "horario"/"anti-horario"). An empty string means Clockwise.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clockwise", "cw", "horario", "horário":
		return Clockwise, nil
	case "counterclockwise", "counter-clockwise", "ccw", "anti-horario", "anti-horário":
		return CounterClockwise, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownOrientation, s)
	}
}

// Point is a vertex of the perimeter.
type Point struct {
	Label    string
	Lat      float64
	Lon      float64
	Easting  float64
	Northing float64
}

// Segment is the edge from one vertex to the next.
type Segment struct {
	From string
	To   string

	// degrees clockwise from grid north, in [0, 360).
	Azimuth float64

	// meters.
	Distance float64

	// who is on the other side of this edge. May be empty.
	Neighbor string
}

// Memorial holds the figures of a perimeter.
//
// Invariants: Perimeter is the sum of Segments' Distance, and Area is half the
// absolute shoelace sum of Points.
type Memorial struct {
	Zone        int
	Southern    bool
	Orientation Orientation
	Points      []Point
	Segments    []Segment

	// square meters.
	Area float64

	// meters.
	Perimeter float64
}

// Hectares is Area in hectares.
func (m *Memorial) Hectares() float64 {
	return m.Area / 10000
}

// Hemisphere is "S" or "N".
func (m *Memorial) Hemisphere() string {
	return UTM{Southern: m.Southern}.Hemisphere()
}

type Options struct {
	// requested winding. Empty means Clockwise.
	Orientation Orientation

	// vertex label prefix. Empty means "P".
	Prefix string

	// UTM zone to project into. 0 means the zone of the first vertex.
	Zone int

	// Neighbors[i] is the neighbor of the i-th segment, after winding is normalized.
	Neighbors []string
}

// Compute builds the memorial figures of a polygon.
//
// The closing vertex (repeating the first) and consecutive duplicates are
// dropped. Fewer than 3 distinct vertices is ErrInvalidPolygon.
//
// When the signed area disagrees with the requested orientation, the vertex
// sequence is reversed, keeping the first vertex as the starting point.
func Compute(coords []Coordinate, opts Options) (*Memorial, error) {
	orientation := opts.Orientation
	if orientation == "" {
		orientation = Clockwise
	}
	if orientation != Clockwise && orientation != CounterClockwise {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrientation, orientation)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "P"
	}

	vertices := dedupe(coords)
	if len(vertices) < 3 {
		return nil, fmt.Errorf(
			"%w: %d distinct vertices, at least 3 required", ErrInvalidPolygon, len(vertices),
		)
	}

	first := vertices[0]
	zone := opts.Zone
	if zone == 0 {
		zone = ZoneOf(first.Lat, first.Lon)
	}
	southern := first.Lat < 0

	points := make([]Point, len(vertices))
	for i, v := range vertices {
		u, err := project(v.Lat, v.Lon, zone, southern)
		if err != nil {
			return nil, err
		}
		points[i] = Point{Lat: v.Lat, Lon: v.Lon, Easting: u.Easting, Northing: u.Northing}
	}

	signed := signedArea(points)
	if !(minArea <= math.Abs(signed)) {
		return nil, fmt.Errorf("%w: vertices are collinear", ErrInvalidPolygon)
	}
	isCounterClockwise := 0 < signed
	if isCounterClockwise != (orientation == CounterClockwise) {
		reverseKeepingFirst(points)
	}

	for i := range points {
		points[i].Label = fmt.Sprintf("%s%d", prefix, i+1)
	}

	segments := make([]Segment, len(points))
	perimeter := 0.0
	for i := range points {
		from, to := points[i], points[(i+1)%len(points)]
		de, dn := to.Easting-from.Easting, to.Northing-from.Northing
		distance := math.Hypot(de, dn)
		segments[i] = Segment{
			From:     from.Label,
			To:       to.Label,
			Azimuth:  Azimuth(de, dn),
			Distance: distance,
		}
		if i < len(opts.Neighbors) {
			segments[i].Neighbor = strings.TrimSpace(opts.Neighbors[i])
		}
		perimeter += distance
	}

	return &Memorial{
		Zone:        zone,
		Southern:    southern,
		Orientation: orientation,
		Points:      points,
		Segments:    segments,
		Area:        math.Abs(signed),
		Perimeter:   perimeter,
	}, nil
}

// Azimuth of a planar displacement, in degrees clockwise from north, in [0, 360).
func Azimuth(dEasting, dNorthing float64) float64 {
	az := degrees(math.Atan2(dEasting, dNorthing))
	if az < 0 {
		az += 360
	}
	if az >= 360 {
		az -= 360
	}
	return az
}

// below this (m²) the vertices are taken as collinear.
const minArea = 1e-6

// signedArea is the shoelace area, positive for counter-clockwise sequences.
//
// Coordinates are taken relative to the first vertex to keep precision with
// UTM-sized values.
func signedArea(points []Point) float64 {
	e0, n0 := points[0].Easting, points[0].Northing
	sum := 0.0
	for i := range points {
		p, q := points[i], points[(i+1)%len(points)]
		sum += (p.Easting-e0)*(q.Northing-n0) - (q.Easting-e0)*(p.Northing-n0)
	}
	return sum / 2
}

func dedupe(coords []Coordinate) []Coordinate {
	out := make([]Coordinate, 0, len(coords))
	for _, c := range coords {
		if len(out) != 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	for 1 < len(out) && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func reverseKeepingFirst(points []Point) {
	rest := points[1:]
	for i, j := 0, len(rest)-1; i < j; i, j = i+1, j-1 {
		rest[i], rest[j] = rest[j], rest[i]
	}
}
