package topography_test

import (
	"errors"
	"math"
	"testing"

	"github.com/opst/orcaobra/pkg/topography"
)

// a square of 0.001° on the equator, on the central meridian of zone 23,
// listed clockwise from its south-west corner.
var squareClockwise = []topography.Coordinate{
	{Lat: -0.001, Lon: -45},
	{Lat: 0, Lon: -45},
	{Lat: 0, Lon: -44.999},
	{Lat: -0.001, Lon: -44.999},
}

// the same square listed counter-clockwise from its south-west corner.
var squareCounterClockwise = []topography.Coordinate{
	{Lat: -0.001, Lon: -45},
	{Lat: -0.001, Lon: -44.999},
	{Lat: 0, Lon: -44.999},
	{Lat: 0, Lon: -45},
}

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestCompute(t *testing.T) {
	type then struct {
		labels   []string
		azimuths []float64
	}

	for name, testcase := range map[string]struct {
		when []topography.Coordinate
		opts topography.Options
		then then
	}{
		"clockwise input, clockwise requested": {
			when: squareClockwise,
			opts: topography.Options{Orientation: topography.Clockwise},
			then: then{
				labels:   []string{"P1", "P2", "P3", "P4"},
				azimuths: []float64{0, 90, 180, 270},
			},
		},
		"orientation defaults to clockwise": {
			when: squareClockwise,
			then: then{
				labels:   []string{"P1", "P2", "P3", "P4"},
				azimuths: []float64{0, 90, 180, 270},
			},
		},
		"clockwise input, counter-clockwise requested": {
			when: squareClockwise,
			opts: topography.Options{Orientation: topography.CounterClockwise, Prefix: "V"},
			then: then{
				labels:   []string{"V1", "V2", "V3", "V4"},
				azimuths: []float64{90, 0, 270, 180},
			},
		},
		"counter-clockwise input, counter-clockwise requested": {
			when: squareCounterClockwise,
			opts: topography.Options{Orientation: topography.CounterClockwise},
			then: then{
				labels:   []string{"P1", "P2", "P3", "P4"},
				azimuths: []float64{90, 0, 270, 180},
			},
		},
		"counter-clockwise input, clockwise requested": {
			when: squareCounterClockwise,
			opts: topography.Options{Orientation: topography.Clockwise},
			then: then{
				labels:   []string{"P1", "P2", "P3", "P4"},
				azimuths: []float64{0, 90, 180, 270},
			},
		},
		"closed ring with duplicated vertices": {
			when: []topography.Coordinate{
				squareClockwise[0], squareClockwise[0],
				squareClockwise[1],
				squareClockwise[2], squareClockwise[2],
				squareClockwise[3],
				squareClockwise[0],
			},
			then: then{
				labels:   []string{"P1", "P2", "P3", "P4"},
				azimuths: []float64{0, 90, 180, 270},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := topography.Compute(testcase.when, testcase.opts)
			if err != nil {
				t.Fatal(err)
			}

			if len(got.Points) != len(testcase.then.labels) {
				t.Fatalf("points: got %d, want %d", len(got.Points), len(testcase.then.labels))
			}
			for i, p := range got.Points {
				if p.Label != testcase.then.labels[i] {
					t.Errorf("label #%d: got %s, want %s", i, p.Label, testcase.then.labels[i])
				}
			}
			if got.Points[0].Lat != squareClockwise[0].Lat || got.Points[0].Lon != squareClockwise[0].Lon {
				t.Errorf("first vertex moved: %+v", got.Points[0])
			}

			sum := 0.0
			for i, s := range got.Segments {
				if !near(s.Azimuth, testcase.then.azimuths[i], 0.05) {
					t.Errorf("azimuth #%d: got %f, want %f", i, s.Azimuth, testcase.then.azimuths[i])
				}
				if s.From != got.Points[i].Label || s.To != got.Points[(i+1)%len(got.Points)].Label {
					t.Errorf("segment #%d: %s -> %s", i, s.From, s.To)
				}
				sum += s.Distance
			}
			if !near(got.Perimeter, sum, 1e-9) {
				t.Errorf("perimeter %f is not the sum of segments %f", got.Perimeter, sum)
			}

			// 0.001° is about 110.5m north-south and 111.3m east-west here.
			if !near(got.Perimeter, 2*110.53+2*111.28, 1) {
				t.Errorf("perimeter: got %f", got.Perimeter)
			}
			if !near(got.Area, 110.53*111.28, 30) {
				t.Errorf("area: got %f", got.Area)
			}
			if got.Zone != 23 || got.Hemisphere() != "S" {
				t.Errorf("zone: got %d%s", got.Zone, got.Hemisphere())
			}
		})
	}

	t.Run("neighbors follow normalized segments", func(t *testing.T) {
		got, err := topography.Compute(squareClockwise, topography.Options{
			Neighbors: []string{" Rua A ", "Lote 13"},
		})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"Rua A", "Lote 13", "", ""}
		for i, s := range got.Segments {
			if s.Neighbor != want[i] {
				t.Errorf("neighbor #%d: got %q, want %q", i, s.Neighbor, want[i])
			}
		}
	})

	t.Run("area of a known rectangle in one UTM plane", func(t *testing.T) {
		got, err := topography.Compute(squareClockwise, topography.Options{})
		if err != nil {
			t.Fatal(err)
		}
		p := got.Points
		w := p[2].Easting - p[1].Easting
		h := p[1].Northing - p[0].Northing
		if !near(got.Area, w*h, 0.5) {
			t.Errorf("area: got %f, want about %f", got.Area, w*h)
		}
	})

	for name, when := range map[string][]topography.Coordinate{
		"empty":             {},
		"two points":        squareClockwise[:2],
		"closed two points": {squareClockwise[0], squareClockwise[1], squareClockwise[0]},
		"one repeated":      {squareClockwise[0], squareClockwise[0], squareClockwise[0]},
		"collinear": {
			{Lat: 0, Lon: -45}, {Lat: 0.001, Lon: -45}, {Lat: 0.002, Lon: -45},
		},
	} {
		t.Run("invalid polygon: "+name, func(t *testing.T) {
			_, err := topography.Compute(when, topography.Options{})
			if !errors.Is(err, topography.ErrInvalidPolygon) {
				t.Errorf("want ErrInvalidPolygon, got %v", err)
			}
		})
	}

	t.Run("a NaN vertex is out of range", func(t *testing.T) {
		when := []topography.Coordinate{
			squareClockwise[0], {Lat: math.NaN(), Lon: -45}, squareClockwise[2], squareClockwise[3],
		}
		_, err := topography.Compute(when, topography.Options{})
		if !errors.Is(err, topography.ErrOutOfRange) {
			t.Errorf("want ErrOutOfRange, got %v", err)
		}
	})

	t.Run("unknown orientation", func(t *testing.T) {
		_, err := topography.Compute(squareClockwise, topography.Options{Orientation: "spiral"})
		if !errors.Is(err, topography.ErrUnknownOrientation) {
			t.Errorf("want ErrUnknownOrientation, got %v", err)
		}
	})
}

func TestParseOrientation(t *testing.T) {
	for when, then := range map[string]topography.Orientation{
		"":                 topography.Clockwise,
		"CW":               topography.Clockwise,
		"horário":          topography.Clockwise,
		"counterclockwise": topography.CounterClockwise,
		" ccw ":            topography.CounterClockwise,
		"anti-horario":     topography.CounterClockwise,
	} {
		t.Run(when, func(t *testing.T) {
			got, err := topography.ParseOrientation(when)
			if err != nil {
				t.Fatal(err)
			}
			if got != then {
				t.Errorf("got %s, want %s", got, then)
			}
		})
	}

	if _, err := topography.ParseOrientation("zigzag"); !errors.Is(err, topography.ErrUnknownOrientation) {
		t.Errorf("want ErrUnknownOrientation, got %v", err)
	}
}

func TestAzimuth(t *testing.T) {
	for name, testcase := range map[string]struct {
		de, dn float64
		then   float64
	}{
		"north":      {de: 0, dn: 1, then: 0},
		"east":       {de: 1, dn: 0, then: 90},
		"south":      {de: 0, dn: -1, then: 180},
		"west":       {de: -1, dn: 0, then: 270},
		"north-west": {de: -1, dn: 1, then: 315},
		"south-east": {de: 1, dn: -1, then: 135},
	} {
		t.Run(name, func(t *testing.T) {
			if got := topography.Azimuth(testcase.de, testcase.dn); !near(got, testcase.then, 1e-9) {
				t.Errorf("got %f, want %f", got, testcase.then)
			}
		})
	}
}
