package topography_test

import (
	"errors"
	"math"
	"testing"

	"github.com/opst/orcaobra/pkg/topography"
)

func TestToUTM(t *testing.T) {
	type when struct {
		lat, lon float64
		zone     int
	}
	type then struct {
		easting, northing float64
		zone              int
		hemisphere        string
	}

	for name, testcase := range map[string]struct {
		when when
		then then
	}{
		"Aachen": {
			when: when{lat: 50.77535, lon: 6.08389},
			then: then{easting: 294408.917, northing: 5628897.998, zone: 32, hemisphere: "N"},
		},
		"New York": {
			when: when{lat: 40.71435, lon: -74.00597},
			then: then{easting: 583959.959, northing: 4507523.087, zone: 18, hemisphere: "N"},
		},
		"Wellington": {
			when: when{lat: -41.28646, lon: 174.77624},
			then: then{easting: 313784.306, northing: 5427057.322, zone: 60, hemisphere: "S"},
		},
		"Cape Town": {
			when: when{lat: -33.92487, lon: 18.42406},
			then: then{easting: 261877.816, northing: 6243185.589, zone: 34, hemisphere: "S"},
		},
		"São Paulo": {
			when: when{lat: -23.5505, lon: -46.6333},
			then: then{easting: 333287.915, northing: 7394588.319, zone: 23, hemisphere: "S"},
		},
		"equator on a central meridian": {
			when: when{lat: 0, lon: -45},
			then: then{easting: 500000, northing: 0, zone: 23, hemisphere: "N"},
		},
		"forced zone": {
			when: when{lat: 0, lon: -45, zone: 23},
			then: then{easting: 500000, northing: 0, zone: 23, hemisphere: "N"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			w, th := testcase.when, testcase.then
			got, err := topography.ToUTM(w.lat, w.lon, w.zone)
			if err != nil {
				t.Fatal(err)
			}
			if got.Zone != th.zone {
				t.Errorf("zone: got %d, want %d", got.Zone, th.zone)
			}
			if h := got.Hemisphere(); h != th.hemisphere {
				t.Errorf("hemisphere: got %s, want %s", h, th.hemisphere)
			}
			if 0.01 < math.Abs(got.Easting-th.easting) {
				t.Errorf("easting: got %.3f, want %.3f", got.Easting, th.easting)
			}
			if 0.01 < math.Abs(got.Northing-th.northing) {
				t.Errorf("northing: got %.3f, want %.3f", got.Northing, th.northing)
			}
		})
	}

	t.Run("forcing a neighbour zone moves easting off the central meridian", func(t *testing.T) {
		own, err := topography.ToUTM(-23.5505, -46.6333, 0)
		if err != nil {
			t.Fatal(err)
		}
		forced, err := topography.ToUTM(-23.5505, -46.6333, 24)
		if err != nil {
			t.Fatal(err)
		}
		if forced.Zone != 24 {
			t.Errorf("zone: got %d", forced.Zone)
		}
		if forced.Easting >= own.Easting {
			t.Errorf("easting in zone 24 should be further west: %f >= %f", forced.Easting, own.Easting)
		}
	})

	for name, w := range map[string]struct {
		lat, lon float64
		zone     int
	}{
		"beyond south limit": {lat: -80.5, lon: 0},
		"beyond north limit": {lat: 84.5, lon: 0},
		"longitude":          {lat: 0, lon: 181},
		"zone":               {lat: 0, lon: 0, zone: 61},
		"NaN latitude":       {lat: math.NaN(), lon: -45},
		"NaN longitude":      {lat: -23, lon: math.NaN()},
		"infinite longitude": {lat: -23, lon: math.Inf(-1)},
	} {
		t.Run("out of range: "+name, func(t *testing.T) {
			_, err := topography.ToUTM(w.lat, w.lon, w.zone)
			if !errors.Is(err, topography.ErrOutOfRange) {
				t.Errorf("want ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestZoneOf(t *testing.T) {
	for name, testcase := range map[string]struct {
		lat, lon float64
		then     int
	}{
		"greenwich":        {lat: 51.48, lon: 0, then: 31},
		"date line west":   {lat: 0, lon: -180, then: 1},
		"brasilia":         {lat: -15.79, lon: -47.88, then: 23},
		"norway exception": {lat: 60, lon: 4, then: 32},
		"svalbard":         {lat: 78, lon: 15, then: 33},
	} {
		t.Run(name, func(t *testing.T) {
			if got := topography.ZoneOf(testcase.lat, testcase.lon); got != testcase.then {
				t.Errorf("got %d, want %d", got, testcase.then)
			}
		})
	}
}
