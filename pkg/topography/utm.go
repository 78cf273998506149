package topography

import (
	"errors"
	"fmt"
	"math"

	"github.com/wroge/wgs84"
)

var ErrOutOfRange = errors.New("coordinate out of UTM range")

const (
	minLatitude = -80.0
	maxLatitude = 84.0
)

// UTM is a projected position.
type UTM struct {
	Easting  float64
	Northing float64
	Zone     int
	Southern bool
}

// Hemisphere is "S" or "N".
func (u UTM) Hemisphere() string {
	if u.Southern {
		return "S"
	}
	return "N"
}

// ZoneOf returns the standard UTM zone number of a position, including the
// Norway and Svalbard exceptions.
func ZoneOf(lat, lon float64) int {
	if lon >= 180 {
		lon -= 360
	}
	if 56 <= lat && lat < 64 && 3 <= lon && lon < 12 {
		return 32
	}
	if 72 <= lat && lat < 84 && lon >= 0 {
		switch {
		case lon < 9:
			return 31
		case lon < 21:
			return 33
		case lon < 33:
			return 35
		case lon < 42:
			return 37
		}
	}
	return int(math.Floor((lon+180)/6)) + 1
}

// ToUTM projects a WGS84 (or SIRGAS 2000) position onto UTM.
//
// When zone is 0, the zone is chosen by ZoneOf. A non-zero zone forces the
// projection into that zone, which is how all vertices of one polygon share a plane.
func ToUTM(lat, lon float64, zone int) (UTM, error) {
	return project(lat, lon, zone, lat < 0)
}

// project is ToUTM with the hemisphere (false northing) fixed by the caller.
func project(lat, lon float64, zone int, southern bool) (UTM, error) {
	if !finite(lat) || !finite(lon) ||
		lat < minLatitude || maxLatitude < lat || lon < -180 || 180 < lon {
		return UTM{}, fmt.Errorf("%w: lat=%f lon=%f", ErrOutOfRange, lat, lon)
	}
	if zone == 0 {
		zone = ZoneOf(lat, lon)
	}
	if zone < 1 || 60 < zone {
		return UTM{}, fmt.Errorf("%w: zone %d", ErrOutOfRange, zone)
	}

	easting, northing, _ := wgs84.LonLat().To(wgs84.UTM(float64(zone), !southern))(lon, lat, 0)
	if !finite(easting) || !finite(northing) {
		return UTM{}, fmt.Errorf("%w: lat=%f lon=%f zone %d", ErrOutOfRange, lat, lon, zone)
	}
	return UTM{Easting: easting, Northing: northing, Zone: zone, Southern: southern}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
