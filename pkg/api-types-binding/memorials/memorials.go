package memorials

import (
	apimemorials "github.com/opst/orcaobra/pkg/api/types/memorials"
	"github.com/opst/orcaobra/pkg/topography"
	"github.com/opst/orcaobra/pkg/utils"
)

func Compose(name string, m *topography.Memorial, text string) apimemorials.Memorial {
	return apimemorials.Memorial{
		Name:        name,
		Zone:        m.Zone,
		Hemisphere:  m.Hemisphere(),
		Orientation: string(m.Orientation),
		Points: utils.Map(m.Points, func(p topography.Point) apimemorials.Point {
			return apimemorials.Point(p)
		}),
		Segments: utils.Map(m.Segments, func(s topography.Segment) apimemorials.Segment {
			return apimemorials.Segment{
				From:       s.From,
				To:         s.To,
				Azimuth:    s.Azimuth,
				AzimuthDMS: topography.FormatDMS(s.Azimuth),
				Distance:   s.Distance,
				Neighbor:   s.Neighbor,
			}
		}),
		Area:      m.Area,
		Hectares:  m.Hectares(),
		Perimeter: m.Perimeter,
		Text:      text,
	}
}
