// Package topography turns a surveyed polygon (KMZ/KML, geographic coordinates)
// into the figures of a memorial descritivo: UTM vertices, per-edge azimuth and
// distance, perimeter and area.
//
// All planar math is done on UTM (SIRGAS 2000 / WGS84 ellipsoid) coordinates in
// a single zone, the zone of the first vertex, so a polygon crossing a zone
// boundary is still measured in one plane.
package topography
