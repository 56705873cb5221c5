// Package geowrap papers over the ±180° antimeridian seam. Leaflet repeats
// the world horizontally, so every marker and route is rendered three times:
// at its true longitude and shifted by ±360°. Panning across the date line in
// either direction then always lands on a copy.
package geowrap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Offsets are the three world copies a feature is rendered into.
var Offsets = [3]float64{0, 360, -360}

// Point is one renderable copy of a source point. Latitude and identity are
// untouched; only the longitude moves.
type Point struct {
	Lat float64
	Lng float64
}

// TriplePoint returns exactly three copies of the point at longitudes
// {λ, λ+360, λ−360}. Callers apply it once per source record; feeding its
// output back in would fan out nine copies and is not a supported operation.
func TriplePoint(lat, lng float64) [3]Point {
	var out [3]Point
	for i, off := range Offsets {
		out[i] = Point{Lat: lat, Lng: lng + off}
	}
	return out
}

// Shift returns a deep copy of the collection with every LineString and
// MultiLineString longitude moved by offset degrees. Point features pass
// through unshifted: they are filtered out before rendering, not moved.
func Shift(fc *geojson.FeatureCollection, offset float64) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		nf := geojson.NewFeature(shiftGeometry(f.Geometry, offset))
		nf.ID = f.ID
		if f.Properties != nil {
			nf.Properties = f.Properties.Clone()
		}
		out.Append(nf)
	}
	return out
}

// Triple returns the original collection plus copies shifted by +360 and
// −360 degrees, in that order.
func Triple(fc *geojson.FeatureCollection) [3]*geojson.FeatureCollection {
	return [3]*geojson.FeatureCollection{
		fc,
		Shift(fc, 360),
		Shift(fc, -360),
	}
}

func shiftGeometry(g orb.Geometry, offset float64) orb.Geometry {
	switch geom := g.(type) {
	case orb.LineString:
		return shiftLine(geom, offset)
	case orb.MultiLineString:
		shifted := make(orb.MultiLineString, len(geom))
		for i, line := range geom {
			shifted[i] = shiftLine(line, offset)
		}
		return shifted
	default:
		// Points (and anything else unexpected) keep their coordinates.
		return orb.Clone(g)
	}
}

func shiftLine(line orb.LineString, offset float64) orb.LineString {
	shifted := make(orb.LineString, len(line))
	for i, pt := range line {
		shifted[i] = orb.Point{pt[0] + offset, pt[1]}
	}
	return shifted
}
