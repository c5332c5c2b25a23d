// Package geomap turns the state reference tables into map data: a GeoJSON
// FeatureCollection of state averages and the scatterplot layer description
// a web map needs to draw it.
package geomap

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rshade/emissionmission/internal/refdata"
)

// Point is one state's marker.
type Point struct {
	State     string  `json:"state"`
	Emissions float64 `json:"emissions"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Highlight bool    `json:"highlight,omitempty"`
}

// Location returns the point as an orb point (lon, lat).
func (p Point) Location() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// StateSource is the subset of *refdata.Dataset geomap reads.
type StateSource interface {
	MappableStates() []refdata.MappableState
}

// Points returns one point per state that has both an average and a
// coordinate, sorted by state name. highlight, if non-empty, is normalized and
// flags the matching state.
func Points(src StateSource, highlight string) []Point {
	want := refdata.NormalizeStateName(highlight)
	states := src.MappableStates()

	points := make([]Point, 0, len(states))
	for _, s := range states {
		points = append(points, Point{
			State:     s.Name,
			Emissions: s.Average,
			Lat:       s.Coordinate.Lat,
			Lon:       s.Coordinate.Lon,
			Highlight: want != "" && s.Name == want,
		})
	}
	return points
}

// Bound returns the bounding box of the points. It is empty for no points.
func Bound(points []Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, p.Location())
	}
	return mp.Bound()
}

// FeatureCollection converts points into GeoJSON. Each feature carries
// "state" and "emissions" properties, plus "highlight" when set.
func FeatureCollection(points []Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(p.Location())
		f.ID = p.State
		f.Properties["state"] = p.State
		f.Properties["emissions"] = p.Emissions
		if p.Highlight {
			f.Properties["highlight"] = true
		}
		fc.Append(f)
	}
	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(Bound(points))
	}
	return fc
}

// MarshalGeoJSON encodes points as a GeoJSON FeatureCollection.
func MarshalGeoJSON(points []Point) ([]byte, error) {
	data, err := FeatureCollection(points).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding geojson: %w", err)
	}
	return data, nil
}

// PointsFromGeoJSON decodes a FeatureCollection written by MarshalGeoJSON.
func PointsFromGeoJSON(data []byte) ([]Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding geojson: %w", err)
	}

	points := make([]Point, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: geometry is %s, want Point", i, f.Geometry.GeoJSONType())
		}
		points = append(points, Point{
			State:     f.Properties.MustString("state", ""),
			Emissions: f.Properties.MustFloat64("emissions", 0),
			Lat:       pt.Lat(),
			Lon:       pt.Lon(),
			Highlight: f.Properties.MustBool("highlight", false),
		})
	}
	return points, nil
}

// Tooltip renders the hover text for a point.
func Tooltip(p Point) string {
	r := strings.NewReplacer("{state}", p.State, "{emissions}", fmt.Sprintf("%g", p.Emissions))
	return r.Replace(TooltipTemplate)
}
