package domain

import (
	"encoding/json"
	"fmt"
)

// Geometry is a GeoJSON Polygon or MultiPolygon in geographic coordinates,
// as returned by the imagery platform's vectorization step. The zero value
// means the candidate carried no usable geometry.
type Geometry struct {
	Type string
	// Polygon rings, outer first, each vertex [lng, lat]. Set when Type == "Polygon".
	Polygon [][][]float64
	// MultiPolygon polygons. Set when Type == "MultiPolygon".
	MultiPolygon [][][][]float64
}

// IsZero reports whether no geometry was decoded.
func (g Geometry) IsZero() bool {
	return g.Type == ""
}

// FirstVertex returns the representative point used for distance scoring:
// the first vertex of the outer ring (first polygon's outer ring for a
// MultiPolygon). ok is false for absent or degenerate geometry.
func (g Geometry) FirstVertex() (lng, lat float64, ok bool) {
	var vertex []float64
	switch g.Type {
	case "Polygon":
		if len(g.Polygon) > 0 && len(g.Polygon[0]) > 0 {
			vertex = g.Polygon[0][0]
		}
	case "MultiPolygon":
		if len(g.MultiPolygon) > 0 && len(g.MultiPolygon[0]) > 0 && len(g.MultiPolygon[0][0]) > 0 {
			vertex = g.MultiPolygon[0][0][0]
		}
	}
	if len(vertex) < 2 {
		return 0, 0, false
	}
	return vertex[0], vertex[1], true
}

type geometryJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// UnmarshalJSON decodes Polygon and MultiPolygon geometries. Unknown
// geometry types decode to the zero Geometry rather than erroring, so a
// stray Point or LineString feature degrades to the nominal-metrics path
// instead of failing the candidate.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw geometryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode geometry: %w", err)
	}

	switch raw.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(raw.Coordinates, &rings); err != nil {
			return fmt.Errorf("decode polygon coordinates: %w", err)
		}
		g.Type = raw.Type
		g.Polygon = rings
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(raw.Coordinates, &polys); err != nil {
			return fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		g.Type = raw.Type
		g.MultiPolygon = polys
	default:
		*g = Geometry{}
	}
	return nil
}

// MarshalJSON re-encodes the geometry in GeoJSON form. The zero Geometry
// marshals as null.
func (g Geometry) MarshalJSON() ([]byte, error) {
	var coords any
	switch g.Type {
	case "Polygon":
		coords = g.Polygon
	case "MultiPolygon":
		coords = g.MultiPolygon
	default:
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Type        string `json:"type"`
		Coordinates any    `json:"coordinates"`
	}{Type: g.Type, Coordinates: coords})
}

// GeoJSON returns the geometry as GeoJSON text, or "" for the zero value.
// Firestore rejects directly nested arrays, so persisted events carry the
// geometry in this form.
func (g Geometry) GeoJSON() string {
	if g.IsZero() {
		return ""
	}
	data, err := json.Marshal(g)
	if err != nil {
		return ""
	}
	return string(data)
}
