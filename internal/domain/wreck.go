package domain

import (
	"strconv"
)

// WreckRecord is an evaluation-scoped, read-only copy of a wreck document.
// The document body is arbitrary nested content maintained by upstream
// assessment systems; only the coordinate shapes are interpreted here.
type WreckRecord struct {
	ID   string
	Path string
	Data map[string]any
}

// coordinatePaths lists the recognized coordinate field shapes in priority
// order. The screening-phase pair outranks everything else; bare geo/
// position/geometry sub-objects are probed last. Order is load-bearing:
// first match wins and later shapes are never consulted.
var coordinatePaths = [][]string{
	{"phase1", "screening", "coordinates"},
	{"coordinates"},
	{"location", "coordinates"},
	{"historical", "location", "coordinates"},
	{"geometry", "coordinates"},
	{"geo", "coordinates"},
	{"position", "coordinates"},
	{"geo"},
	{"position"},
	{"geometry"},
}

// ResolvePosition extracts the authoritative wreck position from a document
// body. Each candidate shape may present coordinates as an ordered
// [lng, lat] pair or as a mapping with lat/latitude and lng/longitude keys.
// Returns ok=false when no shape matches, when the first matching shape
// carries malformed numeric values, or when the result is out of geographic
// range. An unresolvable wreck is skipped, never an error.
func ResolvePosition(data map[string]any) (GeoPosition, bool) {
	for _, path := range coordinatePaths {
		value := dig(data, path)
		if value == nil {
			continue
		}

		pos, matched, ok := decodeCoordinates(value)
		if !matched {
			continue
		}
		// A matched shape seals the outcome: malformed values inside it fail
		// the whole resolution rather than falling through to a lower-priority
		// shape that may encode a stale position.
		if !ok || !pos.Valid() {
			return GeoPosition{}, false
		}
		return pos, true
	}
	return GeoPosition{}, false
}

// dig walks nested map[string]any fields, returning nil when any hop is
// missing or not a map.
func dig(data map[string]any, path []string) any {
	var current any = data
	for _, key := range path {
		m, isMap := current.(map[string]any)
		if !isMap {
			return nil
		}
		current = m[key]
		if current == nil {
			return nil
		}
	}
	return current
}

// decodeCoordinates interprets one candidate value. matched reports whether
// the value presented a usable coordinate shape at all; ok reports whether
// its numeric contents parsed cleanly.
func decodeCoordinates(value any) (pos GeoPosition, matched, ok bool) {
	switch v := value.(type) {
	case []any:
		if len(v) < 2 {
			return GeoPosition{}, false, false
		}
		// Ordered pairs are GeoJSON-style [lng, lat].
		lng, lngOK := toFloat(v[0])
		lat, latOK := toFloat(v[1])
		return GeoPosition{Lat: lat, Lng: lng}, true, lngOK && latOK
	case map[string]any:
		latRaw, latPresent := firstOf(v, "lat", "latitude")
		lngRaw, lngPresent := firstOf(v, "lng", "longitude")
		if !latPresent || !lngPresent {
			return GeoPosition{}, false, false
		}
		lat, latOK := toFloat(latRaw)
		lng, lngOK := toFloat(lngRaw)
		return GeoPosition{Lat: lat, Lng: lng}, true, latOK && lngOK
	default:
		return GeoPosition{}, false, false
	}
}

func firstOf(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, present := m[k]; present && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toFloat coerces the numeric encodings seen in wreck documents. Numeric
// strings are accepted; anything unparseable is a hard failure.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
