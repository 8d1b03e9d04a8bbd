package domain

import (
	"math"
	"time"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// GeoPosition is a WGS-84 latitude/longitude coordinate pair in degrees.
type GeoPosition struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the position is finite and within geographic range.
func (p GeoPosition) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// BoundingBox is an axis-aligned geographic rectangle.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// AreaOfInterest is the search region around a wreck: a circle of RadiusKm
// centered on the wreck, normalized to its bounding box for imagery queries.
type AreaOfInterest struct {
	Center   GeoPosition
	RadiusKm float64
	Bounds   BoundingBox
}

// NewAreaOfInterest buffers center by radiusKm and returns the bounding box
// of the resulting circle. Deterministic given its inputs. The longitude
// span widens with latitude (meridians converge); at the poles the cosine
// term vanishes and the box degenerates to the full longitude range, which
// is acceptable for the open-ocean AOIs this service works with.
func NewAreaOfInterest(center GeoPosition, radiusKm float64) AreaOfInterest {
	latDelta := (radiusKm / earthRadiusKm) * (180 / math.Pi)

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	lngDelta := 180.0
	if cosLat > 1e-9 {
		lngDelta = latDelta / cosLat
	}

	return AreaOfInterest{
		Center:   center,
		RadiusKm: radiusKm,
		Bounds: BoundingBox{
			MinLat: center.Lat - latDelta,
			MinLng: center.Lng - lngDelta,
			MaxLat: center.Lat + latDelta,
			MaxLng: center.Lng + lngDelta,
		},
	}
}

// TimeWindow is a half-open [Start, End) interval in UTC.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow returns the lookback window ending at the current evaluation
// time: [now - lookbackHours, now).
func NewTimeWindow(lookbackHours int) TimeWindow {
	end := clock.Now().UTC()
	return TimeWindow{
		Start: end.Add(-time.Duration(lookbackHours) * time.Hour),
		End:   end,
	}
}

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b GeoPosition) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	la1 := radians(a.Lat)
	la2 := radians(b.Lat)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
