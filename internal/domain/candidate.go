package domain

// NominalAreaKm2 is the triage default applied when the platform did not
// report an area for a candidate. An unmeasured dark spot is scored as
// borderline-significant rather than discarded: at the default thresholds
// 0.25 km² clears the warning area bar but not the critical one.
const NominalAreaKm2 = 0.25

// Candidate is one raw dark-spot detection from the imagery platform.
// Ephemeral: produced per evaluation pass, never persisted directly.
type Candidate struct {
	Geometry      Geometry
	SourceImageID string
	// TimeMs is the source image acquisition time in epoch milliseconds.
	// Zero when the platform omitted it.
	TimeMs int64
	// AreaKm2 is the platform-computed polygon area, 0 when not reported.
	AreaKm2 float64
}

// CandidateMetrics are the derived scores a candidate is classified on.
// Both are deterministic functions of the candidate and the wreck position.
type CandidateMetrics struct {
	AreaKm2    float64
	DistanceKm float64
}

// ExtractMetrics converts a candidate into its area and distance scores.
// Area prefers the platform-computed value, falling back to NominalAreaKm2.
// Distance is measured from the wreck to the geometry's representative
// vertex; a candidate with no usable geometry is treated as sitting at the
// wreck (distance 0), the most conservative assumption for alerting.
func ExtractMetrics(c Candidate, wreck GeoPosition) CandidateMetrics {
	area := c.AreaKm2
	if area <= 0 {
		area = NominalAreaKm2
	}

	distance := 0.0
	if lng, lat, ok := c.Geometry.FirstVertex(); ok {
		distance = HaversineKm(wreck, GeoPosition{Lat: lat, Lng: lng})
	}

	return CandidateMetrics{AreaKm2: area, DistanceKm: distance}
}
