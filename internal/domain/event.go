package domain

import (
	"fmt"
)

// SpillEvent is the persisted detection record, merge-upserted at
// <wreck path>/monitoring/oil/events/<ID>. Field names match the wire shape
// consumed by the dashboard and alerting layers.
type SpillEvent struct {
	ID          string               `json:"-"`
	Source      string               `json:"source"`
	ImageID     string               `json:"imageId"`
	TimeMs      int64                `json:"timeMs"`
	AreaKm2     float64              `json:"area_km2"`
	DistanceKm  float64              `json:"distance_km"`
	Exceeded    bool                 `json:"exceeded"`
	Severity    Severity             `json:"severity"`
	Message     string               `json:"message"`
	ThumbURL    string               `json:"thumbUrl,omitempty"`
	Geometry    Geometry             `json:"geometry"`
	Thresholds  map[string][]float64 `json:"threshold"`
	CreatedAtMs int64                `json:"createdAtMs"`
}

// EventID derives the deterministic event identity from the source image and
// the millimeter-truncated distance. Reruns over the same image and distance
// land on the same document; do not change the truncation without auditing
// stored event history.
func EventID(imageID string, distanceKm float64) string {
	return fmt.Sprintf("%s-%d", imageID, int64(distanceKm*1000))
}

// BuildEvent assembles the persisted record for one classified candidate.
// When the candidate carries no acquisition time the evaluation time is used.
func BuildEvent(c Candidate, m CandidateMetrics, severity Severity, exceeded bool, t Thresholds, thumbURL string) SpillEvent {
	now := clock.Now()

	timeMs := c.TimeMs
	if timeMs == 0 {
		timeMs = now.UnixMilli()
	}

	return SpillEvent{
		ID:          EventID(c.SourceImageID, m.DistanceKm),
		Source:      "sentinel-1",
		ImageID:     c.SourceImageID,
		TimeMs:      timeMs,
		AreaKm2:     m.AreaKm2,
		DistanceKm:  m.DistanceKm,
		Exceeded:    exceeded,
		Severity:    severity,
		Message:     fmt.Sprintf("Sentinel-1 dark spot ~%.2f km² at %.1f km", m.AreaKm2, m.DistanceKm),
		ThumbURL:    thumbURL,
		Geometry:    c.Geometry,
		Thresholds:  t.Snapshot(),
		CreatedAtMs: now.UnixMilli(),
	}
}

// DocData returns the event as a Firestore-writable map. Geometry is stored
// as GeoJSON text because Firestore rejects the nested coordinate arrays.
func (e SpillEvent) DocData() map[string]any {
	data := map[string]any{
		"source":      e.Source,
		"imageId":     e.ImageID,
		"timeMs":      e.TimeMs,
		"area_km2":    e.AreaKm2,
		"distance_km": e.DistanceKm,
		"exceeded":    e.Exceeded,
		"severity":    string(e.Severity),
		"message":     e.Message,
		"threshold":   e.Thresholds,
		"createdAtMs": e.CreatedAtMs,
	}
	if e.ThumbURL != "" {
		data["thumbUrl"] = e.ThumbURL
	}
	if geo := e.Geometry.GeoJSON(); geo != "" {
		data["geometry"] = geo
	}
	return data
}

// NoDataMarker records that a wreck's AOI had no imagery in the lookback
// window, so operators can tell "no scenes" apart from "scenes but clean".
type NoDataMarker struct {
	ID            string
	Status        string
	Message       string
	LookbackHours int
	AOIRadiusKm   float64
	CreatedAtMs   int64
}

// BuildNoDataMarker stamps a marker for the current evaluation pass. Marker
// IDs embed the pass timestamp, so each pass leaves its own record.
func BuildNoDataMarker(lookbackHours int, radiusKm float64) NoDataMarker {
	now := clock.Now().UTC()
	return NoDataMarker{
		ID:     "no-data-" + now.Format("20060102T150405Z"),
		Status: "no_data",
		Message: fmt.Sprintf(
			"No Sentinel-1 GRD scenes found in the last %d hours within %.0f km. No analysis performed.",
			lookbackHours, radiusKm,
		),
		LookbackHours: lookbackHours,
		AOIRadiusKm:   radiusKm,
		CreatedAtMs:   now.UnixMilli(),
	}
}

// DocData returns the marker as a Firestore-writable map.
func (m NoDataMarker) DocData() map[string]any {
	return map[string]any{
		"status":      m.Status,
		"message":     m.Message,
		"createdAtMs": m.CreatedAtMs,
		"params": map[string]any{
			"lookbackHours": m.LookbackHours,
			"aoiRadiusKm":   m.AOIRadiusKm,
		},
	}
}
