package domain

// Severity is the escalation tier of a spill event.
// Ordered info < warning < critical.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds is the classification configuration active for one run.
type Thresholds struct {
	CriticalAreaKm2 float64
	CriticalDistKm  float64
	WarnAreaKm2     float64
	WarnDistKm      float64
}

// Snapshot returns the threshold quadruple in the persisted wire shape,
// embedded in every event so historical records stay interpretable after
// threshold changes.
func (t Thresholds) Snapshot() map[string][]float64 {
	return map[string][]float64{
		"warn":     {t.WarnAreaKm2, t.WarnDistKm},
		"critical": {t.CriticalAreaKm2, t.CriticalDistKm},
	}
}

// Classify maps candidate metrics to a severity tier. Tiers are evaluated
// critical first, first match wins:
//
//	critical: area ≥ criticalArea AND distance ≤ criticalDist
//	warning:  area ≥ warnArea AND distance ≤ warnDist
//	info:     otherwise
//
// Area and distance conditions are conjunctive. A large slick far away, or
// a tiny one nearby, does not escalate. exceeded is true for any tier above
// info.
func Classify(m CandidateMetrics, t Thresholds) (severity Severity, exceeded bool) {
	switch {
	case m.AreaKm2 >= t.CriticalAreaKm2 && m.DistanceKm <= t.CriticalDistKm:
		return SeverityCritical, true
	case m.AreaKm2 >= t.WarnAreaKm2 && m.DistanceKm <= t.WarnDistKm:
		return SeverityWarning, true
	default:
		return SeverityInfo, false
	}
}
