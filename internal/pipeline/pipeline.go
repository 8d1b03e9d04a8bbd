// Package pipeline orchestrates one detection run: resolve each wreck's
// position, query the imagery platform over its AOI, score the returned
// candidates, and upsert classified events into the store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ush214/project-guardian/internal/domain"
	"github.com/ush214/project-guardian/internal/observability"
)

// WreckLister reads wreck records from the configured collections.
type WreckLister interface {
	ListWrecks(ctx context.Context, collections []string) ([]domain.WreckRecord, error)
}

// ImageryQuerier runs dark-spot detection over an AOI and time window.
type ImageryQuerier interface {
	QueryCandidates(ctx context.Context, aoi domain.AreaOfInterest, window domain.TimeWindow) ([]domain.Candidate, error)
	// ThumbURL returns an operator-reference thumbnail for the AOI.
	ThumbURL(aoi domain.AreaOfInterest) string
}

// EventWriter upserts monitoring events under a wreck path.
type EventWriter interface {
	WriteEvent(ctx context.Context, wreckPath string, event domain.SpillEvent) error
	WriteNoDataEvent(ctx context.Context, wreckPath string, marker domain.NoDataMarker) error
}

// AlertPublisher fans exceeded events out to a notification channel.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, wreckPath string, event domain.SpillEvent) error
}

// Config carries the per-run evaluation parameters.
type Config struct {
	ReadCollections  []string
	WriteCollections []string
	LookbackHours    int
	AOIRadiusKm      float64
	Thresholds       domain.Thresholds
	// WriteNoDataEvents controls whether wrecks whose AOI had no imagery
	// get a no_data marker.
	WriteNoDataEvents bool
}

// RunStats aggregates what one detection run actually did. Populated even
// when the run aborts, so partial progress is never silently swallowed.
type RunStats struct {
	WrecksScanned       int
	WrecksSkipped       int
	CandidatesEvaluated int
	EventsWritten       int
	WriteFailures       int
	Elapsed             time.Duration
}

// Orchestrator drives the resolve → query → evaluate → write loop.
type Orchestrator struct {
	lister  WreckLister
	querier ImageryQuerier
	writer  EventWriter
	alerts  AlertPublisher // nil when alert fan-out is disabled
	logger  *slog.Logger
	metrics *observability.Metrics
	cfg     Config
}

// New creates an Orchestrator. Pass a nil alerts publisher to disable
// alert fan-out.
func New(lister WreckLister, querier ImageryQuerier, writer EventWriter, alerts AlertPublisher, logger *slog.Logger, metrics *observability.Metrics, cfg Config) *Orchestrator {
	return &Orchestrator{
		lister:  lister,
		querier: querier,
		writer:  writer,
		alerts:  alerts,
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Run executes one full detection pass over all configured wreck
// collections. Wrecks without resolvable coordinates are skipped; event
// write failures are contained per event. Only imagery platform failure
// aborts the run, returning the stats accumulated up to the abort alongside
// the error. Run never panics.
func (o *Orchestrator) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	o.metrics.RunInFlight.Set(1)
	defer o.metrics.RunInFlight.Set(0)

	var stats RunStats

	wrecks, err := o.lister.ListWrecks(ctx, o.cfg.ReadCollections)
	if err != nil {
		stats.Elapsed = time.Since(start)
		o.metrics.RunsTotal.WithLabelValues("aborted").Inc()
		return stats, fmt.Errorf("list wrecks: %w", err)
	}
	o.logger.Info("detection run started",
		"wrecks", len(wrecks),
		"collections", len(o.cfg.ReadCollections),
		"lookback_hours", o.cfg.LookbackHours,
	)

	for _, wreck := range wrecks {
		if err := o.processWreck(ctx, wreck, &stats); err != nil {
			stats.Elapsed = time.Since(start)
			o.metrics.RunsTotal.WithLabelValues("aborted").Inc()
			return stats, err
		}
	}

	stats.Elapsed = time.Since(start)
	o.metrics.RunsTotal.WithLabelValues("success").Inc()
	o.metrics.RunDuration.Observe(stats.Elapsed.Seconds())
	o.logger.Info("detection run finished",
		"wrecks_scanned", stats.WrecksScanned,
		"wrecks_skipped", stats.WrecksSkipped,
		"events_written", stats.EventsWritten,
		"write_failures", stats.WriteFailures,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

// processWreck evaluates one wreck. A non-nil return aborts the whole run;
// everything recoverable is handled here.
func (o *Orchestrator) processWreck(ctx context.Context, wreck domain.WreckRecord, stats *RunStats) error {
	position, ok := domain.ResolvePosition(wreck.Data)
	if !ok {
		stats.WrecksSkipped++
		o.metrics.WrecksSkipped.Inc()
		o.logger.Debug("no coordinates resolved, skipping wreck", "wreck", wreck.ID)
		return nil
	}

	aoi := domain.NewAreaOfInterest(position, o.cfg.AOIRadiusKm)
	window := domain.NewTimeWindow(o.cfg.LookbackHours)

	queryStart := time.Now()
	candidates, err := o.querier.QueryCandidates(ctx, aoi, window)
	if err != nil {
		return fmt.Errorf("query candidates for %s: %w", wreck.ID, err)
	}
	o.metrics.QueryDuration.Observe(time.Since(queryStart).Seconds())

	stats.WrecksScanned++
	o.metrics.WrecksScanned.Inc()

	if len(candidates) == 0 {
		if o.cfg.WriteNoDataEvents {
			o.writeNoDataMarkers(ctx, wreck)
		}
		return nil
	}

	thumbURL := o.querier.ThumbURL(aoi)
	for _, candidate := range candidates {
		o.evaluateCandidate(ctx, wreck, position, candidate, thumbURL, stats)
	}
	return nil
}

// evaluateCandidate scores, classifies, and persists one candidate. One
// write goes to each configured write collection; a failed write is logged
// and counted but never stops the run.
func (o *Orchestrator) evaluateCandidate(ctx context.Context, wreck domain.WreckRecord, position domain.GeoPosition, candidate domain.Candidate, thumbURL string, stats *RunStats) {
	metrics := domain.ExtractMetrics(candidate, position)
	severity, exceeded := domain.Classify(metrics, o.cfg.Thresholds)
	event := domain.BuildEvent(candidate, metrics, severity, exceeded, o.cfg.Thresholds, thumbURL)

	stats.CandidatesEvaluated++
	o.metrics.CandidatesEvaluated.Inc()

	for _, wreckPath := range o.writePaths(wreck) {
		if err := o.writer.WriteEvent(ctx, wreckPath, event); err != nil {
			stats.WriteFailures++
			o.metrics.WriteErrors.Inc()
			o.logger.Error("event write failed",
				"wreck", wreck.ID,
				"event_id", event.ID,
				"path", wreckPath,
				"error", err,
			)
			continue
		}
		stats.EventsWritten++
		o.metrics.EventsWritten.WithLabelValues(string(severity)).Inc()
	}

	if exceeded {
		o.logger.Warn("spill threshold exceeded",
			"wreck", wreck.ID,
			"severity", severity,
			"area_km2", metrics.AreaKm2,
			"distance_km", metrics.DistanceKm,
		)
		o.publishAlert(ctx, wreck, event)
	}
}

func (o *Orchestrator) publishAlert(ctx context.Context, wreck domain.WreckRecord, event domain.SpillEvent) {
	if o.alerts == nil {
		return
	}
	if err := o.alerts.PublishAlert(ctx, wreck.Path, event); err != nil {
		o.logger.Warn("alert publish failed", "wreck", wreck.ID, "event_id", event.ID, "error", err)
		return
	}
	o.metrics.AlertsPublished.Inc()
}

func (o *Orchestrator) writeNoDataMarkers(ctx context.Context, wreck domain.WreckRecord) {
	marker := domain.BuildNoDataMarker(o.cfg.LookbackHours, o.cfg.AOIRadiusKm)
	for _, wreckPath := range o.writePaths(wreck) {
		if err := o.writer.WriteNoDataEvent(ctx, wreckPath, marker); err != nil {
			o.logger.Warn("no-data marker write failed", "wreck", wreck.ID, "path", wreckPath, "error", err)
		}
	}
}

// writePaths returns the wreck's document path in every write collection.
// The store may mirror events across more than one namespace; all of them
// receive every event.
func (o *Orchestrator) writePaths(wreck domain.WreckRecord) []string {
	paths := make([]string, 0, len(o.cfg.WriteCollections))
	for _, col := range o.cfg.WriteCollections {
		paths = append(paths, col+"/"+wreck.ID)
	}
	return paths
}
