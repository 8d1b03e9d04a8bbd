package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ush214/project-guardian/internal/domain"
	"github.com/ush214/project-guardian/internal/observability"
	"github.com/ush214/project-guardian/internal/pipeline"
)

const (
	primaryCollection = "artifacts/guardian/public/data/werpassessments"
	mirrorCollection  = "artifacts/guardian-agent-default/public/data/werpassessments"
	testImageID       = "S1A_IW_GRDH_1SDV_20260310T081632"
)

// --- mocks ---

type mockLister struct {
	wrecks []domain.WreckRecord
	err    error
}

func (m *mockLister) ListWrecks(_ context.Context, _ []string) ([]domain.WreckRecord, error) {
	return m.wrecks, m.err
}

type mockQuerier struct {
	candidates []domain.Candidate
	err        error
	calls      int
}

func (m *mockQuerier) QueryCandidates(_ context.Context, _ domain.AreaOfInterest, _ domain.TimeWindow) ([]domain.Candidate, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockQuerier) ThumbURL(_ domain.AreaOfInterest) string {
	return "https://ee-proxy.example.com/v1/thumb"
}

type writtenEvent struct {
	path  string
	event domain.SpillEvent
}

type mockWriter struct {
	events    []writtenEvent
	markers   []string // wreck paths that got no-data markers
	failPaths map[string]error
}

func (m *mockWriter) WriteEvent(_ context.Context, wreckPath string, event domain.SpillEvent) error {
	if err := m.failPaths[wreckPath]; err != nil {
		return err
	}
	m.events = append(m.events, writtenEvent{path: wreckPath, event: event})
	return nil
}

func (m *mockWriter) WriteNoDataEvent(_ context.Context, wreckPath string, _ domain.NoDataMarker) error {
	m.markers = append(m.markers, wreckPath)
	return nil
}

type mockAlerts struct {
	published []domain.SpillEvent
	err       error
}

func (m *mockAlerts) PublishAlert(_ context.Context, _ string, event domain.SpillEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() pipeline.Config {
	return pipeline.Config{
		ReadCollections:  []string{primaryCollection, mirrorCollection},
		WriteCollections: []string{primaryCollection, mirrorCollection},
		LookbackHours:    36,
		AOIRadiusKm:      20,
		Thresholds: domain.Thresholds{
			CriticalAreaKm2: 0.5,
			CriticalDistKm:  5,
			WarnAreaKm2:     0.2,
			WarnDistKm:      10,
		},
	}
}

func testWreck() domain.WreckRecord {
	return domain.WreckRecord{
		ID:   "rio-de-janeiro-maru",
		Path: primaryCollection + "/rio-de-janeiro-maru",
		Data: map[string]any{
			"coordinates": map[string]any{"lat": 7.374383, "lng": 151.928883},
		},
	}
}

// candidateAtKm builds a polygon candidate whose representative vertex sits
// roughly distKm east of the test wreck.
func candidateAtKm(distKm, areaKm2 float64) domain.Candidate {
	lngDelta := distKm / 110.27 // km per degree of longitude at ~7.37°N
	lng := 151.928883 + lngDelta
	return domain.Candidate{
		SourceImageID: testImageID,
		TimeMs:        1773234992000,
		AreaKm2:       areaKm2,
		Geometry: domain.Geometry{
			Type:    "Polygon",
			Polygon: [][][]float64{{{lng, 7.374383}, {lng + 0.01, 7.374383}, {lng, 7.374383}}},
		},
	}
}

func newOrchestrator(lister *mockLister, querier *mockQuerier, writer *mockWriter, alerts pipeline.AlertPublisher, cfg pipeline.Config) *pipeline.Orchestrator {
	return pipeline.New(lister, querier, writer, alerts, discardLogger(), observability.NewMetricsForTesting(), cfg)
}

// --- tests ---

func TestRun_CriticalCandidateEndToEnd(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
	querier := &mockQuerier{candidates: []domain.Candidate{candidateAtKm(3, 0.6)}}
	writer := &mockWriter{}
	alerts := &mockAlerts{}

	stats, err := newOrchestrator(lister, querier, writer, alerts, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.WrecksScanned)
	assert.Equal(t, 0, stats.WrecksSkipped)
	assert.Equal(t, 1, stats.CandidatesEvaluated)
	assert.Equal(t, 2, stats.EventsWritten) // one per write collection
	assert.Equal(t, 0, stats.WriteFailures)

	require.Len(t, writer.events, 2)
	assert.Equal(t, primaryCollection+"/rio-de-janeiro-maru", writer.events[0].path)
	assert.Equal(t, mirrorCollection+"/rio-de-janeiro-maru", writer.events[1].path)

	event := writer.events[0].event
	assert.Equal(t, domain.SeverityCritical, event.Severity)
	assert.True(t, event.Exceeded)
	assert.Equal(t, 0.6, event.AreaKm2)
	assert.InDelta(t, 3.0, event.DistanceKm, 0.05)
	assert.Equal(t, writer.events[1].event.ID, event.ID)

	require.Len(t, alerts.published, 1)
	assert.Equal(t, event.ID, alerts.published[0].ID)
}

func TestRun_UnresolvableWreckIsSkippedNotFailed(t *testing.T) {
	lister := &mockLister{wrecks: []domain.WreckRecord{
		{ID: "mystery-wreck", Data: map[string]any{"name": "unknown"}},
		testWreck(),
	}}
	querier := &mockQuerier{candidates: []domain.Candidate{candidateAtKm(8, 0.3)}}
	writer := &mockWriter{}

	stats, err := newOrchestrator(lister, querier, writer, nil, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.WrecksSkipped)
	assert.Equal(t, 1, stats.WrecksScanned)
	assert.Equal(t, 1, querier.calls, "skipped wreck must not reach the imagery platform")
	require.Len(t, writer.events, 2)
	assert.Equal(t, domain.SeverityWarning, writer.events[0].event.Severity)
}

func TestRun_UpstreamFailureAbortsRun(t *testing.T) {
	lister := &mockLister{wrecks: []domain.WreckRecord{testWreck(), testWreck()}}
	querier := &mockQuerier{err: domain.ErrUpstreamUnavailable}
	writer := &mockWriter{}

	stats, err := newOrchestrator(lister, querier, writer, nil, testConfig()).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, 1, querier.calls, "run aborts on the first upstream failure")
	assert.Empty(t, writer.events)
	// Stats still reflect what happened before the abort.
	assert.Equal(t, 0, stats.WrecksScanned)
	assert.Greater(t, stats.Elapsed, time.Duration(0))
}

func TestRun_ListFailureAbortsRun(t *testing.T) {
	lister := &mockLister{err: errors.New("permission denied")}

	_, err := newOrchestrator(lister, &mockQuerier{}, &mockWriter{}, nil, testConfig()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list wrecks")
}

func TestRun_WriteFailureDoesNotAbort(t *testing.T) {
	lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
	querier := &mockQuerier{candidates: []domain.Candidate{candidateAtKm(3, 0.6), candidateAtKm(7, 0.3)}}
	writer := &mockWriter{failPaths: map[string]error{
		primaryCollection + "/rio-de-janeiro-maru": errors.New("deadline exceeded"),
	}}

	stats, err := newOrchestrator(lister, querier, writer, nil, testConfig()).Run(context.Background())
	require.NoError(t, err, "per-event write failures are contained")

	assert.Equal(t, 2, stats.CandidatesEvaluated)
	assert.Equal(t, 2, stats.WriteFailures)
	assert.Equal(t, 2, stats.EventsWritten)
	for _, w := range writer.events {
		assert.Equal(t, mirrorCollection+"/rio-de-janeiro-maru", w.path)
	}
}

func TestRun_InfoCandidateWritesButDoesNotAlert(t *testing.T) {
	lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
	querier := &mockQuerier{candidates: []domain.Candidate{candidateAtKm(20, 0.1)}}
	writer := &mockWriter{}
	alerts := &mockAlerts{}

	stats, err := newOrchestrator(lister, querier, writer, alerts, testConfig()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, writer.events, 2)
	assert.Equal(t, domain.SeverityInfo, writer.events[0].event.Severity)
	assert.False(t, writer.events[0].event.Exceeded)
	assert.Empty(t, alerts.published)
	assert.Equal(t, 2, stats.EventsWritten)
}

func TestRun_AlertFailureIsContained(t *testing.T) {
	lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
	querier := &mockQuerier{candidates: []domain.Candidate{candidateAtKm(3, 0.6)}}
	writer := &mockWriter{}
	alerts := &mockAlerts{err: errors.New("broker unreachable")}

	stats, err := newOrchestrator(lister, querier, writer, alerts, testConfig()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EventsWritten)
}

func TestRun_NoCandidates(t *testing.T) {
	t.Run("markers disabled", func(t *testing.T) {
		lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
		writer := &mockWriter{}

		stats, err := newOrchestrator(lister, &mockQuerier{}, writer, nil, testConfig()).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, stats.WrecksScanned)
		assert.Empty(t, writer.events)
		assert.Empty(t, writer.markers)
	})

	t.Run("markers enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.WriteNoDataEvents = true
		lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
		writer := &mockWriter{}

		_, err := newOrchestrator(lister, &mockQuerier{}, writer, nil, cfg).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{
			primaryCollection + "/rio-de-janeiro-maru",
			mirrorCollection + "/rio-de-janeiro-maru",
		}, writer.markers)
	})
}

func TestRun_RerunsProduceSameEventIDs(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	lister := &mockLister{wrecks: []domain.WreckRecord{testWreck()}}
	querier := &mockQuerier{candidates: []domain.Candidate{candidateAtKm(3, 0.6)}}

	first := &mockWriter{}
	_, err := newOrchestrator(lister, querier, first, nil, testConfig()).Run(context.Background())
	require.NoError(t, err)

	second := &mockWriter{}
	_, err = newOrchestrator(lister, querier, second, nil, testConfig()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, first.events, 2)
	require.Len(t, second.events, 2)
	assert.Equal(t, first.events[0].event.ID, second.events[0].event.ID)
}
