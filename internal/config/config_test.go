package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEEBaseURL = "https://ee-proxy.example.com"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EE_BASE_URL", testEEBaseURL)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, []string{
		"artifacts/guardian/public/data/werpassessments",
		"artifacts/guardian-agent-default/public/data/werpassessments",
	}, cfg.ReadCollections)
	assert.Equal(t, cfg.ReadCollections, cfg.WriteCollections)

	assert.Equal(t, 36, cfg.LookbackHours)
	assert.Equal(t, 20.0, cfg.AOIRadiusKm)
	assert.Equal(t, 1000, cfg.MaxCandidates)

	assert.Equal(t, 0.5, cfg.CriticalAreaKm2)
	assert.Equal(t, 5.0, cfg.CriticalDistKm)
	assert.Equal(t, 0.2, cfg.WarnAreaKm2)
	assert.Equal(t, 10.0, cfg.WarnDistKm)

	assert.Equal(t, testEEBaseURL, cfg.EEBaseURL)
	assert.Equal(t, 60*time.Second, cfg.EETimeout)

	assert.False(t, cfg.AlertsEnabled())
	assert.Equal(t, "oil-spill-alerts", cfg.KafkaAlertTopic)
	assert.False(t, cfg.WriteNoDataEvents)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("EE_BASE_URL", testEEBaseURL)
	t.Setenv("EE_TOKEN", "ya29.test")
	t.Setenv("EE_TIMEOUT", "30s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "guardian-test")
	t.Setenv("READ_COLLECTIONS", "artifacts/guardian/public/data/werpassessments")
	t.Setenv("WRITE_COLLECTIONS", "artifacts/guardian/public/data/werpassessments,mirror/events")
	t.Setenv("S1_LOOKBACK_HOURS", "72")
	t.Setenv("AOI_RADIUS_KM", "50")
	t.Setenv("MAX_CANDIDATES", "250")
	t.Setenv("CRITICAL_AREA_KM2", "1.5")
	t.Setenv("CRITICAL_DIST_KM", "3")
	t.Setenv("WARN_AREA_KM2", "0.4")
	t.Setenv("WARN_DIST_KM", "8")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "custom-alerts")
	t.Setenv("WRITE_NO_DATA_EVENTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "guardian-test", cfg.ProjectID)

	assert.Equal(t, []string{"artifacts/guardian/public/data/werpassessments"}, cfg.ReadCollections)
	assert.Equal(t, []string{"artifacts/guardian/public/data/werpassessments", "mirror/events"}, cfg.WriteCollections)

	assert.Equal(t, 72, cfg.LookbackHours)
	assert.Equal(t, 50.0, cfg.AOIRadiusKm)
	assert.Equal(t, 250, cfg.MaxCandidates)
	assert.Equal(t, 1.5, cfg.CriticalAreaKm2)
	assert.Equal(t, 3.0, cfg.CriticalDistKm)
	assert.Equal(t, 0.4, cfg.WarnAreaKm2)
	assert.Equal(t, 8.0, cfg.WarnDistKm)

	assert.Equal(t, "ya29.test", cfg.EEToken)
	assert.Equal(t, 30*time.Second, cfg.EETimeout)

	assert.True(t, cfg.AlertsEnabled())
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-alerts", cfg.KafkaAlertTopic)
	assert.True(t, cfg.WriteNoDataEvents)
}

func TestLoad_MissingEEBaseURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EE_BASE_URL")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-1s"},
		{"bad lookback", "S1_LOOKBACK_HOURS", "abc"},
		{"zero lookback", "S1_LOOKBACK_HOURS", "0"},
		{"bad radius", "AOI_RADIUS_KM", "wide"},
		{"negative radius", "AOI_RADIUS_KM", "-5"},
		{"bad threshold", "CRITICAL_AREA_KM2", "big"},
		{"zero max candidates", "MAX_CANDIDATES", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("EE_BASE_URL", testEEBaseURL)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_EmptyReadCollections(t *testing.T) {
	t.Setenv("EE_BASE_URL", testEEBaseURL)
	t.Setenv("READ_COLLECTIONS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READ_COLLECTIONS")
}
