package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default collection paths scanned for wreck assessment documents. Events
// mirror to both namespaces unless WRITE_COLLECTIONS narrows the set.
const defaultCollections = "artifacts/guardian/public/data/werpassessments," +
	"artifacts/guardian-agent-default/public/data/werpassessments"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Firestore.
	ProjectID        string
	ReadCollections  []string
	WriteCollections []string

	// Imagery query parameters.
	LookbackHours int
	AOIRadiusKm   float64
	MaxCandidates int

	// Severity thresholds.
	CriticalAreaKm2 float64
	CriticalDistKm  float64
	WarnAreaKm2     float64
	WarnDistKm      float64

	// Earth Engine detection service.
	EEBaseURL string
	EEToken   string
	EETimeout time.Duration

	// Optional Kafka alert fan-out (enabled when brokers are set).
	KafkaBrokers    []string
	KafkaAlertTopic string

	// Write no_data marker events for wrecks whose AOI had no imagery.
	WriteNoDataEvents bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	eeTimeout, err := parseDuration("EE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	lookbackHours, err := parseInt("S1_LOOKBACK_HOURS", 36)
	if err != nil {
		return nil, err
	}
	maxCandidates, err := parseInt("MAX_CANDIDATES", 1000)
	if err != nil {
		return nil, err
	}

	radiusKm, err := parseFloat("AOI_RADIUS_KM", 20)
	if err != nil {
		return nil, err
	}
	criticalArea, err := parseFloat("CRITICAL_AREA_KM2", 0.5)
	if err != nil {
		return nil, err
	}
	criticalDist, err := parseFloat("CRITICAL_DIST_KM", 5)
	if err != nil {
		return nil, err
	}
	warnArea, err := parseFloat("WARN_AREA_KM2", 0.2)
	if err != nil {
		return nil, err
	}
	warnDist, err := parseFloat("WARN_DIST_KM", 10)
	if err != nil {
		return nil, err
	}

	readCollections := parseList(envOrDefault("READ_COLLECTIONS", defaultCollections))
	writeCollections := parseList(envOrDefault("WRITE_COLLECTIONS", ""))
	if len(writeCollections) == 0 {
		writeCollections = readCollections
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ProjectID:        os.Getenv("GOOGLE_CLOUD_PROJECT"),
		ReadCollections:  readCollections,
		WriteCollections: writeCollections,

		LookbackHours: lookbackHours,
		AOIRadiusKm:   radiusKm,
		MaxCandidates: maxCandidates,

		CriticalAreaKm2: criticalArea,
		CriticalDistKm:  criticalDist,
		WarnAreaKm2:     warnArea,
		WarnDistKm:      warnDist,

		EEBaseURL: os.Getenv("EE_BASE_URL"),
		EEToken:   os.Getenv("EE_TOKEN"),
		EETimeout: eeTimeout,

		KafkaBrokers:    parseList(os.Getenv("KAFKA_BROKERS")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "oil-spill-alerts"),

		WriteNoDataEvents: envOrDefault("WRITE_NO_DATA_EVENTS", "false") == "true",
	}

	if len(cfg.ReadCollections) == 0 {
		return nil, errors.New("READ_COLLECTIONS is required")
	}
	if cfg.EEBaseURL == "" {
		return nil, errors.New("EE_BASE_URL is required")
	}
	if cfg.LookbackHours <= 0 {
		return nil, errors.New("S1_LOOKBACK_HOURS must be positive")
	}
	if cfg.AOIRadiusKm <= 0 {
		return nil, errors.New("AOI_RADIUS_KM must be positive")
	}
	if cfg.MaxCandidates <= 0 {
		return nil, errors.New("MAX_CANDIDATES must be positive")
	}

	return cfg, nil
}

// AlertsEnabled reports whether the Kafka alert publisher should start.
func (c *Config) AlertsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
