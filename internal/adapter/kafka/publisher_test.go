package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ush214/project-guardian/internal/domain"
)

func TestAlertMessage(t *testing.T) {
	event := domain.SpillEvent{
		ID:          "S1A_IW_GRDH_20260310-3271",
		Source:      "sentinel-1",
		ImageID:     "S1A_IW_GRDH_20260310",
		AreaKm2:     0.62,
		DistanceKm:  3.271,
		Severity:    domain.SeverityCritical,
		Exceeded:    true,
		CreatedAtMs: 1773234992000,
	}

	msg, err := alertMessage("artifacts/guardian/public/data/werpassessments/rio-de-janeiro-maru", event)
	require.NoError(t, err)

	assert.Equal(t, []byte(event.ID), msg.Key)

	var envelope alertEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, "artifacts/guardian/public/data/werpassessments/rio-de-janeiro-maru", envelope.WreckPath)
	assert.Equal(t, event.ImageID, envelope.Event.ImageID)
	assert.Equal(t, domain.SeverityCritical, envelope.Event.Severity)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "critical", headers["severity"])
	assert.Equal(t, "1773234992000", headers["created_at_ms"])
}
