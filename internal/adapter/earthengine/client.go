// Package earthengine talks to the Earth Engine dark-spot detection proxy.
// The proxy owns all pixel-level work; this client only builds the filtered
// Sentinel-1 query and decodes the vectorized candidates it gets back.
package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ush214/project-guardian/internal/domain"
)

const s1Collection = "COPERNICUS/S1_GRD"

// Client implements the pipeline's ImageryQuerier against the detection proxy.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	maxCandidates int
	logger        *slog.Logger
}

// NewClient creates a detection proxy client.
func NewClient(baseURL, token string, timeout time.Duration, maxCandidates int, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// detectionRequest is the platform's input contract: which image collection
// to scan, where, when, and how to threshold it. The adaptive percentile
// threshold tracks local sea state instead of a fixed global dB cutoff.
type detectionRequest struct {
	Collection string             `json:"collection"`
	Region     domain.BoundingBox `json:"region"`
	StartMs    int64              `json:"startMs"`
	EndMs      int64              `json:"endMs"`

	Filters struct {
		InstrumentMode   string `json:"instrumentMode"`
		ProductType      string `json:"productType"`
		ResolutionMeters int    `json:"resolutionMeters"`
		OrbitPass        string `json:"orbitPass"`
	} `json:"filters"`

	Band struct {
		Primary  string `json:"primary"`
		Fallback string `json:"fallback"`
	} `json:"band"`

	Threshold struct {
		Type       string  `json:"type"`
		Percentile float64 `json:"percentile"`
	} `json:"threshold"`

	Morphology struct {
		OpenIterations  int `json:"openIterations"`
		CloseIterations int `json:"closeIterations"`
	} `json:"morphology"`

	VectorizeScaleMeters int `json:"vectorizeScaleMeters"`
	MaxFeatures          int `json:"maxFeatures"`
}

// Platform response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   domain.Geometry   `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type featureProperties struct {
	ImageID string  `json:"imageId"`
	TimeMs  int64   `json:"timeMs"`
	AreaKm2 float64 `json:"area_km2"`
}

// QueryCandidates runs one dark-spot detection over the AOI and time window.
// The platform applies the filters per image: IW-mode 10 m descending GRD
// products, VV band with per-image VH fallback, decibel conversion, binary
// mask below the AOI-local 15th percentile, one open+close round, then
// vectorization at 10 m. Candidates beyond MaxFeatures are silently dropped
// by the platform's internal ordering; that truncation is an accepted
// approximation, not an error.
func (c *Client) QueryCandidates(ctx context.Context, aoi domain.AreaOfInterest, window domain.TimeWindow) ([]domain.Candidate, error) {
	req := detectionRequest{
		Collection:           s1Collection,
		Region:               aoi.Bounds,
		StartMs:              window.Start.UnixMilli(),
		EndMs:                window.End.UnixMilli(),
		VectorizeScaleMeters: 10,
		MaxFeatures:          c.maxCandidates,
	}
	req.Filters.InstrumentMode = "IW"
	req.Filters.ProductType = "GRD"
	req.Filters.ResolutionMeters = 10
	req.Filters.OrbitPass = "DESCENDING"
	req.Band.Primary = "VV"
	req.Band.Fallback = "VH"
	req.Threshold.Type = "percentile"
	req.Threshold.Percentile = 15
	req.Morphology.OpenIterations = 1
	req.Morphology.CloseIterations = 1

	fc, err := c.detect(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(fc.Features))
	for _, f := range fc.Features {
		candidates = append(candidates, domain.Candidate{
			Geometry:      f.Geometry,
			SourceImageID: f.Properties.ImageID,
			TimeMs:        f.Properties.TimeMs,
			AreaKm2:       f.Properties.AreaKm2,
		})
	}
	return candidates, nil
}

func (c *Client) detect(ctx context.Context, req detectionRequest) (featureCollection, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return featureCollection{}, fmt.Errorf("encode detection request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/darkspots:detect", bytes.NewReader(body))
	if err != nil {
		return featureCollection{}, fmt.Errorf("create detection request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return featureCollection{}, fmt.Errorf("%w: detection request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return featureCollection{}, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, respBody)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return featureCollection{}, fmt.Errorf("%w: decode detection response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return fc, nil
}

// ThumbURL returns a static backscatter thumbnail URL over the AOI for
// operator reference. Purely cosmetic; never consumed by the pipeline.
func (c *Client) ThumbURL(aoi domain.AreaOfInterest) string {
	params := url.Values{
		"bbox": {fmt.Sprintf("%.6f,%.6f,%.6f,%.6f",
			aoi.Bounds.MinLng, aoi.Bounds.MinLat, aoi.Bounds.MaxLng, aoi.Bounds.MaxLat)},
		"collection": {s1Collection},
		"dimensions": {"512"},
	}
	return c.baseURL + "/v1/thumb?" + params.Encode()
}
