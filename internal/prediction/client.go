package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

// ModelRequest is the body of POST {base}/predict.
type ModelRequest struct {
	CropEncoded int     `json:"crop_encoded"`
	NDVI        float64 `json:"ndvi"`
	Rainfall    float64 `json:"rainfall"`
	SoilPH      float64 `json:"soil_ph"`
	Temperature float64 `json:"temperature"`
}

type ModelResponse struct {
	PredictedYield float64 `json:"predicted_yield"`
	OutcomeQuality float64 `json:"outcome_quality"`
	Timestamp      string  `json:"timestamp"`
}

// ModelClient talks to the external yield model.
type ModelClient interface {
	Predict(ctx context.Context, req ModelRequest) (*ModelResponse, error)
	Health(ctx context.Context) error
}

// UpstreamError is a non-2xx answer from the model service.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Model service error: %d - %s", e.Status, e.Body)
}

type HTTPModelClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPModelClient(baseURL string, timeout time.Duration) *HTTPModelClient {
	return &HTTPModelClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPModelClient) BaseURL() string { return c.baseURL }

// Predict makes a single attempt; callers decide what to do on failure.
func (c *HTTPModelClient) Predict(ctx context.Context, in ModelRequest) (*ModelResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Model service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	var out ModelResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("Model service returned invalid JSON: %w", err)
	}
	return &out, nil
}

// Health probes GET {base}/health.
func (c *HTTPModelClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Status: resp.StatusCode}
	}
	return nil
}
