package siri

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashika-verma/realtimebus.nyc/metrics"
	"github.com/ashika-verma/realtimebus.nyc/upstream"
)

// Client fetches SIRI stop-monitoring JSON, one authenticated GET per stop.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	operatorRef string
	minVisits   int
	log         zerolog.Logger
	collector   *metrics.Collector
	now         func() time.Time
}

// NewClient creates a SIRI client. collector may be nil.
func NewClient(baseURL, apiKey, operatorRef string, minVisitsPerLine int, timeout time.Duration, log zerolog.Logger, collector *metrics.Collector) *Client {
	return &Client{
		httpClient:  upstream.NewHTTPClient(timeout),
		baseURL:     baseURL,
		apiKey:      apiKey,
		operatorRef: operatorRef,
		minVisits:   minVisitsPerLine,
		log:         log.With().Str("component", "siri").Logger(),
		collector:   collector,
		now:         time.Now,
	}
}

// StopMonitoring fetches and decodes the visits for one stop. Non-2xx and
// malformed JSON surface as *upstream.Error keyed by the stop ID.
func (c *Client) StopMonitoring(ctx context.Context, stopID string) (*StopMonitoringResponse, error) {
	start := c.now()
	resp, err := c.stopMonitoring(ctx, stopID)
	if c.collector != nil {
		c.collector.UpstreamRequests.WithLabelValues("siri").Inc()
		c.collector.FetchDuration.Observe(c.now().Sub(start).Seconds())
		if err != nil {
			c.collector.UpstreamErrors.WithLabelValues("siri").Inc()
		}
	}
	return resp, err
}

func (c *Client) stopMonitoring(ctx context.Context, stopID string) (*StopMonitoringResponse, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("version", "2")
	q.Set("OperatorRef", c.operatorRef)
	q.Set("MonitoringRef", stopID)
	q.Set("MinimumStopVisitsPerLine", strconv.Itoa(c.minVisits))

	reqURL := c.baseURL + "/stop-monitoring.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &upstream.Error{Resource: stopID, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &upstream.Error{Resource: stopID, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("stop", stopID).Msg("stop monitoring fetch failed")
		return nil, &upstream.Error{Status: resp.StatusCode, Resource: stopID}
	}

	var sm StopMonitoringResponse
	if err := json.NewDecoder(resp.Body).Decode(&sm); err != nil {
		return nil, &upstream.Error{Resource: stopID, Err: fmt.Errorf("decode: %w", err)}
	}
	return &sm, nil
}
