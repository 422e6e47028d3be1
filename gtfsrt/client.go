package gtfsrt

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"context"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"github.com/ashika-verma/realtimebus.nyc/metrics"
	"github.com/ashika-verma/realtimebus.nyc/upstream"
)

// Client fetches GTFS-RT protobuf feeds over authenticated HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        zerolog.Logger
	collector  *metrics.Collector
	now        func() time.Time
}

// NewClient creates a GTFS-RT client. collector may be nil.
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger, collector *metrics.Collector) *Client {
	return &Client{
		httpClient: upstream.NewHTTPClient(timeout),
		baseURL:    baseURL,
		apiKey:     apiKey,
		log:        log.With().Str("component", "gtfsrt").Logger(),
		collector:  collector,
		now:        time.Now,
	}
}

// FetchFeed fetches one feed path (e.g. "/tripUpdates") and decodes it. The
// returned snapshot is tagged with the fetch wall-clock time. A non-2xx
// response, transport failure, or decode failure surfaces as *upstream.Error;
// no retry happens at this layer.
func (c *Client) FetchFeed(ctx context.Context, path string) (*Snapshot, error) {
	start := c.now()
	snap, err := c.fetchFeed(ctx, path)
	if c.collector != nil {
		c.collector.UpstreamRequests.WithLabelValues(feedLabel(path)).Inc()
		c.collector.FetchDuration.Observe(c.now().Sub(start).Seconds())
		if err != nil {
			c.collector.UpstreamErrors.WithLabelValues(feedLabel(path)).Inc()
		}
	}
	return snap, err
}

func (c *Client) fetchFeed(ctx context.Context, path string) (*Snapshot, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &upstream.Error{Resource: path, Err: err}
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &upstream.Error{Resource: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("feed fetch failed")
		return nil, &upstream.Error{Status: resp.StatusCode, Resource: path}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &upstream.Error{Resource: path, Err: err}
	}
	fm := &gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(body, fm); err != nil {
		return nil, &upstream.Error{Resource: path, Err: fmt.Errorf("decode: %w", err)}
	}

	c.log.Debug().Str("path", path).Int("entities", len(fm.Entity)).Msg("feed fetched")
	return &Snapshot{Feed: fm, FetchedAt: c.now()}, nil
}

func feedLabel(path string) string {
	switch path {
	case "/tripUpdates":
		return "trip_updates"
	case "/vehiclePositions":
		return "vehicle_positions"
	case "/alerts":
		return "alerts"
	}
	return "other"
}
