package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/mock"
	"IoTDashboard/internal/models"
)

// MockClient serves the backend REST surface from an in-process DataSource.
type MockClient struct {
	source *mock.DataSource
	strict bool
	log    *logger.Logger
}

func NewMockClient(source *mock.DataSource, opts ...Option) *MockClient {
	o := buildOptions("client.mock", opts)
	return &MockClient{source: source, strict: o.strict, log: o.log}
}

func (c *MockClient) Get(_ context.Context, path string) models.Status {
	route, _ := normalizeRoute(path)
	c.log.Debug("GET %s", route)

	switch route {
	case "simulator/status":
		requestsTotal.WithLabelValues("mock", http.MethodGet, outcomeSuccess).Inc()
		return c.source.SimulatorStatus()
	case "analytics/status":
		requestsTotal.WithLabelValues("mock", http.MethodGet, outcomeSuccess).Inc()
		return c.source.AnalyticsStatus()
	}

	c.log.Warn("No mock GET handler for path '%s'", route)
	requestsTotal.WithLabelValues("mock", http.MethodGet, outcomeFailure).Inc()
	return models.Status{}
}

// Post applies the request to the DataSource. Query parameters embedded in
// path take precedence over params. The JSON body is not used by any route.
func (c *MockClient) Post(_ context.Context, path string, _ interface{}, params url.Values) bool {
	route, query := normalizeRoute(path)
	merged := mergeParams(params, query)
	c.log.Debug("POST %s %s", route, merged.Encode())

	var err error
	switch route {
	case "simulator/start":
		c.source.SetSimulatorRunning(true)
	case "simulator/stop":
		c.source.SetSimulatorRunning(false)
	case "analytics/start":
		c.source.SetAnalyticsRunning(true)
	case "analytics/stop":
		c.source.SetAnalyticsRunning(false)
	case "simulator/config":
		err = c.source.ConfigureSimulator(merged)
	case "analytics/config":
		err = c.source.ConfigureAnalytics(merged)
	default:
		c.log.Warn("No mock POST handler for path '%s'", route)
		if c.strict {
			requestsTotal.WithLabelValues("mock", http.MethodPost, outcomeFailure).Inc()
			return false
		}
		requestsTotal.WithLabelValues("mock", http.MethodPost, outcomeSuccess).Inc()
		return true
	}

	if err != nil {
		c.log.Error("POST %s rejected: %v", route, err)
		requestsTotal.WithLabelValues("mock", http.MethodPost, outcomeFailure).Inc()
		return false
	}
	requestsTotal.WithLabelValues("mock", http.MethodPost, outcomeSuccess).Inc()
	return true
}

// normalizeRoute strips the leading slash, an optional "api/" prefix and any
// query string, which is returned separately.
func normalizeRoute(path string) (string, url.Values) {
	var query url.Values
	if i := strings.IndexByte(path, '?'); i >= 0 {
		query, _ = url.ParseQuery(path[i+1:])
		path = path[:i]
	}
	path = strings.TrimLeft(path, "/")
	path = strings.TrimPrefix(path, "api/")
	return strings.TrimRight(path, "/"), query
}

func mergeParams(params, query url.Values) url.Values {
	merged := make(url.Values, len(params)+len(query))
	for k, v := range params {
		merged[k] = append([]string(nil), v...)
	}
	for k, v := range query {
		merged[k] = append([]string(nil), v...)
	}
	return merged
}
