package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
)

// HTTPClient is the APIClient for a live backend service.
type HTTPClient struct {
	baseURL   string
	transport transport
	log       *logger.Logger
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	o := buildOptions("client.http", opts)
	return &HTTPClient{
		baseURL:   baseURL,
		transport: transport{client: &http.Client{}, timeout: o.timeout, log: o.log},
		log:       o.log,
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get returns the decoded JSON object on HTTP 200 and an empty status otherwise.
func (c *HTTPClient) Get(ctx context.Context, path string) models.Status {
	resp := c.transport.do(ctx, http.MethodGet, joinURL(c.baseURL, path), nil)

	switch {
	case resp.Error != "":
		requestsTotal.WithLabelValues("http", http.MethodGet, outcomeError).Inc()
		return models.Status{}
	case resp.Status != http.StatusOK:
		requestsTotal.WithLabelValues("http", http.MethodGet, outcomeFailure).Inc()
		return models.Status{}
	}

	status, ok := asStatus(resp.Body)
	if !ok {
		c.log.Error("GET %s returned a body that is not a JSON object", resp.URL)
		requestsTotal.WithLabelValues("http", http.MethodGet, outcomeError).Inc()
		return models.Status{}
	}

	requestsTotal.WithLabelValues("http", http.MethodGet, outcomeSuccess).Inc()
	return status
}

// Post sends body as JSON (when non-nil) with params as the query string.
// It reports true for HTTP 200 and 201.
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}, params url.Values) bool {
	target := joinURL(c.baseURL, path)
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	resp := c.transport.do(ctx, http.MethodPost, target, body)

	switch {
	case resp.Error != "":
		requestsTotal.WithLabelValues("http", http.MethodPost, outcomeError).Inc()
		return false
	case resp.Status != http.StatusOK && resp.Status != http.StatusCreated:
		requestsTotal.WithLabelValues("http", http.MethodPost, outcomeFailure).Inc()
		return false
	}

	requestsTotal.WithLabelValues("http", http.MethodPost, outcomeSuccess).Inc()
	return true
}

// asStatus accepts a decoded object, or text that holds one when the server
// did not label its body as JSON.
func asStatus(body interface{}) (models.Status, bool) {
	switch b := body.(type) {
	case map[string]interface{}:
		return models.Status(b), true
	case string:
		var status models.Status
		if err := json.Unmarshal([]byte(b), &status); err != nil || status == nil {
			return nil, false
		}
		return status, true
	}
	return nil, false
}
