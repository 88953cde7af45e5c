package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"IoTDashboard/internal/logger"
)

// Response is the outcome of a raw Request. Status is zero when no HTTP
// response was received, in which case Error says why.
type Response struct {
	Status int
	Body   interface{}
	Error  string
	URL    string
}

func (r Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// Map renders the response for display. The status key is omitted when no
// response arrived; error and url are only present on failure.
func (r Response) Map() map[string]interface{} {
	out := make(map[string]interface{})
	if r.Status != 0 {
		out["status"] = r.Status
	}
	if r.Body != nil {
		out["body"] = r.Body
	}
	if r.Error != "" {
		out["error"] = r.Error
		out["url"] = r.URL
	}
	return out
}

// transport performs raw calls for Request and HTTPClient.
type transport struct {
	client  *http.Client
	timeout time.Duration
	log     *logger.Logger
}

// Request performs a single HTTP call and never returns an error: transport
// failures are reported in Response.Error. JSON bodies are decoded; anything
// else is returned as text.
func Request(ctx context.Context, method, target string, timeout time.Duration, body interface{}) Response {
	t := transport{client: http.DefaultClient, timeout: timeout, log: logger.Default().With("client.request")}
	return t.do(ctx, method, target, body)
}

func (t transport) do(ctx context.Context, method, target string, body interface{}) Response {
	timeout := t.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(t.log, method, target, fmt.Sprintf("Request error: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(t.log, method, target, fmt.Sprintf("Request error: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t.log.Debug("%s %s", method, target)
	resp, err := t.client.Do(req)
	if err != nil {
		return fail(t.log, method, target, describeTransportError(err, timeout))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(t.log, method, target, describeTransportError(err, timeout))
	}

	result := Response{Status: resp.StatusCode, URL: target, Body: string(raw)}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err == nil {
			result.Body = decoded
		}
	}

	if !result.IsSuccess() {
		t.log.Warn("Request failed: %s %s - Status %d", method, target, resp.StatusCode)
	}
	return result
}

func fail(log *logger.Logger, method, target, msg string) Response {
	log.Error("%s: %s %s", msg, method, target)
	return Response{Error: msg, URL: target}
}

func describeTransportError(err error, timeout time.Duration) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Sprintf("Request timeout after %s", timeout)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("Connection error: %v", err)
	}
	return fmt.Sprintf("Request error: %v", err)
}
