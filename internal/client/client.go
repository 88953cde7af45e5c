// internal/client/client.go

package client

import (
	"context"
	"net/url"
	"strings"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
)

const DefaultTimeout = 5 * time.Second

// APIClient talks to one backend service. Failures never surface as errors:
// Get returns an empty status and Post returns false, and the cause is logged.
type APIClient interface {
	Get(ctx context.Context, path string) models.Status
	Post(ctx context.Context, path string, body interface{}, params url.Values) bool
}

type options struct {
	timeout time.Duration
	strict  bool
	log     *logger.Logger
}

type Option func(*options)

// WithTimeout bounds every HTTP request made by an HTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithStrictRoutes makes a MockClient reject POSTs to routes it does not know.
func WithStrictRoutes() Option {
	return func(o *options) {
		o.strict = true
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{timeout: DefaultTimeout, log: logger.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With(component)
	return o
}

// joinURL joins base and path with exactly one slash between them.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
