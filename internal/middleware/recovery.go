package middleware

import (
	"net/http"
	"runtime/debug"

	"IoTDashboard/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var panicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dashboard_http_panics_total",
	Help: "Handler panics recovered, by route template.",
}, []string{"route"})

// Recovery turns a handler panic into a 500 with a generic body. The panic
// value and stack only go to the log.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				route := routeTemplate(r)
				panicsTotal.WithLabelValues(route).Inc()
				log.Error("PANIC serving %s %s: %v\n%s", r.Method, route, rec, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": "Internal server error"}`))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
