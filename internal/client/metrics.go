package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeError   = "error"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_api_requests_total",
		Help: "Backend API calls made by the dashboard, by client kind, method and outcome.",
	},
	[]string{"client", "method", "outcome"},
)
