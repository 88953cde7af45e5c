package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var clientsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dashboard_ws_clients",
	Help: "Connected WebSocket dashboard clients.",
})
