package mqtt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	directionIn  = "in"
	directionOut = "out"

	outcomeOK       = "ok"
	outcomeFailed   = "failed"
	outcomeUnrouted = "unrouted"
)

var (
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_mqtt_messages_total",
		Help: "MQTT messages by direction and outcome.",
	}, []string{"direction", "outcome"})

	connectedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_mqtt_connected",
		Help: "1 while the broker connection is up.",
	})
)
