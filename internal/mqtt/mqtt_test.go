package mqtt

import (
	"context"
	"errors"
	"testing"
	"time"

	"IoTDashboard/internal/config"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	triggers int
	interval time.Duration
	settings models.RefreshSettings
}

func (f *fakeController) Trigger() { f.triggers++ }

func (f *fakeController) SetInterval(d time.Duration) error {
	if d < time.Second {
		return errors.New("too short")
	}
	f.interval = d
	return nil
}

func (f *fakeController) SetLimits(alerts, analytics int) error {
	f.settings.AlertsLimit = alerts
	f.settings.AnalyticsLimit = analytics
	return nil
}

func (f *fakeController) Settings() models.RefreshSettings { return f.settings }

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern, topic string
		want           bool
	}{
		{"dashboard/cmd", "dashboard/cmd", true},
		{"dashboard/+", "dashboard/cmd", true},
		{"dashboard/#", "dashboard/cmd/extra", true},
		{"dashboard/+", "dashboard/cmd/extra", false},
		{"dashboard/cmd", "dashboard/snapshot", false},
		{"dashboard/cmd/x", "dashboard/cmd", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchTopic(tt.pattern, tt.topic), "%s vs %s", tt.pattern, tt.topic)
	}
}

func TestCommandHandler(t *testing.T) {
	ctrl := &fakeController{settings: models.RefreshSettings{AlertsLimit: 20, AnalyticsLimit: 100}}
	handle := NewCommandHandler(ctrl, logger.Discard())

	require.NoError(t, handle("dashboard/cmd", []byte(`{"type":"refresh"}`)))
	assert.Equal(t, 1, ctrl.triggers)

	require.NoError(t, handle("dashboard/cmd", []byte(`{"type":"set_interval","payload":{"seconds":15}}`)))
	assert.Equal(t, 15*time.Second, ctrl.interval)

	assert.Error(t, handle("dashboard/cmd", []byte(`{"type":"set_interval","payload":{"seconds":0}}`)))
	assert.Error(t, handle("dashboard/cmd", []byte(`{"type":"set_interval","payload":{"seconds":9223372036854775807}}`)))
	assert.Equal(t, 15*time.Second, ctrl.interval)

	require.NoError(t, handle("dashboard/cmd", []byte(`{"type":"set_limits","payload":{"alertsLimit":5}}`)))
	assert.Equal(t, 5, ctrl.settings.AlertsLimit)
	assert.Equal(t, 100, ctrl.settings.AnalyticsLimit, "omitted limit keeps its value")
	assert.Equal(t, 2, ctrl.triggers)

	assert.Error(t, handle("dashboard/cmd", []byte(`{"type":"set_limits","payload":{"analyticsLimit":4611686018427387904}}`)))
	assert.Equal(t, 100, ctrl.settings.AnalyticsLimit)
	assert.Equal(t, 2, ctrl.triggers)

	assert.Error(t, handle("dashboard/cmd", []byte(`{"type":"reboot"}`)))
	assert.Error(t, handle("dashboard/cmd", []byte(`not json`)))
}

func TestHandleMessageDispatch(t *testing.T) {
	var got []string
	c := &Client{
		log: logger.Discard(),
		handlers: map[string]MessageHandler{
			"dashboard/+": func(topic string, payload []byte) error {
				got = append(got, topic+"="+string(payload))
				return nil
			},
		},
	}

	c.handleMessage("dashboard/cmd", []byte("x"))
	c.handleMessage("other/topic", []byte("y"))

	assert.Equal(t, []string{"dashboard/cmd=x"}, got)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{MQTT: &config.MQTTConfig{Broker: "b"}})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{MQTT: &config.MQTTConfig{}, Logger: logger.Discard()})
	assert.Error(t, err)

	c, err := NewClient(ClientConfig{
		MQTT:   &config.MQTTConfig{Broker: "localhost", Port: 1883, ClientID: "t", ConnectTimeout: time.Second},
		Logger: logger.Discard(),
	})
	require.NoError(t, err)
	assert.False(t, c.IsConnected())
	assert.Error(t, c.Publish("t", []byte("x")))
}

func TestPublisherSkipsWhileDisconnected(t *testing.T) {
	c, err := NewClient(ClientConfig{
		MQTT:   &config.MQTTConfig{Broker: "localhost", Port: 1883, ClientID: "t"},
		Logger: logger.Discard(),
	})
	require.NoError(t, err)

	NewSnapshotPublisher(c, "dashboard/snapshot").Publish(&models.Snapshot{CycleID: "c"})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, h.Connected)
	assert.Zero(t, h.Published)
}

func TestHandlerForPrefersExactTopic(t *testing.T) {
	var got string
	c := &Client{
		log: logger.Discard(),
		handlers: map[string]MessageHandler{
			"dashboard/#":   func(string, []byte) error { got = "wildcard"; return nil },
			"dashboard/cmd": func(string, []byte) error { got = "exact"; return nil },
		},
	}

	c.handleMessage("dashboard/cmd", nil)
	assert.Equal(t, "exact", got)

	c.handleMessage("dashboard/other", nil)
	assert.Equal(t, "wildcard", got)
}

func TestHealthReportsBroker(t *testing.T) {
	c, err := NewClient(ClientConfig{
		MQTT:   &config.MQTTConfig{Broker: "broker.local", Port: 1884, ClientID: "t", StatusTopic: "dashboard/status"},
		Logger: logger.Discard(),
	})
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "broker.local:1884", h.Broker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Health(ctx)
	assert.Error(t, err)
}
