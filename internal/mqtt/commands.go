package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
)

type CommandType string

const (
	CommandRefresh     CommandType = "refresh"
	CommandSetInterval CommandType = "set_interval"
	CommandSetLimits   CommandType = "set_limits"
)

// Command is an operator instruction received on the command topic, e.g.
// {"type":"set_interval","payload":{"seconds":10}}.
type Command struct {
	Type    CommandType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SetIntervalCommand struct {
	Seconds int `json:"seconds"`
}

type SetLimitsCommand struct {
	AlertsLimit    int `json:"alertsLimit"`
	AnalyticsLimit int `json:"analyticsLimit"`
}

// RefreshController is the part of the refresh loop commands can drive.
type RefreshController interface {
	Trigger()
	SetInterval(d time.Duration) error
	SetLimits(alerts, analytics int) error
	Settings() models.RefreshSettings
}

// NewCommandHandler returns a MessageHandler that applies commands to ctrl.
func NewCommandHandler(ctrl RefreshController, log *logger.Logger) MessageHandler {
	return func(topic string, payload []byte) error {
		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return fmt.Errorf("invalid command payload: %w", err)
		}

		switch cmd.Type {
		case CommandRefresh:
			log.Info("Refresh requested via %s", topic)
			ctrl.Trigger()
			return nil

		case CommandSetInterval:
			var body SetIntervalCommand
			if err := json.Unmarshal(cmd.Payload, &body); err != nil {
				return fmt.Errorf("invalid %s payload: %w", cmd.Type, err)
			}
			if body.Seconds < 1 || body.Seconds > models.MaxRefreshSeconds {
				return fmt.Errorf("%s: seconds must be between 1 and %d, got %d", cmd.Type, models.MaxRefreshSeconds, body.Seconds)
			}
			return ctrl.SetInterval(time.Duration(body.Seconds) * time.Second)

		case CommandSetLimits:
			current := ctrl.Settings()
			body := SetLimitsCommand{AlertsLimit: current.AlertsLimit, AnalyticsLimit: current.AnalyticsLimit}
			if err := json.Unmarshal(cmd.Payload, &body); err != nil {
				return fmt.Errorf("invalid %s payload: %w", cmd.Type, err)
			}
			if !withinLimit(body.AlertsLimit) || !withinLimit(body.AnalyticsLimit) {
				return fmt.Errorf("%s: limits must be between 0 and %d", cmd.Type, models.MaxHistoryLimit)
			}
			if err := ctrl.SetLimits(body.AlertsLimit, body.AnalyticsLimit); err != nil {
				return err
			}
			ctrl.Trigger()
			return nil
		}

		return fmt.Errorf("unknown command type: %q", cmd.Type)
	}
}

func withinLimit(n int) bool {
	return n >= 0 && n <= models.MaxHistoryLimit
}
