package models

import "time"

// Bounds on operator-adjustable refresh settings.
const (
	MaxRefreshSeconds = 60
	MaxHistoryLimit   = 1000
)

// Snapshot is the result of one refresh cycle: everything the dashboard shows.
type Snapshot struct {
	CycleID          string            `json:"cycleId"`
	Trigger          string            `json:"trigger"`
	Mode             string            `json:"mode"`
	StartedAt        time.Time         `json:"startedAt"`
	DurationMs       int64             `json:"durationMs"`
	Simulator        Status            `json:"simulator"`
	Analytics        Status            `json:"analytics"`
	Alerts           []Document        `json:"alerts"`
	AlertsSource     string            `json:"alertsSource"`
	AlertsSummary    AlertSummary      `json:"alertsSummary"`
	AnalyticsHistory []Document        `json:"analyticsHistory"`
	AnalyticsSource  string            `json:"analyticsSource"`
	AnalyticsSummary *AnalyticsSummary `json:"analyticsSummary"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// RefreshSettings is the operator-adjustable part of the refresh loop.
type RefreshSettings struct {
	IntervalSeconds int `json:"intervalSeconds"`
	AlertsLimit     int `json:"alertsLimit"`
	AnalyticsLimit  int `json:"analyticsLimit"`
}
