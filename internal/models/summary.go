package models

import (
	"sort"
	"strings"
)

// AlertSummary is the headline figures shown above the alerts table.
type AlertSummary struct {
	Total           int            `json:"total"`
	TriggeredRules  int            `json:"triggeredRules"`
	AffectedDevices int            `json:"affectedDevices"`
	BySeverity      map[string]int `json:"bySeverity"`
}

func SummarizeAlerts(alerts []Document) AlertSummary {
	rules := make(map[string]struct{})
	devices := make(map[string]struct{})
	summary := AlertSummary{Total: len(alerts), BySeverity: make(map[string]int)}

	for _, a := range alerts {
		if rule := a.String("ruleId"); rule != "" {
			rules[rule] = struct{}{}
		}
		if device := a.String("deviceId"); device != "" {
			devices[device] = struct{}{}
		}
		if sev := strings.ToUpper(a.String("severity")); sev != "" {
			summary.BySeverity[sev]++
		}
	}

	summary.TriggeredRules = len(rules)
	summary.AffectedDevices = len(devices)
	return summary
}

// AnalyticsSummary describes the newest point of an analytics history.
type AnalyticsSummary struct {
	Timestamp     string  `json:"timestamp"`
	OnlineDevices float64 `json:"onlineDevices"`
	TotalDevices  float64 `json:"totalDevices"`
	BatteryAvg    float64 `json:"batteryAvg"`
	SignalAvg     float64 `json:"signalAvg"`
}

// SummarizeAnalytics returns nil for an empty history. Points may arrive in
// any order; the one with the latest timestamp wins.
func SummarizeAnalytics(history []Document) *AnalyticsSummary {
	if len(history) == 0 {
		return nil
	}

	points := make([]AnalyticsPoint, 0, len(history))
	for _, d := range history {
		points = append(points, ParseAnalyticsPoint(d))
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.After(points[j].Timestamp)
	})

	latest := points[0]
	return &AnalyticsSummary{
		Timestamp:     latest.Timestamp.UTC().Format(TimestampLayout),
		OnlineDevices: latest.Metrics.OnlineDevices,
		TotalDevices:  latest.Metrics.TotalDevices,
		BatteryAvg:    latest.Metrics.Battery.Avg,
		SignalAvg:     latest.Metrics.Signal.Avg,
	}
}
