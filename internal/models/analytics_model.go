package models

import "time"

// Stat is an {avg,min,max} triple.
type Stat struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type AnalyticsMetrics struct {
	TotalDevices   float64            `json:"totalDevices"`
	OnlineDevices  float64            `json:"onlineDevices"`
	CoverageVolume float64            `json:"coverageVolume"`
	Battery        Stat               `json:"battery"`
	Signal         Stat               `json:"signal"`
	Heartbeat      Stat               `json:"heartbeat"`
	ByType         map[string]float64 `json:"byType"`
	ByManufacturer map[string]float64 `json:"byManufacturer"`
}

// AnalyticsPoint is the typed view of an analytics history document.
type AnalyticsPoint struct {
	ID        string           `json:"_id"`
	DeviceID  int              `json:"deviceId"`
	Timestamp time.Time        `json:"timestamp"`
	Metrics   AnalyticsMetrics `json:"metrics"`
}

func ParseAnalyticsPoint(d Document) AnalyticsPoint {
	ts, _ := d.Time("timestamp")
	m := d.Map("metrics")
	return AnalyticsPoint{
		ID:        d.ID(),
		DeviceID:  d.Int("deviceId"),
		Timestamp: ts,
		Metrics: AnalyticsMetrics{
			TotalDevices:   m.Float("totalDevices"),
			OnlineDevices:  m.Float("onlineDevices"),
			CoverageVolume: m.Float("coverageVolume"),
			Battery:        parseStat(m.Map("battery")),
			Signal:         parseStat(m.Map("signal")),
			Heartbeat:      parseStat(m.Map("heartbeat")),
			ByType:         parseBreakdown(m.Map("byType")),
			ByManufacturer: parseBreakdown(m.Map("byManufacturer")),
		},
	}
}

func parseStat(d Document) Stat {
	return Stat{Avg: d.Float("avg"), Min: d.Float("min"), Max: d.Float("max")}
}

func parseBreakdown(d Document) map[string]float64 {
	out := make(map[string]float64, len(d))
	for k := range d {
		out[k] = d.Float(k)
	}
	return out
}

// OnlineRatio is online/total devices, zero when the total is unknown.
func (m AnalyticsMetrics) OnlineRatio() float64 {
	if m.TotalDevices <= 0 {
		return 0
	}
	return m.OnlineDevices / m.TotalDevices
}
