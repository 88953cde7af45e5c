package mock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"IoTDashboard/internal/models"
)

// MaxAlerts caps a single synthetic alerts page.
const MaxAlerts = 50

var ruleIDs = []string{
	"LOW_BATTERY",
	"HIGH_TEMPERATURE",
	"SUSTAINED_LOW_SIGNAL",
	"RAPID_BATTERY_DRAIN",
	"SIGNAL_LOSS",
}

var ruleMessages = map[string]string{
	"LOW_BATTERY":          "Battery level below threshold",
	"HIGH_TEMPERATURE":     "Temperature exceeds safe limits",
	"SUSTAINED_LOW_SIGNAL": "Signal strength critically low",
	"RAPID_BATTERY_DRAIN":  "Battery draining faster than normal",
	"SIGNAL_LOSS":          "Complete signal loss detected",
}

var severities = []string{models.SeverityInfo, models.SeverityWarning, models.SeverityCritical}

// Generator produces synthetic alert and analytics documents. Output depends
// only on the clock reading, so a fixed clock gives repeatable pages.
type Generator struct {
	now func() time.Time
}

type GeneratorOption func(*Generator)

func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Alerts returns min(limit, MaxAlerts) alerts, newest first, five minutes apart.
func (g *Generator) Alerts(limit int) []models.Document {
	n := min(limit, MaxAlerts)
	if n <= 0 {
		return []models.Document{}
	}

	now := g.now().UTC()
	out := make([]models.Document, 0, n)
	for i := 0; i < n; i++ {
		rng := g.rng(now, i)
		ruleID := ruleIDs[rng.IntN(len(ruleIDs))]
		out = append(out, models.Document{
			models.IDField: fmt.Sprintf("mock_%03d", i),
			"ruleId":       ruleID,
			"severity":     severities[rng.IntN(len(severities))],
			"deviceId":     1 + rng.IntN(100),
			"message":      ruleMessages[ruleID],
			"receivedAt":   now.Add(-time.Duration(i) * 5 * time.Minute).Format(models.TimestampLayout),
			"value":        round2(uniform(rng, 0, 100)),
			"threshold":    round2(uniform(rng, 50, 90)),
		})
	}
	return out
}

// AnalyticsHistory returns limit aggregate points, newest first, one minute apart.
func (g *Generator) AnalyticsHistory(limit int) []models.Document {
	if limit <= 0 {
		return []models.Document{}
	}

	now := g.now().UTC()
	out := make([]models.Document, 0, min(limit, models.MaxHistoryLimit))
	for i := 0; i < limit; i++ {
		rng := g.rng(now, i)
		out = append(out, models.Document{
			models.IDField: fmt.Sprintf("mock_analytics_%03d", i),
			"deviceId":     1,
			"timestamp":    now.Add(-time.Duration(i) * time.Minute).Format(models.TimestampLayout),
			"metrics": map[string]interface{}{
				"totalDevices":   50.0,
				"onlineDevices":  45.0 + float64(rng.IntN(11)-5),
				"coverageVolume": 1000.0,
				"battery": map[string]interface{}{
					"avg": round2(uniform(rng, 50, 95) - float64(i)*0.1),
					"min": 20.0,
					"max": 100.0,
				},
				"signal": map[string]interface{}{
					"avg": round2(uniform(rng, 60, 90) + uniform(rng, -5, 5)),
					"min": 10.0,
					"max": 95.0,
				},
				"heartbeat": map[string]interface{}{
					"avg": round2(uniform(rng, 0.5, 5.0)),
					"min": 0.0,
					"max": 10.0,
				},
				"byType": map[string]interface{}{
					"SENSOR":   25.0,
					"ACTUATOR": 15.0,
					"GATEWAY":  10.0,
				},
				"byManufacturer": map[string]interface{}{
					"ACME":   20.0,
					"GLOBEX": 30.0,
				},
			},
		})
	}
	return out
}

func (g *Generator) rng(now time.Time, index int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(now.Unix()), uint64(index)))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
