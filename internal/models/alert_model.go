package models

import "time"

const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Alert is the typed view of an alert document.
type Alert struct {
	ID         string    `json:"_id"`
	RuleID     string    `json:"ruleId"`
	Severity   string    `json:"severity"`
	DeviceID   int       `json:"deviceId"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
	Value      float64   `json:"value"`
	Threshold  float64   `json:"threshold"`
}

// ParseAlert reads an alert document; receivedAt falls back to alertTimestamp
// for stores written by older rule engines.
func ParseAlert(d Document) Alert {
	received, ok := d.Time("receivedAt")
	if !ok {
		received, _ = d.Time("alertTimestamp")
	}
	return Alert{
		ID:         d.ID(),
		RuleID:     d.String("ruleId"),
		Severity:   d.String("severity"),
		DeviceID:   d.Int("deviceId"),
		Message:    d.String("message"),
		ReceivedAt: received,
		Value:      d.Float("value"),
		Threshold:  d.Float("threshold"),
	}
}

// IsValidSeverity reports whether s is one of INFO, WARNING, CRITICAL.
func IsValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}
