// internal/models/models.go

package models

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is how record timestamps are rendered by the mock sources.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// IDField is the document store's native identifier key.
const IDField = "_id"

// Status is a remote service's operating state as returned by its status endpoint.
type Status map[string]interface{}

func (s Status) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

func (s Status) Int(key string) (int, bool) {
	return toInt(s[key])
}

func (s Status) String(key string) string {
	return toString(s[key])
}

// Clone returns a shallow copy, so callers can't mutate a shared snapshot.
func (s Status) Clone() Status {
	out := make(Status, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Document is one record read from the history store. The repository
// guarantees the IDField value is a string.
type Document map[string]interface{}

func (d Document) ID() string {
	return toString(d[IDField])
}

func (d Document) String(key string) string {
	return toString(d[key])
}

func (d Document) Float(key string) float64 {
	return toFloat(d[key])
}

func (d Document) Int(key string) int {
	n, _ := toInt(d[key])
	return n
}

func (d Document) Map(key string) Document {
	switch m := d[key].(type) {
	case Document:
		return m
	case map[string]interface{}:
		return Document(m)
	}
	return Document{}
}

// Time reads a timestamp stored either as a native time or as an ISO-8601 string.
func (d Document) Time(key string) (time.Time, bool) {
	switch v := d[key].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, TimestampLayout, "2006-01-02T15:04:05.000", "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Mode      string    `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
	Services  struct {
		Simulator bool `json:"simulator"`
		Analytics bool `json:"analytics"`
		Database  bool `json:"database"`
		MQTT      bool `json:"mqtt"`
	} `json:"services"`
	Broker *BrokerHealth `json:"broker,omitempty"`
}

// BrokerHealth describes the MQTT link.
type BrokerHealth struct {
	Broker         string    `json:"broker"`
	Connected      bool      `json:"connected"`
	LastConnected  time.Time `json:"last_connected,omitempty"`
	LastDisconnect time.Time `json:"last_disconnect,omitempty"`
	LastPublished  time.Time `json:"last_published,omitempty"`
	Published      uint64    `json:"published"`
	Subscriptions  int       `json:"subscriptions"`
}

type SimulatorConfigRequest struct {
	DeviceCount       int `json:"deviceCount"`
	MessagesPerSecond int `json:"messagesPerSecond"`
}

type AnalyticsConfigRequest struct {
	Method    string `json:"method"`
	BatchSize int    `json:"batchSize"`
}

type RefreshIntervalRequest struct {
	Seconds int `json:"seconds"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
