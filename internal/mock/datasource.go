// internal/mock/datasource.go

package mock

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"IoTDashboard/internal/models"
)

const (
	DefaultDeviceCount       = 10
	DefaultMessagesPerSecond = 5
	DefaultMethod            = "SEQUENTIAL"
	DefaultBatchSize         = 100
)

var ErrInvalidParam = errors.New("invalid parameter")

type SimulatorState struct {
	Running           bool `json:"running"`
	DeviceCount       int  `json:"deviceCount"`
	MessagesPerSecond int  `json:"messagesPerSecond"`
}

type AnalyticsState struct {
	Running   bool   `json:"running"`
	Method    string `json:"method"`
	BatchSize int    `json:"batchSize"`
}

// DataSource holds the simulated state of the simulator and analytics
// services. It is shared by the in-process mock client and the mock REST
// backend. Reads always see a consistent snapshot; concurrent writers are
// last-write-wins.
type DataSource struct {
	mu        sync.RWMutex
	simulator SimulatorState
	analytics AnalyticsState
}

func NewDataSource() *DataSource {
	d := &DataSource{}
	d.Reset()
	return d
}

// Reset restores the initial state.
func (d *DataSource) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.simulator = SimulatorState{
		DeviceCount:       DefaultDeviceCount,
		MessagesPerSecond: DefaultMessagesPerSecond,
	}
	d.analytics = AnalyticsState{
		Method:    DefaultMethod,
		BatchSize: DefaultBatchSize,
	}
}

func (d *DataSource) Simulator() SimulatorState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.simulator
}

func (d *DataSource) Analytics() AnalyticsState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.analytics
}

// SimulatorStatus renders the simulator state the way the real status endpoint does.
func (d *DataSource) SimulatorStatus() models.Status {
	s := d.Simulator()
	return models.Status{
		"running":           s.Running,
		"deviceCount":       s.DeviceCount,
		"messagesPerSecond": s.MessagesPerSecond,
	}
}

func (d *DataSource) AnalyticsStatus() models.Status {
	a := d.Analytics()
	return models.Status{
		"running":   a.Running,
		"method":    a.Method,
		"batchSize": a.BatchSize,
	}
}

func (d *DataSource) SetSimulatorRunning(running bool) {
	d.mu.Lock()
	d.simulator.Running = running
	d.mu.Unlock()
}

func (d *DataSource) SetAnalyticsRunning(running bool) {
	d.mu.Lock()
	d.analytics.Running = running
	d.mu.Unlock()
}

// ConfigureSimulator applies deviceCount and messagesPerSecond from params.
// Absent keys keep their current value. Nothing is changed when any present
// value is not an integer.
func (d *DataSource) ConfigureSimulator(params url.Values) error {
	deviceCount, hasCount, err := intParam(params, "deviceCount")
	if err != nil {
		return err
	}
	rate, hasRate, err := intParam(params, "messagesPerSecond")
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if hasCount {
		d.simulator.DeviceCount = deviceCount
	}
	if hasRate {
		d.simulator.MessagesPerSecond = rate
	}
	return nil
}

// ConfigureAnalytics applies method and batchSize from params, with the same
// rules as ConfigureSimulator.
func (d *DataSource) ConfigureAnalytics(params url.Values) error {
	batchSize, hasBatch, err := intParam(params, "batchSize")
	if err != nil {
		return err
	}
	method, hasMethod := params["method"]

	d.mu.Lock()
	defer d.mu.Unlock()
	if hasMethod && len(method) > 0 {
		d.analytics.Method = method[0]
	}
	if hasBatch {
		d.analytics.BatchSize = batchSize
	}
	return nil
}

func intParam(params url.Values, key string) (int, bool, error) {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParam, key, values[0])
	}
	return n, true, nil
}
