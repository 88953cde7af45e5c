// internal/refresh/poller.go

package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/service"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	TriggerInitial = "initial"
	TriggerTimer   = "timer"
	TriggerManual  = "manual"

	MinInterval = time.Second
	MaxInterval = models.MaxRefreshSeconds * time.Second
)

var ErrInvalidSettings = errors.New("invalid refresh settings")

// Sink receives every completed snapshot. Publish must not block.
type Sink interface {
	Publish(snap *models.Snapshot)
}

type Config struct {
	Mode           string
	Interval       time.Duration
	AlertsLimit    int
	AnalyticsLimit int
}

// Poller re-reads all dashboard sections on a timer. Cycles run on a single
// goroutine and never overlap; Trigger shortens the wait before the next
// cycle but does not interrupt one in flight.
type Poller struct {
	simulator service.ISimulatorService
	analytics service.IAnalyticsService
	alerts    service.IAlertsService
	mode      string
	log       *logger.Logger

	mu       sync.RWMutex
	settings models.RefreshSettings
	latest   *models.Snapshot
	sinks    []Sink

	trigger chan struct{}
	changed chan struct{}
	now     func() time.Time
}

func NewPoller(cfg Config, sim service.ISimulatorService, an service.IAnalyticsService, al service.IAlertsService, log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}
	cfg.AlertsLimit = clampLimit(cfg.AlertsLimit)
	cfg.AnalyticsLimit = clampLimit(cfg.AnalyticsLimit)
	p := &Poller{
		simulator: sim,
		analytics: an,
		alerts:    al,
		mode:      cfg.Mode,
		log:       log,
		settings: models.RefreshSettings{
			IntervalSeconds: int(cfg.Interval / time.Second),
			AlertsLimit:     cfg.AlertsLimit,
			AnalyticsLimit:  cfg.AnalyticsLimit,
		},
		trigger: make(chan struct{}, 1),
		changed: make(chan struct{}, 1),
		now:     time.Now,
	}
	intervalSeconds.Set(float64(p.settings.IntervalSeconds))
	return p
}

// AddSink registers a receiver for future snapshots. Call before Run.
func (p *Poller) AddSink(s Sink) {
	p.mu.Lock()
	p.sinks = append(p.sinks, s)
	p.mu.Unlock()
}

// Run performs a cycle immediately and then one per interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("Refresh loop started (every %v)", p.Interval())

	p.Cycle(ctx, TriggerInitial)

	timer := time.NewTimer(p.Interval())
	defer timer.Stop()

	for {
		var reason string
		select {
		case <-ctx.Done():
			p.log.Info("Refresh loop stopped")
			return nil
		case <-timer.C:
			reason = TriggerTimer
		case <-p.trigger:
			reason = TriggerManual
		case <-p.changed:
			timer.Reset(p.Interval())
			continue
		}

		p.Cycle(ctx, reason)
		timer.Reset(p.Interval())
	}
}

// Trigger requests a cycle as soon as the current one, if any, finishes.
// Requests made while one is already pending are coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

func (p *Poller) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Duration(p.settings.IntervalSeconds) * time.Second
}

func (p *Poller) Settings() models.RefreshSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// SetInterval changes the auto-refresh period to a whole number of seconds
// between MinInterval and MaxInterval; the wait in progress restarts with
// the new value.
func (p *Poller) SetInterval(d time.Duration) error {
	if d < MinInterval || d > MaxInterval {
		return fmt.Errorf("%w: interval must be between %v and %v", ErrInvalidSettings, MinInterval, MaxInterval)
	}
	if d%time.Second != 0 {
		return fmt.Errorf("%w: interval must be whole seconds, got %v", ErrInvalidSettings, d)
	}

	seconds := int(d / time.Second)
	p.mu.Lock()
	p.settings.IntervalSeconds = seconds
	p.mu.Unlock()

	intervalSeconds.Set(float64(seconds))
	p.log.Info("Refresh interval set to %v", d)

	select {
	case p.changed <- struct{}{}:
	default:
	}
	return nil
}

// SetLimits changes how many alerts and analytics points later cycles read.
// Zero hides a section; the ceiling is models.MaxHistoryLimit.
func (p *Poller) SetLimits(alerts, analytics int) error {
	if !validLimit(alerts) || !validLimit(analytics) {
		return fmt.Errorf("%w: limits must be between 0 and %d", ErrInvalidSettings, models.MaxHistoryLimit)
	}
	p.mu.Lock()
	p.settings.AlertsLimit = alerts
	p.settings.AnalyticsLimit = analytics
	p.mu.Unlock()
	return nil
}

// Latest returns the most recent snapshot, or nil before the first cycle.
func (p *Poller) Latest() *models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Cycle reads every section once, stores the result as the latest snapshot
// and hands it to the sinks. It is exported for Run and for tests; callers
// other than Run must not invoke it concurrently with Run.
func (p *Poller) Cycle(ctx context.Context, reason string) *models.Snapshot {
	settings := p.Settings()
	started := p.now()

	snap := &models.Snapshot{
		CycleID:   uuid.NewString(),
		Trigger:   reason,
		Mode:      p.mode,
		StartedAt: started.UTC(),
		Errors:    make(map[string]string),
	}

	// The four reads are independent; failures are already folded into
	// empty results, so the group never returns an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Simulator = p.simulator.GetStatus(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Analytics = p.analytics.GetStatus(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Alerts = p.alerts.GetAlerts(gctx, settings.AlertsLimit)
		snap.AlertsSource = p.alerts.Source()
		return nil
	})
	g.Go(func() error {
		snap.AnalyticsHistory = p.analytics.GetHistory(gctx, settings.AnalyticsLimit)
		snap.AnalyticsSource = p.analytics.HistorySource()
		return nil
	})
	_ = g.Wait()

	p.annotate(snap, settings)
	snap.AlertsSummary = models.SummarizeAlerts(snap.Alerts)
	snap.AnalyticsSummary = models.SummarizeAnalytics(snap.AnalyticsHistory)

	elapsed := p.now().Sub(started)
	snap.DurationMs = elapsed.Milliseconds()
	cycleDuration.Observe(elapsed.Seconds())
	cyclesTotal.WithLabelValues(reason).Inc()

	p.mu.Lock()
	p.latest = snap
	sinks := append([]Sink(nil), p.sinks...)
	p.mu.Unlock()

	for _, s := range sinks {
		s.Publish(snap)
	}

	p.log.Debug("Refresh cycle %s (%s) done in %dms, %d alerts, %d analytics points",
		snap.CycleID, reason, snap.DurationMs, len(snap.Alerts), len(snap.AnalyticsHistory))
	return snap
}

func (p *Poller) annotate(snap *models.Snapshot, settings models.RefreshSettings) {
	if snap.Simulator == nil {
		snap.Simulator = models.Status{}
	}
	if snap.Analytics == nil {
		snap.Analytics = models.Status{}
	}
	if snap.Alerts == nil {
		snap.Alerts = []models.Document{}
	}
	if snap.AnalyticsHistory == nil {
		snap.AnalyticsHistory = []models.Document{}
	}

	if len(snap.Simulator) == 0 {
		snap.Errors["simulator"] = "status unavailable"
	}
	if len(snap.Analytics) == 0 {
		snap.Errors["analytics"] = "status unavailable"
	}
	if len(snap.Alerts) == 0 && settings.AlertsLimit > 0 {
		snap.Errors["alerts"] = "no alerts returned from " + snap.AlertsSource
	}
	if len(snap.AnalyticsHistory) == 0 && settings.AnalyticsLimit > 0 {
		snap.Errors["analyticsHistory"] = "no analytics history returned from " + snap.AnalyticsSource
	}

	for section := range snap.Errors {
		sectionUnavailable.WithLabelValues(section).Inc()
	}
}

func validLimit(n int) bool {
	return n >= 0 && n <= models.MaxHistoryLimit
}

func clampLimit(n int) int {
	return min(max(n, 0), models.MaxHistoryLimit)
}
