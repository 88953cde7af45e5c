// internal/app/app.go

package app

import (
	"context"
	"errors"
	"fmt"

	"IoTDashboard/internal/client"
	"IoTDashboard/internal/config"
	"IoTDashboard/internal/database"
	"IoTDashboard/internal/handler"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/mock"
	"IoTDashboard/internal/mode"
	"IoTDashboard/internal/mqtt"
	"IoTDashboard/internal/refresh"
	"IoTDashboard/internal/repository"
	"IoTDashboard/internal/server"
	"IoTDashboard/internal/service"
	"IoTDashboard/internal/websocket"

	"golang.org/x/sync/errgroup"
)

// App owns every long-lived component of the dashboard process.
type App struct {
	cfg  *config.Config
	log  *logger.Logger
	mode string

	db     *database.Manager
	source *mock.DataSource
	hub    *websocket.Hub
	poller *refresh.Poller
	broker *mqtt.Client
	server *server.Server
}

// New wires the components. The mode is read once here: mock mode gets the
// in-process data source and generated history, real mode gets HTTP clients
// and the document store.
func New(cfg *config.Config, sw *mode.Switch, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if log == nil {
		log = logger.Discard()
	}
	if sw == nil {
		sw = mode.New()
		sw.Set(cfg.MockMode)
	}

	isMock := sw.IsMock()
	name := "real"
	if isMock {
		name = "mock"
	}
	a := &App{cfg: cfg, log: log, mode: name}

	var (
		simClient, anClient client.APIClient
		alertRepo, histRepo repository.HistoryRepository
		store               handler.StoreChecker
	)

	if isMock {
		a.source = mock.NewDataSource()
		gen := mock.NewGenerator()
		mc := client.NewMockClient(a.source, client.WithLogger(log.With("mock-client")))
		simClient, anClient = mc, mc
		alertRepo = repository.NewMockAlertRepository(gen, cfg.MongoDB.Database, cfg.MongoDB.AlertsCollection)
		histRepo = repository.NewMockAnalyticsRepository(gen, cfg.MongoDB.Database, cfg.MongoDB.AnalyticsCollection)
		log.Warn("Running in MOCK mode: no backend services or store are contacted")
	} else {
		clientLog := client.WithLogger(log.With("api-client"))
		simClient = client.NewHTTPClient(cfg.Services.SimulatorURL, clientLog)
		anClient = client.NewHTTPClient(cfg.Services.AnalyticsURL, clientLog)

		a.db = database.NewManager(cfg.MongoDB.ServerSelectionTimeout, log.With("mongo"))
		store = a.db
		repoLog := log.With("repository")
		alertRepo = repository.NewMongoAlertRepository(a.db, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.AlertsCollection, repoLog)
		histRepo = repository.NewMongoAnalyticsRepository(a.db, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.AnalyticsCollection, repoLog)
	}

	sim := service.NewSimulatorService(simClient, log.With("simulator"))
	an := service.NewAnalyticsService(anClient, histRepo, log.With("analytics"))
	al := service.NewAlertsService(alertRepo)

	a.hub = websocket.NewHub(log.With("ws"))
	a.poller = refresh.NewPoller(refresh.Config{
		Mode:           a.mode,
		Interval:       cfg.UI.RefreshInterval(),
		AlertsLimit:    cfg.UI.AlertsLimitDefault,
		AnalyticsLimit: cfg.UI.AnalyticsLimitDefault,
	}, sim, an, al, log.With("refresh"))
	a.poller.AddSink(a.hub)
	a.hub.SetRefresher(a.poller)

	var broker handler.BrokerChecker
	if cfg.MQTT.Enabled() {
		c, err := mqtt.NewClient(mqtt.ClientConfig{MQTT: &cfg.MQTT, Logger: log.With("mqtt")})
		if err != nil {
			return nil, fmt.Errorf("failed to create MQTT client: %w", err)
		}
		a.broker = c
		broker = c
		a.poller.AddSink(mqtt.NewSnapshotPublisher(c, cfg.MQTT.SnapshotTopic))
	}

	a.server = server.New(cfg, log)
	a.server.RegisterHandlers(
		handler.NewDashboardHandler(a.poller, a.hub, log),
		handler.NewSimulatorHandler(sim, a.poller, log),
		handler.NewAnalyticsHandler(an, a.poller, cfg.UI.AnalyticsLimitDefault, log),
		handler.NewAlertsHandler(al, cfg.UI.AlertsLimitDefault, log),
		handler.NewHealthHandler(a.mode, store, broker, sim, an, log),
	)

	return a, nil
}

func (a *App) Mode() string {
	return a.mode
}

func (a *App) Poller() *refresh.Poller {
	return a.poller
}

// Run starts the hub, the refresh loop and the HTTP server and blocks until
// ctx is cancelled or one of them fails. Shutdown is bounded by the
// configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	a.connectBroker()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gctx)
	})
	g.Go(func() error {
		return a.poller.Run(gctx)
	})
	g.Go(func() error {
		return a.server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	a.log.Info("Dashboard ready on http://%s (%s mode)", a.server.Addr(), a.mode)

	err := g.Wait()
	a.close()
	return err
}

// connectBroker is best effort: the dashboard works without MQTT, and paho
// keeps retrying in the background when auto-reconnect is on.
func (a *App) connectBroker() {
	if a.broker == nil {
		return
	}
	if err := a.broker.Connect(); err != nil {
		a.log.Error("MQTT unavailable, snapshots will not be published: %v", err)
		return
	}
	if a.cfg.MQTT.CommandTopic == "" {
		return
	}
	if err := a.broker.Subscribe(a.cfg.MQTT.CommandTopic, mqtt.NewCommandHandler(a.poller, a.log.With("mqtt-cmd"))); err != nil {
		a.log.Error("Failed to subscribe to command topic: %v", err)
	}
}

func (a *App) close() {
	if a.broker != nil {
		a.broker.Disconnect()
	}
	if a.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.db.Close(ctx); err != nil {
			a.log.Error("Failed to close store connection: %v", err)
		}
	}
	a.log.Info("Shutdown complete")
}
