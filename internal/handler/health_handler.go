package handler

import (
	"context"
	"net/http"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/service"

	"github.com/gorilla/mux"
)

// StoreChecker pings the history store. Nil in mock mode.
type StoreChecker interface {
	Health(ctx context.Context) error
}

// BrokerChecker reports the MQTT connection. Nil when MQTT is disabled.
type BrokerChecker interface {
	Health(ctx context.Context) (*models.BrokerHealth, error)
}

type HealthHandler struct {
	mode      string
	store     StoreChecker
	broker    BrokerChecker
	simulator service.ISimulatorService
	analytics service.IAnalyticsService
	log       *logger.Logger
}

func NewHealthHandler(mode string, store StoreChecker, broker BrokerChecker, simulator service.ISimulatorService, analytics service.IAnalyticsService, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mode:      mode,
		store:     store,
		broker:    broker,
		simulator: simulator,
		analytics: analytics,
		log:       log,
	}
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/health/live", h.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", h.Readiness).Methods("GET")
}

// Health reports every dependency. Only the ones that are configured can
// degrade the result: a disabled broker reads false without counting.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := models.HealthResponse{
		Status:    "healthy",
		Mode:      h.mode,
		Timestamp: time.Now(),
	}

	response.Services.Simulator = len(h.simulator.GetStatus(ctx)) > 0
	response.Services.Analytics = len(h.analytics.GetStatus(ctx)) > 0
	response.Services.Database = h.storeHealthy(ctx)
	if h.broker != nil {
		if broker, err := h.broker.Health(ctx); err == nil {
			response.Broker = broker
			response.Services.MQTT = broker.Connected
		}
	}

	degraded := !response.Services.Simulator || !response.Services.Analytics || !response.Services.Database
	if h.broker != nil && !response.Services.MQTT {
		degraded = true
	}

	statusCode := http.StatusOK
	if degraded {
		response.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
		h.log.Warn("Health check degraded - Simulator: %v, Analytics: %v, DB: %v, MQTT: %v",
			response.Services.Simulator, response.Services.Analytics, response.Services.Database, response.Services.MQTT)
	}

	respondJSON(w, statusCode, response)
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// Readiness only looks at what this process owns; upstream services being
// down does not make the dashboard unable to serve.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if !h.storeHealthy(ctx) {
		h.log.Warn("Readiness check failed - history store unreachable")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (h *HealthHandler) storeHealthy(ctx context.Context) bool {
	if h.store == nil {
		return true
	}
	return h.store.Health(ctx) == nil
}
