// internal/mockapi/handler.go

package mockapi

import (
	"encoding/json"
	"net/http"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/mock"

	"github.com/gorilla/mux"
)

// Handler serves the simulator and analytics REST surface from a DataSource,
// so a dashboard in real mode can run against it.
type Handler struct {
	source *mock.DataSource
	log    *logger.Logger
}

func NewHandler(source *mock.DataSource, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{source: source, log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/simulator/status", h.SimulatorStatus).Methods("GET")
	r.HandleFunc("/api/simulator/start", h.setSimulator(true)).Methods("POST")
	r.HandleFunc("/api/simulator/stop", h.setSimulator(false)).Methods("POST")
	r.HandleFunc("/api/simulator/config", h.ConfigureSimulator).Methods("POST")

	r.HandleFunc("/api/analytics/status", h.AnalyticsStatus).Methods("GET")
	r.HandleFunc("/api/analytics/start", h.setAnalytics(true)).Methods("POST")
	r.HandleFunc("/api/analytics/stop", h.setAnalytics(false)).Methods("POST")
	r.HandleFunc("/api/analytics/config", h.ConfigureAnalytics).Methods("POST")
}

// NewRouter returns a router with only the mock routes registered.
func NewRouter(source *mock.DataSource, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()
	NewHandler(source, log).RegisterRoutes(r)
	return r
}

func (h *Handler) SimulatorStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.source.Simulator())
}

func (h *Handler) AnalyticsStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.source.Analytics())
}

func (h *Handler) setSimulator(running bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.source.SetSimulatorRunning(running)
		h.log.Info("Simulator running=%v", running)
		respondMessage(w, "Simulator "+stateWord(running)+" (MOCK)")
	}
}

func (h *Handler) setAnalytics(running bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.source.SetAnalyticsRunning(running)
		h.log.Info("Analytics running=%v", running)
		respondMessage(w, "Analytics "+stateWord(running)+" (MOCK)")
	}
}

func (h *Handler) ConfigureSimulator(w http.ResponseWriter, r *http.Request) {
	if err := h.source.ConfigureSimulator(r.URL.Query()); err != nil {
		h.log.Warn("Rejected simulator config: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondMessage(w, "Simulator configured successfully (MOCK)")
}

func (h *Handler) ConfigureAnalytics(w http.ResponseWriter, r *http.Request) {
	if err := h.source.ConfigureAnalytics(r.URL.Query()); err != nil {
		h.log.Warn("Rejected analytics config: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondMessage(w, "Analytics configured successfully (MOCK)")
}

func stateWord(running bool) string {
	if running {
		return "started"
	}
	return "stopped"
}

func respondMessage(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}
