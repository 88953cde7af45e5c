package handler

import (
	"net/http"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/websocket"

	"github.com/gorilla/mux"
)

const (
	MaxRefreshSeconds = models.MaxRefreshSeconds
	MaxHistoryLimit   = models.MaxHistoryLimit
)

// RefreshController is the refresh loop as seen by the dashboard routes.
type RefreshController interface {
	Refresher
	Latest() *models.Snapshot
	Settings() models.RefreshSettings
	SetInterval(d time.Duration) error
	SetLimits(alerts, analytics int) error
}

type RefreshLimitsRequest struct {
	AlertsLimit    *int `json:"alertsLimit"`
	AnalyticsLimit *int `json:"analyticsLimit"`
}

type DashboardHandler struct {
	refresh RefreshController
	hub     *websocket.Hub
	log     *logger.Logger
}

func NewDashboardHandler(refresh RefreshController, hub *websocket.Hub, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		refresh: refresh,
		hub:     hub,
		log:     log,
	}
}

func (h *DashboardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	r.HandleFunc("/refresh", h.TriggerRefresh).Methods("POST")
	r.HandleFunc("/refresh/interval", h.GetInterval).Methods("GET")
	r.HandleFunc("/refresh/interval", h.SetInterval).Methods("PUT")
	r.HandleFunc("/refresh/limits", h.SetLimits).Methods("PUT")
	r.HandleFunc("/ws", h.ServeWs).Methods("GET")
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.refresh.Latest()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "first refresh has not completed yet")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *DashboardHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	h.refresh.Trigger()
	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Refresh scheduled",
	})
}

func (h *DashboardHandler) GetInterval(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.refresh.Settings())
}

func (h *DashboardHandler) SetInterval(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshIntervalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !inRange(req.Seconds, 1, MaxRefreshSeconds) {
		respondError(w, http.StatusBadRequest, "seconds must be between 1 and 60")
		return
	}

	if err := h.refresh.SetInterval(time.Duration(req.Seconds) * time.Second); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.refresh.Settings())
}

func (h *DashboardHandler) SetLimits(w http.ResponseWriter, r *http.Request) {
	var req RefreshLimitsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current := h.refresh.Settings()
	alerts, analytics := current.AlertsLimit, current.AnalyticsLimit
	if req.AlertsLimit != nil {
		alerts = *req.AlertsLimit
	}
	if req.AnalyticsLimit != nil {
		analytics = *req.AnalyticsLimit
	}
	if !inRange(alerts, 1, MaxHistoryLimit) || !inRange(analytics, 1, MaxHistoryLimit) {
		respondError(w, http.StatusBadRequest, "limits must be between 1 and 1000")
		return
	}

	if err := h.refresh.SetLimits(alerts, analytics); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.refresh.Trigger()
	respondJSON(w, http.StatusOK, h.refresh.Settings())
}

func (h *DashboardHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "live updates disabled")
		return
	}
	websocket.ServeWs(h.hub, h.refresh.Latest(), w, r, h.log)
}
