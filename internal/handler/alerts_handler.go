package handler

import (
	"net/http"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/service"

	"github.com/gorilla/mux"
)

type AlertsResponse struct {
	Source  string              `json:"source"`
	Alerts  []models.Document   `json:"alerts"`
	Summary models.AlertSummary `json:"summary"`
}

type AlertsHandler struct {
	alerts       service.IAlertsService
	defaultLimit int
	log          *logger.Logger
}

func NewAlertsHandler(alerts service.IAlertsService, defaultLimit int, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		alerts:       alerts,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

func (h *AlertsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/alerts", h.GetAlerts).Methods("GET")
}

func (h *AlertsHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.defaultLimit, MaxHistoryLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	alerts := h.alerts.GetAlerts(r.Context(), limit)
	if alerts == nil {
		alerts = []models.Document{}
	}
	respondJSON(w, http.StatusOK, AlertsResponse{
		Source:  h.alerts.Source(),
		Alerts:  alerts,
		Summary: models.SummarizeAlerts(alerts),
	})
}
