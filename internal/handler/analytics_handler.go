package handler

import (
	"net/http"
	"strings"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/service"

	"github.com/gorilla/mux"
)

const MaxBatchSize = 100000

// Methods lists the processing strategies the analytics service offers.
var Methods = []string{"Sequential", "Flowable", "Observable", "CustomCollector", "ParallelStream"}

type AnalyticsHistoryResponse struct {
	Source  string                   `json:"source"`
	Points  []models.Document        `json:"points"`
	Summary *models.AnalyticsSummary `json:"summary"`
}

type AnalyticsHandler struct {
	analytics    service.IAnalyticsService
	refresh      Refresher
	defaultLimit int
	log          *logger.Logger
}

func NewAnalyticsHandler(analytics service.IAnalyticsService, refresh Refresher, defaultLimit int, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:    analytics,
		refresh:      refresh,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/analytics/status", h.GetStatus).Methods("GET")
	r.HandleFunc("/analytics/config", h.UpdateConfig).Methods("POST")
	r.HandleFunc("/analytics/methods", h.GetMethods).Methods("GET")
	r.HandleFunc("/analytics/history", h.GetHistory).Methods("GET")
}

func (h *AnalyticsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.analytics.GetStatus(r.Context())
	if len(status) == 0 {
		respondError(w, http.StatusBadGateway, "analytics status unavailable")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *AnalyticsHandler) GetMethods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Methods)
}

func (h *AnalyticsHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyticsConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Method = strings.TrimSpace(req.Method)
	if req.Method == "" {
		respondError(w, http.StatusBadRequest, "method is required")
		return
	}
	if !inRange(req.BatchSize, 1, MaxBatchSize) {
		respondError(w, http.StatusBadRequest, "batchSize must be between 1 and 100000")
		return
	}

	ok := h.analytics.UpdateConfig(r.Context(), req.Method, req.BatchSize)
	if ok {
		h.log.Info("Analytics configured: method=%s batchSize=%d", req.Method, req.BatchSize)
		h.refresh.Trigger()
	}
	respondAction(w, ok, "analytics service did not accept the configuration")
}

func (h *AnalyticsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.defaultLimit, MaxHistoryLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	points := h.analytics.GetHistory(r.Context(), limit)
	if points == nil {
		points = []models.Document{}
	}
	respondJSON(w, http.StatusOK, AnalyticsHistoryResponse{
		Source:  h.analytics.HistorySource(),
		Points:  points,
		Summary: models.SummarizeAnalytics(points),
	})
}
