package handler

import (
	"net/http"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/service"

	"github.com/gorilla/mux"
)

const (
	MaxDeviceCount       = 100000
	MaxMessagesPerSecond = 3600
)

type SimulatorHandler struct {
	simulator service.ISimulatorService
	refresh   Refresher
	log       *logger.Logger
}

func NewSimulatorHandler(simulator service.ISimulatorService, refresh Refresher, log *logger.Logger) *SimulatorHandler {
	return &SimulatorHandler{
		simulator: simulator,
		refresh:   refresh,
		log:       log,
	}
}

func (h *SimulatorHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/simulator/status", h.GetStatus).Methods("GET")
	r.HandleFunc("/simulator/toggle", h.Toggle).Methods("POST")
	r.HandleFunc("/simulator/config", h.UpdateConfig).Methods("POST")
}

func (h *SimulatorHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.simulator.GetStatus(r.Context())
	if len(status) == 0 {
		respondError(w, http.StatusBadGateway, "simulator status unavailable")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// Toggle reads the current state first so the button always does the
// opposite of what the simulator is doing right now.
func (h *SimulatorHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	status := h.simulator.GetStatus(r.Context())
	if len(status) == 0 {
		respondAction(w, false, "simulator status unavailable")
		return
	}

	ok := h.simulator.Toggle(r.Context(), status.Bool("running"))
	if !ok {
		h.log.Warn("Simulator toggle rejected (running=%v)", status.Bool("running"))
	} else {
		h.refresh.Trigger()
	}
	respondAction(w, ok, "simulator did not accept the request")
}

func (h *SimulatorHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req models.SimulatorConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !inRange(req.DeviceCount, 1, MaxDeviceCount) {
		respondError(w, http.StatusBadRequest, "deviceCount must be between 1 and 100000")
		return
	}
	if !inRange(req.MessagesPerSecond, 1, MaxMessagesPerSecond) {
		respondError(w, http.StatusBadRequest, "messagesPerSecond must be between 1 and 3600")
		return
	}

	ok := h.simulator.UpdateConfig(r.Context(), req.DeviceCount, req.MessagesPerSecond)
	if ok {
		h.log.Info("Simulator configured: %d devices, %d msg/s", req.DeviceCount, req.MessagesPerSecond)
		h.refresh.Trigger()
	}
	respondAction(w, ok, "simulator did not accept the configuration")
}
