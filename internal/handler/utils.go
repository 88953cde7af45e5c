package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"IoTDashboard/internal/models"
)

// Refresher is the part of the refresh loop handlers drive.
type Refresher interface {
	Trigger()
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondAction reports the outcome of a write to a backend service. A
// rejected write is a bad gateway: the request was valid, the upstream said no.
func respondAction(w http.ResponseWriter, ok bool, failure string) {
	if !ok {
		respondJSON(w, http.StatusBadGateway, models.ActionResponse{Success: false, Error: failure})
		return
	}
	respondJSON(w, http.StatusOK, models.ActionResponse{Success: true})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryLimit parses ?limit=, falling back to def when absent.
func queryLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", max)
	}
	return n, nil
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
