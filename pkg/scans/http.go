package scans

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"github.com/SanchoLoco/NoPressure/pkg/observability/metrics"
	"github.com/gorilla/mux"
)

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/scans", h.handleCreateScan).Methods(http.MethodPost)
	router.HandleFunc("/wounds/{id}", h.handleGetWound).Methods(http.MethodGet)
	router.HandleFunc("/wounds/{id}/history", h.handleHistory).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req models.ScanIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid scan payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Process(r.Context(), req)
	if err != nil {
		if IsValidationError(err) {
			metrics.IncScansRejected()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to process scan")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	metrics.IncScansProcessed()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

func (h *HTTPHandler) handleGetWound(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	wound, err := h.service.Wound(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "wound not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch wound")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wound)
}

func (h *HTTPHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	history, err := h.service.History(r.Context(), vars["id"])
	if err != nil {
		logger.Log.WithError(err).Error("failed to fetch scan history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}
