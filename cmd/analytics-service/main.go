package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/alerts"
	"github.com/SanchoLoco/NoPressure/pkg/analytics"
	"github.com/SanchoLoco/NoPressure/pkg/common/config"
	"github.com/SanchoLoco/NoPressure/pkg/common/database"
	"github.com/SanchoLoco/NoPressure/pkg/common/kafka"
	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/middleware"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"github.com/SanchoLoco/NoPressure/pkg/observability/metrics"
	"github.com/SanchoLoco/NoPressure/pkg/scans"
	"github.com/SanchoLoco/NoPressure/pkg/storage"
	"github.com/SanchoLoco/NoPressure/pkg/treatment"
	"github.com/gorilla/mux"
)

type AnalyticsService struct {
	trends     *analytics.TrendCalculator
	predictor  *analytics.DeteriorationPredictor
	evaluator  *alerts.Evaluator
	engine     *treatment.Engine
	scanRepo   *scans.Repository
	alertRepo  *alerts.Repository
	trendCache *storage.TrendCache
	producer   *kafka.Producer
}

func main() {
	logger.Init()
	cfg := config.Load()

	thresholds, err := analytics.LoadThresholds(cfg.ThresholdsPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.ThresholdsPath).Fatal("Failed to load clinical thresholds")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}

	alertRepo := alerts.NewRepository(db)
	if err := alertRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate alert tables")
	}

	redisClient := database.GetRedis()

	trendCalc := analytics.NewTrendCalculator(thresholds)
	producer := kafka.NewProducer(cfg.ScanEventsTopic)
	defer producer.Close()

	service := &AnalyticsService{
		trends:     trendCalc,
		predictor:  analytics.NewDeteriorationPredictor(trendCalc),
		evaluator:  alerts.NewEvaluator(thresholds),
		engine:     treatment.NewEngine(),
		scanRepo:   scans.NewRepository(db),
		alertRepo:  alertRepo,
		trendCache: storage.NewTrendCache(redisClient, cfg.TrendCachePrefix, cfg.TrendCacheTTL),
		producer:   producer,
	}

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := kafka.NewConsumer(cfg.ScanEventsTopic, cfg.KafkaGroupID)
	go func() {
		if err := consumer.Consume(consumerCtx, service.handleScanEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Scan event consumer stopped")
		}
	}()

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/wounds/{id}/trend", service.handleTrend).Methods("GET")
	api.HandleFunc("/wounds/{id}/prediction", service.handlePrediction).Methods("GET")
	api.HandleFunc("/wounds/{id}/alerts", service.handleListAlerts).Methods("GET")
	api.HandleFunc("/wounds/{id}/evaluate", service.handleEvaluate).Methods("POST")
	api.HandleFunc("/alerts/{id}/ack", service.handleAcknowledge).Methods("POST")
	api.HandleFunc("/patients/{id}/alerts", service.handlePatientAlerts).Methods("GET")
	api.HandleFunc("/facilities/{id}/burden", service.handleBurden).Methods("GET")
	api.HandleFunc("/treatment/recommendation", service.handleRecommendation).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Analytics Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Analytics Service...")

	stopConsumer()
	consumer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	database.CloseRedis()
	database.ClosePostgres()
	logger.Log.Info("Analytics Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// handleScanEvent recomputes a wound's analytics whenever a scan lands. The
// trend cache is refreshed, the registry row updated, and any rule-triggered
// alerts persisted and re-published.
func (s *AnalyticsService) handleScanEvent(ctx context.Context, event models.Event) error {
	if event.Type != models.EventScanCompleted {
		return nil
	}

	woundID, _ := event.Data["wound_id"].(string)
	if woundID == "" {
		logger.Log.WithField("event_id", event.ID).Warn("scan event missing wound_id, skipping")
		return nil
	}
	patientID, _ := event.Data["patient_id"].(string)

	history, err := s.scanRepo.History(ctx, woundID)
	if err != nil {
		return fmt.Errorf("loading history for wound %s: %w", woundID, err)
	}

	trend, trendErr := s.trends.ComputeTrend(woundID, history)
	if trendErr == nil {
		if err := s.trendCache.Put(ctx, trend); err != nil {
			logger.Log.WithError(err).WithField("wound_id", woundID).Warn("failed to refresh trend cache")
		}
		status := woundStatus(trend)
		if err := s.scanRepo.UpdateWoundState(ctx, woundID, status, trend.IsStalled); err != nil {
			logger.Log.WithError(err).WithField("wound_id", woundID).Error("failed to update wound state")
		}
	}

	fired := s.evaluator.Evaluate(woundID, patientID, history)
	if len(fired) == 0 {
		return nil
	}
	if err := s.alertRepo.CreateAll(ctx, fired); err != nil {
		return fmt.Errorf("persisting alerts for wound %s: %w", woundID, err)
	}
	for _, alert := range fired {
		metrics.IncAlert(alert.AlertType)
		payload := map[string]interface{}{
			"alert_id":   alert.ID,
			"wound_id":   alert.WoundID,
			"patient_id": alert.PatientID,
			"alert_type": alert.AlertType,
			"severity":   alert.Severity,
		}
		if err := s.producer.PublishEvent(ctx, models.EventAlertCreated, "analytics-service", payload); err != nil {
			logger.Log.WithError(err).WithField("alert_id", alert.ID).Error("failed to publish alert event")
		}
	}
	return nil
}

// woundStatus maps the computed trend onto the registry lifecycle state.
func woundStatus(trend models.HealingTrend) string {
	switch {
	case trend.IsStalled:
		return models.WoundStatusStalled
	case trend.TrendDirection == models.TrendDeteriorating:
		return models.WoundStatusDeteriorating
	case trend.TrendDirection == models.TrendImproving:
		return models.WoundStatusHealing
	default:
		return models.WoundStatusActive
	}
}

func (s *AnalyticsService) handleTrend(w http.ResponseWriter, r *http.Request) {
	woundID := mux.Vars(r)["id"]
	ctx := r.Context()

	if cached, err := s.trendCache.Get(ctx, woundID); err == nil && cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	history, err := s.scanRepo.History(ctx, woundID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load scan history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	trend, err := s.trends.ComputeTrend(woundID, history)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyHistory) {
			http.Error(w, "no scans recorded for wound", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	metrics.IncTrendsComputed()
	if err := s.trendCache.Put(ctx, trend); err != nil {
		logger.Log.WithError(err).WithField("wound_id", woundID).Warn("failed to cache trend")
	}
	writeJSON(w, http.StatusOK, trend)
}

func (s *AnalyticsService) handlePrediction(w http.ResponseWriter, r *http.Request) {
	woundID := mux.Vars(r)["id"]

	history, err := s.scanRepo.History(r.Context(), woundID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load scan history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	prediction, err := s.predictor.Predict(woundID, history)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	metrics.IncPredictions()
	writeJSON(w, http.StatusOK, prediction)
}

func (s *AnalyticsService) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	records, err := s.alertRepo.ListByWound(r.Context(), mux.Vars(r)["id"], queryLimit(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list alerts")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleEvaluate runs the alert rules on demand against the wound's current
// history, persisting anything that fires. Useful for backfills and for
// clients that can't wait for the event loop.
func (s *AnalyticsService) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	woundID := mux.Vars(r)["id"]
	ctx := r.Context()

	wound, err := s.scanRepo.GetWound(ctx, woundID)
	if err != nil {
		if errors.Is(err, scans.ErrNotFound) {
			http.Error(w, "wound not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch wound")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	history, err := s.scanRepo.History(ctx, woundID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load scan history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	fired := s.evaluator.Evaluate(woundID, wound.PatientID, history)
	if err := s.alertRepo.CreateAll(ctx, fired); err != nil {
		logger.Log.WithError(err).Error("failed to persist alerts")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	for _, alert := range fired {
		metrics.IncAlert(alert.AlertType)
	}
	writeJSON(w, http.StatusOK, fired)
}

func (s *AnalyticsService) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	err := s.alertRepo.Acknowledge(r.Context(), mux.Vars(r)["id"], body.UserID)
	if err != nil {
		if errors.Is(err, alerts.ErrNotFound) {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to acknowledge alert")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *AnalyticsService) handlePatientAlerts(w http.ResponseWriter, r *http.Request) {
	records, err := s.alertRepo.RecentForPatient(r.Context(), mux.Vars(r)["id"], queryLimit(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list patient alerts")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *AnalyticsService) handleBurden(w http.ResponseWriter, r *http.Request) {
	facilityID := mux.Vars(r)["id"]

	states, err := s.scanRepo.WoundStates(r.Context(), facilityID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load wound states")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, analytics.ComputeFacilityBurden(facilityID, states))
}

type recommendationRequest struct {
	Tissue           models.TissueComposition `json:"tissue_composition"`
	ExudateLevel     string                   `json:"exudate_level"`
	Etiology         string                   `json:"etiology,omitempty"`
	SubEpidermalRisk string                   `json:"sub_epidermal_risk,omitempty"`
	IsStalled        bool                     `json:"is_stalled,omitempty"`
}

func (s *AnalyticsService) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	recommendation := s.engine.Recommend(treatment.Input{
		GranulationPct:   req.Tissue.GranulationPct,
		SloughPct:        req.Tissue.SloughPct,
		EscharPct:        req.Tissue.EscharPct,
		ExudateLevel:     req.ExudateLevel,
		Etiology:         req.Etiology,
		SubEpidermalRisk: req.SubEpidermalRisk,
		IsStalled:        req.IsStalled,
	})
	writeJSON(w, http.StatusOK, recommendation)
}

func queryLimit(r *http.Request) int {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		fmt.Sscanf(raw, "%d", &limit)
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
