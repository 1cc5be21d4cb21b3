package scans

import (
	"context"
	"fmt"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/classifier"
	"github.com/SanchoLoco/NoPressure/pkg/common/kafka"
	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"github.com/SanchoLoco/NoPressure/pkg/storage"
	"github.com/SanchoLoco/NoPressure/pkg/treatment"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Service runs the scan ingestion pipeline: validate, enrich with the
// external classifier, persist the immutable scan row, snapshot a treatment
// recommendation, and publish a scan.completed event for the analytics
// consumer.
type Service struct {
	validator  *Validator
	repo       *Repository
	classifier classifier.Classifier
	engine     *treatment.Engine
	producer   *kafka.Producer
	trendCache *storage.TrendCache
}

func NewService(validator *Validator, repo *Repository, cls classifier.Classifier, engine *treatment.Engine, producer *kafka.Producer, trendCache *storage.TrendCache) *Service {
	return &Service{
		validator:  validator,
		repo:       repo,
		classifier: cls,
		engine:     engine,
		producer:   producer,
		trendCache: trendCache,
	}
}

func (s *Service) Process(ctx context.Context, req models.ScanIngestRequest) (*models.ScanIngestResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	scannedAt := req.Timestamp
	if scannedAt.IsZero() {
		scannedAt = time.Now().UTC()
	}

	scan := &ScanRecord{
		ID:        uuid.New().String(),
		WoundID:   req.WoundID,
		ScannedBy: req.ScannedBy,
		AreaCm2:   req.AreaCm2,
		LengthCm:  req.LengthCm,
		WidthCm:   req.WidthCm,
		DepthCm:   req.DepthCm,

		TissueGranulationPct:      req.Tissue.GranulationPct,
		TissueSloughPct:           req.Tissue.SloughPct,
		TissueEscharPct:           req.Tissue.EscharPct,
		TissueEpithelialPct:       req.Tissue.EpithelialPct,
		TissueHypergranulationPct: req.Tissue.HypergranulationPct,

		ExudateLevel:     req.ExudateLevel,
		ExudateType:      req.ExudateType,
		SubEpidermalRisk: req.SubEpidermalRisk,

		CreatedAt: scannedAt,
	}

	// Classifier absence is not an error; the scan simply carries no
	// severity data.
	if result := s.classifier.Classify(ctx, req.Image, req.WoundID); result != nil {
		score := result.SeverityScore
		confidence := result.Confidence
		scan.SeverityScore = &score
		scan.AIConfidence = &confidence
		scan.StageClassification = result.Stage
		scan.ModelVersion = result.ModelVersion
	}

	recommendation := s.engine.Recommend(treatment.Input{
		GranulationPct:   req.Tissue.GranulationPct,
		SloughPct:        req.Tissue.SloughPct,
		EscharPct:        req.Tissue.EscharPct,
		ExudateLevel:     req.ExudateLevel,
		Etiology:         req.Etiology,
		SubEpidermalRisk: req.SubEpidermalRisk,
	})
	scan.Treatment = treatmentSnapshot(recommendation)

	if err := s.repo.EnsureWound(ctx, woundFromRequest(req)); err != nil {
		return nil, fmt.Errorf("ensuring wound registry row: %w", err)
	}
	if err := s.repo.CreateScan(ctx, scan); err != nil {
		return nil, fmt.Errorf("persisting scan: %w", err)
	}

	// The cached trend is stale the moment a new scan lands; the analytics
	// consumer repopulates it after evaluation.
	if s.trendCache != nil {
		if err := s.trendCache.Invalidate(ctx, req.WoundID); err != nil {
			logger.Log.WithError(err).WithField("wound_id", req.WoundID).Warn("failed to invalidate trend cache")
		}
	}

	payload := map[string]interface{}{
		"scan_id":    scan.ID,
		"wound_id":   req.WoundID,
		"patient_id": req.PatientID,
		"area_cm2":   req.AreaCm2,
		"scanned_at": scannedAt,
	}
	if err := s.producer.PublishEvent(ctx, models.EventScanCompleted, "scan-service", payload); err != nil {
		// The scan is already durable; alert evaluation catches up on the
		// next event for this wound.
		logger.Log.WithError(err).WithField("scan_id", scan.ID).Error("failed to publish scan event")
	}

	return &models.ScanIngestResponse{
		ScanID:    scan.ID,
		WoundID:   req.WoundID,
		Status:    "accepted",
		Timestamp: scannedAt,
	}, nil
}

func (s *Service) History(ctx context.Context, woundID string) ([]models.MeasurementRecord, error) {
	return s.repo.History(ctx, woundID)
}

func (s *Service) Wound(ctx context.Context, woundID string) (*WoundRecord, error) {
	return s.repo.GetWound(ctx, woundID)
}

// woundFromRequest builds the registry row created on a wound's first scan.
func woundFromRequest(req models.ScanIngestRequest) *WoundRecord {
	etiology := req.Etiology
	if etiology == "" {
		etiology = models.EtiologyOther
	}
	return &WoundRecord{
		ID:         req.WoundID,
		PatientID:  req.PatientID,
		FacilityID: req.FacilityID,
		Etiology:   etiology,
		Status:     models.WoundStatusActive,
	}
}

func treatmentSnapshot(rec models.TreatmentRecommendation) datatypes.JSONMap {
	snapshot := datatypes.JSONMap{
		"primary_dressing": rec.PrimaryDressing,
		"interventions":    rec.Interventions,
		"rationale":        rec.Rationale,
		"urgency":          rec.Urgency,
		"referral_needed":  rec.ReferralNeeded,
	}
	if rec.ReferralReason != nil {
		snapshot["referral_reason"] = *rec.ReferralReason
	}
	return snapshot
}
