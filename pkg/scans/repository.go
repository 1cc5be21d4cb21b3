package scans

import (
	"context"
	"errors"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/analytics"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("wound not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&WoundRecord{}, &ScanRecord{})
}

// EnsureWound creates the registry row on first scan, leaving an existing
// row untouched.
func (r *Repository) EnsureWound(ctx context.Context, wound *WoundRecord) error {
	var existing WoundRecord
	err := r.db.WithContext(ctx).First(&existing, "id = ?", wound.ID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	wound.CreatedAt = time.Now().UTC()
	wound.UpdatedAt = wound.CreatedAt
	return r.db.WithContext(ctx).Create(wound).Error
}

func (r *Repository) GetWound(ctx context.Context, id string) (*WoundRecord, error) {
	var wound WoundRecord
	result := r.db.WithContext(ctx).First(&wound, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &wound, result.Error
}

func (r *Repository) CreateScan(ctx context.Context, scan *ScanRecord) error {
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(scan).Error
}

// UpdateWoundState flags the registry row after trend evaluation.
func (r *Repository) UpdateWoundState(ctx context.Context, woundID, status string, isStalled bool) error {
	return r.db.WithContext(ctx).Model(&WoundRecord{}).
		Where("id = ?", woundID).
		Updates(map[string]interface{}{
			"status":     status,
			"is_stalled": isStalled,
			"updated_at": time.Now().UTC(),
		}).Error
}

// History returns a wound's scans oldest first, mapped to the plain
// measurement records consumed by the analytics engines. Insertion order
// breaks timestamp ties, matching arrival order.
func (r *Repository) History(ctx context.Context, woundID string) ([]models.MeasurementRecord, error) {
	var rows []ScanRecord
	err := r.db.WithContext(ctx).
		Where("wound_id = ?", woundID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make([]models.MeasurementRecord, 0, len(rows))
	for _, row := range rows {
		history = append(history, toMeasurement(row))
	}
	return history, nil
}

// WoundStates projects registry rows for the facility burden report.
func (r *Repository) WoundStates(ctx context.Context, facilityID string) ([]analytics.WoundState, error) {
	var rows []WoundRecord
	query := r.db.WithContext(ctx)
	if facilityID != "" {
		query = query.Where("facility_id = ?", facilityID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	states := make([]analytics.WoundState, 0, len(rows))
	for _, row := range rows {
		states = append(states, analytics.WoundState{Etiology: row.Etiology, Status: row.Status})
	}
	return states, nil
}

func toMeasurement(row ScanRecord) models.MeasurementRecord {
	rec := models.MeasurementRecord{
		ScanID:        row.ID,
		AreaCm2:       row.AreaCm2,
		SeverityScore: row.SeverityScore,
		Timestamp:     row.CreatedAt,
		ExudateLevel:  row.ExudateLevel,
		Tissue: models.TissueComposition{
			GranulationPct:      row.TissueGranulationPct,
			SloughPct:           row.TissueSloughPct,
			EscharPct:           row.TissueEscharPct,
			EpithelialPct:       row.TissueEpithelialPct,
			HypergranulationPct: row.TissueHypergranulationPct,
		},
	}
	if view := DeriveScanView(row); view.NPIAPStage != nil {
		rec.Stage = view.NPIAPStage
	}
	return rec
}
