package alerts

import (
	"context"
	"errors"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("alert not found")

// Record is the persistence model for rule-triggered alerts.
type Record struct {
	ID             string     `json:"id" gorm:"primaryKey;column:id"`
	WoundID        string     `json:"wound_id" gorm:"column:wound_id;index"`
	PatientID      string     `json:"patient_id" gorm:"column:patient_id;index"`
	AlertType      string     `json:"alert_type" gorm:"column:alert_type"`
	Severity       string     `json:"severity" gorm:"column:severity"`
	Message        string     `json:"message" gorm:"column:message"`
	Acknowledged   bool       `json:"acknowledged" gorm:"column:acknowledged"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty" gorm:"column:acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty" gorm:"column:acknowledged_at"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
}

func (Record) TableName() string {
	return "alerts"
}

// Repository persists evaluator output. The evaluator itself stays pure;
// callers hand its alerts here.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Record{})
}

func (r *Repository) CreateAll(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	records := make([]Record, 0, len(alerts))
	for _, a := range alerts {
		records = append(records, Record{
			ID:        a.ID,
			WoundID:   a.WoundID,
			PatientID: a.PatientID,
			AlertType: a.AlertType,
			Severity:  a.Severity,
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
		})
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *Repository) ListByWound(ctx context.Context, woundID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []Record
	err := r.db.WithContext(ctx).
		Where("wound_id = ?", woundID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *Repository) Acknowledge(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Model(&Record{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"acknowledged":    true,
			"acknowledged_by": userID,
			"acknowledged_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentForPatient returns the newest alerts across a patient's wounds.
func (r *Repository) RecentForPatient(ctx context.Context, patientID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []Record
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
