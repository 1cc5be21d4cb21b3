package scans

import (
	"time"

	"gorm.io/datatypes"
)

// WoundRecord is the persisted wound registry row.
type WoundRecord struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id"`
	PatientID    string    `json:"patient_id" gorm:"column:patient_id;index"`
	FacilityID   string    `json:"facility_id" gorm:"column:facility_id;index"`
	Etiology     string    `json:"etiology" gorm:"column:etiology"`
	Status       string    `json:"status" gorm:"column:status"`
	BodyLocation string    `json:"body_location,omitempty" gorm:"column:body_location"`
	IsStalled    bool      `json:"is_stalled" gorm:"column:is_stalled"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (WoundRecord) TableName() string {
	return "wounds"
}

// ScanRecord is the immutable persisted snapshot of a single scan. Rows are
// created once when a scan completes and never updated; severity fields stay
// NULL when the external classifier was unavailable.
type ScanRecord struct {
	ID        string `json:"id" gorm:"primaryKey;column:id"`
	WoundID   string `json:"wound_id" gorm:"column:wound_id;index"`
	ScannedBy string `json:"scanned_by" gorm:"column:scanned_by"`

	AreaCm2  float64 `json:"area_cm2" gorm:"column:area_cm2"`
	LengthCm float64 `json:"length_cm,omitempty" gorm:"column:length_cm"`
	WidthCm  float64 `json:"width_cm,omitempty" gorm:"column:width_cm"`
	DepthCm  float64 `json:"depth_cm,omitempty" gorm:"column:depth_cm"`

	TissueGranulationPct      float64 `json:"tissue_granulation_pct" gorm:"column:tissue_granulation_pct"`
	TissueSloughPct           float64 `json:"tissue_slough_pct" gorm:"column:tissue_slough_pct"`
	TissueEscharPct           float64 `json:"tissue_eschar_pct" gorm:"column:tissue_eschar_pct"`
	TissueEpithelialPct       float64 `json:"tissue_epithelial_pct" gorm:"column:tissue_epithelial_pct"`
	TissueHypergranulationPct float64 `json:"tissue_hypergranulation_pct" gorm:"column:tissue_hypergranulation_pct"`

	ExudateLevel     string `json:"exudate_level" gorm:"column:exudate_level"`
	ExudateType      string `json:"exudate_type,omitempty" gorm:"column:exudate_type"`
	SubEpidermalRisk string `json:"sub_epidermal_risk,omitempty" gorm:"column:sub_epidermal_risk"`

	SeverityScore       *float64 `json:"severity_score,omitempty" gorm:"column:severity_score"`
	StageClassification string   `json:"stage_classification,omitempty" gorm:"column:stage_classification"`
	AIConfidence        *float64 `json:"ai_confidence,omitempty" gorm:"column:ai_confidence"`
	ModelVersion        string   `json:"model_version,omitempty" gorm:"column:model_version"`

	Treatment datatypes.JSONMap `json:"treatment,omitempty" gorm:"column:treatment"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (ScanRecord) TableName() string {
	return "scans"
}
