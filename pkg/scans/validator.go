package scans

import (
	"errors"
	"fmt"
	"math"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

const tissueSumTolerance = 1.0

var (
	errMissingWound   = errors.New("wound_id is required")
	errNegativeArea   = errors.New("area_cm2 must be non-negative")
	errInvalidExudate = errors.New("invalid exudate level")
	errTissueSum      = errors.New("tissue percentages must sum to ~100%")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

type Validator struct {
	allowedExudate map[string]struct{}
}

func NewValidator() *Validator {
	return &Validator{
		allowedExudate: map[string]struct{}{
			models.ExudateNone:     {},
			models.ExudateLow:      {},
			models.ExudateModerate: {},
			models.ExudateHigh:     {},
		},
	}
}

func (v *Validator) Validate(req models.ScanIngestRequest) error {
	if req.WoundID == "" {
		return ValidationError{reason: errMissingWound}
	}

	if req.AreaCm2 < 0 {
		return ValidationError{reason: errNegativeArea}
	}

	if _, ok := v.allowedExudate[req.ExudateLevel]; !ok {
		return ValidationError{reason: fmt.Errorf("exudate level '%s': %w", req.ExudateLevel, errInvalidExudate)}
	}

	if total := req.Tissue.Total(); math.Abs(total-100.0) > tissueSumTolerance {
		return ValidationError{reason: fmt.Errorf("got %.1f%%: %w", total, errTissueSum)}
	}

	if req.SubEpidermalRisk != "" {
		switch req.SubEpidermalRisk {
		case "none", "low", "moderate", "high":
		default:
			return ValidationError{reason: fmt.Errorf("invalid sub_epidermal_risk '%s'", req.SubEpidermalRisk)}
		}
	}

	return nil
}
