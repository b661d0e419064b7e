package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionType describes how a category commission rule charges.
type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFlat       CommissionType = "flat"
	CommissionTypeNone       CommissionType = "none"
)

var (
	// MaxPercentage bounds every percentage commission.
	MaxPercentage = decimal.NewFromInt(100)
)

// CommissionRule represents a commission policy. A rule without a category is the
// platform-wide global rule; otherwise it belongs to exactly one top-level category.
type CommissionRule struct {
	ID                 uuid.UUID
	CategoryID         *uuid.UUID
	GlobalCommission   *decimal.Decimal
	FlatFee            *decimal.Decimal
	CategoryCommission *decimal.Decimal
	Status             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewGlobalCommissionRule creates the global rule with the given percentage.
func NewGlobalCommissionRule(percentage decimal.Decimal) *CommissionRule {
	now := time.Now().UTC()

	return &CommissionRule{
		ID:               uuid.New(),
		GlobalCommission: &percentage,
		Status:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewCategoryCommissionRule creates a rule bound to a top-level category.
// Exactly one of flatFee and percentage is expected to be set; call Validate to check.
func NewCategoryCommissionRule(categoryID uuid.UUID, flatFee, percentage *decimal.Decimal, status bool) *CommissionRule {
	now := time.Now().UTC()
	id := categoryID

	return &CommissionRule{
		ID:                 uuid.New(),
		CategoryID:         &id,
		FlatFee:            flatFee,
		CategoryCommission: percentage,
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsGlobal reports whether the rule is the platform-wide rule.
func (r *CommissionRule) IsGlobal() bool {
	return r.CategoryID == nil
}

// Type returns how the rule charges.
func (r *CommissionRule) Type() CommissionType {
	switch {
	case r.IsGlobal(), r.CategoryCommission != nil:
		return CommissionTypePercentage
	case r.FlatFee != nil:
		return CommissionTypeFlat
	}
	return CommissionTypeNone
}

// Value returns the configured amount regardless of the rule mode.
func (r *CommissionRule) Value() *decimal.Decimal {
	switch {
	case r.GlobalCommission != nil:
		return r.GlobalCommission
	case r.CategoryCommission != nil:
		return r.CategoryCommission
	}
	return r.FlatFee
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string
	Message string
}

// Validate checks the field exclusivity and ranges of the rule mode.
// Global rules carry only a globalCommission; category rules carry exactly one of
// flatFee or categoryCommission.
func (r *CommissionRule) Validate() []FieldError {
	var errs []FieldError

	if r.IsGlobal() {
		if r.GlobalCommission == nil {
			errs = append(errs, FieldError{Field: "globalCommission", Message: "global commission is required for the global rule"})
		} else if !isPercentage(*r.GlobalCommission) {
			errs = append(errs, FieldError{Field: "globalCommission", Message: "global commission must be between 0 and 100"})
		}
		if r.FlatFee != nil {
			errs = append(errs, FieldError{Field: "flatFee", Message: "flat fee is not allowed on the global rule"})
		}
		if r.CategoryCommission != nil {
			errs = append(errs, FieldError{Field: "categoryCommission", Message: "category commission is not allowed on the global rule"})
		}
		return errs
	}

	if r.GlobalCommission != nil {
		errs = append(errs, FieldError{Field: "globalCommission", Message: "global commission is not allowed on a category rule"})
	}
	switch {
	case r.FlatFee == nil && r.CategoryCommission == nil:
		errs = append(errs, FieldError{Field: "commissionValue", Message: "either a flat fee or a category commission is required"})
	case r.FlatFee != nil && r.CategoryCommission != nil:
		errs = append(errs, FieldError{Field: "commissionValue", Message: "flat fee and category commission are mutually exclusive"})
	case r.FlatFee != nil && r.FlatFee.IsNegative():
		errs = append(errs, FieldError{Field: "flatFee", Message: "flat fee must not be negative"})
	case r.CategoryCommission != nil && !isPercentage(*r.CategoryCommission):
		errs = append(errs, FieldError{Field: "categoryCommission", Message: "category commission must be between 0 and 100"})
	}
	return errs
}

func isPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(MaxPercentage)
}
