package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickmate/backend/internal/domain/entity"
)

// GlobalScope is the scope value of the single global rule.
const GlobalScope = "global"

// CommissionRuleModel represents the commission_rules table in the database.
// Scope holds the category id, or "global" for the global rule, and is unique.
type CommissionRuleModel struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CategoryID         *uuid.UUID       `gorm:"type:uuid"`
	Scope              string           `gorm:"type:varchar(36);not null;uniqueIndex"`
	GlobalCommission   *decimal.Decimal `gorm:"type:decimal(5,2)"`
	FlatFee            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CategoryCommission *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Status             bool             `gorm:"not null"`
	CreatedAt          time.Time        `gorm:"not null"`
	UpdatedAt          time.Time        `gorm:"not null"`
}

// TableName returns the table name for the CommissionRuleModel.
func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

// ToEntity converts a CommissionRuleModel to a domain CommissionRule entity.
func (m *CommissionRuleModel) ToEntity() *entity.CommissionRule {
	return &entity.CommissionRule{
		ID:                 m.ID,
		CategoryID:         m.CategoryID,
		GlobalCommission:   m.GlobalCommission,
		FlatFee:            m.FlatFee,
		CategoryCommission: m.CategoryCommission,
		Status:             m.Status,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// CommissionRuleFromEntity creates a CommissionRuleModel from a domain CommissionRule entity.
func CommissionRuleFromEntity(rule *entity.CommissionRule) *CommissionRuleModel {
	return &CommissionRuleModel{
		ID:                 rule.ID,
		CategoryID:         rule.CategoryID,
		Scope:              RuleScope(rule.CategoryID),
		GlobalCommission:   rule.GlobalCommission,
		FlatFee:            rule.FlatFee,
		CategoryCommission: rule.CategoryCommission,
		Status:             rule.Status,
		CreatedAt:          rule.CreatedAt,
		UpdatedAt:          rule.UpdatedAt,
	}
}

// RuleScope returns the uniqueness scope for a rule's category reference.
func RuleScope(categoryID *uuid.UUID) string {
	if categoryID == nil {
		return GlobalScope
	}
	return categoryID.String()
}
