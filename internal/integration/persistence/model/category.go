// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/domain/entity"
)

// RootScope is the parent scope shared by every top-level category and the
// scope of the global commission rule.
const RootScope = "root"

// CategoryModel represents the categories table in the database.
// ParentScope mirrors ParentID with a non-null value so the (name, parent_scope)
// unique index also covers top-level names.
type CategoryModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name_scope,priority:1"`
	Description string     `gorm:"type:varchar(500)"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	ParentScope string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_categories_name_scope,priority:2"`
	Status      bool       `gorm:"not null"`
	IconURL     string     `gorm:"type:varchar(512)"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
		Status:      m.Status,
		IconURL:     m.IconURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
		ParentScope: ParentScope(category.ParentID),
		Status:      category.Status,
		IconURL:     category.IconURL,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ParentScope returns the uniqueness scope for a parent reference.
func ParentScope(parentID *uuid.UUID) string {
	if parentID == nil {
		return RootScope
	}
	return parentID.String()
}
