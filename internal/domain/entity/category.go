// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MinCategoryNameLength is the minimum allowed length for category names.
	MinCategoryNameLength = 2
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 100
	// MaxCategoryDescriptionLength is the maximum allowed length for category descriptions.
	MaxCategoryDescriptionLength = 500
)

// Category represents a service category in the QuickMate marketplace.
// A category without a parent is a top-level category; otherwise it is a subcategory.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	ParentID    *uuid.UUID
	Status      bool
	IconURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory creates a new active Category entity.
func NewCategory(name, description string, parentID *uuid.UUID, iconURL string) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		ParentID:    parentID,
		Status:      true,
		IconURL:     iconURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsTopLevel reports whether the category has no parent.
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// HasParent reports whether the category is a child of the given id.
func (c *Category) HasParent(id uuid.UUID) bool {
	return c.ParentID != nil && *c.ParentID == id
}

// CategoryWithDetails is a top-level category enriched with its subcategory count and commission rule.
type CategoryWithDetails struct {
	Category         *Category
	SubCategoryCount int64
	CommissionRule   *CommissionRule
}
