// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/domain/entity"
)

// ErrDuplicateKey is returned by repositories when a write violates a storage uniqueness constraint.
var ErrDuplicateKey = errors.New("duplicate key")

// CategoryFilter narrows category listings. Zero value lists every category.
type CategoryFilter struct {
	ParentID     *uuid.UUID
	TopLevelOnly bool
	Status       *bool
}

// CategoryRepository defines the interface for category persistence operations.
// Lookups return (nil, nil) when nothing matches.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByName retrieves a top-level category by name.
	FindByName(ctx context.Context, name string) (*entity.Category, error)

	// FindByNameAndParent retrieves a subcategory by name within a parent.
	FindByNameAndParent(ctx context.Context, name string, parentID uuid.UUID) (*entity.Category, error)

	// FindAll retrieves categories matching the filter ordered by name.
	FindAll(ctx context.Context, filter CategoryFilter) ([]*entity.Category, error)

	// Update persists the full state of an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category and returns what was removed, or nil if nothing matched.
	Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// CountSubcategories counts the direct children of a category.
	CountSubcategories(ctx context.Context, parentID uuid.UUID) (int64, error)
}
