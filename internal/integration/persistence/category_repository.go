// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	"github.com/quickmate/backend/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return translateError(conn(ctx, r.db).Create(model.CategoryFromEntity(category)).Error)
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByName retrieves a top-level category by name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.first(ctx, "name = ? AND parent_scope = ?", name, model.RootScope)
}

// FindByNameAndParent retrieves a subcategory by name within a parent.
func (r *categoryRepository) FindByNameAndParent(ctx context.Context, name string, parentID uuid.UUID) (*entity.Category, error) {
	return r.first(ctx, "name = ? AND parent_scope = ?", name, model.ParentScope(&parentID))
}

func (r *categoryRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := conn(ctx, r.db).Where(query, args...).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindAll retrieves categories matching the filter ordered by name.
func (r *categoryRepository) FindAll(ctx context.Context, filter adapter.CategoryFilter) ([]*entity.Category, error) {
	query := conn(ctx, r.db)
	switch {
	case filter.ParentID != nil:
		query = query.Where("parent_scope = ?", model.ParentScope(filter.ParentID))
	case filter.TopLevelOnly:
		query = query.Where("parent_scope = ?", model.RootScope)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var categoryModels []model.CategoryModel
	if err := query.Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}

// Update updates an existing category in the database.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return translateError(conn(ctx, r.db).Save(model.CategoryFromEntity(category)).Error)
}

// Delete removes a category from the database.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var deleted *entity.Category
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var categoryModel model.CategoryModel
		if err := tx.Where("id = ?", id).First(&categoryModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&model.CategoryModel{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = categoryModel.ToEntity()
		return nil
	})
	return deleted, err
}

// CountSubcategories counts the direct children of a category.
func (r *categoryRepository) CountSubcategories(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var count int64
	result := conn(ctx, r.db).
		Model(&model.CategoryModel{}).
		Where("parent_scope = ?", model.ParentScope(&parentID)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
