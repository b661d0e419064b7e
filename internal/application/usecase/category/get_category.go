package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
)

// GetCategoryInput represents the input for fetching a category.
type GetCategoryInput struct {
	CategoryID uuid.UUID
}

// GetCategoryOutput represents a category with its rule and direct children.
// CommissionRule is only ever set for top-level categories.
type GetCategoryOutput struct {
	Category       *entity.Category
	CommissionRule *entity.CommissionRule
	SubCategories  []*entity.Category
}

// GetCategoryUseCase handles fetching a single category.
type GetCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	ruleRepo     adapter.CommissionRuleRepository
}

// NewGetCategoryUseCase creates a new GetCategoryUseCase instance.
func NewGetCategoryUseCase(categoryRepo adapter.CategoryRepository, ruleRepo adapter.CommissionRuleRepository) *GetCategoryUseCase {
	return &GetCategoryUseCase{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
	}
}

// Execute fetches the category.
func (uc *GetCategoryUseCase) Execute(ctx context.Context, input GetCategoryInput) (*GetCategoryOutput, error) {
	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, notFoundError()
	}

	output := &GetCategoryOutput{Category: category}

	if category.IsTopLevel() {
		output.CommissionRule, err = uc.ruleRepo.FindByCategoryID(ctx, category.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find commission rule: %w", err)
		}
	}

	output.SubCategories, err = uc.categoryRepo.FindAll(ctx, adapter.CategoryFilter{ParentID: &category.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}

	return output, nil
}
