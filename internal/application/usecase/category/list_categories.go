package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
)

// detailLookupConcurrency caps the per-category lookups running at once.
const detailLookupConcurrency = 8

// ListTopLevelCategoriesInput represents the input for listing top-level categories.
type ListTopLevelCategoriesInput struct {
	Status *bool // nil lists active and inactive categories
}

// ListTopLevelCategoriesOutput represents every top-level category with its details.
type ListTopLevelCategoriesOutput struct {
	Categories []*entity.CategoryWithDetails
}

// ListTopLevelCategoriesUseCase lists top-level categories with subcategory counts and rules.
type ListTopLevelCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
	ruleRepo     adapter.CommissionRuleRepository
}

// NewListTopLevelCategoriesUseCase creates a new ListTopLevelCategoriesUseCase instance.
func NewListTopLevelCategoriesUseCase(categoryRepo adapter.CategoryRepository, ruleRepo adapter.CommissionRuleRepository) *ListTopLevelCategoriesUseCase {
	return &ListTopLevelCategoriesUseCase{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
	}
}

// Execute lists the top-level categories.
func (uc *ListTopLevelCategoriesUseCase) Execute(ctx context.Context, input ListTopLevelCategoriesInput) (*ListTopLevelCategoriesOutput, error) {
	categories, err := uc.categoryRepo.FindAll(ctx, adapter.CategoryFilter{TopLevelOnly: true, Status: input.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	details := make([]*entity.CategoryWithDetails, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailLookupConcurrency)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			count, err := uc.categoryRepo.CountSubcategories(gctx, category.ID)
			if err != nil {
				return fmt.Errorf("failed to count subcategories of %s: %w", category.ID, err)
			}
			rule, err := uc.ruleRepo.FindByCategoryID(gctx, category.ID)
			if err != nil {
				return fmt.Errorf("failed to find commission rule of %s: %w", category.ID, err)
			}
			details[i] = &entity.CategoryWithDetails{
				Category:         category,
				SubCategoryCount: count,
				CommissionRule:   rule,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListTopLevelCategoriesOutput{Categories: details}, nil
}

// ListSubcategoriesInput represents the input for listing subcategories.
type ListSubcategoriesInput struct {
	ParentID uuid.UUID
	Status   *bool
}

// ListSubcategoriesOutput represents the direct children of a category.
type ListSubcategoriesOutput struct {
	Categories []*entity.Category
}

// ListSubcategoriesUseCase lists categories with an exact parent.
type ListSubcategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListSubcategoriesUseCase creates a new ListSubcategoriesUseCase instance.
func NewListSubcategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListSubcategoriesUseCase {
	return &ListSubcategoriesUseCase{categoryRepo: categoryRepo}
}

// Execute lists the subcategories. No commission information is attached.
func (uc *ListSubcategoriesUseCase) Execute(ctx context.Context, input ListSubcategoriesInput) (*ListSubcategoriesOutput, error) {
	categories, err := uc.categoryRepo.FindAll(ctx, adapter.CategoryFilter{ParentID: &input.ParentID, Status: input.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	return &ListSubcategoriesOutput{Categories: categories}, nil
}
