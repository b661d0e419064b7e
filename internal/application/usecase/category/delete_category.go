package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
}

// DeleteCategoryOutput represents the output of category deletion.
type DeleteCategoryOutput struct {
	Category *entity.Category
}

// DeleteCategoryUseCase handles category deletion logic.
type DeleteCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	ruleRepo     adapter.CommissionRuleRepository
	transactor   adapter.Transactor
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(
	categoryRepo adapter.CategoryRepository,
	ruleRepo adapter.CommissionRuleRepository,
	transactor adapter.Transactor,
) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
		transactor:   transactor,
	}
}

// Execute performs the category deletion. Categories with subcategories are kept;
// a deleted top-level category takes its commission rule with it.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, notFoundError()
	}

	children, err := uc.categoryRepo.CountSubcategories(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subcategories: %w", err)
	}
	if children > 0 {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryHasSubcategories,
			"cannot delete a category that has subcategories, delete them first",
			domainerror.ErrCategoryHasSubcategories,
		)
	}

	var deleted *entity.Category
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err = uc.categoryRepo.Delete(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if deleted == nil || !deleted.IsTopLevel() {
			return nil
		}

		rule, err := uc.ruleRepo.FindByCategoryID(ctx, deleted.ID)
		if err != nil {
			return fmt.Errorf("failed to find commission rule: %w", err)
		}
		if rule != nil {
			if _, err := uc.ruleRepo.Delete(ctx, rule.ID); err != nil {
				return fmt.Errorf("failed to delete commission rule: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		// Removed concurrently between the lookup and the delete.
		return nil, notFoundError()
	}

	slog.Info("Category deleted", "categoryID", deleted.ID)

	return &DeleteCategoryOutput{Category: deleted}, nil
}
