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

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uuid.UUID // nil creates a top-level category
	Status      *bool      // Optional, defaults to true
	IconURL     string
	Commission  *CommissionRuleInput // Ignored for subcategories
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category       *entity.Category
	CommissionRule *entity.CommissionRule
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	ruleRepo     adapter.CommissionRuleRepository
	transactor   adapter.Transactor
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(
	categoryRepo adapter.CategoryRepository,
	ruleRepo adapter.CommissionRuleRepository,
	transactor adapter.Transactor,
) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
		transactor:   transactor,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name := normalize(input.Name)
	description := normalize(input.Description)
	if fields := validateCategoryFields(name, description); len(fields) > 0 {
		return nil, domainerror.NewCategoryValidationError("category is invalid", fields)
	}

	if input.ParentID != nil {
		parent, err := uc.categoryRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to find parent category: %w", err)
		}
		if parent == nil {
			return nil, parentNotFoundError()
		}
	}

	existing, err := findByNameInScope(ctx, uc.categoryRepo, name, input.ParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name existence: %w", err)
	}
	if existing != nil {
		return nil, duplicateNameError(input.ParentID)
	}

	category := entity.NewCategory(name, description, input.ParentID, input.IconURL)
	if input.Status != nil {
		category.Status = *input.Status
	}

	var rule *entity.CommissionRule
	if input.Commission != nil && !input.Commission.RemoveRule {
		if category.IsTopLevel() {
			rule, err = newCategoryRule(category.ID, *input.Commission)
			if err != nil {
				return nil, err
			}
		} else {
			slog.Debug("Ignoring commission input for subcategory", "parentID", input.ParentID.String())
		}
	}

	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.categoryRepo.Create(ctx, category); err != nil {
			return mapCategoryWriteError(err, category.ParentID, "create")
		}
		if rule != nil {
			if err := uc.ruleRepo.Create(ctx, rule); err != nil {
				return fmt.Errorf("failed to create commission rule: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Category created", "categoryID", category.ID, "topLevel", category.IsTopLevel(), "withCommission", rule != nil)

	return &CreateCategoryOutput{
		Category:       category,
		CommissionRule: rule,
	}, nil
}
