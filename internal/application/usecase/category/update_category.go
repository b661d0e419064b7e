package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

// CommissionAction reports what an update did to the category's commission rule.
type CommissionAction string

const (
	CommissionActionUnchanged CommissionAction = "unchanged"
	CommissionActionCreated   CommissionAction = "created"
	CommissionActionUpdated   CommissionAction = "updated"
	CommissionActionRemoved   CommissionAction = "removed"
)

// UpdateCategoryInput represents the input for category update.
type UpdateCategoryInput struct {
	CategoryID  uuid.UUID
	Name        *string // Optional
	Description *string // Optional
	Status      *bool   // Optional
	IconURL     *string // Optional

	// SetParent marks ParentID as supplied. SetParent with a nil ParentID moves the
	// category to the top level.
	SetParent bool
	ParentID  *uuid.UUID

	Commission *CommissionRuleInput // Optional
}

// UpdateCategoryOutput represents the output of category update.
type UpdateCategoryOutput struct {
	Category         *entity.Category
	CommissionRule   *entity.CommissionRule // Current rule, nil when the category has none
	CommissionAction CommissionAction
}

// UpdateCategoryUseCase handles category update logic.
type UpdateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	ruleRepo     adapter.CommissionRuleRepository
	transactor   adapter.Transactor
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(
	categoryRepo adapter.CategoryRepository,
	ruleRepo adapter.CommissionRuleRepository,
	transactor adapter.Transactor,
) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
		transactor:   transactor,
	}
}

// Execute performs the category update.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, notFoundError()
	}

	parentID := category.ParentID
	if input.SetParent {
		parentID = input.ParentID
		if parentID != nil {
			if err := uc.validateNewParent(ctx, category.ID, *parentID); err != nil {
				return nil, err
			}
		}
	}

	name := category.Name
	if input.Name != nil {
		name = normalize(*input.Name)
	}
	description := category.Description
	if input.Description != nil {
		description = normalize(*input.Description)
	}
	if fields := validateCategoryFields(name, description); len(fields) > 0 {
		return nil, domainerror.NewCategoryValidationError("category is invalid", fields)
	}

	// Uniqueness only needs re-checking when the name or its sibling scope moves.
	if name != category.Name || !sameParent(parentID, category.ParentID) {
		existing, err := findByNameInScope(ctx, uc.categoryRepo, name, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name existence: %w", err)
		}
		if existing != nil && existing.ID != category.ID {
			return nil, duplicateNameError(parentID)
		}
	}

	category.Name = name
	category.Description = description
	category.ParentID = parentID
	if input.Status != nil {
		category.Status = *input.Status
	}
	if input.IconURL != nil {
		category.IconURL = *input.IconURL
	}
	category.UpdatedAt = time.Now().UTC()

	// Validate commission input up front so a bad rule never reaches the transaction.
	var candidate *entity.CommissionRule
	if category.IsTopLevel() && input.Commission != nil && !input.Commission.RemoveRule {
		candidate, err = newCategoryRule(category.ID, *input.Commission)
		if err != nil {
			return nil, err
		}
	}

	output := &UpdateCategoryOutput{
		Category:         category,
		CommissionAction: CommissionActionUnchanged,
	}

	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.categoryRepo.Update(ctx, category); err != nil {
			return mapCategoryWriteError(err, category.ParentID, "update")
		}

		existing, err := uc.ruleRepo.FindByCategoryID(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("failed to find commission rule: %w", err)
		}
		output.CommissionRule = existing

		// Subcategories never carry a rule; supplied commission input is ignored.
		removeRule := !category.IsTopLevel() || (input.Commission != nil && input.Commission.RemoveRule)
		switch {
		case removeRule:
			if existing == nil {
				return nil
			}
			if _, err := uc.ruleRepo.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to delete commission rule: %w", err)
			}
			output.CommissionRule = nil
			output.CommissionAction = CommissionActionRemoved

		case candidate == nil:
			return nil

		case existing == nil:
			if err := uc.ruleRepo.Create(ctx, candidate); err != nil {
				return fmt.Errorf("failed to create commission rule: %w", err)
			}
			output.CommissionRule = candidate
			output.CommissionAction = CommissionActionCreated

		default:
			existing.FlatFee = candidate.FlatFee
			existing.CategoryCommission = candidate.CategoryCommission
			if input.Commission.Status != nil {
				existing.Status = *input.Commission.Status
			}
			existing.UpdatedAt = time.Now().UTC()
			if err := uc.ruleRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to update commission rule: %w", err)
			}
			output.CommissionAction = CommissionActionUpdated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Category updated", "categoryID", category.ID, "commissionAction", string(output.CommissionAction))

	return output, nil
}

// validateNewParent rejects self-parenting, missing parents and cycles.
func (uc *UpdateCategoryUseCase) validateNewParent(ctx context.Context, categoryID, parentID uuid.UUID) error {
	if parentID == categoryID {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeSelfParenting,
			"a category cannot be its own parent",
			domainerror.ErrSelfParenting,
		)
	}

	parent, err := uc.categoryRepo.FindByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to find parent category: %w", err)
	}
	if parent == nil {
		return parentNotFoundError()
	}

	ancestor := parent
	for depth := 0; depth < maxAncestorDepth && ancestor.ParentID != nil; depth++ {
		if ancestor.HasParent(categoryID) {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryCycle,
				"a category cannot be moved below one of its subcategories",
				domainerror.ErrCategoryCycle,
			)
		}
		ancestor, err = uc.categoryRepo.FindByID(ctx, *ancestor.ParentID)
		if err != nil {
			return fmt.Errorf("failed to walk category ancestors: %w", err)
		}
		if ancestor == nil {
			break
		}
	}
	return nil
}
