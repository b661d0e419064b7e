// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

// maxAncestorDepth bounds the parent walk used for cycle detection.
const maxAncestorDepth = 32

// CommissionRuleInput carries the commission settings supplied alongside a category write.
// Only one of FlatFee and CategoryCommission may be set. RemoveRule deletes the
// category's rule and takes precedence over the other fields.
type CommissionRuleInput struct {
	FlatFee            *decimal.Decimal
	CategoryCommission *decimal.Decimal
	Status             *bool
	RemoveRule         bool
}

// validateCategoryFields checks the trimmed name and description bounds.
func validateCategoryFields(name, description string) []entity.FieldError {
	var fields []entity.FieldError

	nameLen := utf8.RuneCountInString(name)
	switch {
	case nameLen == 0:
		fields = append(fields, entity.FieldError{Field: "name", Message: "name is required"})
	case nameLen < entity.MinCategoryNameLength || nameLen > entity.MaxCategoryNameLength:
		fields = append(fields, entity.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("name must be between %d and %d characters", entity.MinCategoryNameLength, entity.MaxCategoryNameLength),
		})
	}
	if utf8.RuneCountInString(description) > entity.MaxCategoryDescriptionLength {
		fields = append(fields, entity.FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description must not exceed %d characters", entity.MaxCategoryDescriptionLength),
		})
	}
	return fields
}

// findByNameInScope looks a name up among the siblings of the given parent.
func findByNameInScope(ctx context.Context, repo adapter.CategoryRepository, name string, parentID *uuid.UUID) (*entity.Category, error) {
	if parentID == nil {
		return repo.FindByName(ctx, name)
	}
	return repo.FindByNameAndParent(ctx, name, *parentID)
}

func duplicateNameError(parentID *uuid.UUID) *domainerror.CategoryError {
	if parentID == nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameExists,
			"a category with this name already exists",
			domainerror.ErrCategoryNameExists,
		)
	}
	return domainerror.NewCategoryError(
		domainerror.ErrCodeSubcategoryNameExists,
		"a subcategory with this name already exists under this parent",
		domainerror.ErrSubcategoryNameExists,
	)
}

func notFoundError() *domainerror.CategoryError {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNotFound,
		"category not found",
		domainerror.ErrCategoryNotFound,
	)
}

func parentNotFoundError() *domainerror.CategoryError {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeParentCategoryNotFound,
		"parent category not found",
		domainerror.ErrParentCategoryNotFound,
	)
}

// mapCategoryWriteError turns a lost uniqueness race into the matching duplicate-name error.
func mapCategoryWriteError(err error, parentID *uuid.UUID, action string) error {
	if errors.Is(err, adapter.ErrDuplicateKey) {
		return duplicateNameError(parentID)
	}
	return fmt.Errorf("failed to %s category: %w", action, err)
}

// newCategoryRule builds and validates a category-scoped rule from the input.
func newCategoryRule(categoryID uuid.UUID, input CommissionRuleInput) (*entity.CommissionRule, error) {
	status := true
	if input.Status != nil {
		status = *input.Status
	}

	rule := entity.NewCategoryCommissionRule(categoryID, input.FlatFee, input.CategoryCommission, status)
	if fields := rule.Validate(); len(fields) > 0 {
		return nil, domainerror.NewInvalidCommissionRuleError(fields)
	}
	return rule, nil
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
