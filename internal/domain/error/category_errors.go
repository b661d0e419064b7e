// Package error defines domain-specific errors for the QuickMate application.
package error

import (
	"errors"

	"github.com/quickmate/backend/internal/domain/entity"
)

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrParentCategoryNotFound is returned when the referenced parent category does not exist.
	ErrParentCategoryNotFound = errors.New("parent category not found")

	// ErrCategoryNameExists is returned when a top-level category with the same name exists.
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrSubcategoryNameExists is returned when a sibling subcategory with the same name exists.
	ErrSubcategoryNameExists = errors.New("subcategory name already exists under this parent")

	// ErrInvalidCategoryID is returned when an identifier is not a well-formed reference.
	ErrInvalidCategoryID = errors.New("invalid category id")

	// ErrSelfParenting is returned when a category is assigned as its own parent.
	ErrSelfParenting = errors.New("category cannot be its own parent")

	// ErrCategoryCycle is returned when a category would be moved below one of its descendants.
	ErrCategoryCycle = errors.New("category cannot be moved below its own descendant")

	// ErrCategoryHasSubcategories is returned when deleting a category that still has children.
	ErrCategoryHasSubcategories = errors.New("category has subcategories")

	// ErrInvalidCategory is returned when category fields fail validation.
	ErrInvalidCategory = errors.New("invalid category")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Not found errors (01XXXX)
	ErrCodeCategoryNotFound       CategoryErrorCode = "CAT-010001"
	ErrCodeParentCategoryNotFound CategoryErrorCode = "CAT-010002"

	// Duplicate name errors (02XXXX)
	ErrCodeCategoryNameExists    CategoryErrorCode = "CAT-020001"
	ErrCodeSubcategoryNameExists CategoryErrorCode = "CAT-020002"

	// Invalid reference errors (03XXXX)
	ErrCodeInvalidCategoryID CategoryErrorCode = "CAT-030001"
	ErrCodeSelfParenting     CategoryErrorCode = "CAT-030002"
	ErrCodeCategoryCycle     CategoryErrorCode = "CAT-030003"

	// Dependent errors (04XXXX)
	ErrCodeCategoryHasSubcategories CategoryErrorCode = "CAT-040001"

	// Validation errors (05XXXX)
	ErrCodeInvalidCategory CategoryErrorCode = "CAT-050001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
	Fields  []entity.FieldError
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewCategoryValidationError creates a validation CategoryError carrying field details.
func NewCategoryValidationError(message string, fields []entity.FieldError) *CategoryError {
	return &CategoryError{
		Code:    ErrCodeInvalidCategory,
		Message: message,
		Err:     ErrInvalidCategory,
		Fields:  fields,
	}
}
