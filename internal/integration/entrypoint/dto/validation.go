package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/quickmate/backend/internal/domain/entity"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags and struct rules used by the request DTOs
// on the given validator. Safe to call more than once. It panics when a tag cannot be
// registered since every request using it would fail to bind.
func RegisterValidators(v *validator.Validate) {
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(jsonFieldName)
		mustRegisterValidation(v, "notblank", notBlank)
		v.RegisterStructValidation(validateCategoryForm, CategoryForm{})
	})
}

func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// jsonFieldName reports fields by their JSON name so details match the request payload.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateCategoryForm checks commission fields of top-level category forms.
// Subcategory forms skip these checks since their commission input is ignored.
func validateCategoryForm(sl validator.StructLevel) {
	form := sl.Current().Interface().(CategoryForm)
	if form.HasParent() {
		return
	}

	commissionType := entity.CommissionType(form.CommissionType)
	if commissionType != entity.CommissionTypePercentage && commissionType != entity.CommissionTypeFlat {
		return
	}
	if form.CommissionValue.IsEmpty() {
		// An empty value removes the rule on update; creation skips the rule.
		return
	}

	value, err := form.CommissionValue.Decimal()
	if err != nil || value.IsNegative() {
		sl.ReportError(form.CommissionValue, "commissionValue", "CommissionValue", "nonnegative", "")
		return
	}
	if commissionType == entity.CommissionTypePercentage && value.GreaterThan(entity.MaxPercentage) {
		sl.ReportError(form.CommissionValue, "commissionValue", "CommissionValue", "percentage", "")
	}
}

// ValidationDetails converts binding errors into response details. Errors that are
// not validation failures, such as malformed JSON, become a single body entry.
func ValidationDetails(err error) []FieldErrorResponse {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldErrorResponse{{Field: "body", Message: "malformed request body"}}
	}

	details := make([]FieldErrorResponse, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, FieldErrorResponse{
			Field:   e.Field(),
			Message: formatFieldError(e),
		})
	}
	return details
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "nonnegative":
		return fmt.Sprintf("%s must be a non-negative number", field)
	case "percentage":
		return fmt.Sprintf("%s cannot exceed %s for a percentage commission", field, entity.MaxPercentage.String())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// parseDecimal is shared by the form helpers.
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
