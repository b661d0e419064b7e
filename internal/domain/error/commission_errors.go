package error

import (
	"errors"

	"github.com/quickmate/backend/internal/domain/entity"
)

// Commission domain errors.
var (
	// ErrCommissionRuleNotFound is returned when a commission rule is not found.
	ErrCommissionRuleNotFound = errors.New("commission rule not found")

	// ErrInvalidCommissionRule is returned when a rule violates its mode constraints.
	ErrInvalidCommissionRule = errors.New("invalid commission rule")

	// ErrInvalidCommissionRuleID is returned when a rule identifier is malformed.
	ErrInvalidCommissionRuleID = errors.New("invalid commission rule id")
)

// CommissionErrorCode defines error codes for commission errors.
// Format: COM-XXYYYY where XX is category and YYYY is specific error.
type CommissionErrorCode string

const (
	ErrCodeCommissionRuleNotFound  CommissionErrorCode = "COM-010001"
	ErrCodeInvalidCommissionRule   CommissionErrorCode = "COM-020001"
	ErrCodeInvalidCommissionRuleID CommissionErrorCode = "COM-030001"
)

// CommissionError represents a commission error with code and message.
type CommissionError struct {
	Code    CommissionErrorCode
	Message string
	Err     error
	Fields  []entity.FieldError
}

// Error implements the error interface.
func (e *CommissionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CommissionError) Unwrap() error {
	return e.Err
}

// NewCommissionError creates a new CommissionError with the given code and message.
func NewCommissionError(code CommissionErrorCode, message string, err error) *CommissionError {
	return &CommissionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInvalidCommissionRuleError wraps rule validation failures.
func NewInvalidCommissionRuleError(fields []entity.FieldError) *CommissionError {
	return &CommissionError{
		Code:    ErrCodeInvalidCommissionRule,
		Message: "commission rule is invalid",
		Err:     ErrInvalidCommissionRule,
		Fields:  fields,
	}
}
