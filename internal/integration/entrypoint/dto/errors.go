package dto

import "github.com/quickmate/backend/internal/domain/entity"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string               `json:"error"`
	Code    string               `json:"code,omitempty"`
	Details []FieldErrorResponse `json:"details,omitempty"`
}

// FieldErrorResponse describes a single rejected field.
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToFieldErrorResponses converts domain field errors into response details.
func ToFieldErrorResponses(fields []entity.FieldError) []FieldErrorResponse {
	if len(fields) == 0 {
		return nil
	}
	details := make([]FieldErrorResponse, len(fields))
	for i, f := range fields {
		details[i] = FieldErrorResponse{Field: f.Field, Message: f.Message}
	}
	return details
}
