package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/quickmate/backend/internal/domain/error"
	"github.com/quickmate/backend/internal/integration/entrypoint/dto"
)

// respondError writes the coded domain error carried by err, or a generic 500.
func respondError(ctx *gin.Context, err error) {
	var (
		catErr    *domainerror.CategoryError
		comErr    *domainerror.CommissionError
		uploadErr *domainerror.UploadError
		authErr   *domainerror.AuthError
	)

	switch {
	case errors.As(err, &catErr):
		ctx.JSON(getStatusCodeForCategoryError(catErr.Code), dto.ErrorResponse{
			Error:   catErr.Message,
			Code:    string(catErr.Code),
			Details: dto.ToFieldErrorResponses(catErr.Fields),
		})
	case errors.As(err, &comErr):
		ctx.JSON(getStatusCodeForCommissionError(comErr.Code), dto.ErrorResponse{
			Error:   comErr.Message,
			Code:    string(comErr.Code),
			Details: dto.ToFieldErrorResponses(comErr.Fields),
		})
	case errors.As(err, &uploadErr):
		if uploadErr.Code == domainerror.ErrCodeImageUploadFailed {
			slog.Error("Image upload failed", "error", err)
		}
		ctx.JSON(getStatusCodeForUploadError(uploadErr.Code), dto.ErrorResponse{
			Error: uploadErr.Message,
			Code:  string(uploadErr.Code),
		})
	case errors.As(err, &authErr):
		ctx.JSON(getStatusCodeForAuthError(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
	default:
		slog.Error("Unhandled request error", "method", ctx.Request.Method, "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

// respondBindingError writes a 400 for a request that failed binding or validation.
func respondBindingError(ctx *gin.Context, err error, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request",
		Code:    code,
		Details: dto.ValidationDetails(err),
	})
}

// getStatusCodeForCategoryError maps category error codes to HTTP status codes.
func getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound,
		domainerror.ErrCodeParentCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCategoryNameExists,
		domainerror.ErrCodeSubcategoryNameExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidCategoryID,
		domainerror.ErrCodeSelfParenting,
		domainerror.ErrCodeCategoryCycle,
		domainerror.ErrCodeCategoryHasSubcategories,
		domainerror.ErrCodeInvalidCategory:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForCommissionError maps commission error codes to HTTP status codes.
func getStatusCodeForCommissionError(code domainerror.CommissionErrorCode) int {
	switch code {
	case domainerror.ErrCodeCommissionRuleNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidCommissionRule,
		domainerror.ErrCodeInvalidCommissionRuleID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForUploadError maps upload error codes to HTTP status codes.
func getStatusCodeForUploadError(code domainerror.UploadErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidImage:
		return http.StatusBadRequest
	case domainerror.ErrCodeImageUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForAuthError maps auth error codes to HTTP status codes.
func getStatusCodeForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidRole:
		return http.StatusBadRequest
	case domainerror.ErrCodeRoleNotAllowed,
		domainerror.ErrCodeInsufficientRole:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
