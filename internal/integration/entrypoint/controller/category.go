// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/application/usecase/category"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
	"github.com/quickmate/backend/internal/infra/metrics"
	"github.com/quickmate/backend/internal/integration/entrypoint/dto"
)

// IconFormField is the multipart field carrying a category icon.
const IconFormField = "categoryIcon"

var allowedIconExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

// CategoryUseCases groups the use cases served by CategoryController.
type CategoryUseCases struct {
	Create              *category.CreateCategoryUseCase
	Update              *category.UpdateCategoryUseCase
	Get                 *category.GetCategoryUseCase
	ListTopLevel        *category.ListTopLevelCategoriesUseCase
	ListSubcategories   *category.ListSubcategoriesUseCase
	Delete              *category.DeleteCategoryUseCase
	GetGlobalCommission *category.GetGlobalCommissionUseCase
	SetGlobalCommission *category.UpdateGlobalCommissionUseCase
}

// IconUploadSettings controls where icons are staged and how large they may be.
type IconUploadSettings struct {
	TempDir      string
	MaxFileBytes int64
}

// CategoryController handles category and global commission endpoints.
type CategoryController struct {
	useCases CategoryUseCases
	uploader adapter.ImageUploader
	upload   IconUploadSettings
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(useCases CategoryUseCases, uploader adapter.ImageUploader, upload IconUploadSettings) *CategoryController {
	return &CategoryController{
		useCases: useCases,
		uploader: uploader,
		upload:   upload,
	}
}

// Create handles POST /categories requests.
func (c *CategoryController) Create(ctx *gin.Context) {
	var form dto.CategoryForm
	if err := ctx.ShouldBind(&form); err != nil {
		respondBindingError(ctx, err, string(domainerror.ErrCodeInvalidCategory))
		return
	}

	parentID, _, err := parseParentID(form.Parent())
	if err != nil {
		respondError(ctx, err)
		return
	}

	commission, err := form.CreateCommission()
	if err != nil {
		respondError(ctx, invalidCommissionValueError())
		return
	}

	input := category.CreateCategoryInput{
		Name:       form.Name,
		ParentID:   parentID,
		Status:     form.Status,
		Commission: commission,
	}
	if form.Description != nil {
		input.Description = *form.Description
	}
	if form.IconURL != nil {
		input.IconURL = *form.IconURL
	}

	icon, err := c.uploadIcon(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if icon != nil {
		input.IconURL = icon.URL
	}

	output, err := c.useCases.Create.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.discardIcon(ctx.Request.Context(), icon)
		respondError(ctx, err)
		return
	}

	metrics.RecordCategoryMutation("create")
	if output.CommissionRule != nil {
		metrics.RecordCommissionChange("category", string(category.CommissionActionCreated))
	}

	ctx.JSON(http.StatusCreated, dto.CategoryMutationResponse{
		Message:        "Category created successfully",
		Category:       dto.ToCategoryResponse(output.Category),
		CommissionRule: dto.ToCommissionRuleResponse(output.CommissionRule),
	})
}

// Update handles PUT /categories/:id requests.
func (c *CategoryController) Update(ctx *gin.Context) {
	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	var form dto.CategoryForm
	if err := ctx.ShouldBind(&form); err != nil {
		respondBindingError(ctx, err, string(domainerror.ErrCodeInvalidCategory))
		return
	}

	parentID, setParent, err := parseParentID(form.Parent())
	if err != nil {
		respondError(ctx, err)
		return
	}

	commission, err := form.UpdateCommission()
	if err != nil {
		respondError(ctx, invalidCommissionValueError())
		return
	}

	input := category.UpdateCategoryInput{
		CategoryID:  categoryID,
		Name:        &form.Name,
		Description: form.Description,
		Status:      form.Status,
		IconURL:     form.IconURL,
		SetParent:   setParent,
		ParentID:    parentID,
		Commission:  commission,
	}

	icon, err := c.uploadIcon(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if icon != nil {
		input.IconURL = &icon.URL
	}

	output, err := c.useCases.Update.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.discardIcon(ctx.Request.Context(), icon)
		respondError(ctx, err)
		return
	}

	metrics.RecordCategoryMutation("update")
	if output.CommissionAction != category.CommissionActionUnchanged {
		metrics.RecordCommissionChange("category", string(output.CommissionAction))
	}

	ctx.JSON(http.StatusOK, dto.CategoryMutationResponse{
		Message:          "Category updated successfully",
		Category:         dto.ToCategoryResponse(output.Category),
		CommissionRule:   dto.ToCommissionRuleResponse(output.CommissionRule),
		CommissionAction: string(output.CommissionAction),
	})
}

// Get handles GET /categories/:id requests.
func (c *CategoryController) Get(ctx *gin.Context) {
	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	output, err := c.useCases.Get.Execute(ctx.Request.Context(), category.GetCategoryInput{CategoryID: categoryID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryFormResponse(output))
}

// List handles GET /categories requests. With a parentId query it lists that
// category's subcategories, otherwise the top-level categories with their details.
// An optional status query keeps only active or inactive categories.
func (c *CategoryController) List(ctx *gin.Context) {
	var query dto.CategoryListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBindingError(ctx, err, string(domainerror.ErrCodeInvalidCategory))
		return
	}

	if raw := strings.TrimSpace(query.ParentID); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			respondError(ctx, invalidCategoryIDError("invalid parentId query parameter"))
			return
		}

		output, err := c.useCases.ListSubcategories.Execute(ctx.Request.Context(), category.ListSubcategoriesInput{
			ParentID: parentID,
			Status:   query.Status,
		})
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.SubcategoryListResponse{
			ParentID:   parentID.String(),
			Categories: dto.ToCategoryResponses(output.Categories),
		})
		return
	}

	output, err := c.useCases.ListTopLevel.Execute(ctx.Request.Context(), category.ListTopLevelCategoriesInput{Status: query.Status})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTopLevelCategoryListResponse(output.Categories))
}

// Delete handles DELETE /categories/:id requests.
func (c *CategoryController) Delete(ctx *gin.Context) {
	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	output, err := c.useCases.Delete.Execute(ctx.Request.Context(), category.DeleteCategoryInput{CategoryID: categoryID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	metrics.RecordCategoryMutation("delete")

	ctx.JSON(http.StatusOK, dto.DeleteCategoryResponse{
		Message:  "Category deleted successfully",
		Category: dto.ToCategoryResponse(output.Category),
	})
}

// GetGlobalCommission handles GET /categories/global-commission requests.
func (c *CategoryController) GetGlobalCommission(ctx *gin.Context) {
	output, err := c.useCases.GetGlobalCommission.Execute(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.GlobalCommissionResponse{
		Rule: *dto.ToCommissionRuleResponse(output.Rule),
	})
}

// UpdateGlobalCommission handles PUT /categories/global-commission requests.
func (c *CategoryController) UpdateGlobalCommission(ctx *gin.Context) {
	var req dto.GlobalCommissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err, string(domainerror.ErrCodeInvalidCommissionRule))
		return
	}

	output, err := c.useCases.SetGlobalCommission.Execute(ctx.Request.Context(), category.UpdateGlobalCommissionInput{
		Percentage: decimal.NewFromFloat(*req.GlobalCommission),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	metrics.RecordCommissionChange("global", string(category.CommissionActionUpdated))

	ctx.JSON(http.StatusOK, dto.GlobalCommissionResponse{
		Message: "Global commission updated successfully",
		Rule:    *dto.ToCommissionRuleResponse(output.Rule),
	})
}

// uploadIcon stages the categoryIcon file and hands it to the image host.
// It returns nil when the request carries no icon.
func (c *CategoryController) uploadIcon(ctx *gin.Context) (*adapter.UploadedImage, error) {
	file, err := ctx.FormFile(IconFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, invalidImageError(err.Error())
	}

	if err := c.validateIcon(file); err != nil {
		return nil, err
	}

	path := filepath.Join(c.upload.TempDir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if err := ctx.SaveUploadedFile(file, path); err != nil {
		return nil, fmt.Errorf("failed to stage uploaded icon: %w", err)
	}

	// The uploader removes the staged file whatever the outcome.
	return c.uploader.Upload(ctx.Request.Context(), path)
}

func (c *CategoryController) validateIcon(file *multipart.FileHeader) error {
	if c.upload.MaxFileBytes > 0 && file.Size > c.upload.MaxFileBytes {
		return invalidImageError(fmt.Sprintf("icon must not exceed %d bytes", c.upload.MaxFileBytes))
	}
	if !allowedIconExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		return invalidImageError("icon must be a jpg, jpeg, png, gif, webp or svg image")
	}
	return nil
}

// discardIcon deletes an icon uploaded for a write that did not happen.
func (c *CategoryController) discardIcon(ctx context.Context, icon *adapter.UploadedImage) {
	if icon == nil || icon.PublicID == "" {
		return
	}
	if err := c.uploader.Delete(ctx, icon.PublicID); err != nil {
		slog.Warn("Failed to discard uploaded icon", "publicID", icon.PublicID, "error", err)
	}
}

// parseCategoryID reads the :id path parameter, writing a 400 when it is malformed.
func parseCategoryID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		respondError(ctx, invalidCategoryIDError("invalid category id"))
		return uuid.Nil, false
	}
	return id, true
}

// parseParentID interprets the parentId field. A missing field leaves the parent
// untouched; null, "" and "null" select the top level.
func parseParentID(value string, present bool) (parentID *uuid.UUID, set bool, err error) {
	if !present {
		return nil, false, nil
	}
	if value == "" || value == "null" {
		return nil, true, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, false, invalidCategoryIDError("invalid parent category id")
	}
	return &id, true, nil
}

func invalidCategoryIDError(message string) error {
	return domainerror.NewCategoryError(domainerror.ErrCodeInvalidCategoryID, message, domainerror.ErrInvalidCategoryID)
}

func invalidImageError(message string) error {
	return domainerror.NewUploadError(domainerror.ErrCodeInvalidImage, message, domainerror.ErrInvalidImage)
}

func invalidCommissionValueError() error {
	return domainerror.NewInvalidCommissionRuleError([]entity.FieldError{
		{Field: "commissionValue", Message: "commissionValue must be a non-negative number"},
	})
}
