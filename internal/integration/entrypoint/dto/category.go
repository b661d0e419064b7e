package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickmate/backend/internal/application/usecase/category"
	"github.com/quickmate/backend/internal/domain/entity"
)

// NumberString holds a numeric form value that may arrive as a JSON number or string.
// Multipart forms always send strings; the admin frontend sends "" for no value.
type NumberString string

// UnmarshalJSON accepts numbers, strings and null.
func (n *NumberString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberString(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumberString(num.String())
	return nil
}

// IsEmpty reports whether no value was supplied.
func (n NumberString) IsEmpty() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Decimal parses the value.
func (n NumberString) Decimal() (decimal.Decimal, error) {
	return parseDecimal(string(n))
}

// OptionalID is a JSON id field that tells an explicit null apart from an absent key.
type OptionalID struct {
	Set   bool
	Value string
}

// UnmarshalJSON accepts strings and null, marking the field as present either way.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		o.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = strings.TrimSpace(s)
	return nil
}

// CategoryForm is the create/update payload, bound from multipart form data or JSON.
// The icon file travels separately in the categoryIcon multipart field.
type CategoryForm struct {
	Name             string       `form:"name" json:"name" binding:"required,notblank,min=2,max=100"`
	Description      *string      `form:"description" json:"description" binding:"omitempty,max=500"`
	Status           *bool        `form:"status" json:"status"`
	ParentID         *string      `form:"parentId" json:"-"`
	ParentIDJSON     OptionalID   `form:"-" json:"parentId"`
	CommissionType   string       `form:"commissionType" json:"commissionType" binding:"omitempty,oneof=percentage flat none"`
	CommissionValue  NumberString `form:"commissionValue" json:"commissionValue"`
	CommissionStatus *bool        `form:"commissionStatus" json:"commissionStatus"`
	IconURL          *string      `form:"iconUrl" json:"iconUrl"`
}

// Parent returns the parentId value and whether the request carried the field at all.
// A JSON null is carried with an empty value.
func (f CategoryForm) Parent() (value string, present bool) {
	if f.ParentIDJSON.Set {
		return f.ParentIDJSON.Value, true
	}
	if f.ParentID != nil {
		return strings.TrimSpace(*f.ParentID), true
	}
	return "", false
}

// HasParent reports whether the form targets a subcategory.
func (f CategoryForm) HasParent() bool {
	value, _ := f.Parent()
	return value != "" && value != "null"
}

// CreateCommission translates the commission fields for creation. No rule is requested
// when the type is missing or none, or when the value is empty.
func (f CategoryForm) CreateCommission() (*category.CommissionRuleInput, error) {
	commissionType := entity.CommissionType(f.CommissionType)
	if commissionType == "" || commissionType == entity.CommissionTypeNone || f.CommissionValue.IsEmpty() {
		return nil, nil
	}
	return f.valuedCommission(commissionType)
}

// UpdateCommission translates the commission fields for an update. Type none, or a type
// with an empty value, removes the rule; a missing type leaves the rule untouched.
func (f CategoryForm) UpdateCommission() (*category.CommissionRuleInput, error) {
	commissionType := entity.CommissionType(f.CommissionType)
	switch {
	case commissionType == "":
		return nil, nil
	case commissionType == entity.CommissionTypeNone || f.CommissionValue.IsEmpty():
		return &category.CommissionRuleInput{RemoveRule: true, Status: f.CommissionStatus}, nil
	}
	return f.valuedCommission(commissionType)
}

func (f CategoryForm) valuedCommission(commissionType entity.CommissionType) (*category.CommissionRuleInput, error) {
	value, err := f.CommissionValue.Decimal()
	if err != nil {
		return nil, err
	}

	input := &category.CommissionRuleInput{Status: f.CommissionStatus}
	if commissionType == entity.CommissionTypePercentage {
		input.CategoryCommission = &value
	} else {
		input.FlatFee = &value
	}
	return input, nil
}

// CategoryListQuery represents the query parameters of the category listing.
type CategoryListQuery struct {
	ParentID string `form:"parentId"`
	Status   *bool  `form:"status"`
}

// GlobalCommissionRequest represents the request body for updating the global commission.
type GlobalCommissionRequest struct {
	GlobalCommission *float64 `json:"globalCommission" binding:"required,gte=0,lte=100"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ParentID    *string   `json:"parentId"`
	Status      bool      `json:"status"`
	IconURL     string    `json:"iconUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CommissionRuleResponse represents a commission rule in API responses.
// Amounts are decimal strings.
type CommissionRuleResponse struct {
	ID                 string    `json:"id"`
	CategoryID         *string   `json:"categoryId"`
	CommissionType     string    `json:"commissionType"`
	GlobalCommission   *string   `json:"globalCommission,omitempty"`
	FlatFee            *string   `json:"flatFee,omitempty"`
	CategoryCommission *string   `json:"categoryCommission,omitempty"`
	Status             bool      `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CategoryDetailsResponse represents a top-level category with its listing details.
type CategoryDetailsResponse struct {
	CategoryResponse
	SubCategoryCount int64                   `json:"subCategoryCount"`
	CommissionRule   *CommissionRuleResponse `json:"commissionRule"`
}

// TopLevelCategoryListResponse represents the top-level category listing.
type TopLevelCategoryListResponse struct {
	Categories []CategoryDetailsResponse `json:"categories"`
}

// SubcategoryListResponse represents the children of one category.
type SubcategoryListResponse struct {
	ParentID   string             `json:"parentId"`
	Categories []CategoryResponse `json:"categories"`
}

// CategoryFormResponse is the edit-form view of a single category.
type CategoryFormResponse struct {
	CategoryResponse
	SubCategories    []CategoryResponse `json:"subCategories"`
	CommissionType   string             `json:"commissionType"`
	CommissionValue  string             `json:"commissionValue"`
	CommissionStatus bool               `json:"commissionStatus"`
}

// CategoryMutationResponse represents the result of a create or update.
type CategoryMutationResponse struct {
	Message          string                  `json:"message"`
	Category         CategoryResponse        `json:"category"`
	CommissionRule   *CommissionRuleResponse `json:"commissionRule"`
	CommissionAction string                  `json:"commissionAction,omitempty"`
}

// DeleteCategoryResponse represents the result of a delete.
type DeleteCategoryResponse struct {
	Message  string           `json:"message"`
	Category CategoryResponse `json:"category"`
}

// GlobalCommissionResponse represents the global commission rule.
type GlobalCommissionResponse struct {
	Message string                 `json:"message,omitempty"`
	Rule    CommissionRuleResponse `json:"rule"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:          cat.ID.String(),
		Name:        cat.Name,
		Description: cat.Description,
		Status:      cat.Status,
		IconURL:     cat.IconURL,
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
	}
	if cat.ParentID != nil {
		parentID := cat.ParentID.String()
		resp.ParentID = &parentID
	}
	return resp
}

// ToCategoryResponses converts a slice of categories.
func ToCategoryResponses(categories []*entity.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, ToCategoryResponse(cat))
	}
	return responses
}

// ToCommissionRuleResponse converts a rule, returning nil for a nil rule.
func ToCommissionRuleResponse(rule *entity.CommissionRule) *CommissionRuleResponse {
	if rule == nil {
		return nil
	}
	resp := &CommissionRuleResponse{
		ID:                 rule.ID.String(),
		CommissionType:     string(rule.Type()),
		GlobalCommission:   decimalString(rule.GlobalCommission),
		FlatFee:            decimalString(rule.FlatFee),
		CategoryCommission: decimalString(rule.CategoryCommission),
		Status:             rule.Status,
		CreatedAt:          rule.CreatedAt,
		UpdatedAt:          rule.UpdatedAt,
	}
	if rule.CategoryID != nil {
		categoryID := rule.CategoryID.String()
		resp.CategoryID = &categoryID
	}
	return resp
}

// ToTopLevelCategoryListResponse converts the enriched top-level listing.
func ToTopLevelCategoryListResponse(details []*entity.CategoryWithDetails) TopLevelCategoryListResponse {
	categories := make([]CategoryDetailsResponse, 0, len(details))
	for _, d := range details {
		categories = append(categories, CategoryDetailsResponse{
			CategoryResponse: ToCategoryResponse(d.Category),
			SubCategoryCount: d.SubCategoryCount,
			CommissionRule:   ToCommissionRuleResponse(d.CommissionRule),
		})
	}
	return TopLevelCategoryListResponse{Categories: categories}
}

// ToCategoryFormResponse flattens a category and its rule into the edit-form view.
// Categories without a rule report type none, an empty value and an inactive status.
func ToCategoryFormResponse(output *category.GetCategoryOutput) CategoryFormResponse {
	resp := CategoryFormResponse{
		CategoryResponse: ToCategoryResponse(output.Category),
		SubCategories:    ToCategoryResponses(output.SubCategories),
		CommissionType:   string(entity.CommissionTypeNone),
	}
	if rule := output.CommissionRule; rule != nil {
		resp.CommissionType = string(rule.Type())
		if value := rule.Value(); value != nil {
			resp.CommissionValue = value.String()
		}
		resp.CommissionStatus = rule.Status
	}
	return resp
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
