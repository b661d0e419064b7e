package dto

import "github.com/quickmate/backend/internal/domain/entity"

// CommissionRuleListQuery represents the query parameters of the rule listing.
type CommissionRuleListQuery struct {
	Scope  string `form:"scope" binding:"omitempty,oneof=global category"`
	Status *bool  `form:"status"`
}

// CommissionRuleListResponse represents a list of commission rules.
type CommissionRuleListResponse struct {
	Rules []CommissionRuleResponse `json:"rules"`
}

// ToCommissionRuleListResponse converts a slice of rules.
func ToCommissionRuleListResponse(rules []*entity.CommissionRule) CommissionRuleListResponse {
	responses := make([]CommissionRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, *ToCommissionRuleResponse(rule))
	}
	return CommissionRuleListResponse{Rules: responses}
}
