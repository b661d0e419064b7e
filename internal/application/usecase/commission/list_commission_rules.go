// Package commission contains read-only commission rule use cases.
package commission

import (
	"context"
	"fmt"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
)

// ListCommissionRulesInput represents the listing filter.
type ListCommissionRulesInput struct {
	Scope  adapter.CommissionRuleScope
	Status *bool
}

// ListCommissionRulesOutput represents the matching rules.
type ListCommissionRulesOutput struct {
	Rules []*entity.CommissionRule
}

// ListCommissionRulesUseCase lists commission rules.
type ListCommissionRulesUseCase struct {
	ruleRepo adapter.CommissionRuleRepository
}

// NewListCommissionRulesUseCase creates a new ListCommissionRulesUseCase instance.
func NewListCommissionRulesUseCase(ruleRepo adapter.CommissionRuleRepository) *ListCommissionRulesUseCase {
	return &ListCommissionRulesUseCase{ruleRepo: ruleRepo}
}

// Execute lists the rules matching the input.
func (uc *ListCommissionRulesUseCase) Execute(ctx context.Context, input ListCommissionRulesInput) (*ListCommissionRulesOutput, error) {
	rules, err := uc.ruleRepo.FindAll(ctx, adapter.CommissionRuleFilter{
		Scope:  input.Scope,
		Status: input.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rules: %w", err)
	}
	return &ListCommissionRulesOutput{Rules: rules}, nil
}
