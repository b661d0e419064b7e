package commission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

// GetCommissionRuleInput represents the input for fetching a rule.
type GetCommissionRuleInput struct {
	RuleID uuid.UUID
}

// GetCommissionRuleOutput represents a single rule.
type GetCommissionRuleOutput struct {
	Rule *entity.CommissionRule
}

// GetCommissionRuleUseCase fetches a commission rule by id.
type GetCommissionRuleUseCase struct {
	ruleRepo adapter.CommissionRuleRepository
}

// NewGetCommissionRuleUseCase creates a new GetCommissionRuleUseCase instance.
func NewGetCommissionRuleUseCase(ruleRepo adapter.CommissionRuleRepository) *GetCommissionRuleUseCase {
	return &GetCommissionRuleUseCase{ruleRepo: ruleRepo}
}

// Execute fetches the rule.
func (uc *GetCommissionRuleUseCase) Execute(ctx context.Context, input GetCommissionRuleInput) (*GetCommissionRuleOutput, error) {
	rule, err := uc.ruleRepo.FindByID(ctx, input.RuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find commission rule: %w", err)
	}
	if rule == nil {
		return nil, domainerror.NewCommissionError(
			domainerror.ErrCodeCommissionRuleNotFound,
			"commission rule not found",
			domainerror.ErrCommissionRuleNotFound,
		)
	}
	return &GetCommissionRuleOutput{Rule: rule}, nil
}
