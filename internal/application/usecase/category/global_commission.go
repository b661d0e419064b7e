package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

// GlobalCommissionOutput represents the platform-wide commission rule.
type GlobalCommissionOutput struct {
	Rule *entity.CommissionRule
}

// ensureGlobalRule returns the global rule, creating it at 0% when absent.
// A concurrent creator wins through the storage uniqueness constraint and its rule is re-read.
func ensureGlobalRule(ctx context.Context, ruleRepo adapter.CommissionRuleRepository) (*entity.CommissionRule, error) {
	rule, err := ruleRepo.FindGlobalRule(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find global commission rule: %w", err)
	}
	if rule != nil {
		return rule, nil
	}

	rule = entity.NewGlobalCommissionRule(decimal.Zero)
	if err := ruleRepo.Create(ctx, rule); err != nil {
		if !errors.Is(err, adapter.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to create global commission rule: %w", err)
		}
		rule, err = ruleRepo.FindGlobalRule(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to find global commission rule: %w", err)
		}
		if rule == nil {
			return nil, errors.New("global commission rule vanished after concurrent creation")
		}
		return rule, nil
	}

	slog.Info("Global commission rule initialized", "ruleID", rule.ID)
	return rule, nil
}

// GetGlobalCommissionUseCase returns the global commission rule.
type GetGlobalCommissionUseCase struct {
	ruleRepo adapter.CommissionRuleRepository
}

// NewGetGlobalCommissionUseCase creates a new GetGlobalCommissionUseCase instance.
func NewGetGlobalCommissionUseCase(ruleRepo adapter.CommissionRuleRepository) *GetGlobalCommissionUseCase {
	return &GetGlobalCommissionUseCase{ruleRepo: ruleRepo}
}

// Execute returns the global rule, creating it on first access.
func (uc *GetGlobalCommissionUseCase) Execute(ctx context.Context) (*GlobalCommissionOutput, error) {
	rule, err := ensureGlobalRule(ctx, uc.ruleRepo)
	if err != nil {
		return nil, err
	}
	return &GlobalCommissionOutput{Rule: rule}, nil
}

// UpdateGlobalCommissionInput represents the new global percentage.
type UpdateGlobalCommissionInput struct {
	Percentage decimal.Decimal
}

// UpdateGlobalCommissionUseCase sets the global commission percentage.
type UpdateGlobalCommissionUseCase struct {
	ruleRepo adapter.CommissionRuleRepository
}

// NewUpdateGlobalCommissionUseCase creates a new UpdateGlobalCommissionUseCase instance.
func NewUpdateGlobalCommissionUseCase(ruleRepo adapter.CommissionRuleRepository) *UpdateGlobalCommissionUseCase {
	return &UpdateGlobalCommissionUseCase{ruleRepo: ruleRepo}
}

// Execute updates the global percentage. Only GlobalCommission changes.
func (uc *UpdateGlobalCommissionUseCase) Execute(ctx context.Context, input UpdateGlobalCommissionInput) (*GlobalCommissionOutput, error) {
	rule, err := ensureGlobalRule(ctx, uc.ruleRepo)
	if err != nil {
		return nil, err
	}

	percentage := input.Percentage
	rule.GlobalCommission = &percentage
	if fields := rule.Validate(); len(fields) > 0 {
		return nil, domainerror.NewInvalidCommissionRuleError(fields)
	}
	rule.UpdatedAt = time.Now().UTC()

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update global commission rule: %w", err)
	}

	slog.Info("Global commission updated", "percentage", percentage.String())

	return &GlobalCommissionOutput{Rule: rule}, nil
}
