package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/domain/entity"
)

// CommissionRuleScope selects which rules a listing returns.
type CommissionRuleScope string

const (
	CommissionRuleScopeAll      CommissionRuleScope = ""
	CommissionRuleScopeGlobal   CommissionRuleScope = "global"
	CommissionRuleScopeCategory CommissionRuleScope = "category"
)

// CommissionRuleFilter narrows commission rule listings.
type CommissionRuleFilter struct {
	Scope  CommissionRuleScope
	Status *bool
}

// CommissionRuleRepository defines the interface for commission rule persistence operations.
// Lookups return (nil, nil) when nothing matches.
type CommissionRuleRepository interface {
	Create(ctx context.Context, rule *entity.CommissionRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CommissionRule, error)
	FindByCategoryID(ctx context.Context, categoryID uuid.UUID) (*entity.CommissionRule, error)
	FindGlobalRule(ctx context.Context) (*entity.CommissionRule, error)
	FindAll(ctx context.Context, filter CommissionRuleFilter) ([]*entity.CommissionRule, error)
	Update(ctx context.Context, rule *entity.CommissionRule) error

	// Delete removes a rule and returns what was removed, or nil if nothing matched.
	Delete(ctx context.Context, id uuid.UUID) (*entity.CommissionRule, error)
}
