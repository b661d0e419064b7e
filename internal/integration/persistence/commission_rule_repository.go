package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	"github.com/quickmate/backend/internal/integration/persistence/model"
)

type commissionRuleRepository struct {
	db *gorm.DB
}

// NewCommissionRuleRepository creates a new commission rule repository instance.
func NewCommissionRuleRepository(db *gorm.DB) adapter.CommissionRuleRepository {
	return &commissionRuleRepository{db: db}
}

func (r *commissionRuleRepository) Create(ctx context.Context, rule *entity.CommissionRule) error {
	return translateError(conn(ctx, r.db).Create(model.CommissionRuleFromEntity(rule)).Error)
}

func (r *commissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CommissionRule, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *commissionRuleRepository) FindByCategoryID(ctx context.Context, categoryID uuid.UUID) (*entity.CommissionRule, error) {
	return r.first(ctx, "scope = ?", model.RuleScope(&categoryID))
}

// FindGlobalRule retrieves the rule without a category.
func (r *commissionRuleRepository) FindGlobalRule(ctx context.Context) (*entity.CommissionRule, error) {
	return r.first(ctx, "scope = ?", model.GlobalScope)
}

func (r *commissionRuleRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.CommissionRule, error) {
	var ruleModel model.CommissionRuleModel
	result := conn(ctx, r.db).Where(query, args...).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindAll retrieves rules matching the filter, global rule first.
func (r *commissionRuleRepository) FindAll(ctx context.Context, filter adapter.CommissionRuleFilter) ([]*entity.CommissionRule, error) {
	query := conn(ctx, r.db)
	switch filter.Scope {
	case adapter.CommissionRuleScopeGlobal:
		query = query.Where("scope = ?", model.GlobalScope)
	case adapter.CommissionRuleScopeCategory:
		query = query.Where("scope <> ?", model.GlobalScope)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var ruleModels []model.CommissionRuleModel
	if err := query.Order("category_id IS NOT NULL, created_at ASC").Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]*entity.CommissionRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToEntity()
	}
	return rules, nil
}

func (r *commissionRuleRepository) Update(ctx context.Context, rule *entity.CommissionRule) error {
	return translateError(conn(ctx, r.db).Save(model.CommissionRuleFromEntity(rule)).Error)
}

func (r *commissionRuleRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.CommissionRule, error) {
	var ruleModel model.CommissionRuleModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	if err := conn(ctx, r.db).Delete(&model.CommissionRuleModel{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return ruleModel.ToEntity(), nil
}
