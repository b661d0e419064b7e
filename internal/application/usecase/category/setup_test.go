package category

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
	"github.com/quickmate/backend/internal/infra/db"
	"github.com/quickmate/backend/internal/integration/persistence"
	"github.com/quickmate/backend/internal/integration/persistence/model"
)

// testStore wires every category use case against a fresh in-memory database.
type testStore struct {
	categories adapter.CategoryRepository
	rules      adapter.CommissionRuleRepository

	create    *CreateCategoryUseCase
	update    *UpdateCategoryUseCase
	get       *GetCategoryUseCase
	listTop   *ListTopLevelCategoriesUseCase
	listSub   *ListSubcategoriesUseCase
	remove    *DeleteCategoryUseCase
	getGlobal *GetGlobalCommissionUseCase
	setGlobal *UpdateGlobalCommissionUseCase
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	database, err := db.NewInMemorySQLite()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(model.AllModels()...))

	categories := persistence.NewCategoryRepository(database.DB())
	rules := persistence.NewCommissionRuleRepository(database.DB())
	transactor := persistence.NewTransactor(database.DB())

	return &testStore{
		categories: categories,
		rules:      rules,
		create:     NewCreateCategoryUseCase(categories, rules, transactor),
		update:     NewUpdateCategoryUseCase(categories, rules, transactor),
		get:        NewGetCategoryUseCase(categories, rules),
		listTop:    NewListTopLevelCategoriesUseCase(categories, rules),
		listSub:    NewListSubcategoriesUseCase(categories),
		remove:     NewDeleteCategoryUseCase(categories, rules, transactor),
		getGlobal:  NewGetGlobalCommissionUseCase(rules),
		setGlobal:  NewUpdateGlobalCommissionUseCase(rules),
	}
}

func (s *testStore) mustCreate(t *testing.T, name string, parentID *uuid.UUID, commission *CommissionRuleInput) *CreateCategoryOutput {
	t.Helper()
	out, err := s.create.Execute(context.Background(), CreateCategoryInput{
		Name:       name,
		ParentID:   parentID,
		Commission: commission,
	})
	require.NoError(t, err)
	return out
}

func percentage(v string) *CommissionRuleInput {
	d := decimal.RequireFromString(v)
	return &CommissionRuleInput{CategoryCommission: &d}
}

func flatFee(v string) *CommissionRuleInput {
	d := decimal.RequireFromString(v)
	return &CommissionRuleInput{FlatFee: &d}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func requireCategoryCode(t *testing.T, err error, code domainerror.CategoryErrorCode) {
	t.Helper()
	var catErr *domainerror.CategoryError
	require.True(t, errors.As(err, &catErr), "expected CategoryError, got %v", err)
	require.Equal(t, code, catErr.Code)
}

func requireCommissionCode(t *testing.T, err error, code domainerror.CommissionErrorCode) {
	t.Helper()
	var comErr *domainerror.CommissionError
	require.True(t, errors.As(err, &comErr), "expected CommissionError, got %v", err)
	require.Equal(t, code, comErr.Code)
}

func ruleOf(t *testing.T, s *testStore, categoryID uuid.UUID) *entity.CommissionRule {
	t.Helper()
	rule, err := s.rules.FindByCategoryID(context.Background(), categoryID)
	require.NoError(t, err)
	return rule
}
