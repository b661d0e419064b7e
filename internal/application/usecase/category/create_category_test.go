package category

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/quickmate/backend/internal/domain/error"
)

func TestCreateCategory_TopLevelWithCommission(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	commission := percentage("10")
	commission.Status = boolPtr(true)
	created, err := s.create.Execute(ctx, CreateCategoryInput{
		Name:       "Cleaning",
		Status:     boolPtr(true),
		Commission: commission,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CommissionRule)

	got, err := s.get.Execute(ctx, GetCategoryInput{CategoryID: created.Category.ID})
	require.NoError(t, err)
	assert.Equal(t, "Cleaning", got.Category.Name)
	require.NotNil(t, got.CommissionRule)
	require.NotNil(t, got.CommissionRule.CategoryCommission)
	assert.Equal(t, "10", got.CommissionRule.CategoryCommission.String())
	assert.Nil(t, got.CommissionRule.FlatFee)
	assert.True(t, got.CommissionRule.Status)
	assert.Equal(t, created.Category.ID, *got.CommissionRule.CategoryID)
}

func TestCreateCategory_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.create.Execute(ctx, CreateCategoryInput{Name: "  Gardening  ", Description: " Lawns "})
	require.NoError(t, err)
	assert.Equal(t, "Gardening", created.Category.Name)
	assert.Equal(t, "Lawns", created.Category.Description)
	assert.True(t, created.Category.Status)
	assert.Nil(t, created.CommissionRule)
	assert.Nil(t, ruleOf(t, s, created.Category.ID))
}

func TestCreateCategory_InactiveStatusIsStored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.create.Execute(ctx, CreateCategoryInput{Name: "Painting", Status: boolPtr(false)})
	require.NoError(t, err)

	stored, err := s.categories.FindByID(ctx, created.Category.ID)
	require.NoError(t, err)
	assert.False(t, stored.Status)
}

func TestCreateCategory_NameScopes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	top := s.mustCreate(t, "A", nil, nil)

	// Same name under its own parent is a different scope.
	sub := s.mustCreate(t, "A", &top.Category.ID, nil)
	assert.True(t, sub.Category.HasParent(top.Category.ID))

	_, err := s.create.Execute(ctx, CreateCategoryInput{Name: "A"})
	requireCategoryCode(t, err, domainerror.ErrCodeCategoryNameExists)

	_, err = s.create.Execute(ctx, CreateCategoryInput{Name: "A", ParentID: &top.Category.ID})
	requireCategoryCode(t, err, domainerror.ErrCodeSubcategoryNameExists)

	other := s.mustCreate(t, "B", nil, nil)
	s.mustCreate(t, "A", &other.Category.ID, nil)
}

func TestCreateCategory_ParentNotFound(t *testing.T) {
	s := newTestStore(t)

	missing := uuid.New()
	_, err := s.create.Execute(context.Background(), CreateCategoryInput{Name: "Orphan", ParentID: &missing})
	requireCategoryCode(t, err, domainerror.ErrCodeParentCategoryNotFound)
}

func TestCreateCategory_SubcategoryIgnoresCommission(t *testing.T) {
	s := newTestStore(t)

	top := s.mustCreate(t, "Electrical", nil, nil)
	sub := s.mustCreate(t, "Wiring", &top.Category.ID, flatFee("50"))

	assert.Nil(t, sub.CommissionRule)
	assert.Nil(t, ruleOf(t, s, sub.Category.ID))
}

func TestCreateCategory_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateCategoryInput
		field string
	}{
		{name: "blank name", input: CreateCategoryInput{Name: "   "}, field: "name"},
		{name: "short name", input: CreateCategoryInput{Name: "X"}, field: "name"},
		{name: "long name", input: CreateCategoryInput{Name: strings.Repeat("n", 101)}, field: "name"},
		{name: "long description", input: CreateCategoryInput{Name: "Valid", Description: strings.Repeat("d", 501)}, field: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.create.Execute(ctx, tt.input)
			requireCategoryCode(t, err, domainerror.ErrCodeInvalidCategory)

			catErr := err.(*domainerror.CategoryError)
			require.Len(t, catErr.Fields, 1)
			assert.Equal(t, tt.field, catErr.Fields[0].Field)
		})
	}
}

func TestCreateCategory_InvalidCommissionWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	both := percentage("5")
	both.FlatFee = flatFee("5").FlatFee

	tests := []struct {
		name       string
		commission *CommissionRuleInput
	}{
		{name: "percentage above 100", commission: percentage("150")},
		{name: "negative flat fee", commission: flatFee("-1")},
		{name: "both values", commission: both},
		{name: "no value", commission: &CommissionRuleInput{Status: boolPtr(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.create.Execute(ctx, CreateCategoryInput{Name: "Roofing", Commission: tt.commission})
			requireCommissionCode(t, err, domainerror.ErrCodeInvalidCommissionRule)

			existing, err := s.categories.FindByName(ctx, "Roofing")
			require.NoError(t, err)
			assert.Nil(t, existing)
		})
	}
}

func TestCreateCategory_RemoveRuleInputCreatesNoRule(t *testing.T) {
	s := newTestStore(t)

	created := s.mustCreate(t, "Moving", nil, &CommissionRuleInput{RemoveRule: true})
	assert.Nil(t, created.CommissionRule)
	assert.Nil(t, ruleOf(t, s, created.Category.ID))
}
