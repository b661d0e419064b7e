package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/quickmate/backend/internal/domain/error"
)

func TestListTopLevelCategories_Details(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cleaning := s.mustCreate(t, "Cleaning", nil, percentage("10"))
	s.mustCreate(t, "Deep clean", &cleaning.Category.ID, nil)
	s.mustCreate(t, "Carpets", &cleaning.Category.ID, nil)
	s.mustCreate(t, "Assembly", nil, nil)

	out, err := s.listTop.Execute(ctx, ListTopLevelCategoriesInput{})
	require.NoError(t, err)
	require.Len(t, out.Categories, 2)

	// Ordered by name.
	assembly, cleaningDetails := out.Categories[0], out.Categories[1]
	assert.Equal(t, "Assembly", assembly.Category.Name)
	assert.Zero(t, assembly.SubCategoryCount)
	assert.Nil(t, assembly.CommissionRule)

	assert.Equal(t, "Cleaning", cleaningDetails.Category.Name)
	assert.Equal(t, int64(2), cleaningDetails.SubCategoryCount)
	require.NotNil(t, cleaningDetails.CommissionRule)
	assert.Equal(t, "10", cleaningDetails.CommissionRule.CategoryCommission.String())
}

func TestListTopLevelCategories_Empty(t *testing.T) {
	s := newTestStore(t)

	out, err := s.listTop.Execute(context.Background(), ListTopLevelCategoriesInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Categories)
}

func TestListCategories_StatusFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	inactive := false
	active := true

	garden := s.mustCreate(t, "Garden", nil, nil)
	_, err := s.create.Execute(ctx, CreateCategoryInput{Name: "Pools", Status: &inactive})
	require.NoError(t, err)
	s.mustCreate(t, "Mowing", &garden.Category.ID, nil)
	_, err = s.create.Execute(ctx, CreateCategoryInput{Name: "Hedges", ParentID: &garden.Category.ID, Status: &inactive})
	require.NoError(t, err)

	top, err := s.listTop.Execute(ctx, ListTopLevelCategoriesInput{Status: &inactive})
	require.NoError(t, err)
	require.Len(t, top.Categories, 1)
	assert.Equal(t, "Pools", top.Categories[0].Category.Name)

	top, err = s.listTop.Execute(ctx, ListTopLevelCategoriesInput{Status: &active})
	require.NoError(t, err)
	require.Len(t, top.Categories, 1)
	assert.Equal(t, "Garden", top.Categories[0].Category.Name)
	// The count covers every child whatever its status.
	assert.Equal(t, int64(2), top.Categories[0].SubCategoryCount)

	subs, err := s.listSub.Execute(ctx, ListSubcategoriesInput{ParentID: garden.Category.ID, Status: &active})
	require.NoError(t, err)
	require.Len(t, subs.Categories, 1)
	assert.Equal(t, "Mowing", subs.Categories[0].Name)
}

func TestListSubcategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := s.mustCreate(t, "Auto", nil, nil)
	other := s.mustCreate(t, "Pets", nil, nil)
	s.mustCreate(t, "Tyres", &parent.Category.ID, nil)
	s.mustCreate(t, "Detailing", &parent.Category.ID, nil)
	s.mustCreate(t, "Grooming", &other.Category.ID, nil)

	out, err := s.listSub.Execute(ctx, ListSubcategoriesInput{ParentID: parent.Category.ID})
	require.NoError(t, err)
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Detailing", out.Categories[0].Name)
	assert.Equal(t, "Tyres", out.Categories[1].Name)

	out, err = s.listSub.Execute(ctx, ListSubcategoriesInput{ParentID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, out.Categories)
}

func TestGetCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := s.mustCreate(t, "Music", nil, flatFee("40"))
	child := s.mustCreate(t, "Guitar", &parent.Category.ID, nil)

	top, err := s.get.Execute(ctx, GetCategoryInput{CategoryID: parent.Category.ID})
	require.NoError(t, err)
	require.NotNil(t, top.CommissionRule)
	assert.Equal(t, "40", top.CommissionRule.FlatFee.String())
	require.Len(t, top.SubCategories, 1)
	assert.Equal(t, child.Category.ID, top.SubCategories[0].ID)

	sub, err := s.get.Execute(ctx, GetCategoryInput{CategoryID: child.Category.ID})
	require.NoError(t, err)
	assert.Nil(t, sub.CommissionRule)
	assert.Empty(t, sub.SubCategories)

	_, err = s.get.Execute(ctx, GetCategoryInput{CategoryID: uuid.New()})
	requireCategoryCode(t, err, domainerror.ErrCodeCategoryNotFound)
}
