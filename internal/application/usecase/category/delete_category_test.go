package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/quickmate/backend/internal/domain/error"
)

func TestDeleteCategory_BlockedBySubcategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := s.mustCreate(t, "Events", nil, percentage("6"))
	child := s.mustCreate(t, "Catering", &parent.Category.ID, nil)

	_, err := s.remove.Execute(ctx, DeleteCategoryInput{CategoryID: parent.Category.ID})
	requireCategoryCode(t, err, domainerror.ErrCodeCategoryHasSubcategories)
	assert.NotNil(t, ruleOf(t, s, parent.Category.ID))

	// Once the child is gone the parent goes too, taking its rule along.
	_, err = s.remove.Execute(ctx, DeleteCategoryInput{CategoryID: child.Category.ID})
	require.NoError(t, err)

	out, err := s.remove.Execute(ctx, DeleteCategoryInput{CategoryID: parent.Category.ID})
	require.NoError(t, err)
	assert.Equal(t, parent.Category.ID, out.Category.ID)
	assert.Nil(t, ruleOf(t, s, parent.Category.ID))

	stored, err := s.categories.FindByID(ctx, parent.Category.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteCategory_SubcategoryLeavesRulesAlone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := s.mustCreate(t, "Fitness", nil, flatFee("15"))
	child := s.mustCreate(t, "Yoga", &parent.Category.ID, nil)
	_, err := s.getGlobal.Execute(ctx)
	require.NoError(t, err)

	_, err = s.remove.Execute(ctx, DeleteCategoryInput{CategoryID: child.Category.ID})
	require.NoError(t, err)

	assert.NotNil(t, ruleOf(t, s, parent.Category.ID))
	global, err := s.rules.FindGlobalRule(ctx)
	require.NoError(t, err)
	assert.NotNil(t, global)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.remove.Execute(context.Background(), DeleteCategoryInput{CategoryID: uuid.New()})
	requireCategoryCode(t, err, domainerror.ErrCodeCategoryNotFound)
}
