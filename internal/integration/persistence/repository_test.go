package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	"github.com/quickmate/backend/internal/infra/db"
	"github.com/quickmate/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.NewInMemorySQLite()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(model.AllModels()...))
	return database.DB()
}

func TestCategoryRepository_NameScopeUniqueness(t *testing.T) {
	repo := NewCategoryRepository(newTestDB(t))
	ctx := context.Background()

	top := entity.NewCategory("Cleaning", "", nil, "")
	require.NoError(t, repo.Create(ctx, top))

	err := repo.Create(ctx, entity.NewCategory("Cleaning", "", nil, ""))
	assert.ErrorIs(t, err, adapter.ErrDuplicateKey)

	sub := entity.NewCategory("Cleaning", "", &top.ID, "")
	require.NoError(t, repo.Create(ctx, sub))

	err = repo.Create(ctx, entity.NewCategory("Cleaning", "", &top.ID, ""))
	assert.ErrorIs(t, err, adapter.ErrDuplicateKey)

	found, err := repo.FindByName(ctx, "Cleaning")
	require.NoError(t, err)
	assert.Equal(t, top.ID, found.ID)

	found, err = repo.FindByNameAndParent(ctx, "Cleaning", top.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, found.ID)

	found, err = repo.FindByNameAndParent(ctx, "Cleaning", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCategoryRepository_FindAllAndCount(t *testing.T) {
	repo := NewCategoryRepository(newTestDB(t))
	ctx := context.Background()

	parent := entity.NewCategory("Home", "", nil, "")
	other := entity.NewCategory("Auto", "", nil, "")
	inactive := entity.NewCategory("Painting", "", &parent.ID, "")
	inactive.Status = false
	for _, c := range []*entity.Category{parent, other, inactive, entity.NewCategory("Cleaning", "", &parent.ID, "")} {
		require.NoError(t, repo.Create(ctx, c))
	}

	top, err := repo.FindAll(ctx, adapter.CategoryFilter{TopLevelOnly: true})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Auto", top[0].Name)
	assert.Equal(t, "Home", top[1].Name)

	children, err := repo.FindAll(ctx, adapter.CategoryFilter{ParentID: &parent.ID})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Cleaning", children[0].Name)

	active := true
	activeChildren, err := repo.FindAll(ctx, adapter.CategoryFilter{ParentID: &parent.ID, Status: &active})
	require.NoError(t, err)
	assert.Len(t, activeChildren, 1)

	all, err := repo.FindAll(ctx, adapter.CategoryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	count, err := repo.CountSubcategories(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountSubcategories(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCategoryRepository_UpdateAndDelete(t *testing.T) {
	repo := NewCategoryRepository(newTestDB(t))
	ctx := context.Background()

	parent := entity.NewCategory("Home", "", nil, "")
	category := entity.NewCategory("Windows", "", nil, "")
	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.Create(ctx, category))

	category.ParentID = &parent.ID
	category.Status = false
	require.NoError(t, repo.Update(ctx, category))

	stored, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasParent(parent.ID))
	assert.False(t, stored.Status)

	// The top-level scope no longer holds the name.
	found, err := repo.FindByName(ctx, "Windows")
	require.NoError(t, err)
	assert.Nil(t, found)

	deleted, err := repo.Delete(ctx, category.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, category.ID, deleted.ID)

	deleted, err = repo.Delete(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestCommissionRuleRepository_OneRulePerScope(t *testing.T) {
	repo := NewCommissionRuleRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entity.NewGlobalCommissionRule(decimal.Zero)))
	err := repo.Create(ctx, entity.NewGlobalCommissionRule(decimal.NewFromInt(3)))
	assert.ErrorIs(t, err, adapter.ErrDuplicateKey)

	categoryID := uuid.New()
	fee := decimal.RequireFromString("12.50")
	require.NoError(t, repo.Create(ctx, entity.NewCategoryCommissionRule(categoryID, &fee, nil, true)))
	err = repo.Create(ctx, entity.NewCategoryCommissionRule(categoryID, &fee, nil, true))
	assert.ErrorIs(t, err, adapter.ErrDuplicateKey)

	rule, err := repo.FindByCategoryID(ctx, categoryID)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.True(t, rule.FlatFee.Equal(fee))
	assert.Nil(t, rule.CategoryCommission)

	global, err := repo.FindGlobalRule(ctx)
	require.NoError(t, err)
	require.NotNil(t, global)
	assert.True(t, global.IsGlobal())
}

func TestCommissionRuleRepository_UpdateAndDelete(t *testing.T) {
	repo := NewCommissionRuleRepository(newTestDB(t))
	ctx := context.Background()

	pct := decimal.NewFromInt(10)
	rule := entity.NewCategoryCommissionRule(uuid.New(), nil, &pct, true)
	require.NoError(t, repo.Create(ctx, rule))

	fee := decimal.NewFromInt(99)
	rule.CategoryCommission = nil
	rule.FlatFee = &fee
	rule.Status = false
	require.NoError(t, repo.Update(ctx, rule))

	stored, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryCommission)
	assert.True(t, stored.FlatFee.Equal(fee))
	assert.False(t, stored.Status)

	deleted, err := repo.Delete(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, deleted.ID)

	missing, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err = repo.Delete(ctx, rule.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := entity.NewUser("Ana", "ana@quickmate.io", "hash", entity.RoleAdmin)
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, entity.NewUser("Other", "ana@quickmate.io", "hash", ""))
	assert.ErrorIs(t, err, adapter.ErrDuplicateKey)

	exists, err := repo.ExistsByEmail(ctx, "ana@quickmate.io")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, found.Role)

	missing, err := repo.FindByEmail(ctx, "ghost@quickmate.io")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTransactor_RollsBackBothWrites(t *testing.T) {
	gormDB := newTestDB(t)
	categories := NewCategoryRepository(gormDB)
	rules := NewCommissionRuleRepository(gormDB)
	ctx := context.Background()

	category := entity.NewCategory("Rollback", "", nil, "")
	pct := decimal.NewFromInt(1)
	boom := errors.New("boom")

	err := NewTransactor(gormDB).WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, categories.Create(ctx, category))
		require.NoError(t, rules.Create(ctx, entity.NewCategoryCommissionRule(category.ID, nil, &pct, true)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := categories.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	rule, err := rules.FindByCategoryID(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, rule)
}
