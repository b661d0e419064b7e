package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
)

var duplicateKeyResponse = mtest.CreateWriteErrorsResponse(mtest.WriteError{
	Index:   0,
	Code:    11000,
	Message: "E11000 duplicate key error",
})

func namespace(mt *mtest.T, collection string) string {
	return mt.DB.Name() + "." + collection
}

// asBSON encodes a stored document the way the server would return it.
func asBSON(mt *mtest.T, v any) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(mt, err)
	var doc bson.D
	require.NoError(mt, bson.Unmarshal(raw, &doc))
	return doc
}

func countResponse(mt *mtest.T, collection string, n int64) bson.D {
	return mtest.CreateCursorResponse(0, namespace(mt, collection), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func TestCategoryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by id returns nil when missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, categoriesCollection), mtest.FirstBatch))

		got, err := NewCategoryRepository(mt.DB).FindByID(ctx, uuid.New())
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("find by name decodes a top-level category", func(mt *mtest.T) {
		stored := entity.NewCategory("Cleaning", "Home cleaning", nil, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, categoriesCollection), mtest.FirstBatch,
			asBSON(mt, newCategoryDocument(stored))))

		got, err := NewCategoryRepository(mt.DB).FindByName(ctx, "Cleaning")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, stored.ID, got.ID)
		assert.Equal(mt, "Home cleaning", got.Description)
		assert.True(mt, got.IsTopLevel())

		filter := mt.GetStartedEvent().Command.Lookup("filter")
		assert.Equal(mt, "Cleaning", filter.Document().Lookup("name").StringValue())
		assert.Equal(mt, rootScope, filter.Document().Lookup("parentScope").StringValue())
	})

	mt.Run("find by name and parent scopes to the parent", func(mt *mtest.T) {
		parentID := uuid.New()
		stored := entity.NewCategory("Windows", "", &parentID, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, categoriesCollection), mtest.FirstBatch,
			asBSON(mt, newCategoryDocument(stored))))

		got, err := NewCategoryRepository(mt.DB).FindByNameAndParent(ctx, "Windows", parentID)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.True(mt, got.HasParent(parentID))

		filter := mt.GetStartedEvent().Command.Lookup("filter")
		assert.Equal(mt, parentID.String(), filter.Document().Lookup("parentScope").StringValue())
	})

	mt.Run("find all filters top level by status and sorts by name", func(mt *mtest.T) {
		first := entity.NewCategory("Assembly", "", nil, "")
		second := entity.NewCategory("Cleaning", "", nil, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, categoriesCollection), mtest.FirstBatch,
			asBSON(mt, newCategoryDocument(first)),
			asBSON(mt, newCategoryDocument(second)),
		))

		active := true
		got, err := NewCategoryRepository(mt.DB).FindAll(ctx, adapter.CategoryFilter{TopLevelOnly: true, Status: &active})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "Assembly", got[0].Name)
		assert.Equal(mt, "Cleaning", got[1].Name)

		command := mt.GetStartedEvent().Command
		assert.Equal(mt, rootScope, command.Lookup("filter", "parentScope").StringValue())
		assert.True(mt, command.Lookup("filter", "status").Boolean())
		assert.Equal(mt, int64(1), command.Lookup("sort", "name").AsInt64())
	})

	mt.Run("create maps duplicate keys", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKeyResponse)

		err := NewCategoryRepository(mt.DB).Create(ctx, entity.NewCategory("Cleaning", "", nil, ""))
		assert.ErrorIs(mt, err, adapter.ErrDuplicateKey)
	})

	mt.Run("create stores the parent scope", func(mt *mtest.T) {
		parentID := uuid.New()
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewCategoryRepository(mt.DB).Create(ctx, entity.NewCategory("Windows", "", &parentID, ""))
		require.NoError(mt, err)

		inserted := mt.GetStartedEvent().Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, parentID.String(), inserted.Lookup("parentId").StringValue())
		assert.Equal(mt, parentID.String(), inserted.Lookup("parentScope").StringValue())
	})

	mt.Run("update maps duplicate keys", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKeyResponse)

		err := NewCategoryRepository(mt.DB).Update(ctx, entity.NewCategory("Cleaning", "", nil, ""))
		assert.ErrorIs(mt, err, adapter.ErrDuplicateKey)
	})

	mt.Run("delete returns nil when missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		got, err := NewCategoryRepository(mt.DB).Delete(ctx, uuid.New())
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("delete returns the removed category", func(mt *mtest.T) {
		stored := entity.NewCategory("Cleaning", "", nil, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asBSON(mt, newCategoryDocument(stored))}))

		got, err := NewCategoryRepository(mt.DB).Delete(ctx, stored.ID)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, stored.ID, got.ID)
	})

	mt.Run("count subcategories", func(mt *mtest.T) {
		mt.AddMockResponses(countResponse(mt, categoriesCollection, 3))

		count, err := NewCategoryRepository(mt.DB).CountSubcategories(ctx, uuid.New())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), count)
	})
}

func TestCommissionRuleRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	storedDocument := func(mt *mtest.T, rule *entity.CommissionRule) bson.D {
		doc, err := newCommissionRuleDocument(rule)
		require.NoError(mt, err)
		return asBSON(mt, doc)
	}

	mt.Run("find global rule decodes decimal128 amounts", func(mt *mtest.T) {
		stored := entity.NewGlobalCommissionRule(decimal.RequireFromString("12.5"))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, commissionRulesCollection), mtest.FirstBatch,
			storedDocument(mt, stored)))

		got, err := NewCommissionRuleRepository(mt.DB).FindGlobalRule(ctx)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.True(mt, got.IsGlobal())
		assert.Equal(mt, "12.5", got.GlobalCommission.String())
		assert.Nil(mt, got.FlatFee)
		assert.Nil(mt, got.CategoryCommission)

		assert.Equal(mt, globalScope, mt.GetStartedEvent().Command.Lookup("filter", "scope").StringValue())
	})

	mt.Run("find by category id returns nil when missing", func(mt *mtest.T) {
		categoryID := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, commissionRulesCollection), mtest.FirstBatch))

		got, err := NewCommissionRuleRepository(mt.DB).FindByCategoryID(ctx, categoryID)
		require.NoError(mt, err)
		assert.Nil(mt, got)

		assert.Equal(mt, categoryID.String(), mt.GetStartedEvent().Command.Lookup("filter", "scope").StringValue())
	})

	mt.Run("find all category rules", func(mt *mtest.T) {
		flat := entity.NewCategoryCommissionRule(uuid.New(), decimalPtr("25.50"), nil, true)
		percent := entity.NewCategoryCommissionRule(uuid.New(), nil, decimalPtr("10"), true)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, commissionRulesCollection), mtest.FirstBatch,
			storedDocument(mt, flat),
			storedDocument(mt, percent),
		))

		got, err := NewCommissionRuleRepository(mt.DB).FindAll(ctx, adapter.CommissionRuleFilter{Scope: adapter.CommissionRuleScopeCategory})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, entity.CommissionTypeFlat, got[0].Type())
		assert.True(mt, decimal.RequireFromString("25.50").Equal(*got[0].FlatFee))
		assert.Equal(mt, entity.CommissionTypePercentage, got[1].Type())

		command := mt.GetStartedEvent().Command
		assert.Equal(mt, globalScope, command.Lookup("filter", "scope", "$ne").StringValue())
		sortKeys, err := command.Lookup("sort").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, sortKeys, 2)
		assert.Equal(mt, "categoryId", sortKeys[0].Key())
		assert.Equal(mt, "createdAt", sortKeys[1].Key())
	})

	mt.Run("a second rule for a scope is a duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKeyResponse)

		err := NewCommissionRuleRepository(mt.DB).Create(ctx, entity.NewGlobalCommissionRule(decimal.Zero))
		assert.ErrorIs(mt, err, adapter.ErrDuplicateKey)
	})

	mt.Run("update replaces by id", func(mt *mtest.T) {
		rule := entity.NewCategoryCommissionRule(uuid.New(), nil, decimalPtr("5"), false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		require.NoError(mt, NewCommissionRuleRepository(mt.DB).Update(ctx, rule))

		update := mt.GetStartedEvent().Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.Equal(mt, rule.ID.String(), update.Lookup("q", "_id").StringValue())
		assert.Equal(mt, rule.CategoryID.String(), update.Lookup("u", "scope").StringValue())
	})

	mt.Run("delete returns nil when missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		got, err := NewCommissionRuleRepository(mt.DB).Delete(ctx, uuid.New())
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by email returns nil when missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, usersCollection), mtest.FirstBatch))

		got, err := NewUserRepository(mt.DB).FindByEmail(ctx, "nobody@quickmate.io")
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("exists by email", func(mt *mtest.T) {
		mt.AddMockResponses(
			countResponse(mt, usersCollection, 1),
			mtest.CreateCursorResponse(0, namespace(mt, usersCollection), mtest.FirstBatch),
		)
		repo := NewUserRepository(mt.DB)

		exists, err := repo.ExistsByEmail(ctx, "admin@quickmate.io")
		require.NoError(mt, err)
		assert.True(mt, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@quickmate.io")
		require.NoError(mt, err)
		assert.False(mt, exists)
	})

	mt.Run("create maps duplicate emails", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKeyResponse)

		user := entity.NewUser("Admin", "admin@quickmate.io", "hash", entity.RoleAdmin)
		assert.ErrorIs(mt, NewUserRepository(mt.DB).Create(ctx, user), adapter.ErrDuplicateKey)
	})
}
