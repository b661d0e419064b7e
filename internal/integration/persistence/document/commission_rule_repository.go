package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
)

type commissionRuleRepository struct {
	coll *mongo.Collection
}

// NewCommissionRuleRepository creates a commission rule repository on the commissionrules collection.
func NewCommissionRuleRepository(db *mongo.Database) adapter.CommissionRuleRepository {
	return &commissionRuleRepository{coll: db.Collection(commissionRulesCollection)}
}

func (r *commissionRuleRepository) Create(ctx context.Context, rule *entity.CommissionRule) error {
	doc, err := newCommissionRuleDocument(rule)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *commissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CommissionRule, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *commissionRuleRepository) FindByCategoryID(ctx context.Context, categoryID uuid.UUID) (*entity.CommissionRule, error) {
	return r.findOne(ctx, bson.M{"scope": categoryID.String()})
}

func (r *commissionRuleRepository) FindGlobalRule(ctx context.Context) (*entity.CommissionRule, error) {
	return r.findOne(ctx, bson.M{"scope": globalScope})
}

func (r *commissionRuleRepository) findOne(ctx context.Context, filter bson.M) (*entity.CommissionRule, error) {
	var doc commissionRuleDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity()
}

// FindAll lists rules; the global rule sorts first since its categoryId is null.
func (r *commissionRuleRepository) FindAll(ctx context.Context, filter adapter.CommissionRuleFilter) ([]*entity.CommissionRule, error) {
	query := bson.M{}
	switch filter.Scope {
	case adapter.CommissionRuleScopeGlobal:
		query["scope"] = globalScope
	case adapter.CommissionRuleScopeCategory:
		query["scope"] = bson.M{"$ne": globalScope}
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	sort := bson.D{{Key: "categoryId", Value: 1}, {Key: "createdAt", Value: 1}}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var docs []commissionRuleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rules := make([]*entity.CommissionRule, 0, len(docs))
	for i := range docs {
		rule, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *commissionRuleRepository) Update(ctx context.Context, rule *entity.CommissionRule) error {
	doc, err := newCommissionRuleDocument(rule)
	if err != nil {
		return err
	}
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	return translateError(err)
}

func (r *commissionRuleRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.CommissionRule, error) {
	var doc commissionRuleDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity()
}
