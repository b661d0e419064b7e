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

type categoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a category repository on the categories collection.
func NewCategoryRepository(db *mongo.Database) adapter.CategoryRepository {
	return &categoryRepository{coll: db.Collection(categoriesCollection)}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	_, err := r.coll.InsertOne(ctx, newCategoryDocument(category))
	return translateError(err)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"name": name, "parentScope": rootScope})
}

func (r *categoryRepository) FindByNameAndParent(ctx context.Context, name string, parentID uuid.UUID) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"name": name, "parentScope": parentID.String()})
}

func (r *categoryRepository) findOne(ctx context.Context, filter bson.M) (*entity.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity()
}

func (r *categoryRepository) FindAll(ctx context.Context, filter adapter.CategoryFilter) ([]*entity.Category, error) {
	query := bson.M{}
	switch {
	case filter.ParentID != nil:
		query["parentScope"] = filter.ParentID.String()
	case filter.TopLevelOnly:
		query["parentScope"] = rootScope
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, 0, len(docs))
	for i := range docs {
		category, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": category.ID.String()}, newCategoryDocument(category))
	return translateError(err)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity()
}

func (r *categoryRepository) CountSubcategories(ctx context.Context, parentID uuid.UUID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"parentScope": parentID.String()})
}
