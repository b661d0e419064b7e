// Package document implements the repository interfaces on MongoDB.
// Identifiers are stored as UUID strings in _id so both storage backends share one id space.
package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quickmate/backend/internal/domain/entity"
)

const (
	rootScope   = "root"
	globalScope = "global"

	categoriesCollection      = "categories"
	commissionRulesCollection = "commissionrules"
	usersCollection           = "users"
)

type categoryDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	ParentID    *string   `bson:"parentId"`
	ParentScope string    `bson:"parentScope"`
	Status      bool      `bson:"status"`
	IconURL     string    `bson:"iconUrl,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newCategoryDocument(c *entity.Category) *categoryDocument {
	return &categoryDocument{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		ParentID:    uuidString(c.ParentID),
		ParentScope: parentScope(c.ParentID),
		Status:      c.Status,
		IconURL:     c.IconURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d *categoryDocument) toEntity() (*entity.Category, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", d.ID, err)
	}
	parentID, err := parseUUID(d.ParentID)
	if err != nil {
		return nil, fmt.Errorf("category %q parent: %w", d.ID, err)
	}
	return &entity.Category{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		ParentID:    parentID,
		Status:      d.Status,
		IconURL:     d.IconURL,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

type commissionRuleDocument struct {
	ID                 string                `bson:"_id"`
	CategoryID         *string               `bson:"categoryId"`
	Scope              string                `bson:"scope"`
	GlobalCommission   *primitive.Decimal128 `bson:"globalCommission,omitempty"`
	FlatFee            *primitive.Decimal128 `bson:"flatFee,omitempty"`
	CategoryCommission *primitive.Decimal128 `bson:"categoryCommission,omitempty"`
	Status             bool                  `bson:"status"`
	CreatedAt          time.Time             `bson:"createdAt"`
	UpdatedAt          time.Time             `bson:"updatedAt"`
}

func newCommissionRuleDocument(r *entity.CommissionRule) (*commissionRuleDocument, error) {
	doc := &commissionRuleDocument{
		ID:         r.ID.String(),
		CategoryID: uuidString(r.CategoryID),
		Scope:      ruleScope(r.CategoryID),
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}

	var err error
	if doc.GlobalCommission, err = toDecimal128(r.GlobalCommission); err != nil {
		return nil, err
	}
	if doc.FlatFee, err = toDecimal128(r.FlatFee); err != nil {
		return nil, err
	}
	if doc.CategoryCommission, err = toDecimal128(r.CategoryCommission); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *commissionRuleDocument) toEntity() (*entity.CommissionRule, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("commission rule %q: %w", d.ID, err)
	}
	categoryID, err := parseUUID(d.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("commission rule %q category: %w", d.ID, err)
	}

	rule := &entity.CommissionRule{
		ID:         id,
		CategoryID: categoryID,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if rule.GlobalCommission, err = fromDecimal128(d.GlobalCommission); err != nil {
		return nil, err
	}
	if rule.FlatFee, err = fromDecimal128(d.FlatFee); err != nil {
		return nil, err
	}
	if rule.CategoryCommission, err = fromDecimal128(d.CategoryCommission); err != nil {
		return nil, err
	}
	return rule, nil
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func newUserDocument(u *entity.User) *userDocument {
	return &userDocument{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDocument) toEntity() (*entity.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", d.ID, err)
	}
	return &entity.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         entity.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func parentScope(parentID *uuid.UUID) string {
	if parentID == nil {
		return rootScope
	}
	return parentID.String()
}

func ruleScope(categoryID *uuid.UUID) string {
	if categoryID == nil {
		return globalScope
	}
	return categoryID.String()
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toDecimal128(d *decimal.Decimal) (*primitive.Decimal128, error) {
	if d == nil {
		return nil, nil
	}
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return nil, fmt.Errorf("decimal %s: %w", d.String(), err)
	}
	return &v, nil
}

func fromDecimal128(v *primitive.Decimal128) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return nil, fmt.Errorf("decimal128 %s: %w", v.String(), err)
	}
	return &d, nil
}
