// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/inkwell/internal/app/system/normalize"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("categories")}
}

// GetByID loads a category by ObjectID.
// Returns validation.ErrNotFound if no document matches.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("categories.get", err)
	}
	return &c, nil
}

// GetByName looks up a category by name, case-insensitively.
// Returns validation.ErrNotFound if not found.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	ci := strings.ToLower(normalize.Name(name))
	if err := s.c.FindOne(ctx, bson.M{"name_ci": ci}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("categories.get_by_name", err)
	}
	return &c, nil
}

// List returns all categories sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.M{"name_ci": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, validation.Storage("categories.list", err)
	}
	defer cur.Close(ctx)

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, validation.Storage("categories.list", err)
	}
	return cats, nil
}

// Count returns the number of categories.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, validation.Storage("categories.count", err)
	}
	return n, nil
}

// Create inserts a category. Name is unique case-insensitively; a conflicting
// value is rejected with DuplicateCategory whether caught by the pre-check or
// by the index.
func (s *Store) Create(ctx context.Context, name, description string) (models.Category, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Category{}, validation.Missing("name")
	}

	ci := strings.ToLower(name)
	if err := s.c.FindOne(ctx, bson.M{"name_ci": ci}).Err(); err == nil {
		return models.Category{}, validation.Reject(validation.DuplicateCategory)
	} else if err != mongo.ErrNoDocuments {
		return models.Category{}, validation.Storage("categories.create", err)
	}

	now := time.Now()
	c := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      ci,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, validation.Reject(validation.DuplicateCategory)
		}
		return models.Category{}, validation.Storage("categories.create", err)
	}
	return c, nil
}

// Update renames or redescribes a category.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, description string) error {
	name = normalize.Name(name)
	if name == "" {
		return validation.Missing("name")
	}

	ci := strings.ToLower(name)
	err := s.c.FindOne(ctx, bson.M{
		"name_ci": ci,
		"_id":     bson.M{"$ne": id},
	}).Err()
	if err == nil {
		return validation.Reject(validation.DuplicateCategory)
	}
	if err != mongo.ErrNoDocuments {
		return validation.Storage("categories.update", err)
	}

	set := bson.M{
		"name":        name,
		"name_ci":     ci,
		"description": strings.TrimSpace(description),
		"updated_at":  time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return validation.Reject(validation.DuplicateCategory)
		}
		return validation.Storage("categories.update", err)
	}
	if res.MatchedCount == 0 {
		return validation.ErrNotFound
	}
	return nil
}

// Delete removes a category by ID.
// Returns validation.ErrNotFound if no document matches.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return validation.Storage("categories.delete", err)
	}
	if res.DeletedCount == 0 {
		return validation.ErrNotFound
	}
	return nil
}
