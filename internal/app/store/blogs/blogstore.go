// internal/app/store/blogs/blogstore.go
package blogstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/inkwell/internal/app/system/derive"
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
	return &Store{c: db.Collection("blogs")}
}

// GetByID loads a post by ObjectID.
// Returns validation.ErrNotFound if no document matches.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("blogs.get", err)
	}
	return &b, nil
}

// GetBySlug loads a post by its unique slug.
// Returns validation.ErrNotFound if no document matches.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("blogs.get_by_slug", err)
	}
	return &b, nil
}

// List returns posts matching the filter, newest first, with optional find
// options for pagination.
func (s *Store) List(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Blog, error) {
	if filter == nil {
		filter = bson.M{}
	}
	all := append([]*options.FindOptions{options.Find().SetSort(bson.M{"created_at": -1})}, opts...)
	cur, err := s.c.Find(ctx, filter, all...)
	if err != nil {
		return nil, validation.Storage("blogs.list", err)
	}
	defer cur.Close(ctx)

	var blogs []models.Blog
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, validation.Storage("blogs.list", err)
	}
	return blogs, nil
}

// Count returns the number of posts matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, validation.Storage("blogs.count", err)
	}
	return n, nil
}

// CreateInput holds the fields for creating a new post. Slug and Summary are
// optional; blank values are derived from Title and Content. ReadingTime is
// not accepted at all: it is always computed from the content.
type CreateInput struct {
	Title      string
	Slug       string
	Summary    string
	Content    string
	BlogImage  string
	AuthorName string
	AuthorID   primitive.ObjectID
	CategoryID primitive.ObjectID
	Tags       []string
	Status     string
}

// Create inserts a new post after running the ordered derivation steps:
// slug derivation, slug uniqueness, summary derivation, reading time,
// required fields, commit. A slug collision is rejected outright; there is
// no auto-suffixing, the author picks a distinguishing title.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Blog, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)

	// Step 1: slug derivation. A title of only special characters produces
	// an empty slug, which cannot be stored.
	if in.Slug == "" && in.Title != "" {
		in.Slug = derive.Slug(in.Title)
		if in.Slug == "" {
			return models.Blog{}, validation.Reject(validation.EmptySlug)
		}
	}

	// Step 2: slug uniqueness pre-check. The unique index remains the
	// authority for the race window.
	if in.Slug != "" {
		if err := s.c.FindOne(ctx, bson.M{"slug": in.Slug}).Err(); err == nil {
			return models.Blog{}, validation.Reject(validation.DuplicateSlug)
		} else if err != mongo.ErrNoDocuments {
			return models.Blog{}, validation.Storage("blogs.create", err)
		}
	}

	// Step 3: summary derivation.
	if in.Summary == "" && in.Content != "" {
		in.Summary = derive.Summary(in.Content)
	}

	// Step 4: reading time, always recomputed.
	readingTime := derive.ReadingTime(in.Content)

	// Step 5: required fields.
	if in.Title == "" {
		return models.Blog{}, validation.Missing("title")
	}
	if in.Content == "" {
		return models.Blog{}, validation.Missing("content")
	}
	if in.AuthorID.IsZero() {
		return models.Blog{}, validation.Missing("author_id")
	}
	if in.CategoryID.IsZero() {
		return models.Blog{}, validation.Missing("category_id")
	}

	status := in.Status
	if status == "" {
		status = models.StatusPublished
	}
	if !models.IsValidStatus(status) {
		return models.Blog{}, validation.Missing("status")
	}

	now := time.Now()
	b := models.Blog{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Slug:        in.Slug,
		Summary:     in.Summary,
		Content:     in.Content,
		BlogImage:   in.BlogImage,
		AuthorName:  normalize.Name(in.AuthorName),
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
		Tags:        normalize.Tags(in.Tags),
		Status:      status,
		ReadingTime: readingTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Step 6: commit, mapping a race-lost slug collision back to the same
	// rejection the pre-check would have produced.
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Blog{}, validation.Reject(validation.DuplicateSlug)
		}
		return models.Blog{}, validation.Storage("blogs.create", err)
	}
	return b, nil
}

// UpdateInput holds the optional fields for updating a post.
// All fields are pointers - nil means "don't update this field".
//
// Slug and Summary distinguish absent from cleared: a nil pointer leaves the
// stored value alone (a new title does NOT regenerate an existing slug),
// while a pointer to the empty string clears the field and re-derives it
// from the post-patch title/content. ReadingTime is always recomputed from
// the post-patch content.
type UpdateInput struct {
	Title      *string
	Slug       *string
	Summary    *string
	Content    *string
	BlogImage  *string
	AuthorName *string
	CategoryID *primitive.ObjectID
	Tags       *[]string
	Status     *string
}

// Update patches a post. The patch is merged over the stored document so the
// derivation steps see the post-patch values, but only the patched and
// re-derived fields are $set; untouched fields are never rewritten.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Blog, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		b.Content = *in.Content
	}

	slugChanged := false
	if in.Slug != nil {
		slug := strings.TrimSpace(*in.Slug)
		if slug == "" {
			// Cleared: re-derive from the post-patch title.
			slug = derive.Slug(b.Title)
			if slug == "" {
				return nil, validation.Reject(validation.EmptySlug)
			}
		}
		slugChanged = slug != b.Slug
		b.Slug = slug
	}

	if in.Summary != nil {
		summary := *in.Summary
		if summary == "" {
			summary = derive.Summary(b.Content)
		}
		b.Summary = summary
	}

	// Reading time always tracks the current content.
	b.ReadingTime = derive.ReadingTime(b.Content)

	if in.BlogImage != nil {
		b.BlogImage = *in.BlogImage
	}
	if in.AuthorName != nil {
		b.AuthorName = normalize.Name(*in.AuthorName)
	}
	if in.CategoryID != nil {
		b.CategoryID = *in.CategoryID
	}
	if in.Tags != nil {
		b.Tags = normalize.Tags(*in.Tags)
	}
	if in.Status != nil {
		if !models.IsValidStatus(*in.Status) {
			return nil, validation.Missing("status")
		}
		b.Status = *in.Status
	}

	if b.Title == "" {
		return nil, validation.Missing("title")
	}
	if b.Content == "" {
		return nil, validation.Missing("content")
	}

	if slugChanged {
		err := s.c.FindOne(ctx, bson.M{
			"slug": b.Slug,
			"_id":  bson.M{"$ne": id},
		}).Err()
		if err == nil {
			return nil, validation.Reject(validation.DuplicateSlug)
		}
		if err != mongo.ErrNoDocuments {
			return nil, validation.Storage("blogs.update", err)
		}
	}

	b.UpdatedAt = time.Now()

	// Only patched and re-derived fields are written, so concurrent patches
	// to different fields do not clobber each other.
	set := bson.M{
		"reading_time": b.ReadingTime,
		"updated_at":   b.UpdatedAt,
	}
	if in.Title != nil {
		set["title"] = b.Title
	}
	if in.Slug != nil {
		set["slug"] = b.Slug
	}
	if in.Summary != nil {
		set["summary"] = b.Summary
	}
	if in.Content != nil {
		set["content"] = b.Content
	}
	if in.BlogImage != nil {
		set["blog_image"] = b.BlogImage
	}
	if in.AuthorName != nil {
		set["author_name"] = b.AuthorName
	}
	if in.CategoryID != nil {
		set["category_id"] = b.CategoryID
	}
	if in.Tags != nil {
		set["tags"] = b.Tags
	}
	if in.Status != nil {
		set["status"] = b.Status
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, validation.Reject(validation.DuplicateSlug)
		}
		return nil, validation.Storage("blogs.update", err)
	}
	return b, nil
}

// Delete removes a post and returns the deleted document so the caller can
// release the cover image. Returns validation.ErrNotFound if no document
// matches.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("blogs.delete", err)
	}
	return &b, nil
}

// CountByStatus returns the number of posts per status for the dashboard.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(models.AllStatuses()))
	for _, status := range models.AllStatuses() {
		n, err := s.c.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			return nil, validation.Storage("blogs.count_by_status", err)
		}
		out[status] = n
	}
	return out, nil
}
