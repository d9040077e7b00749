// internal/domain/models/blog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog represents a blog post.
//
// Slug carries a unique index and is a pure function of the title when not
// supplied by the author (see system/derive). Summary defaults to a
// 160-character prefix of the content; ReadingTime is always recomputed from the content
// and is never caller-settable.
type Blog struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title   string `bson:"title" json:"title"`
	Slug    string `bson:"slug" json:"slug"`
	Summary string `bson:"summary" json:"summary"`
	Content string `bson:"content" json:"content"`

	// BlogImage is the storage path of an optional cover image.
	BlogImage string `bson:"blog_image,omitempty" json:"blog_image,omitempty"`

	AuthorName string             `bson:"author_name" json:"author_name"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	CategoryID primitive.ObjectID `bson:"category_id" json:"category_id"`

	Tags   []string `bson:"tags" json:"tags"`
	Status string   `bson:"status" json:"status"` // draft, published

	// ReadingTime is minutes to read: max(1, ceil(words/200)).
	ReadingTime int `bson:"reading_time" json:"reading_time"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Blog statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// AllStatuses returns all valid blog statuses.
func AllStatuses() []string {
	return []string{StatusDraft, StatusPublished}
}

// IsValidStatus checks if a status is valid.
func IsValidStatus(status string) bool {
	for _, s := range AllStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
