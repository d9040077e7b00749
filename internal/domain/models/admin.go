// internal/domain/models/admin.go
package models

// Terminology: Admin Identifiers
//   - ID / id: The MongoDB ObjectID (_id) that uniquely identifies an admin record
//   - AdminID / admin_id: The human-readable "ADM0001"-style tag shown in the panel

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminIDPrefix and AdminIDDigits define the shape of generated admin tags:
// the prefix followed by a zero-padded sequence number, e.g. "ADM0007".
const (
	AdminIDPrefix = "ADM"
	AdminIDDigits = 4
)

// Admin represents an administrator account.
//
// AdminID and Email each carry a unique index (see system/indexes); AdminID is
// immutable once assigned unless an operator explicitly replaces it through
// the update form, in which case uniqueness is re-checked.
type Admin struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID string             `bson:"admin_id" json:"admin_id"`

	FirstName     string `bson:"first_name" json:"first_name"`
	LastName      string `bson:"last_name" json:"last_name"`
	Email         string `bson:"email" json:"email"` // stored lowercase
	ContactNumber string `bson:"contact_number" json:"contact_number"`
	Gender        string `bson:"gender" json:"gender"`
	Hobby         []string `bson:"hobby" json:"hobby"`
	Description   string `bson:"description" json:"description"`

	// PasswordHash is the bcrypt digest of the account password.
	// Plaintext never reaches the store or any log sink.
	PasswordHash string `bson:"password_hash" json:"-"`

	// ProfileImage is the storage path of the uploaded profile picture.
	// The file itself is owned by the storage backend; record deletion or
	// image replacement releases the old file best-effort.
	ProfileImage string `bson:"profile_image" json:"profile_image"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Name returns the admin's display name, "First Last".
func (a *Admin) Name() string {
	return fmt.Sprintf("%s %s", a.FirstName, a.LastName)
}

// FormatAdminID renders a sequence number as a panel tag, e.g. 7 -> "ADM0007".
func FormatAdminID(n int64) string {
	return fmt.Sprintf("%s%0*d", AdminIDPrefix, AdminIDDigits, n)
}
