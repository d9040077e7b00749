// internal/app/store/admins/adminstore.go
package adminstore

// Terminology: Admin Identifiers
//   - ID / id: The MongoDB ObjectID (_id) that uniquely identifies an admin record
//   - AdminID / admin_id: The human-readable "ADM0001"-style tag shown in the panel

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/authutil"
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
	return &Store{c: db.Collection("admins")}
}

// GetByID loads an admin by ObjectID.
// Returns validation.ErrNotFound if no document matches.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("admins.get", err)
	}
	return &a, nil
}

// GetByEmail looks up an admin by email address (case-insensitive).
// Returns validation.ErrNotFound if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("admins.get_by_email", err)
	}
	return &a, nil
}

// GetByAdminID looks up an admin by the human-readable tag.
// Returns validation.ErrNotFound if not found.
func (s *Store) GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"admin_id": adminID}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("admins.get_by_admin_id", err)
	}
	return &a, nil
}

// List returns admins sorted newest first with optional find options.
func (s *Store) List(ctx context.Context, opts ...*options.FindOptions) ([]models.Admin, error) {
	all := append([]*options.FindOptions{options.Find().SetSort(bson.M{"created_at": -1})}, opts...)
	cur, err := s.c.Find(ctx, bson.M{}, all...)
	if err != nil {
		return nil, validation.Storage("admins.list", err)
	}
	defer cur.Close(ctx)

	var admins []models.Admin
	if err := cur.All(ctx, &admins); err != nil {
		return nil, validation.Storage("admins.list", err)
	}
	return admins, nil
}

// Count returns the number of admin documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, validation.Storage("admins.count", err)
	}
	return n, nil
}

// CreateInput holds the fields for creating a new admin.
// Password is plaintext here and nowhere else; Create hashes it before the
// document is built, and the plaintext is never logged.
type CreateInput struct {
	AdminID       string // optional; generated from the counter when empty
	FirstName     string
	LastName      string
	Email         string
	Password      string
	ContactNumber string
	Gender        string
	Hobby         []string
	Description   string
	ProfileImage  string
}

// Create inserts a new admin after running the ordered derivation steps:
// required fields, email uniqueness, admin_id assignment, hobby coercion,
// password hashing, commit. The counter-based admin_id is racy by
// construction, so a duplicate-key rejection on a generated tag recomputes
// the counter and retries the insert once.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Admin, error) {
	in.FirstName = normalize.Name(in.FirstName)
	in.LastName = normalize.Name(in.LastName)
	in.Email = normalize.Email(in.Email)
	in.ContactNumber = normalize.Field(in.ContactNumber)
	in.Gender = normalize.Field(in.Gender)
	in.AdminID = normalize.Field(in.AdminID)

	// Step 1: required fields.
	for _, f := range []struct{ name, val string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
		{"password", in.Password},
		{"contact_number", in.ContactNumber},
		{"gender", in.Gender},
	} {
		if f.val == "" {
			return models.Admin{}, validation.Missing(f.name)
		}
	}

	// Step 2: email uniqueness pre-check. The unique index is the authority;
	// this just produces the friendly rejection without burning an insert.
	if err := s.c.FindOne(ctx, bson.M{"email": in.Email}).Err(); err == nil {
		return models.Admin{}, validation.Reject(validation.DuplicateEmail)
	} else if err != mongo.ErrNoDocuments {
		return models.Admin{}, validation.Storage("admins.create", err)
	}

	// Step 3: admin_id assignment.
	generated := in.AdminID == ""
	if generated {
		tag, err := s.nextAdminID(ctx)
		if err != nil {
			return models.Admin{}, err
		}
		in.AdminID = tag
	} else {
		if err := s.c.FindOne(ctx, bson.M{"admin_id": in.AdminID}).Err(); err == nil {
			return models.Admin{}, validation.Reject(validation.DuplicateAdminID)
		} else if err != mongo.ErrNoDocuments {
			return models.Admin{}, validation.Storage("admins.create", err)
		}
	}

	// Step 4: hobby coercion. The stored value is always a non-nil array.
	hobby := normalize.Hobbies(in.Hobby)

	// Step 5: password hashing. Only the digest reaches the document.
	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return models.Admin{}, err
	}

	now := time.Now()
	a := models.Admin{
		ID:            primitive.NewObjectID(),
		AdminID:       in.AdminID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		Gender:        in.Gender,
		Hobby:         hobby,
		Description:   strings.TrimSpace(in.Description),
		PasswordHash:  hash,
		ProfileImage:  in.ProfileImage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Step 6: commit, mapping a race-lost uniqueness violation back to the
	// rejection the pre-check would have produced. A collision on a generated
	// tag is retried once with a fresh counter.
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if !wafflemongo.IsDup(err) {
			return models.Admin{}, validation.Storage("admins.create", err)
		}
		switch dupField(err) {
		case "email":
			return models.Admin{}, validation.Reject(validation.DuplicateEmail)
		case "admin_id":
			if !generated {
				return models.Admin{}, validation.Reject(validation.DuplicateAdminID)
			}
			// Lost the counter race. Recompute and retry exactly once.
			tag, nerr := s.nextAdminID(ctx)
			if nerr != nil {
				return models.Admin{}, nerr
			}
			a.AdminID = tag
			if _, rerr := s.c.InsertOne(ctx, a); rerr != nil {
				if wafflemongo.IsDup(rerr) {
					// The retry can lose a different race than the first
					// insert did; map by the index it actually tripped.
					if dupField(rerr) == "email" {
						return models.Admin{}, validation.Reject(validation.DuplicateEmail)
					}
					return models.Admin{}, validation.Reject(validation.DuplicateAdminID)
				}
				return models.Admin{}, validation.Storage("admins.create", rerr)
			}
		default:
			return models.Admin{}, validation.Storage("admins.create", err)
		}
	}
	return a, nil
}

// nextAdminID formats the next counter-based tag from the current document
// count. Racy between the count and the insert; the unique index plus the
// retry in Create closes the gap.
func (s *Store) nextAdminID(ctx context.Context) (string, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return "", validation.Storage("admins.count", err)
	}
	return models.FormatAdminID(count + 1), nil
}

// dupField names the unique index a duplicate-key error tripped on.
// The E11000 message carries the index name; falls back to "" when the
// message gives nothing away.
func dupField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uniq_admins_email") || strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "uniq_admins_admin_id") || strings.Contains(msg, "admin_id"):
		return "admin_id"
	}
	return ""
}

// UpdateInput holds the optional fields for updating an admin.
// All fields are pointers - nil means "don't update this field".
// Password changes never go through here; use ChangePassword.
type UpdateInput struct {
	AdminID       *string
	FirstName     *string
	LastName      *string
	Email         *string
	ContactNumber *string
	Gender        *string
	Hobby         *[]string
	Description   *string
	ProfileImage  *string
}

// Update patches an admin using optional fields. Only non-nil fields are
// written. Email and admin_id keep their uniqueness; a conflicting value is
// rejected with the matching Duplicate* error whether caught by the pre-check
// or by the index.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) error {
	set := bson.M{
		"updated_at": time.Now(),
	}

	if in.FirstName != nil {
		v := normalize.Name(*in.FirstName)
		if v == "" {
			return validation.Missing("first_name")
		}
		set["first_name"] = v
	}
	if in.LastName != nil {
		v := normalize.Name(*in.LastName)
		if v == "" {
			return validation.Missing("last_name")
		}
		set["last_name"] = v
	}
	if in.Email != nil {
		email := normalize.Email(*in.Email)
		if email == "" {
			return validation.Missing("email")
		}
		exists, err := s.emailExistsForOther(ctx, email, id)
		if err != nil {
			return err
		}
		if exists {
			return validation.Reject(validation.DuplicateEmail)
		}
		set["email"] = email
	}
	if in.AdminID != nil {
		tag := normalize.Field(*in.AdminID)
		if tag == "" {
			return validation.Missing("admin_id")
		}
		err := s.c.FindOne(ctx, bson.M{
			"admin_id": tag,
			"_id":      bson.M{"$ne": id},
		}).Err()
		if err == nil {
			return validation.Reject(validation.DuplicateAdminID)
		}
		if err != mongo.ErrNoDocuments {
			return validation.Storage("admins.update", err)
		}
		set["admin_id"] = tag
	}
	if in.ContactNumber != nil {
		set["contact_number"] = normalize.Field(*in.ContactNumber)
	}
	if in.Gender != nil {
		set["gender"] = normalize.Field(*in.Gender)
	}
	if in.Hobby != nil {
		set["hobby"] = normalize.Hobbies(*in.Hobby)
	}
	if in.Description != nil {
		set["description"] = strings.TrimSpace(*in.Description)
	}
	if in.ProfileImage != nil {
		set["profile_image"] = *in.ProfileImage
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			switch dupField(err) {
			case "admin_id":
				return validation.Reject(validation.DuplicateAdminID)
			default:
				return validation.Reject(validation.DuplicateEmail)
			}
		}
		return validation.Storage("admins.update", err)
	}
	if res.MatchedCount == 0 {
		return validation.ErrNotFound
	}
	return nil
}

// emailExistsForOther checks if an email already belongs to an admin other
// than the given ID.
func (s *Store) emailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, validation.Storage("admins.update", err)
}

// Delete removes an admin and returns the deleted document so the caller can
// release the profile image. Returns validation.ErrNotFound if no document
// matches.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, validation.ErrNotFound
		}
		return nil, validation.Storage("admins.delete", err)
	}
	return &a, nil
}

// VerifyCredentials checks an email/password pair against the stored digest.
// Returns the admin on success, validation.ErrNotFound for an unknown email,
// and an IncorrectPassword rejection for a bad password.
func (s *Store) VerifyCredentials(ctx context.Context, email, password string) (*models.Admin, error) {
	a, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !authutil.CheckPassword(password, a.PasswordHash) {
		return nil, validation.Reject(validation.IncorrectPassword)
	}
	return a, nil
}

// ChangePassword replaces an admin's password after the ordered checks:
// load, verify old, new/confirm match, new differs from current. The caller
// must destroy the session on success so old cookies cannot ride through the
// change.
func (s *Store) ChangePassword(ctx context.Context, id primitive.ObjectID, oldPassword, newPassword, confirmPassword string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !authutil.CheckPassword(oldPassword, a.PasswordHash) {
		return validation.Reject(validation.IncorrectOldPassword)
	}

	if newPassword != confirmPassword {
		return validation.Reject(validation.PasswordMismatch)
	}

	// Comparing the new plaintext against the stored digest is a
	// probabilistic but adequate "is this the same password" check.
	if authutil.CheckPassword(newPassword, a.PasswordHash) {
		return validation.Reject(validation.SamePassword)
	}

	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		return err
	}

	set := bson.M{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return validation.Storage("admins.change_password", err)
	}
	return nil
}

// FetchAdmin implements auth.AdminFetcher. Returns nil when the admin no
// longer exists so the session middleware clears the cookie.
func (s *Store) FetchAdmin(ctx context.Context, adminID string) *auth.SessionAdmin {
	oid, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil
	}
	a, err := s.GetByID(ctx, oid)
	if err != nil {
		return nil
	}
	return &auth.SessionAdmin{
		ID:      a.ID.Hex(),
		Name:    a.Name(),
		Email:   a.Email,
		AdminID: a.AdminID,
	}
}
