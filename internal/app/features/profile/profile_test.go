// internal/app/features/profile/profile_test.go
package profile

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/inkwell/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *auth.SessionManager, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "inkwell-session", "", 3600, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := NewHandler(db, sm, errorsfeature.NewErrorLogger(logger), logger)
	return h, sm, db
}

func seedAdmin(t *testing.T, db *mongo.Database, password string) models.Admin {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin, err := adminstore.New(db).Create(ctx, adminstore.CreateInput{
		FirstName:     "Iris",
		LastName:      "Vale",
		Email:         "iris@example.com",
		Password:      password,
		ContactNumber: "555-0101",
		Gender:        "female",
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func postPassword(t *testing.T, h *Handler, sm *auth.SessionManager, admin models.Admin, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/password", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = auth.WithTestAdmin(req, &auth.SessionAdmin{
		ID:    admin.ID.Hex(),
		Name:  admin.Name(),
		Email: admin.Email,
	})
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)
	return rec
}

func TestChangePassword_Success(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db := newTestHandler(t)
	admin := seedAdmin(t, db, "original-pw")

	rec := postPassword(t, h, sm, admin, url.Values{
		"old_password":     {"original-pw"},
		"new_password":     {"brand-new-pw"},
		"confirm_password": {"brand-new-pw"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q, want /login", loc)
	}

	// New password is live, old one is not.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := adminstore.New(db)
	if _, err := store.VerifyCredentials(ctx, admin.Email, "brand-new-pw"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := store.VerifyCredentials(ctx, admin.Email, "original-pw"); err == nil {
		t.Fatalf("old password still accepted")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db := newTestHandler(t)
	admin := seedAdmin(t, db, "original-pw")

	rec := postPassword(t, h, sm, admin, url.Values{
		"old_password":     {"not-the-password"},
		"new_password":     {"brand-new-pw"},
		"confirm_password": {"brand-new-pw"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Old password is incorrect.") {
		t.Fatalf("expected wrong-old-password message, got: %s", rec.Body.String())
	}
}

func TestChangePassword_ConfirmMismatch(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db := newTestHandler(t)
	admin := seedAdmin(t, db, "original-pw")

	rec := postPassword(t, h, sm, admin, url.Values{
		"old_password":     {"original-pw"},
		"new_password":     {"brand-new-pw"},
		"confirm_password": {"different-pw"},
	})

	if !strings.Contains(rec.Body.String(), "do not match") {
		t.Fatalf("expected mismatch message, got: %s", rec.Body.String())
	}
}

func TestChangePassword_SameAsCurrent(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db := newTestHandler(t)
	admin := seedAdmin(t, db, "original-pw")

	rec := postPassword(t, h, sm, admin, url.Values{
		"old_password":     {"original-pw"},
		"new_password":     {"original-pw"},
		"confirm_password": {"original-pw"},
	})

	if !strings.Contains(rec.Body.String(), "must be different") {
		t.Fatalf("expected same-password message, got: %s", rec.Body.String())
	}
}

func TestChangePassword_MissingFields(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db := newTestHandler(t)
	admin := seedAdmin(t, db, "original-pw")

	rec := postPassword(t, h, sm, admin, url.Values{
		"old_password": {"original-pw"},
	})

	if !strings.Contains(rec.Body.String(), "fill in all password fields") {
		t.Fatalf("expected missing-fields message, got: %s", rec.Body.String())
	}
}

func TestShowProfile(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db := newTestHandler(t)
	admin := seedAdmin(t, db, "original-pw")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = auth.WithTestAdmin(req, &auth.SessionAdmin{ID: admin.ID.Hex(), Name: admin.Name(), Email: admin.Email})
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, admin.AdminID) || !strings.Contains(body, "Iris Vale") {
		t.Fatalf("profile page missing admin details")
	}
}
