// internal/app/features/admins/admins_test.go
package admins

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *auth.SessionManager, *mongo.Database, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	dir := t.TempDir()
	fileStorage, err := storage.NewLocal(storage.LocalConfig{
		BasePath: dir,
		BaseURL:  "/uploads",
	})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "inkwell-session", "", 3600, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	h := NewHandler(db, fileStorage, errorsfeature.NewErrorLogger(logger), logger)
	return h, sm, db, dir
}

// buildForm assembles a multipart form body with the given fields, optionally
// attaching a small fake image under "profile_image".
func buildForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if withImage {
		fw, err := mw.CreateFormFile("profile_image", "avatar.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte("\x89PNG\r\n\x1a\nfake")); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func validFields(email string) map[string]string {
	return map[string]string{
		"first_name":     "Nora",
		"last_name":      "Finch",
		"email":          email,
		"password":       "strong-enough",
		"contact_number": "555-0102",
		"gender":         "female",
		"description":    "Editor",
	}
}

func asAdmin(req *http.Request) *http.Request {
	return auth.WithTestAdmin(req, &auth.SessionAdmin{
		ID:   "64b000000000000000000001",
		Name: "Seed Admin",
	})
}

func TestRegister_CreatesAdminWithImage(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, _, db, dir := newTestHandler(t)

	body, contentType := buildForm(t, validFields("nora@example.com"), true)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	RegisterRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Fatalf("Location = %q, want /login...", loc)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin, err := adminstore.New(db).GetByEmail(ctx, "nora@example.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.ProfileImage == "" {
		t.Fatalf("profile image path not recorded")
	}
	if _, err := os.Stat(filepath.Join(dir, admin.ProfileImage)); err != nil {
		t.Fatalf("profile image file missing: %v", err)
	}
}

func TestCreate_MissingImage(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, _, _ := newTestHandler(t)

	body, contentType := buildForm(t, validFields("noimg@example.com"), false)
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/add", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Please choose a profile image.") {
		t.Fatalf("expected missing-image message, got: %s", rec.Body.String())
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db, _ := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := adminstore.New(db).Create(ctx, adminstore.CreateInput{
		FirstName:     "First",
		LastName:      "Taken",
		Email:         "taken@example.com",
		Password:      "password-one",
		ContactNumber: "555-0100",
		Gender:        "other",
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	body, contentType := buildForm(t, validFields("taken@example.com"), true)
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/add", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("expected duplicate-email message, got: %s", rec.Body.String())
	}
}

func TestUpdate_ReplacesImageAndReleasesOld(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db, dir := newTestHandler(t)

	// Create through the handler so the first image lands in storage.
	body, contentType := buildForm(t, validFields("imgswap@example.com"), true)
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/add", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create failed: %d: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := adminstore.New(db)
	admin, err := store.GetByEmail(ctx, "imgswap@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}
	oldImage := admin.ProfileImage

	fields := validFields("imgswap@example.com")
	delete(fields, "password")
	body, contentType = buildForm(t, fields, true)
	req = asAdmin(httptest.NewRequest(http.MethodPost, "/"+admin.ID.Hex()+"/edit", body))
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update failed: %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := store.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if updated.ProfileImage == oldImage {
		t.Fatalf("profile image was not replaced")
	}
	if _, err := os.Stat(filepath.Join(dir, oldImage)); !os.IsNotExist(err) {
		t.Fatalf("old image not released: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, updated.ProfileImage)); err != nil {
		t.Fatalf("new image missing: %v", err)
	}
}

func TestDelete_ReleasesImage(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db, dir := newTestHandler(t)

	body, contentType := buildForm(t, validFields("gone@example.com"), true)
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/add", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create failed: %d", rec.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := adminstore.New(db)
	admin, err := store.GetByEmail(ctx, "gone@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}

	req = asAdmin(httptest.NewRequest(http.MethodPost, "/"+admin.ID.Hex()+"/delete", nil))
	rec = httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete failed: %d", rec.Code)
	}

	if _, err := store.GetByID(ctx, admin.ID); err == nil {
		t.Fatalf("admin still present after delete")
	}
	if _, err := os.Stat(filepath.Join(dir, admin.ProfileImage)); !os.IsNotExist(err) {
		t.Fatalf("image not released after delete: %v", err)
	}
}

func TestList_ShowsAdmins(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, sm, db, _ := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := adminstore.New(db).Create(ctx, adminstore.CreateInput{
		FirstName:     "Lena",
		LastName:      "Marsh",
		Email:         "lena@example.com",
		Password:      "password-one",
		ContactNumber: "555-0103",
		Gender:        "female",
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/", nil))
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Lena Marsh") {
		t.Fatalf("list missing seeded admin")
	}
}
