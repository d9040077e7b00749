// internal/app/features/dashboard/dashboard_test.go
package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	blogstore "github.com/dalemusser/inkwell/internal/app/store/blogs"
	categorystore "github.com/dalemusser/inkwell/internal/app/store/categories"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestDashboard_Counts(t *testing.T) {
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "inkwell-session", "", 3600, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	admin, err := adminstore.New(db).Create(ctx, adminstore.CreateInput{
		FirstName:     "Dana",
		LastName:      "Wells",
		Email:         "dana@example.com",
		Password:      "password-one",
		ContactNumber: "555-0104",
		Gender:        "other",
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	cat, err := categorystore.New(db).Create(ctx, "News", "")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	posts := blogstore.New(db)
	for _, p := range []struct{ title, status string }{
		{"Live Post", "published"},
		{"Work In Progress", "draft"},
	} {
		if _, err := posts.Create(ctx, blogstore.CreateInput{
			Title:      p.title,
			Content:    "Body text.",
			AuthorName: admin.Name(),
			AuthorID:   admin.ID,
			CategoryID: cat.ID,
			Status:     p.status,
		}); err != nil {
			t.Fatalf("seed post %q: %v", p.title, err)
		}
	}

	h := NewHandler(db, errorsfeature.NewErrorLogger(logger), logger)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = auth.WithTestAdmin(req, &auth.SessionAdmin{ID: primitive.NewObjectID().Hex(), Name: "Viewer"})
	rec := httptest.NewRecorder()
	Routes(h, sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{"Posts", "Published", "Drafts", "Categories", "Admins"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q section", want)
		}
	}
}
