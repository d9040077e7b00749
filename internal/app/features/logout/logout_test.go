// internal/app/features/logout/logout_test.go
package logout

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "inkwell-session", "", 3600, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestLogout_DestroysSessionAndRedirects(t *testing.T) {
	sm := newTestSessionManager(t)
	h := NewHandler(sm, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = auth.WithTestAdmin(req, &auth.SessionAdmin{ID: "64b000000000000000000001", Name: "Test Admin"})
	rec := httptest.NewRecorder()

	Routes(h, sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q, want /login", loc)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "inkwell-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestLogout_RequiresAuth(t *testing.T) {
	sm := newTestSessionManager(t)
	h := NewHandler(sm, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	Routes(h, sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}
