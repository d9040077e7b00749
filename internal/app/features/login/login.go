// internal/app/features/login/login.go
package login

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides login handlers.
type Handler struct {
	adminStore *adminstore.Store
	sessionMgr *auth.SessionManager
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new login Handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		adminStore: adminstore.New(db),
		sessionMgr: sessionMgr,
		errLog:     errLog,
		logger:     logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error     string
	Notice    string
	Email     string
	ReturnURL string
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)

	return r
}

// showLogin displays the login form.
func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in? Straight to the dashboard.
	if _, ok := auth.CurrentAdmin(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	vm := LoginVM{
		BaseVM:    viewdata.New(r),
		ReturnURL: query.Get(r, "return"),
	}
	vm.Title = "Login"

	if query.Get(r, "registered") != "" {
		vm.Notice = "Account created. Log in to continue."
	}

	templates.Render(w, r, "login/index", vm)
}

// handleLogin verifies credentials and establishes a session.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	render := func(msg string) {
		vm := LoginVM{
			BaseVM:    viewdata.New(r),
			Error:     msg,
			Email:     email,
			ReturnURL: returnURL,
		}
		vm.Title = "Login"
		templates.Render(w, r, "login/index", vm)
	}

	if email == "" || password == "" {
		render("Please enter your email and password")
		return
	}

	admin, err := h.adminStore.VerifyCredentials(r.Context(), email, password)
	if err != nil {
		// Unknown email and wrong password get the same message so the form
		// cannot be used to enumerate accounts.
		if errors.Is(err, validation.ErrNotFound) ||
			validation.Cause(err) == validation.IncorrectPassword {
			render("Invalid credentials")
			return
		}
		h.errLog.Log(r, "database error during login", err)
		render("Service temporarily unavailable. Please try again.")
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, admin.ID, ""); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("admin logged in",
		zap.String("admin_id", admin.AdminID),
		zap.String("id", admin.ID.Hex()))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}
