// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"html/template"
	"net/http"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides profile handlers.
type Handler struct {
	adminStore *adminstore.Store
	sessionMgr *auth.SessionManager
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new profile Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		adminStore: adminstore.New(db),
		sessionMgr: sessionMgr,
		errLog:     errLog,
		logger:     logger,
	}
}

// ProfileVM is the view model for the profile page.
type ProfileVM struct {
	viewdata.BaseVM

	Admin    *models.Admin
	ImageURL string

	// Form state for the change-password section
	Success template.HTML
	Error   template.HTML
}

// Routes returns a chi.Router with profile routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireAuth)

	r.Get("/", h.showProfile)
	r.Post("/password", h.handleChangePassword)

	return r
}

// showProfile displays the signed-in admin's profile.
func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	sessionAdmin, ok := auth.CurrentAdmin(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	admin, err := h.adminStore.GetByID(r.Context(), sessionAdmin.ObjectID())
	if err != nil {
		h.errLog.Log(r, "failed to get admin", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := buildProfileVM(r, admin)
	templates.Render(w, r, "profile/show", vm)
}

// handleChangePassword processes the password change form.
//
// On success the session is destroyed so the admin signs in again with the
// new password.
func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sessionAdmin, ok := auth.CurrentAdmin(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	oldPassword := r.FormValue("old_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if oldPassword == "" || newPassword == "" || confirmPassword == "" {
		h.renderWithError(w, r, sessionAdmin, "Please fill in all password fields.")
		return
	}

	err := h.adminStore.ChangePassword(r.Context(), sessionAdmin.ObjectID(), oldPassword, newPassword, confirmPassword)
	switch {
	case err == nil:
		// fall through below
	case errors.Is(err, validation.Reject(validation.IncorrectOldPassword)):
		h.renderWithError(w, r, sessionAdmin, "Old password is incorrect.")
		return
	case errors.Is(err, validation.Reject(validation.PasswordMismatch)):
		h.renderWithError(w, r, sessionAdmin, "New password and confirmation do not match.")
		return
	case errors.Is(err, validation.Reject(validation.SamePassword)):
		h.renderWithError(w, r, sessionAdmin, "New password must be different from your current password.")
		return
	case validation.IsValidation(err):
		h.renderWithError(w, r, sessionAdmin, err.Error())
		return
	default:
		h.errLog.Log(r, "failed to change password", err)
		h.renderWithError(w, r, sessionAdmin, "Failed to change password. Please try again.")
		return
	}

	h.logger.Info("admin changed password", zap.String("id", sessionAdmin.ID))

	h.sessionMgr.DestroySession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// buildProfileVM creates the profile view model from an admin record.
func buildProfileVM(r *http.Request, admin *models.Admin) ProfileVM {
	vm := ProfileVM{
		BaseVM:   viewdata.NewBaseVM(r, "My Profile", "/dashboard"),
		Admin:    admin,
		ImageURL: viewdata.ImageURL(admin.ProfileImage),
	}
	return vm
}

// renderWithError re-renders the profile page with an error message.
func (h *Handler) renderWithError(w http.ResponseWriter, r *http.Request, sessionAdmin *auth.SessionAdmin, errMsg string) {
	admin, err := h.adminStore.GetByID(r.Context(), sessionAdmin.ObjectID())
	if err != nil {
		h.errLog.Log(r, "failed to get admin", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := buildProfileVM(r, admin)
	vm.Error = template.HTML(errMsg)
	templates.Render(w, r, "profile/show", vm)
}
