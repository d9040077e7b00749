// internal/app/features/admins/admins.go
package admins

// Terminology: Admin Identifiers
//   - ID / id: The MongoDB ObjectID (_id) that uniquely identifies an admin record
//   - AdminID / admin_id: The human-readable "ADM0001"-style tag shown in the panel

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/app/store/storeutil"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	pageSize      = 20
	maxUploadSize = 8 << 20 // 8 MB
)

// Handler provides admin management handlers.
type Handler struct {
	adminStore  *adminstore.Store
	fileStorage storage.Store
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a new admins Handler.
func NewHandler(db *mongo.Database, fileStorage storage.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		adminStore:  adminstore.New(db),
		fileStorage: fileStorage,
		errLog:      errLog,
		logger:      logger,
	}
}

// adminRow represents an admin in the list.
type adminRow struct {
	ID       primitive.ObjectID
	AdminID  string
	Name     string
	Email    string
	ImageURL string
}

// ListVM is the view model for the admins list.
type ListVM struct {
	viewdata.BaseVM

	Page     int
	PrevPage int
	NextPage int
	Total    int64
	HasPrev  bool
	HasNext  bool

	Rows []adminRow

	Flash template.HTML
}

// FormVM is the view model for the register/add/edit forms.
type FormVM struct {
	viewdata.BaseVM

	// "register", "add", or "edit"; controls the form action and heading
	Mode string

	ID            string
	TagID         string
	FirstName     string
	LastName      string
	Email         string
	ContactNumber string
	Gender        string
	Hobby         []string
	Description   string
	ImageURL      string

	Error template.HTML
}

// HasHobby reports whether the form state includes the named hobby.
func (vm FormVM) HasHobby(h string) bool {
	for _, v := range vm.Hobby {
		if v == h {
			return true
		}
	}
	return false
}

// ShowVM is the view model for the admin detail page.
type ShowVM struct {
	viewdata.BaseVM

	Admin    *models.Admin
	ImageURL string
}

// Routes returns a chi.Router with admin management routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireAuth)

	r.Get("/", h.list)
	r.Get("/add", h.showAdd)
	r.Post("/add", h.create)
	r.Get("/{id}", h.show)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/delete", h.delete)

	return r
}

// RegisterRoutes returns a chi.Router with the public registration routes.
func RegisterRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showRegister)
	r.Post("/", h.register)
	return r
}

// list displays all admins with pagination.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	total, err := h.adminStore.Count(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to count admins", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	admins, err := h.adminStore.List(r.Context(), storeutil.Paginate(pageSize, int64(page)))
	if err != nil {
		h.errLog.Log(r, "failed to list admins", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]adminRow, 0, len(admins))
	for _, a := range admins {
		rows = append(rows, adminRow{
			ID:       a.ID,
			AdminID:  a.AdminID,
			Name:     a.Name(),
			Email:    a.Email,
			ImageURL: viewdata.ImageURL(a.ProfileImage),
		})
	}

	vm := ListVM{
		BaseVM:   viewdata.NewBaseVM(r, "Admins", "/dashboard"),
		Page:     page,
		PrevPage: page - 1,
		NextPage: page + 1,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  int64(page*pageSize) < total,
		Rows:     rows,
	}

	switch r.URL.Query().Get("success") {
	case "created":
		vm.Flash = "Admin created."
	case "updated":
		vm.Flash = "Admin updated."
	case "deleted":
		vm.Flash = "Admin deleted."
	}

	templates.Render(w, r, "admins/list", vm)
}

// show displays a single admin.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.loadAdmin(w, r)
	if !ok {
		return
	}

	vm := ShowVM{
		BaseVM:   viewdata.NewBaseVM(r, admin.Name(), "/admins"),
		Admin:    admin,
		ImageURL: viewdata.ImageURL(admin.ProfileImage),
	}
	templates.Render(w, r, "admins/show", vm)
}

// showRegister displays the public registration form.
func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	vm := FormVM{
		BaseVM: viewdata.NewBaseVM(r, "Register", "/login"),
		Mode:   "register",
	}
	templates.Render(w, r, "admins/form", vm)
}

// register processes the public registration form and sends the new admin to
// the login page.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	h.createAdmin(w, r, "register", "/login?registered=1")
}

// showAdd displays the add-admin form.
func (h *Handler) showAdd(w http.ResponseWriter, r *http.Request) {
	vm := FormVM{
		BaseVM: viewdata.NewBaseVM(r, "Add Admin", "/admins"),
		Mode:   "add",
	}
	templates.Render(w, r, "admins/form", vm)
}

// create processes the add-admin form.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	h.createAdmin(w, r, "add", "/admins?success=created")
}

// createAdmin runs the shared create path behind register and add. A profile
// image is required; the upload happens before the insert, and the uploaded
// file is released if the insert fails.
func (h *Handler) createAdmin(w http.ResponseWriter, r *http.Request, mode, successURL string) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.renderFormWithError(w, r, mode, "Image too large (max 8MB).")
		return
	}

	imagePath, err := h.storeProfileImage(r)
	if err == http.ErrMissingFile {
		h.renderFormWithError(w, r, mode, "Please choose a profile image.")
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to store profile image", err)
		h.renderFormWithError(w, r, mode, "Failed to upload profile image.")
		return
	}

	in := adminstore.CreateInput{
		AdminID:       r.FormValue("admin_id"),
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		ContactNumber: r.FormValue("contact_number"),
		Gender:        r.FormValue("gender"),
		Hobby:         r.Form["hobby"],
		Description:   r.FormValue("description"),
		ProfileImage:  imagePath,
	}

	admin, err := h.adminStore.Create(ctx, in)
	if err != nil {
		_ = h.fileStorage.Delete(ctx, imagePath)
		if validation.IsValidation(err) {
			h.renderFormWithError(w, r, mode, err.Error())
			return
		}
		h.errLog.Log(r, "failed to create admin", err)
		h.renderFormWithError(w, r, mode, "Failed to create admin. Please try again.")
		return
	}

	h.logger.Info("admin created",
		zap.String("id", admin.ID.Hex()),
		zap.String("admin_id", admin.AdminID),
	)

	http.Redirect(w, r, successURL, http.StatusSeeOther)
}

// showEdit displays the edit form for an admin.
func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.loadAdmin(w, r)
	if !ok {
		return
	}

	vm := FormVM{
		BaseVM:        viewdata.NewBaseVM(r, "Edit Admin", "/admins/"+admin.ID.Hex()),
		Mode:          "edit",
		ID:            admin.ID.Hex(),
		TagID:         admin.AdminID,
		FirstName:     admin.FirstName,
		LastName:      admin.LastName,
		Email:         admin.Email,
		ContactNumber: admin.ContactNumber,
		Gender:        admin.Gender,
		Hobby:         admin.Hobby,
		Description:   admin.Description,
		ImageURL:      viewdata.ImageURL(admin.ProfileImage),
	}
	templates.Render(w, r, "admins/form", vm)
}

// update processes the edit form. The profile image is optional here; when a
// new one is uploaded the old file is released after the document commits.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admin, ok := h.loadAdmin(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.renderEditWithError(w, r, admin, "Image too large (max 8MB).")
		return
	}

	newImage := ""
	imagePath, err := h.storeProfileImage(r)
	switch {
	case err == http.ErrMissingFile:
		// keep the existing image
	case err != nil:
		h.errLog.Log(r, "failed to store profile image", err)
		h.renderEditWithError(w, r, admin, "Failed to upload profile image.")
		return
	default:
		newImage = imagePath
	}

	tagID := r.FormValue("admin_id")
	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	email := r.FormValue("email")
	contactNumber := r.FormValue("contact_number")
	gender := r.FormValue("gender")
	hobby := r.Form["hobby"]
	description := r.FormValue("description")

	in := adminstore.UpdateInput{
		AdminID:       &tagID,
		FirstName:     &firstName,
		LastName:      &lastName,
		Email:         &email,
		ContactNumber: &contactNumber,
		Gender:        &gender,
		Hobby:         &hobby,
		Description:   &description,
	}
	if newImage != "" {
		in.ProfileImage = &newImage
	}

	if err := h.adminStore.Update(ctx, admin.ID, in); err != nil {
		if newImage != "" {
			_ = h.fileStorage.Delete(ctx, newImage)
		}
		if validation.IsValidation(err) {
			h.renderEditWithError(w, r, admin, err.Error())
			return
		}
		h.errLog.Log(r, "failed to update admin", err)
		h.renderEditWithError(w, r, admin, "Failed to update admin. Please try again.")
		return
	}

	// Release the replaced image only after the document committed.
	if newImage != "" && admin.ProfileImage != "" {
		if err := h.fileStorage.Delete(ctx, admin.ProfileImage); err != nil {
			h.logger.Warn("failed to release old profile image",
				zap.String("path", admin.ProfileImage),
				zap.Error(err),
			)
		}
	}

	http.Redirect(w, r, "/admins?success=updated", http.StatusSeeOther)
}

// delete removes an admin and releases its profile image best-effort.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	deleted, err := h.adminStore.Delete(ctx, objID)
	if err != nil {
		if err == validation.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.errLog.Log(r, "failed to delete admin", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if deleted.ProfileImage != "" {
		if err := h.fileStorage.Delete(ctx, deleted.ProfileImage); err != nil {
			h.logger.Warn("failed to release profile image",
				zap.String("path", deleted.ProfileImage),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("admin deleted",
		zap.String("id", objID.Hex()),
		zap.String("admin_id", deleted.AdminID),
	)

	http.Redirect(w, r, "/admins?success=deleted", http.StatusSeeOther)
}

// loadAdmin resolves the {id} URL param to an admin record, writing the
// error response itself when resolution fails.
func (h *Handler) loadAdmin(w http.ResponseWriter, r *http.Request) (*models.Admin, bool) {
	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	admin, err := h.adminStore.GetByID(r.Context(), objID)
	if err != nil {
		if err == validation.ErrNotFound {
			http.NotFound(w, r)
			return nil, false
		}
		h.errLog.Log(r, "failed to get admin", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return admin, true
}

// storeProfileImage stores the uploaded "profile_image" form file under a
// generated path and returns the path. Returns http.ErrMissingFile when no
// file was submitted.
func (h *Handler) storeProfileImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("profile_image")
	if err != nil {
		return "", err
	}
	defer file.Close()

	now := time.Now().UTC()
	ext := filepath.Ext(header.Filename)
	uniqueName := fmt.Sprintf("%s%s", uuid.New().String()[:8], ext)
	storagePath := fmt.Sprintf("admins/%04d/%02d/%s", now.Year(), int(now.Month()), uniqueName)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.fileStorage.Put(r.Context(), storagePath, file, opts); err != nil {
		return "", err
	}
	return storagePath, nil
}

// renderFormWithError re-renders the create form (register or add) with the
// submitted values and an error message.
func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, mode, errMsg string) {
	title := "Add Admin"
	back := "/admins"
	if mode == "register" {
		title = "Register"
		back = "/login"
	}

	vm := FormVM{
		BaseVM:        viewdata.NewBaseVM(r, title, back),
		Mode:          mode,
		TagID:         r.FormValue("admin_id"),
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		Email:         r.FormValue("email"),
		ContactNumber: r.FormValue("contact_number"),
		Gender:        r.FormValue("gender"),
		Hobby:         r.Form["hobby"],
		Description:   r.FormValue("description"),
		Error:         template.HTML(errMsg),
	}
	templates.Render(w, r, "admins/form", vm)
}

// renderEditWithError re-renders the edit form with the submitted values.
func (h *Handler) renderEditWithError(w http.ResponseWriter, r *http.Request, admin *models.Admin, errMsg string) {
	vm := FormVM{
		BaseVM:        viewdata.NewBaseVM(r, "Edit Admin", "/admins/"+admin.ID.Hex()),
		Mode:          "edit",
		ID:            admin.ID.Hex(),
		TagID:         r.FormValue("admin_id"),
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		Email:         r.FormValue("email"),
		ContactNumber: r.FormValue("contact_number"),
		Gender:        r.FormValue("gender"),
		Hobby:         r.Form["hobby"],
		Description:   r.FormValue("description"),
		ImageURL:      viewdata.ImageURL(admin.ProfileImage),
		Error:         template.HTML(errMsg),
	}
	templates.Render(w, r, "admins/form", vm)
}
