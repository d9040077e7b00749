// internal/app/features/categories/categories.go
package categories

import (
	"html/template"
	"net/http"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	blogstore "github.com/dalemusser/inkwell/internal/app/store/blogs"
	categorystore "github.com/dalemusser/inkwell/internal/app/store/categories"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides category management handlers.
type Handler struct {
	categoryStore *categorystore.Store
	blogStore     *blogstore.Store
	errLog        *errorsfeature.ErrorLogger
	logger        *zap.Logger
}

// NewHandler creates a new categories Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		categoryStore: categorystore.New(db),
		blogStore:     blogstore.New(db),
		errLog:        errLog,
		logger:        logger,
	}
}

// categoryRow represents a category in the list.
type categoryRow struct {
	ID          primitive.ObjectID
	Name        string
	Description string
	PostCount   int64
}

// ListVM is the view model for the categories list.
type ListVM struct {
	viewdata.BaseVM

	Rows  []categoryRow
	Flash template.HTML
}

// FormVM is the view model for the add/edit forms.
type FormVM struct {
	viewdata.BaseVM

	// "add" or "edit"
	Mode string

	ID          string
	Name        string
	Description string

	Error template.HTML
}

// Routes returns a chi.Router with category routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireAuth)

	r.Get("/", h.list)
	r.Get("/add", h.showAdd)
	r.Post("/add", h.create)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/delete", h.delete)

	return r
}

// list displays all categories with their post counts.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categoryStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list categories", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]categoryRow, 0, len(cats))
	for _, c := range cats {
		count, err := h.blogStore.Count(r.Context(), bson.M{"category_id": c.ID})
		if err != nil {
			h.errLog.Log(r, "failed to count posts for category", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rows = append(rows, categoryRow{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			PostCount:   count,
		})
	}

	vm := ListVM{
		BaseVM: viewdata.NewBaseVM(r, "Categories", "/dashboard"),
		Rows:   rows,
	}

	switch r.URL.Query().Get("success") {
	case "created":
		vm.Flash = "Category created."
	case "updated":
		vm.Flash = "Category updated."
	case "deleted":
		vm.Flash = "Category deleted."
	}

	templates.Render(w, r, "categories/list", vm)
}

// showAdd displays the add-category form.
func (h *Handler) showAdd(w http.ResponseWriter, r *http.Request) {
	vm := FormVM{
		BaseVM: viewdata.NewBaseVM(r, "Add Category", "/categories"),
		Mode:   "add",
	}
	templates.Render(w, r, "categories/form", vm)
}

// create processes the add-category form.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")

	cat, err := h.categoryStore.Create(r.Context(), name, description)
	if err != nil {
		h.renderFormWithError(w, r, "add", "", categoryErrorMessage(err, func() {
			h.errLog.Log(r, "failed to create category", err)
		}))
		return
	}

	h.logger.Info("category created",
		zap.String("id", cat.ID.Hex()),
		zap.String("name", cat.Name),
	)

	http.Redirect(w, r, "/categories?success=created", http.StatusSeeOther)
}

// showEdit displays the edit form for a category.
func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.loadCategory(w, r)
	if !ok {
		return
	}

	vm := FormVM{
		BaseVM:      viewdata.NewBaseVM(r, "Edit Category", "/categories"),
		Mode:        "edit",
		ID:          cat.ID.Hex(),
		Name:        cat.Name,
		Description: cat.Description,
	}
	templates.Render(w, r, "categories/form", vm)
}

// update processes the edit form.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.loadCategory(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")

	if err := h.categoryStore.Update(r.Context(), cat.ID, name, description); err != nil {
		h.renderFormWithError(w, r, "edit", cat.ID.Hex(), categoryErrorMessage(err, func() {
			h.errLog.Log(r, "failed to update category", err)
		}))
		return
	}

	http.Redirect(w, r, "/categories?success=updated", http.StatusSeeOther)
}

// delete removes a category. Posts keep their category_id; the panel shows
// them uncategorized until reassigned.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.categoryStore.Delete(r.Context(), objID); err != nil {
		if err == validation.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.errLog.Log(r, "failed to delete category", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("category deleted", zap.String("id", objID.Hex()))

	http.Redirect(w, r, "/categories?success=deleted", http.StatusSeeOther)
}

// loadCategory resolves the {id} URL param to a category record.
func (h *Handler) loadCategory(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	cat, err := h.categoryStore.GetByID(r.Context(), objID)
	if err != nil {
		if err == validation.ErrNotFound {
			http.NotFound(w, r)
			return nil, false
		}
		h.errLog.Log(r, "failed to get category", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return cat, true
}

// categoryErrorMessage maps store errors to user-facing form messages;
// logUnexpected runs for errors outside the validation taxonomy.
func categoryErrorMessage(err error, logUnexpected func()) string {
	switch {
	case validation.Cause(err) == validation.DuplicateCategory:
		return "A category with this name already exists."
	case validation.IsValidation(err):
		return err.Error()
	default:
		logUnexpected()
		return "Failed to save category. Please try again."
	}
}

// renderFormWithError re-renders the form with submitted values.
func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, mode, id, errMsg string) {
	title := "Add Category"
	if mode == "edit" {
		title = "Edit Category"
	}

	vm := FormVM{
		BaseVM:      viewdata.NewBaseVM(r, title, "/categories"),
		Mode:        mode,
		ID:          id,
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Error:       template.HTML(errMsg),
	}
	templates.Render(w, r, "categories/form", vm)
}
