// internal/app/features/blogs/blogs.go
package blogs

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	blogstore "github.com/dalemusser/inkwell/internal/app/store/blogs"
	categorystore "github.com/dalemusser/inkwell/internal/app/store/categories"
	"github.com/dalemusser/inkwell/internal/app/store/storeutil"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/htmlsanitize"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	pageSize      = 20
	maxUploadSize = 8 << 20 // 8 MB
)

// Handler provides blog management handlers.
type Handler struct {
	blogStore     *blogstore.Store
	categoryStore *categorystore.Store
	fileStorage   storage.Store
	errLog        *errorsfeature.ErrorLogger
	logger        *zap.Logger
}

// NewHandler creates a new blogs Handler.
func NewHandler(db *mongo.Database, fileStorage storage.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		blogStore:     blogstore.New(db),
		categoryStore: categorystore.New(db),
		fileStorage:   fileStorage,
		errLog:        errLog,
		logger:        logger,
	}
}

// blogRow represents a post in the list.
type blogRow struct {
	ID          primitive.ObjectID
	Title       string
	Slug        string
	Status      string
	Category    string
	AuthorName  string
	ReadingTime int
	CreatedAt   time.Time
}

// ListVM is the view model for the posts list.
type ListVM struct {
	viewdata.BaseVM

	// Filter state
	Status     string // "", draft, published
	CategoryID string

	Categories []models.Category

	Page     int
	PrevPage int
	NextPage int
	Total    int64
	HasPrev  bool
	HasNext  bool

	Rows []blogRow

	Flash template.HTML
}

// FormVM is the view model for the add/edit forms.
type FormVM struct {
	viewdata.BaseVM

	// "add" or "edit"
	Mode string

	ID         string
	PostTitle  string
	Slug       string
	Summary    string
	Content    string
	CategoryID string
	Tags       string
	Status     string
	ImageURL   string

	Categories []models.Category

	Error template.HTML
}

// ShowVM is the view model for the post detail page.
type ShowVM struct {
	viewdata.BaseVM

	Blog     *models.Blog
	Category string
	Content  template.HTML
	ImageURL string
}

// Routes returns a chi.Router with blog management routes mounted.
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

// list displays posts with status/category filters and pagination.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := strings.TrimSpace(q.Get("status"))
	if !models.IsValidStatus(status) {
		status = ""
	}
	categoryID := strings.TrimSpace(q.Get("category"))

	page := 1
	if pageStr := q.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if categoryID != "" {
		if oid, err := primitive.ObjectIDFromHex(categoryID); err == nil {
			filter["category_id"] = oid
		}
	}

	total, err := h.blogStore.Count(r.Context(), filter)
	if err != nil {
		h.errLog.Log(r, "failed to count posts", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	posts, err := h.blogStore.List(r.Context(), filter, storeutil.Paginate(pageSize, int64(page)))
	if err != nil {
		h.errLog.Log(r, "failed to list posts", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := h.categoryStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list categories", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	catNames := make(map[primitive.ObjectID]string, len(categories))
	for _, c := range categories {
		catNames[c.ID] = c.Name
	}

	rows := make([]blogRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, blogRow{
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Status:      p.Status,
			Category:    catNames[p.CategoryID],
			AuthorName:  p.AuthorName,
			ReadingTime: p.ReadingTime,
			CreatedAt:   p.CreatedAt,
		})
	}

	vm := ListVM{
		BaseVM:     viewdata.NewBaseVM(r, "Posts", "/dashboard"),
		Status:     status,
		CategoryID: categoryID,
		Categories: categories,
		Page:       page,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    int64(page*pageSize) < total,
		Rows:       rows,
	}

	switch q.Get("success") {
	case "created":
		vm.Flash = "Post created."
	case "updated":
		vm.Flash = "Post updated."
	case "deleted":
		vm.Flash = "Post deleted."
	}

	templates.Render(w, r, "blogs/list", vm)
}

// show displays a single post with its sanitized content rendered.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadBlog(w, r)
	if !ok {
		return
	}

	categoryName := ""
	if cat, err := h.categoryStore.GetByID(r.Context(), post.CategoryID); err == nil {
		categoryName = cat.Name
	}

	vm := ShowVM{
		BaseVM:   viewdata.NewBaseVM(r, post.Title, "/blogs"),
		Blog:     post,
		Category: categoryName,
		// Content was sanitized on write; safe to render as HTML.
		Content:  template.HTML(post.Content),
		ImageURL: viewdata.ImageURL(post.BlogImage),
	}
	templates.Render(w, r, "blogs/show", vm)
}

// showAdd displays the add-post form.
func (h *Handler) showAdd(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list categories", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := FormVM{
		BaseVM:     viewdata.NewBaseVM(r, "Add Post", "/blogs"),
		Mode:       "add",
		Status:     models.StatusPublished,
		Categories: categories,
	}
	templates.Render(w, r, "blogs/form", vm)
}

// create processes the add-post form. The cover image is optional; content
// is sanitized before it reaches the store.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := auth.CurrentAdmin(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.renderFormWithError(w, r, "add", "", "Image too large (max 8MB).")
		return
	}

	imagePath := ""
	path, err := h.storeBlogImage(r)
	switch {
	case err == http.ErrMissingFile:
		// cover image is optional
	case err != nil:
		h.errLog.Log(r, "failed to store cover image", err)
		h.renderFormWithError(w, r, "add", "", "Failed to upload cover image.")
		return
	default:
		imagePath = path
	}

	var categoryID primitive.ObjectID
	if v := r.FormValue("category_id"); v != "" {
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			categoryID = oid
		}
	}

	in := blogstore.CreateInput{
		Title:      r.FormValue("title"),
		Slug:       r.FormValue("slug"),
		Summary:    r.FormValue("summary"),
		Content:    htmlsanitize.Sanitize(r.FormValue("content")),
		BlogImage:  imagePath,
		AuthorName: actor.Name,
		AuthorID:   actor.ObjectID(),
		CategoryID: categoryID,
		Tags:       splitTags(r.FormValue("tags")),
		Status:     r.FormValue("status"),
	}

	post, err := h.blogStore.Create(ctx, in)
	if err != nil {
		if imagePath != "" {
			_ = h.fileStorage.Delete(ctx, imagePath)
		}
		msg, unexpected := storeErrorMessage(err)
		if unexpected {
			h.errLog.Log(r, "failed to create post", err)
		}
		h.renderFormWithError(w, r, "add", "", msg)
		return
	}

	h.logger.Info("post created",
		zap.String("id", post.ID.Hex()),
		zap.String("slug", post.Slug),
	)

	http.Redirect(w, r, "/blogs?success=created", http.StatusSeeOther)
}

// showEdit displays the edit form for a post.
func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadBlog(w, r)
	if !ok {
		return
	}

	categories, err := h.categoryStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list categories", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := FormVM{
		BaseVM:     viewdata.NewBaseVM(r, "Edit Post", "/blogs/"+post.ID.Hex()),
		Mode:       "edit",
		ID:         post.ID.Hex(),
		PostTitle:  post.Title,
		Slug:       post.Slug,
		Summary:    post.Summary,
		Content:    post.Content,
		CategoryID: post.CategoryID.Hex(),
		Tags:       strings.Join(post.Tags, ", "),
		Status:     post.Status,
		ImageURL:   viewdata.ImageURL(post.BlogImage),
		Categories: categories,
	}
	templates.Render(w, r, "blogs/form", vm)
}

// update processes the edit form. Submitting an empty slug or summary asks
// the store to re-derive it; a replaced cover image releases the old file
// after the document commits.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := h.loadBlog(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.renderFormWithError(w, r, "edit", post.ID.Hex(), "Image too large (max 8MB).")
		return
	}

	newImage := ""
	path, err := h.storeBlogImage(r)
	switch {
	case err == http.ErrMissingFile:
		// keep the existing image
	case err != nil:
		h.errLog.Log(r, "failed to store cover image", err)
		h.renderFormWithError(w, r, "edit", post.ID.Hex(), "Failed to upload cover image.")
		return
	default:
		newImage = path
	}

	title := r.FormValue("title")
	slug := r.FormValue("slug")
	summary := r.FormValue("summary")
	content := htmlsanitize.Sanitize(r.FormValue("content"))
	tags := splitTags(r.FormValue("tags"))
	status := r.FormValue("status")

	in := blogstore.UpdateInput{
		Title:   &title,
		Slug:    &slug,
		Summary: &summary,
		Content: &content,
		Tags:    &tags,
		Status:  &status,
	}
	if v := r.FormValue("category_id"); v != "" {
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			in.CategoryID = &oid
		}
	}
	if newImage != "" {
		in.BlogImage = &newImage
	}

	if _, err := h.blogStore.Update(ctx, post.ID, in); err != nil {
		if newImage != "" {
			_ = h.fileStorage.Delete(ctx, newImage)
		}
		msg, unexpected := storeErrorMessage(err)
		if unexpected {
			h.errLog.Log(r, "failed to update post", err)
		}
		h.renderFormWithError(w, r, "edit", post.ID.Hex(), msg)
		return
	}

	if newImage != "" && post.BlogImage != "" {
		if err := h.fileStorage.Delete(ctx, post.BlogImage); err != nil {
			h.logger.Warn("failed to release old cover image",
				zap.String("path", post.BlogImage),
				zap.Error(err),
			)
		}
	}

	http.Redirect(w, r, "/blogs?success=updated", http.StatusSeeOther)
}

// delete removes a post and releases its cover image best-effort.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	deleted, err := h.blogStore.Delete(ctx, objID)
	if err != nil {
		if err == validation.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.errLog.Log(r, "failed to delete post", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if deleted.BlogImage != "" {
		if err := h.fileStorage.Delete(ctx, deleted.BlogImage); err != nil {
			h.logger.Warn("failed to release cover image",
				zap.String("path", deleted.BlogImage),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("post deleted",
		zap.String("id", objID.Hex()),
		zap.String("slug", deleted.Slug),
	)

	http.Redirect(w, r, "/blogs?success=deleted", http.StatusSeeOther)
}

// loadBlog resolves the {id} URL param to a post, writing the error response
// itself when resolution fails.
func (h *Handler) loadBlog(w http.ResponseWriter, r *http.Request) (*models.Blog, bool) {
	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	post, err := h.blogStore.GetByID(r.Context(), objID)
	if err != nil {
		if err == validation.ErrNotFound {
			http.NotFound(w, r)
			return nil, false
		}
		h.errLog.Log(r, "failed to get post", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return post, true
}

// storeBlogImage stores the uploaded "blog_image" form file under a
// generated path and returns the path. Returns http.ErrMissingFile when no
// file was submitted.
func (h *Handler) storeBlogImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("blog_image")
	if err != nil {
		return "", err
	}
	defer file.Close()

	now := time.Now().UTC()
	ext := filepath.Ext(header.Filename)
	uniqueName := fmt.Sprintf("%s%s", uuid.New().String()[:8], ext)
	storagePath := fmt.Sprintf("blogs/%04d/%02d/%s", now.Year(), int(now.Month()), uniqueName)

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

// storeErrorMessage maps store errors to user-facing form messages. The
// second return is true for unexpected errors the caller should log.
func storeErrorMessage(err error) (string, bool) {
	switch {
	case validation.Cause(err) == validation.DuplicateSlug:
		return "A post with this slug already exists. Adjust the title or slug and resubmit.", false
	case validation.Cause(err) == validation.EmptySlug:
		return "The title does not produce a usable slug. Supply one explicitly.", false
	case validation.IsValidation(err):
		return err.Error(), false
	default:
		return "Failed to save post. Please try again.", true
	}
}

// splitTags parses a comma-separated tags field.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// renderFormWithError re-renders the add/edit form with submitted values.
func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, mode, id, errMsg string) {
	categories, err := h.categoryStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list categories", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	title := "Add Post"
	back := "/blogs"
	if mode == "edit" {
		title = "Edit Post"
		back = "/blogs/" + id
	}

	vm := FormVM{
		BaseVM:     viewdata.NewBaseVM(r, title, back),
		Mode:       mode,
		ID:         id,
		PostTitle:  r.FormValue("title"),
		Slug:       r.FormValue("slug"),
		Summary:    r.FormValue("summary"),
		Content:    r.FormValue("content"),
		CategoryID: r.FormValue("category_id"),
		Tags:       r.FormValue("tags"),
		Status:     r.FormValue("status"),
		Categories: categories,
		Error:      template.HTML(errMsg),
	}
	templates.Render(w, r, "blogs/form", vm)
}
