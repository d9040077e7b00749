// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"net/http"

	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	blogstore "github.com/dalemusser/inkwell/internal/app/store/blogs"
	categorystore "github.com/dalemusser/inkwell/internal/app/store/categories"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides dashboard handlers.
type Handler struct {
	adminStore    *adminstore.Store
	blogStore     *blogstore.Store
	categoryStore *categorystore.Store
	errLog        *errorsfeature.ErrorLogger
	logger        *zap.Logger
}

// NewHandler creates a new dashboard Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		adminStore:    adminstore.New(db),
		blogStore:     blogstore.New(db),
		categoryStore: categorystore.New(db),
		errLog:        errLog,
		logger:        logger,
	}
}

// DashboardVM is the view model for the dashboard.
type DashboardVM struct {
	viewdata.BaseVM

	AdminCount     int64
	PostCount      int64
	PublishedCount int64
	DraftCount     int64
	CategoryCount  int64
}

// Routes returns a chi.Router with dashboard routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireAuth)
	r.Get("/", h.showDashboard)
	return r
}

// showDashboard displays the record counts.
func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adminCount, err := h.adminStore.Count(ctx)
	if err != nil {
		h.errLog.Log(r, "failed to count admins", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	byStatus, err := h.blogStore.CountByStatus(ctx)
	if err != nil {
		h.errLog.Log(r, "failed to count posts", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categoryCount, err := h.categoryStore.Count(ctx)
	if err != nil {
		h.errLog.Log(r, "failed to count categories", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	published := byStatus[models.StatusPublished]
	draft := byStatus[models.StatusDraft]

	vm := DashboardVM{
		BaseVM:         viewdata.NewBaseVM(r, "Dashboard", "/"),
		AdminCount:     adminCount,
		PostCount:      published + draft,
		PublishedCount: published,
		DraftCount:     draft,
		CategoryCount:  categoryCount,
	}

	templates.Render(w, r, "dashboard/index", vm)
}
