// internal/app/system/viewdata/viewdata.go
package viewdata

// Terminology: Admin Identifiers
//   - ID / id: The MongoDB ObjectID (_id) that uniquely identifies an admin record
//   - AdminID / admin_id: The human-readable "ADM0001"-style tag shown in the panel

import (
	"net/http"

	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// Admin context (from auth middleware)
	IsLoggedIn bool
	AdminOID   string // ObjectID hex of the signed-in admin
	AdminID    string // human-readable tag (ADM0001)
	AdminName  string
	AdminEmail string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Security
	CSRFToken string // CSRF token for forms (use in hidden input field)
}

// storageProvider is set by Init and used to generate image URLs.
var storageProvider storage.Store

// Init sets the storage provider for viewdata.
// Call this once at startup from bootstrap.
func Init(store storage.Store) {
	storageProvider = store
}

// ImageURL resolves a stored image path to a servable URL.
// Returns empty string when there is no path or no provider configured.
func ImageURL(path string) string {
	if path == "" || storageProvider == nil {
		return ""
	}
	return storageProvider.URL(path)
}

// NewBaseVM creates a fully populated BaseVM for a page.
// This is the preferred way to create a BaseVM for embedding in view models.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if admin, ok := auth.CurrentAdmin(r); ok {
		vm.IsLoggedIn = true
		vm.AdminOID = admin.ID
		vm.AdminID = admin.AdminID
		vm.AdminName = admin.Name
		vm.AdminEmail = admin.Email
	}

	return vm
}

// New creates a BaseVM without page-specific context.
// This is the standard way to create a BaseVM for most handlers.
func New(r *http.Request) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if admin, ok := auth.CurrentAdmin(r); ok {
		vm.IsLoggedIn = true
		vm.AdminOID = admin.ID
		vm.AdminID = admin.AdminID
		vm.AdminName = admin.Name
		vm.AdminEmail = admin.Email
	}

	return vm
}
