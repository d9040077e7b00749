// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adminsfeature "github.com/dalemusser/inkwell/internal/app/features/admins"
	blogsfeature "github.com/dalemusser/inkwell/internal/app/features/blogs"
	categoriesfeature "github.com/dalemusser/inkwell/internal/app/features/categories"
	dashboardfeature "github.com/dalemusser/inkwell/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/inkwell/internal/app/features/errors"
	healthfeature "github.com/dalemusser/inkwell/internal/app/features/health"
	loginfeature "github.com/dalemusser/inkwell/internal/app/features/login"
	logoutfeature "github.com/dalemusser/inkwell/internal/app/features/logout"
	profilefeature "github.com/dalemusser/inkwell/internal/app/features/profile"
	appresources "github.com/dalemusser/inkwell/internal/app/resources"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/app/system/auth"
	"github.com/dalemusser/inkwell/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It:
//  1. Creates the session manager and wires the admin fetcher
//  2. Boots the template engine
//  3. Assembles the chi router with the global middleware stack
//  4. Mounts every feature router
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The admin fetcher makes LoadSessionAdmin pull fresh admin data on each
	// request, so deleted accounts and profile edits take effect immediately.
	adminStore := adminstore.New(deps.MongoDatabase)
	sessionMgr.SetAdminFetcher(adminStore)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Viewdata resolves stored image paths to URLs through the storage backend.
	viewdata.Init(deps.FileStorage)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionAdmin)

	// CSRF protection. Cookie name is "inkwell_csrf" to avoid collisions with
	// other services on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("inkwell_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	if !secure {
		// In dev mode, trust localhost origins for CSRF validation.
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Embedded static assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Uploaded files (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// The panel has no public site; the root goes straight to the dashboard,
	// which bounces unauthenticated visitors to the login page.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusSeeOther)
	})

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Admin accounts: public registration plus authenticated management
	adminsHandler := adminsfeature.NewHandler(deps.MongoDatabase, deps.FileStorage, errLog, logger)
	r.Mount("/register", adminsfeature.RegisterRoutes(adminsHandler))
	r.Mount("/admins", adminsfeature.Routes(adminsHandler, sessionMgr))

	// Profile (view + change password)
	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Posts and categories
	blogsHandler := blogsfeature.NewHandler(deps.MongoDatabase, deps.FileStorage, errLog, logger)
	r.Mount("/blogs", blogsfeature.Routes(blogsHandler, sessionMgr))

	categoriesHandler := categoriesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/categories", categoriesfeature.Routes(categoriesHandler, sessionMgr))

	// Dashboard
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
