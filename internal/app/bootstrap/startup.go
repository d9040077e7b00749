// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/inkwell/internal/app/resources"
	adminstore "github.com/dalemusser/inkwell/internal/app/store/admins"
	"github.com/dalemusser/inkwell/internal/domain/validation"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.SeedAdminEmail != "" {
		if err := ensureSeedAdmin(ctx, deps, appCfg, logger); err != nil {
			logger.Error("failed to seed admin", zap.Error(err))
			return err
		}
	}

	return nil
}

// ensureSeedAdmin creates the configured first admin if no account with the
// seed email exists yet. The record goes through the regular create pipeline
// so it gets a generated admin_id and a hashed password.
func ensureSeedAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	store := adminstore.New(deps.MongoDatabase)

	if _, err := store.GetByEmail(ctx, appCfg.SeedAdminEmail); err == nil {
		logger.Debug("seed admin already exists", zap.String("email", appCfg.SeedAdminEmail))
		return nil
	} else if !errors.Is(err, validation.ErrNotFound) {
		return err
	}

	admin, err := store.Create(ctx, adminstore.CreateInput{
		FirstName:     appCfg.SeedAdminFirstName,
		LastName:      appCfg.SeedAdminLastName,
		Email:         appCfg.SeedAdminEmail,
		Password:      appCfg.SeedAdminPassword,
		ContactNumber: "unset",
		Gender:        "unspecified",
	})
	if err != nil {
		return err
	}

	logger.Info("created seed admin",
		zap.String("email", admin.Email),
		zap.String("admin_id", admin.AdminID),
	)
	return nil
}
