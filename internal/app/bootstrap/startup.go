// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	adminuserstore "github.com/dalemusser/pesantrenhub/internal/app/store/adminusers"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n), zap.Any("timeouts", timeouts.Current()))
	}
	if err := seedAdmin(ctx, deps, appCfg, logger); err != nil {
		return err
	}
	if !appCfg.MediaEnabled() {
		logger.Warn("cloudinary not configured; uploads are disabled")
	}
	if !appCfg.PaymentsEnabled() {
		logger.Info("midtrans not configured; donations are recorded without online checkout")
	}
	return nil
}

// seedAdmin creates the configured admin account when it does not exist.
func seedAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	created, err := adminuserstore.New(deps.MongoDatabase).EnsureSeed(ctx, appCfg.AdminEmail, appCfg.AdminPassword, appCfg.AdminName)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Info("created admin account", zap.String("email", appCfg.AdminEmail))
	}
	return nil
}
