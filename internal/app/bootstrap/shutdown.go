// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown closes the pesantrenhub MongoDB client. In-flight donation
// writes have already drained by the time WAFFLE calls it.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoClient == nil {
		return nil
	}
	logger.Info("closing pesantrenhub database connection", zap.String("database", appCfg.MongoDatabase))
	if err := deps.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("pesantrenhub database disconnect failed",
			zap.String("database", appCfg.MongoDatabase), zap.Error(err))
		return err
	}
	return nil
}
