// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	userstore "github.com/kitandahub/kitanda/internal/app/store/users"
	"github.com/kitandahub/kitanda/internal/app/system/workers"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.uber.org/zap"
)

// pruneWorker is stopped from Shutdown.
var pruneWorker *workers.NotificationPrune

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It promotes the configured admin account and starts the notification
// pruning worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		users := userstore.New(deps.MongoDatabase)
		u, err := users.GetByEmail(ctx, appCfg.AdminEmail)
		switch {
		case err == userstore.ErrNotFound:
			logger.Warn("admin account does not exist yet; register it and restart",
				zap.String("email", appCfg.AdminEmail))
		case err != nil:
			return err
		case u.Role != models.RoleAdmin:
			if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
				return err
			}
			logger.Info("promoted admin account", zap.String("user_id", u.ID.Hex()))
		}
	}

	retention := time.Duration(appCfg.NotificationTTLDays) * 24 * time.Hour
	pruneWorker = workers.NewNotificationPrune(
		notificationstore.New(deps.MongoDatabase), logger, time.Hour, retention)
	pruneWorker.Start()

	return nil
}
