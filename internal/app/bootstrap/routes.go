// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	authnfeature "github.com/kitandahub/kitanda/internal/app/features/authn"
	groupbuysfeature "github.com/kitandahub/kitanda/internal/app/features/groupbuys"
	healthfeature "github.com/kitandahub/kitanda/internal/app/features/health"
	notificationsfeature "github.com/kitandahub/kitanda/internal/app/features/notifications"
	ordersfeature "github.com/kitandahub/kitanda/internal/app/features/orders"
	productsfeature "github.com/kitandahub/kitanda/internal/app/features/products"
	promotionsfeature "github.com/kitandahub/kitanda/internal/app/features/promotions"
	servicerequestsfeature "github.com/kitandahub/kitanda/internal/app/features/servicerequests"
	"github.com/kitandahub/kitanda/internal/app/store/audit"
	"github.com/kitandahub/kitanda/internal/app/system/auditlog"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	auditLogger := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts and sessions
	authnHandler := authnfeature.NewHandler(
		deps.MongoDatabase, sessionMgr, auditLogger,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.SessionKey, logger)
	r.Mount("/auth", authnfeature.Routes(authnHandler))

	// Catalog
	productsHandler := productsfeature.NewHandler(deps.MongoDatabase, deps.Media, logger)
	r.Mount("/products", productsfeature.Routes(productsHandler, sessionMgr))

	// Group buys: lifecycle, membership, chat, cart, finalization
	groupsHandler := groupbuysfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	r.Mount("/groups", groupbuysfeature.Routes(groupsHandler, sessionMgr))

	// Orders and the delivery flow
	ordersHandler := ordersfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	r.Mount("/orders", ordersfeature.Routes(ordersHandler, sessionMgr))

	// Promotion payments
	promotionsHandler := promotionsfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	r.Mount("/promotions", promotionsfeature.Routes(promotionsHandler, sessionMgr))

	// Service bookings
	servicesHandler := servicerequestsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/services", servicerequestsfeature.Routes(servicesHandler, sessionMgr))

	// Notification feed
	notificationsHandler := notificationsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	return r, nil
}
