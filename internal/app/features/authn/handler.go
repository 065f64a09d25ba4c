// internal/app/features/authn/handler.go
package authn

import (
	"github.com/gorilla/securecookie"
	"github.com/kitandahub/kitanda/internal/app/system/auditlog"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
	"github.com/kitandahub/kitanda/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles account registration, password login/logout, and the
// Google OAuth flow.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Logins     *ratelimit.LoginLimiter

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://kitanda.app/auth/google/callback"

	// stateCodec signs the OAuth state cookie so the callback can verify
	// the flow started here.
	stateCodec *securecookie.SecureCookie
}

// NewHandler creates an authn Handler. sessionKey feeds the state cookie
// codec; the same key the session store uses is fine.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL, sessionKey string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		AuditLog:     audit,
		Logins:       ratelimit.NewLoginLimiter(),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		stateCodec:   securecookie.New([]byte(sessionKey), nil),
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleConfigured returns true if Google OAuth is configured.
func (h *Handler) GoogleConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}
