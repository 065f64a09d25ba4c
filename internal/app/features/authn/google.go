// internal/app/features/authn/google.go
package authn

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kitandahub/kitanda/internal/app/store/audit"
	userstore "github.com/kitandahub/kitanda/internal/app/store/users"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const stateCookie = "oauth_state"

// ServeGoogleLogin starts the Google OAuth flow: generate a state value,
// stash its signed form in a short-lived cookie, and redirect to Google's
// consent screen.
func (h *Handler) ServeGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.GoogleConfigured() {
		h.Log.Warn("Google OAuth not configured")
		respond.Error(w, http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	encoded, err := h.stateCodec.Encode(stateCookie, state)
	if err != nil {
		h.Log.Error("failed to encode OAuth state", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	h.Log.Debug("initiating Google OAuth flow", zap.String("redirect_url", url))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeGoogleCallback handles the OAuth callback: verify the state against
// the signed cookie, exchange the code, fetch the Google profile, find or
// create the account, and open a session.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		respond.Error(w, http.StatusUnauthorized, "google sign-in was denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || !h.validState(r, state) {
		h.Log.Warn("invalid or expired OAuth state")
		respond.Error(w, http.StatusUnauthorized, "invalid sign-in state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respond.Error(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		respond.Error(w, http.StatusUnauthorized, "sign-in failed")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		respond.Error(w, http.StatusBadGateway, "sign-in failed")
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.UpsertGoogle(dbCtx, googleUser.Name, googleUser.Email)
	if err != nil {
		h.Log.Error("google sign-in lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}
	if u.Status == "disabled" {
		h.AuditLog.Auth(dbCtx, r, audit.EventLoginFailedUserDisabled, &u.ID, false, "account disabled", nil)
		respond.Error(w, http.StatusUnauthorized, "account disabled")
		return
	}

	sessUser := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, sessUser); err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	h.AuditLog.Auth(dbCtx, r, audit.EventLoginSuccess, &u.ID, true, "", map[string]string{"method": "google"})
	h.Log.Info("user logged in via Google OAuth", zap.String("user_id", u.ID.Hex()))

	respond.JSON(w, http.StatusOK, u)
}

// validState checks the callback state against the signed cookie set by
// ServeGoogleLogin and clears the cookie either way.
func (h *Handler) validState(r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	var stored string
	if err := h.stateCodec.Decode(stateCookie, c.Value, &stored); err != nil {
		return false
	}
	return stored == state
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo
// endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
