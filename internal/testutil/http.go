// internal/testutil/http.go
package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/kitandahub/kitanda/internal/app/system/auth"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// AdminUser returns a TestUser with the admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  models.RoleAdmin,
	}
}

// ClientUser returns a TestUser with the client role.
func ClientUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Client",
		Email: "client@test.com",
		Role:  models.RoleClient,
	}
}

// LojistaUser returns a TestUser with the lojista role.
func LojistaUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Lojista",
		Email: "lojista@test.com",
		Role:  models.RoleLojista,
	}
}

// CourierUser returns a TestUser with the courier role.
func CourierUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Courier",
		Email: "courier@test.com",
		Role:  models.RoleCourier,
	}
}

// AsUser returns a TestUser carrying the identity of a fixture user, so a
// handler acting as that user passes ownership checks against documents
// the fixture created.
func AsUser(u models.User) TestUser {
	return TestUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	return auth.WithUser(r, sessionUser)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}
