package userstore_test

import (
	"testing"

	userstore "github.com/kitandahub/kitanda/internal/app/store/users"
	"github.com/kitandahub/kitanda/internal/app/system/indexes"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	// The duplicate-email path depends on the unique index on email_ci.
	if err := indexes.Ensure(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}
	return userstore.New(db)
}

func TestRegister_And_Authenticate(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Register(ctx, "Maria Macuácua", "Maria@Example.com", "s3nha-forte", models.RoleClient)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.EmailCI != "maria@example.com" {
		t.Errorf("email_ci: got %q, want %q", u.EmailCI, "maria@example.com")
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3nha-forte" {
		t.Error("password must be stored hashed")
	}

	// Login is case-insensitive on email.
	got, err := store.Authenticate(ctx, "maria@example.COM", "s3nha-forte")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated user: got %s, want %s", got.ID.Hex(), u.ID.Hex())
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Register(ctx, "Maria", "maria@example.com", "s3nha-forte", models.RoleClient); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Same address with different casing collides on the folded form.
	_, err := store.Register(ctx, "Outra Maria", "MARIA@example.com", "outra-senha", models.RoleLojista)
	if err != userstore.ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Register(ctx, "Maria", "maria@example.com", "s3nha-forte", models.RoleClient); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := store.Authenticate(ctx, "maria@example.com", "senha-errada"); err != userstore.ErrBadCredentials {
		t.Errorf("wrong password: expected ErrBadCredentials, got %v", err)
	}
	// Unknown accounts fail with the same error, so login cannot be used
	// to probe which emails exist.
	if _, err := store.Authenticate(ctx, "ninguem@example.com", "s3nha-forte"); err != userstore.ErrBadCredentials {
		t.Errorf("unknown email: expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticate_GoogleOnlyAccount(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.UpsertGoogle(ctx, "João", "joao@gmail.com"); err != nil {
		t.Fatalf("UpsertGoogle failed: %v", err)
	}

	if _, err := store.Authenticate(ctx, "joao@gmail.com", "qualquer"); err != userstore.ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials for google-only account, got %v", err)
	}
}

func TestUpsertGoogle_KeepsExistingAccount(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	registered, err := store.Register(ctx, "Maria", "maria@example.com", "s3nha-forte", models.RoleLojista)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Google sign-in with an email that already has a password account
	// reuses it: role and password survive.
	got, err := store.UpsertGoogle(ctx, "Maria pelo Google", "maria@example.com")
	if err != nil {
		t.Fatalf("UpsertGoogle failed: %v", err)
	}
	if got.ID != registered.ID {
		t.Errorf("user: got %s, want %s", got.ID.Hex(), registered.ID.Hex())
	}
	if got.Role != models.RoleLojista {
		t.Errorf("role: got %q, want %q", got.Role, models.RoleLojista)
	}
}

func TestUpsertGoogle_CreatesClient(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.UpsertGoogle(ctx, "João", "joao@gmail.com")
	if err != nil {
		t.Fatalf("UpsertGoogle failed: %v", err)
	}
	if u.Role != models.RoleClient {
		t.Errorf("role: got %q, want %q", u.Role, models.RoleClient)
	}
	if u.PasswordHash != "" {
		t.Error("google account must not carry a password hash")
	}
}

func TestSetRole(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Register(ctx, "Maria", "maria@example.com", "s3nha-forte", models.RoleClient)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want %q", got.Role, models.RoleAdmin)
	}
}
