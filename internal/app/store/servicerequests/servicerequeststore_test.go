package servicerequeststore_test

import (
	"testing"

	servicerequeststore "github.com/kitandahub/kitanda/internal/app/store/servicerequests"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createBooking(t *testing.T, store *servicerequeststore.Store, fixtures *testutil.Fixtures) models.ServiceRequest {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	client := fixtures.CreateUser(ctx, "Cliente", "cliente@example.com", models.RoleClient)
	service := fixtures.CreateService(ctx, lojista.ID, "Reparação de bicicletas", 200)

	r, err := store.Create(ctx, models.ServiceRequest{
		ProductID:   service.ID,
		ProductName: service.Name,
		LojistaID:   service.LojistaID,
		ClientID:    client.ID,
		ClientName:  client.FullName,
		Note:        "pneu furado",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return r
}

func TestCreate_StartsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	r := createBooking(t, store, fixtures)
	if r.Status != models.ServicePending {
		t.Errorf("status: got %q, want %q", r.Status, models.ServicePending)
	}
}

func TestAccept_ThenComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := createBooking(t, store, fixtures)

	if err := store.Accept(ctx, r.ID, r.LojistaID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	got, err := store.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ServiceAccepted {
		t.Errorf("status: got %q, want %q", got.Status, models.ServiceAccepted)
	}

	if err := store.Complete(ctx, r.ID, r.LojistaID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, err = store.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ServiceCompleted {
		t.Errorf("status: got %q, want %q", got.Status, models.ServiceCompleted)
	}
}

func TestComplete_RequiresAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := createBooking(t, store, fixtures)

	if err := store.Complete(ctx, r.ID, r.LojistaID); err != servicerequeststore.ErrBadTransition {
		t.Errorf("expected ErrBadTransition, got %v", err)
	}
}

func TestDecline_TwiceIsRefused(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := createBooking(t, store, fixtures)

	if err := store.Decline(ctx, r.ID, r.LojistaID); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if err := store.Decline(ctx, r.ID, r.LojistaID); err != servicerequeststore.ErrBadTransition {
		t.Errorf("second Decline: expected ErrBadTransition, got %v", err)
	}
}

func TestTransitions_ScopedToOwningLojista(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := createBooking(t, store, fixtures)

	if err := store.Accept(ctx, r.ID, primitive.NewObjectID()); err != servicerequeststore.ErrNotFound {
		t.Errorf("foreign lojista: expected ErrNotFound, got %v", err)
	}
	got, err := store.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ServicePending {
		t.Errorf("status must stay %q, got %q", models.ServicePending, got.Status)
	}
}
