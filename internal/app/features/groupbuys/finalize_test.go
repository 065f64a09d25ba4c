package groupbuys_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	cartstore "github.com/kitandahub/kitanda/internal/app/store/carts"
	orderstore "github.com/kitandahub/kitanda/internal/app/store/orders"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func finalizeRequest(groupID primitive.ObjectID, user testutil.TestUser) *http.Request {
	req := testutil.NewAuthenticatedRequest("POST", "/groups/"+groupID.Hex()+"/finalize", user)
	return testutil.WithChiURLParam(req, "id", groupID.Hex())
}

func TestHandleFinalize_CreatesOrderWithContributions(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	member := fixtures.CreateUser(ctx, "Member", "member@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 3)
	fixtures.CreateMember(ctx, g.ID, member)

	carts := cartstore.New(fixtures.DB())
	if err := carts.PutItem(ctx, g.ID, g.Product, 2); err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}
	for _, c := range []models.StagedContribution{
		{GroupID: g.ID, UserID: creator.ID, UserName: creator.FullName, Amount: 2000},
		{GroupID: g.ID, UserID: member.ID, UserName: member.FullName, Amount: 1000},
	} {
		if err := carts.PutContribution(ctx, c); err != nil {
			t.Fatalf("PutContribution failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	handler.HandleFinalize(rec, finalizeRequest(g.ID, testutil.AsUser(creator)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.OrderType != models.OrderTypeGroup {
		t.Errorf("order type: got %q, want %q", created.OrderType, models.OrderTypeGroup)
	}
	if created.TotalAmount != 3000 {
		t.Errorf("total: got %v, want 3000", created.TotalAmount)
	}
	if created.LojistaID != lojista.ID {
		t.Error("order must go to the group product's lojista")
	}

	orders := orderstore.New(fixtures.DB(), zap.NewNop())
	contribs, err := orders.Contributions(ctx, created.ID)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	if len(contribs) != 2 {
		t.Errorf("contributions: got %d, want 2", len(contribs))
	}

	// Staging data is cleared after finalization.
	items, err := carts.Items(ctx, g.ID)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("cart items after finalize: got %d, want 0", len(items))
	}
}

func TestHandleFinalize_EmptyCart(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 3)

	rec := httptest.NewRecorder()
	handler.HandleFinalize(rec, finalizeRequest(g.ID, testutil.AsUser(creator)))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleFinalize_NonManagerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	member := fixtures.CreateUser(ctx, "Member", "member@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 3)
	fixtures.CreateMember(ctx, g.ID, member)

	rec := httptest.NewRecorder()
	handler.HandleFinalize(rec, finalizeRequest(g.ID, testutil.AsUser(member)))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
