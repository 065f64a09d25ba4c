package groupbuys_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kitandahub/kitanda/internal/app/features/groupbuys"
	memberstore "github.com/kitandahub/kitanda/internal/app/store/members"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groupbuys.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := groupbuys.NewHandler(db, nil, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func approveRequest(groupID, userID primitive.ObjectID, user testutil.TestUser) *http.Request {
	target := "/groups/" + groupID.Hex() + "/requests/" + userID.Hex() + "/approve"
	req := testutil.NewAuthenticatedRequest("POST", target, user)
	req = testutil.WithChiURLParam(req, "id", groupID.Hex())
	return testutil.WithChiURLParam(req, "userID", userID.Hex())
}

func removeRequest(groupID, userID primitive.ObjectID, user testutil.TestUser) *http.Request {
	target := "/groups/" + groupID.Hex() + "/members/" + userID.Hex()
	req := testutil.NewAuthenticatedRequest("DELETE", target, user)
	req = testutil.WithChiURLParam(req, "id", groupID.Hex())
	return testutil.WithChiURLParam(req, "userID", userID.Hex())
}

func TestHandleApprove_CreatorApproves(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 5)
	fixtures.CreateJoinRequest(ctx, g.ID, joiner)

	rec := httptest.NewRecorder()
	handler.HandleApprove(rec, approveRequest(g.ID, joiner.ID, testutil.AsUser(creator)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	members := memberstore.New(fixtures.DB(), zap.NewNop())
	ok, err := members.IsMember(ctx, g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("approved user should be a member")
	}
}

func TestHandleApprove_NonManagerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)
	other := fixtures.CreateUser(ctx, "Outro", "outro@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 5)
	fixtures.CreateJoinRequest(ctx, g.ID, joiner)

	rec := httptest.NewRecorder()
	handler.HandleApprove(rec, approveRequest(g.ID, joiner.ID, testutil.AsUser(other)))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	members := memberstore.New(fixtures.DB(), zap.NewNop())
	ok, err := members.IsMember(ctx, g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if ok {
		t.Error("request must stay pending after a forbidden approval")
	}
}

func TestHandleRemoveMember_CreatorRefused(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 5)

	rec := httptest.NewRecorder()
	handler.HandleRemoveMember(rec, removeRequest(g.ID, creator.ID, testutil.AdminUser()))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleRequestJoin_AlreadyMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	member := fixtures.CreateUser(ctx, "Member", "member@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 5)
	fixtures.CreateMember(ctx, g.ID, member)

	req := testutil.NewAuthenticatedRequest("POST", "/groups/"+g.ID.Hex()+"/join", testutil.AsUser(member))
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleRequestJoin(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleRequestJoin_MissingGroup(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)
	missing := primitive.NewObjectID()

	req := testutil.NewAuthenticatedRequest("POST", "/groups/"+missing.Hex()+"/join", testutil.AsUser(joiner))
	req = testutil.WithChiURLParam(req, "id", missing.Hex())

	rec := httptest.NewRecorder()
	handler.HandleRequestJoin(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
