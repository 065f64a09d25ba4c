package grouppolicy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kitandahub/kitanda/internal/app/policy/grouppolicy"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func asUser(id primitive.ObjectID, role string) *http.Request {
	r := httptest.NewRequest("GET", "/groups/x", nil)
	return auth.WithUser(r, &auth.SessionUser{ID: id.Hex(), Name: "Test", Role: role})
}

func TestCanManageGroup(t *testing.T) {
	creatorID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	if !grouppolicy.CanManageGroup(asUser(creatorID, models.RoleClient), creatorID) {
		t.Error("creator should manage their group")
	}
	if !grouppolicy.CanManageGroup(asUser(otherID, models.RoleAdmin), creatorID) {
		t.Error("admin should manage any group")
	}
	if grouppolicy.CanManageGroup(asUser(otherID, models.RoleClient), creatorID) {
		t.Error("a non-creator should not manage the group")
	}
	anon := httptest.NewRequest("GET", "/groups/x", nil)
	if grouppolicy.CanManageGroup(anon, creatorID) {
		t.Error("anonymous request should not manage the group")
	}
}

func TestCanParticipate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	member := fixtures.CreateUser(ctx, "Member", "member@example.com", models.RoleClient)
	outsider := fixtures.CreateUser(ctx, "Outsider", "outsider@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 5)
	fixtures.CreateMember(ctx, g.ID, member)

	ok, err := grouppolicy.CanParticipate(ctx, db, asUser(creator.ID, creator.Role), g.ID, g.CreatorID)
	if err != nil || !ok {
		t.Errorf("creator: got (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = grouppolicy.CanParticipate(ctx, db, asUser(member.ID, member.Role), g.ID, g.CreatorID)
	if err != nil || !ok {
		t.Errorf("member: got (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = grouppolicy.CanParticipate(ctx, db, asUser(outsider.ID, outsider.Role), g.ID, g.CreatorID)
	if err != nil || ok {
		t.Errorf("outsider: got (%v, %v), want (false, nil)", ok, err)
	}
	ok, err = grouppolicy.CanParticipate(ctx, db, asUser(outsider.ID, models.RoleAdmin), g.ID, g.CreatorID)
	if err != nil || !ok {
		t.Errorf("admin: got (%v, %v), want (true, nil)", ok, err)
	}
}

func TestIsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Feijão 10kg", 800)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 3)

	ok, err := grouppolicy.IsMember(ctx, db, g.ID, creator.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("creator should be a member of their own group")
	}

	ok, err = grouppolicy.IsMember(ctx, db, g.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if ok {
		t.Error("unknown user should not be a member")
	}
}
