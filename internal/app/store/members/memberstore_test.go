package memberstore_test

import (
	"testing"

	groupbuystore "github.com/kitandahub/kitanda/internal/app/store/groupbuys"
	memberstore "github.com/kitandahub/kitanda/internal/app/store/members"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setupGroup(t *testing.T) (*memberstore.Store, *testutil.Fixtures, models.GroupBuy) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com", models.RoleClient)
	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Arroz 25kg", 1500)
	g := fixtures.CreateGroupBuy(ctx, creator, product, 5)

	return memberstore.New(db, zap.NewNop()), fixtures, g
}

func TestRequestJoin_UpsertsByGroupAndUser(t *testing.T) {
	store, fixtures, g := setupGroup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)

	if err := store.RequestJoin(ctx, g.ID, joiner.ID, joiner.FullName); err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}
	// Re-requesting refreshes the existing request instead of duplicating it.
	if err := store.RequestJoin(ctx, g.ID, joiner.ID, joiner.FullName); err != nil {
		t.Fatalf("second RequestJoin failed: %v", err)
	}

	reqs, err := store.ListRequests(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("requests: got %d, want 1", len(reqs))
	}
	if reqs[0].UserID != joiner.ID {
		t.Errorf("request user: got %s, want %s", reqs[0].UserID.Hex(), joiner.ID.Hex())
	}
}

func TestRequestJoin_MissingGroup(t *testing.T) {
	store, fixtures, _ := setupGroup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)

	err := store.RequestJoin(ctx, primitive.NewObjectID(), joiner.ID, joiner.FullName)
	if err != memberstore.ErrGroupNotFound {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestApprove_CreatesMemberAndRecounts(t *testing.T) {
	store, fixtures, g := setupGroup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)
	fixtures.CreateJoinRequest(ctx, g.ID, joiner)

	approved, err := store.Approve(ctx, g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if !approved {
		t.Fatal("expected approved=true on first approval")
	}

	ok, err := store.IsMember(ctx, g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("approved user should be a member")
	}

	// The request is consumed.
	reqs, err := store.ListRequests(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("requests after approval: got %d, want 0", len(reqs))
	}

	// participants is recounted, not incremented: creator + joiner.
	groups := groupbuystore.New(fixtures.DB(), zap.NewNop())
	got, err := groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Participants != 2 {
		t.Errorf("participants: got %d, want 2", got.Participants)
	}
}

func TestApprove_AlreadyHandledIsNoOp(t *testing.T) {
	store, fixtures, g := setupGroup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleClient)
	fixtures.CreateJoinRequest(ctx, g.ID, joiner)

	if _, err := store.Approve(ctx, g.ID, joiner.ID); err != nil {
		t.Fatalf("first Approve failed: %v", err)
	}

	// A concurrent admin already approved: the second call reports no-op
	// and must not duplicate the member or bump the counter.
	approved, err := store.Approve(ctx, g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("second Approve failed: %v", err)
	}
	if approved {
		t.Error("expected approved=false on second approval")
	}

	members, err := store.ListMembers(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("members: got %d, want 2 (creator + joiner)", len(members))
	}

	groups := groupbuystore.New(fixtures.DB(), zap.NewNop())
	got, err := groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Participants != 2 {
		t.Errorf("participants: got %d, want 2", got.Participants)
	}
}

func TestRemove_MemberAndRecount(t *testing.T) {
	store, fixtures, g := setupGroup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Member", "member@example.com", models.RoleClient)
	fixtures.CreateMember(ctx, g.ID, member)

	if err := store.Remove(ctx, g.ID, member.ID, false); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	ok, err := store.IsMember(ctx, g.ID, member.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if ok {
		t.Error("removed user should no longer be a member")
	}

	groups := groupbuystore.New(fixtures.DB(), zap.NewNop())
	got, err := groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Participants != 1 {
		t.Errorf("participants: got %d, want 1 (creator only)", got.Participants)
	}
}

func TestRemove_CreatorIsRefused(t *testing.T) {
	store, _, g := setupGroup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Remove(ctx, g.ID, g.CreatorID, true)
	if err != memberstore.ErrCreatorRemoval {
		t.Errorf("expected ErrCreatorRemoval, got %v", err)
	}

	ok, err := store.IsMember(ctx, g.ID, g.CreatorID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("creator must still be a member")
	}
}
