package orderstore_test

import (
	"testing"

	orderstore "github.com/kitandahub/kitanda/internal/app/store/orders"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func testItems(lojistaID primitive.ObjectID) []models.OrderItem {
	return []models.OrderItem{{
		Product: models.ProductSnapshot{
			ProductID: primitive.NewObjectID(),
			Name:      "Arroz 25kg",
			Price:     1500,
			LojistaID: lojistaID,
		},
		Quantity: 2,
	}}
}

func TestCreateFinal_WritesOrderAndContributions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	lojistaID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	contribs := []models.Contribution{
		{UserID: clientID, UserName: "Creator", Amount: 2000, Lat: -25.96, Lon: 32.58},
		{UserID: memberID, UserName: "Member", Amount: 1000, Lat: -25.97, Lon: 32.59},
	}

	o, err := store.CreateFinal(ctx, models.Order{
		GroupID:     &groupID,
		GroupName:   "Compra do bairro",
		ClientID:    clientID,
		ClientName:  "Creator",
		Items:       testItems(lojistaID),
		TotalAmount: 3000,
		OrderType:   models.OrderTypeGroup,
		LojistaID:   lojistaID,
	}, contribs)
	if err != nil {
		t.Fatalf("CreateFinal failed: %v", err)
	}
	if o.Status != models.StatusPendente {
		t.Errorf("status: got %q, want %q", o.Status, models.StatusPendente)
	}

	got, err := store.Contributions(ctx, o.ID)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("contributions: got %d, want 2", len(got))
	}
}

func TestCreateFinal_DuplicateMemberUpserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	lojistaID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()

	// The same member twice: the share is keyed by (order, user), so the
	// later entry overwrites instead of duplicating.
	o, err := store.CreateFinal(ctx, models.Order{
		GroupID:    &groupID,
		ClientID:   clientID,
		ClientName: "Creator",
		Items:      testItems(lojistaID),
		OrderType:  models.OrderTypeGroup,
		LojistaID:  lojistaID,
	}, []models.Contribution{
		{UserID: clientID, UserName: "Creator", Amount: 500},
		{UserID: clientID, UserName: "Creator", Amount: 750},
	})
	if err != nil {
		t.Fatalf("CreateFinal failed: %v", err)
	}

	got, err := store.Contributions(ctx, o.ID)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("contributions: got %d, want 1", len(got))
	}
	if got[0].Amount != 750 {
		t.Errorf("amount: got %v, want 750", got[0].Amount)
	}
}

func TestCreateFinal_NoItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.CreateFinal(ctx, models.Order{ClientID: primitive.NewObjectID()}, nil)
	if err != orderstore.ErrNoItems {
		t.Errorf("expected ErrNoItems, got %v", err)
	}
}

func TestCreateFinal_FailedWriteLeavesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A unique index on amount makes the second contribution write fail
	// mid-batch once two members share the same share.
	_, err := db.Collection("order_contributions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "amount", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("CreateOne index failed: %v", err)
	}

	groupID := primitive.NewObjectID()
	lojistaID := primitive.NewObjectID()

	_, err = store.CreateFinal(ctx, models.Order{
		GroupID:     &groupID,
		ClientID:    primitive.NewObjectID(),
		ClientName:  "Creator",
		Items:       testItems(lojistaID),
		TotalAmount: 1000,
		OrderType:   models.OrderTypeGroup,
		LojistaID:   lojistaID,
	}, []models.Contribution{
		{UserID: primitive.NewObjectID(), UserName: "Creator", Amount: 500},
		{UserID: primitive.NewObjectID(), UserName: "Member", Amount: 500},
	})
	if err == nil {
		t.Fatal("expected CreateFinal to fail on the colliding contribution")
	}

	// Neither the order nor any contribution may survive the failure.
	for _, coll := range []string{"orders", "order_contributions"} {
		n, cerr := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if cerr != nil {
			t.Fatalf("CountDocuments(%s) failed: %v", coll, cerr)
		}
		if n != 0 {
			t.Errorf("%s: got %d documents after a failed finalization, want 0", coll, n)
		}
	}
}

func TestCreateIndividual_StripsGroupFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	lojistaID := primitive.NewObjectID()

	o, err := store.CreateIndividual(ctx, models.Order{
		GroupID:     &groupID, // must be ignored
		GroupName:   "stale",
		ClientID:    primitive.NewObjectID(),
		ClientName:  "Client",
		Items:       testItems(lojistaID),
		TotalAmount: 3000,
		LojistaID:   lojistaID,
	})
	if err != nil {
		t.Fatalf("CreateIndividual failed: %v", err)
	}
	if o.GroupID != nil || o.GroupName != "" {
		t.Error("individual order must not carry group fields")
	}
	if o.OrderType != models.OrderTypeIndividual {
		t.Errorf("order type: got %q, want %q", o.OrderType, models.OrderTypeIndividual)
	}
	if o.Status != models.StatusPendente {
		t.Errorf("status: got %q, want %q", o.Status, models.StatusPendente)
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojistaID := primitive.NewObjectID()
	o, err := store.CreateIndividual(ctx, models.Order{
		ClientID:  primitive.NewObjectID(),
		Items:     testItems(lojistaID),
		LojistaID: lojistaID,
	})
	if err != nil {
		t.Fatalf("CreateIndividual failed: %v", err)
	}

	if err := store.SetStatus(ctx, o.ID, models.StatusAguardarLojista); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusAguardarLojista {
		t.Errorf("status: got %q, want %q", got.Status, models.StatusAguardarLojista)
	}

	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.StatusCancelado); err != orderstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for missing order, got %v", err)
	}
}

func TestSetStatusWithCourier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojistaID := primitive.NewObjectID()
	courierID := primitive.NewObjectID()

	o, err := store.CreateIndividual(ctx, models.Order{
		ClientID:  primitive.NewObjectID(),
		Items:     testItems(lojistaID),
		LojistaID: lojistaID,
	})
	if err != nil {
		t.Fatalf("CreateIndividual failed: %v", err)
	}

	if err := store.SetStatusWithCourier(ctx, o.ID, models.StatusACaminho, courierID, "Entregador"); err != nil {
		t.Fatalf("SetStatusWithCourier failed: %v", err)
	}
	got, err := store.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CourierID == nil || *got.CourierID != courierID {
		t.Error("courier was not stamped on the order")
	}
	if got.CourierName != "Entregador" {
		t.Errorf("courier name: got %q, want %q", got.CourierName, "Entregador")
	}
}

func TestList_FiltersByParty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := orderstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	clientA := fixtures.CreateUser(ctx, "Ana", "ana@example.com", models.RoleClient)
	clientB := fixtures.CreateUser(ctx, "Bento", "bento@example.com", models.RoleClient)
	product := fixtures.CreateProduct(ctx, lojista.ID, "Açúcar 10kg", 600)

	fixtures.CreateOrder(ctx, clientA, product, models.StatusPendente)
	fixtures.CreateOrder(ctx, clientA, product, models.StatusProntoParaRecolha)
	fixtures.CreateOrder(ctx, clientB, product, models.StatusPendente)

	mine, err := store.List(ctx, orderstore.ListFilter{ClientID: &clientA.ID}, 0)
	if err != nil {
		t.Fatalf("List by client failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("client orders: got %d, want 2", len(mine))
	}

	sales, err := store.List(ctx, orderstore.ListFilter{LojistaID: &lojista.ID}, 0)
	if err != nil {
		t.Fatalf("List by lojista failed: %v", err)
	}
	if len(sales) != 3 {
		t.Errorf("lojista orders: got %d, want 3", len(sales))
	}

	ready, err := store.List(ctx, orderstore.ListFilter{Status: models.StatusProntoParaRecolha}, 0)
	if err != nil {
		t.Fatalf("List by status failed: %v", err)
	}
	if len(ready) != 1 {
		t.Errorf("ready orders: got %d, want 1", len(ready))
	}
}
