package productstore_test

import (
	"testing"

	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_StartsUnpromoted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Product{
		Name:       "Peixe fresco",
		Price:      300,
		Category:   "alimentos",
		Stock:      5,
		IsPromoted: models.PromotedActive, // must be ignored
		LojistaID:  primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.IsPromoted != models.PromotedInactive {
		t.Errorf("is_promoted: got %q, want %q", p.IsPromoted, models.PromotedInactive)
	}
	if p.ProductType != models.ProductTypeProduct {
		t.Errorf("product_type: got %q, want %q", p.ProductType, models.ProductTypeProduct)
	}
}

func TestUpdateInfo_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	p := fixtures.CreateProduct(ctx, lojista.ID, "Peixe fresco", 300)

	// A different lojista cannot touch the listing.
	err := store.UpdateInfo(ctx, p.ID, primitive.NewObjectID(), "Peixe", "", "alimentos", 250, 3)
	if err != productstore.ErrNotFound {
		t.Errorf("foreign lojista: expected ErrNotFound, got %v", err)
	}

	if err := store.UpdateInfo(ctx, p.ID, lojista.ID, "Peixe do dia", "fresquinho", "alimentos", 250, 3); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Peixe do dia" || got.Price != 250 {
		t.Errorf("update not applied: got %q / %v", got.Name, got.Price)
	}
}

func TestDelete_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	p := fixtures.CreateProduct(ctx, lojista.ID, "Peixe fresco", 300)

	n, err := store.Delete(ctx, p.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 0 {
		t.Error("a foreign lojista must not delete the listing")
	}

	n, err = store.Delete(ctx, p.ID, lojista.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}
}

func TestList_PromotedSortFirstAndFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lojista := fixtures.CreateUser(ctx, "Lojista", "lojista@example.com", models.RoleLojista)
	plain := fixtures.CreateProduct(ctx, lojista.ID, "Sabão", 50)
	promoted := fixtures.CreateProduct(ctx, lojista.ID, "Capulanas", 400)
	if _, err := db.Collection("products").UpdateByID(ctx, promoted.ID,
		bson.M{"$set": bson.M{"is_promoted": models.PromotedActive}}); err != nil {
		t.Fatalf("failed to promote listing: %v", err)
	}

	all, err := store.List(ctx, productstore.ListFilter{}, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("listings: got %d, want 2", len(all))
	}
	if all[0].ID != promoted.ID {
		t.Error("the promoted listing should sort first")
	}
	if all[1].ID != plain.ID {
		t.Error("the unpromoted listing should sort after the promoted one")
	}

	active, err := store.List(ctx, productstore.ListFilter{PromotedOnly: true}, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != promoted.ID {
		t.Errorf("promoted-only: got %d listings", len(active))
	}

	mine, err := store.List(ctx, productstore.ListFilter{LojistaID: &lojista.ID}, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("lojista listings: got %d, want 2", len(mine))
	}
}
