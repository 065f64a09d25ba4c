package notificationstore_test

import (
	"testing"
	"time"

	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	"github.com/kitandahub/kitanda/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	if err := store.Add(ctx, userID, "Pedido aceite", "Foste aceite no grupo", "/groups/x"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(ctx, otherID, "Outro", "para outra pessoa", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	list, err := store.ListByUser(ctx, userID, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(list))
	}
	if list[0].Read {
		t.Error("a fresh notification must be unread")
	}

	unread, err := store.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 1 {
		t.Errorf("unread: got %d, want 1", unread)
	}
}

func TestMarkRead_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if err := store.Add(ctx, userID, "Pedido aceite", "", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	list, err := store.ListByUser(ctx, userID, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}

	// Someone else cannot mark it.
	n, err := store.MarkRead(ctx, list[0].ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if n != 0 {
		t.Error("a foreign user must not mark the notification")
	}

	n, err = store.MarkRead(ctx, list[0].ID, userID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if n != 1 {
		t.Errorf("modified: got %d, want 1", n)
	}

	unread, err := store.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread after mark: got %d, want 0", unread)
	}
}

func TestDeleteReadOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	old := time.Now().UTC().Add(-48 * time.Hour)

	// One stale read, one stale unread, one fresh read.
	docs := []interface{}{
		bson.M{"_id": primitive.NewObjectID(), "user_id": userID, "title": "velha lida", "read": true, "created_at": old},
		bson.M{"_id": primitive.NewObjectID(), "user_id": userID, "title": "velha por ler", "read": false, "created_at": old},
		bson.M{"_id": primitive.NewObjectID(), "user_id": userID, "title": "recente lida", "read": true, "created_at": time.Now().UTC()},
	}
	if _, err := db.Collection("notifications").InsertMany(ctx, docs); err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	deleted, err := store.DeleteReadOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteReadOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted: got %d, want 1", deleted)
	}

	// Unread notifications survive no matter how old.
	list, err := store.ListByUser(ctx, userID, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("remaining: got %d, want 2", len(list))
	}
}
