// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLoginFailedRateLimit     = "login_failed_rate_limit"
	EventLogout                   = "logout"
	EventUserRegistered           = "user_registered"
)

// Admin / back-office event types
const (
	EventJoinRequestApproved = "join_request_approved"
	EventMemberRemoved       = "member_removed"
	EventGroupDeleted        = "group_deleted"
	EventOrderFinalized      = "order_finalized"
	EventOrderStatusChanged  = "order_status_changed"
	EventPromotionRequested  = "promotion_requested"
	EventPromotionApproved   = "promotion_approved"
	EventPromotionRejected   = "promotion_rejected"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	UserID  *primitive.ObjectID `bson:"user_id,omitempty"`  // affected user
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty"` // who performed the action

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts an event, stamping Timestamp if the caller left it zero.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	UserID    *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
}

// Query returns events matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.EventType != "" {
		filter["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		window := bson.M{}
		if f.StartTime != nil {
			window["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			window["$lte"] = *f.EndTime
		}
		filter["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
