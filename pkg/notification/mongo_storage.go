package notification

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// userLog is the per-user document shape: one document per user, keyed by the
// user ID, holding the retained notification list newest first.
type userLog struct {
	UserID        string         `bson:"_id"`
	Notifications []Notification `bson:"notifications"`
}

// MongoStorage persists per-user notification logs in a single MongoDB
// collection. Sorting and cap truncation are delegated to the server's
// $push/$sort/$slice update so the merge happens in one atomic operation
// per document.
type MongoStorage struct {
	users    *mongo.Collection
	capacity int
}

// NewMongoStorage creates a MongoDB-backed notification store.
func NewMongoStorage(db *mongo.Database, cfg Config) *MongoStorage {
	capacity := cfg.RetentionCap
	if capacity <= 0 {
		capacity = DefaultRetentionCap
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "users"
	}
	return &MongoStorage{
		users:    db.Collection(collection),
		capacity: capacity,
	}
}

func (s *MongoStorage) Get(ctx context.Context, userID, notificationID string) (*Notification, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range doc.Notifications {
		if doc.Notifications[i].ID == notificationID {
			n := doc.Notifications[i]
			return &n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (s *MongoStorage) List(ctx context.Context, userID string, skip, limit int) ([]Notification, error) {
	doc, err := s.load(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return []Notification{}, nil
	}
	if err != nil {
		return nil, err
	}

	retained := doc.Notifications
	if skip >= len(retained) {
		return []Notification{}, nil
	}
	end := skip + limit
	if end > len(retained) {
		end = len(retained)
	}

	out := make([]Notification, end-skip)
	copy(out, retained[skip:end])
	return out, nil
}

// Upsert removes any retained notification with the same ID, then pushes the
// incoming one with $each/$sort/$slice so re-sort and cap truncation happen
// server-side in a single atomic update. The two updates are individually
// atomic; the window between them is the narrowest the document model allows
// without transactions.
func (s *MongoStorage) Upsert(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return errors.New("notification ID is required")
	}
	if n.UserID == "" {
		return errors.New("user ID is required")
	}

	filter := bson.D{{Key: "_id", Value: n.UserID}}

	pull := bson.D{{Key: "$pull", Value: bson.D{
		{Key: "notifications", Value: bson.D{{Key: "id", Value: n.ID}}},
	}}}
	if _, err := s.users.UpdateOne(ctx, filter, pull); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}

	push := bson.D{{Key: "$push", Value: bson.D{
		{Key: "notifications", Value: bson.D{
			{Key: "$each", Value: bson.A{n}},
			{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}},
			{Key: "$slice", Value: s.capacity},
		}},
	}}}
	if _, err := s.users.UpdateOne(ctx, filter, push, options.UpdateOne().SetUpsert(true)); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *MongoStorage) load(ctx context.Context, userID string) (*userLog, error) {
	var doc userLog
	if err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return &doc, nil
}
