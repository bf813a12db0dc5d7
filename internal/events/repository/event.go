package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventserrors "slotly/internal/events/errors"
	"slotly/pkg/config"
	"slotly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Event_types"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.EventType) error
	FindByID(ctx context.Context, id string) (*model.EventType, error)
	FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, error)
	CountByHost(ctx context.Context, hostID string) (int64, error)
	Update(ctx context.Context, id string, event *model.EventType) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

type mongoEventRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.EventType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	event.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	var event model.EventType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", eventserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find event type: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"host_id": hostID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query event types: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.EventType
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event types: %w", err)
	}
	return events, nil
}

func (r *mongoEventRepository) CountByHost(ctx context.Context, hostID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"host_id": hostID})
	if err != nil {
		return 0, fmt.Errorf("failed to count event types: %w", err)
	}
	return count, nil
}

// Update persists the mutable metadata only. Duration and host are never
// written here so a stored event's slot arithmetic stays stable for the
// lifetime of its bookings.
func (r *mongoEventRepository) Update(ctx context.Context, id string, event *model.EventType) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"description": event.Description,
			"is_private":  event.IsPrivate,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update event type: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoEventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete event type: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", eventserrors.ErrNotFound, id)
	}
	return nil
}
