package repository

import (
	"context"
	"time"

	"slotly/pkg/config"
	"slotly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) error
	Release(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		collection: db.Collection("Booking_locks"),
	}
}

// Acquire inserts the lock document. The collection's unique _id plus a TTL
// index on expires_at make this a race-safe, self-cleaning mutex: a duplicate
// key error means another request holds the slot right now.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

// Release removes an advisory lock
func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
