package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityerrors "slotly/internal/availability/errors"
	"slotly/pkg/config"
	"slotly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AvailabilityCollection = "Availability"
	TimeGapCollection      = "Time_gaps"
)

type AvailabilityRepository interface {
	FindWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error)
	UpsertWeekly(ctx context.Context, avail *model.WeeklyAvailability) error
	FindGap(ctx context.Context, hostID string) (*model.TimeGap, error)
	UpsertGap(ctx context.Context, gap *model.TimeGap) error
}

type mongoAvailabilityRepository struct {
	cfg          *config.Config
	db           *mongo.Database
	availability *mongo.Collection
	timeGaps     *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:          cfg,
		db:           db,
		availability: db.Collection(AvailabilityCollection),
		timeGaps:     db.Collection(TimeGapCollection),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoAvailabilityRepository) FindWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var avail model.WeeklyAvailability
	err := r.availability.FindOne(ctx, bson.M{"_id": hostID}).Decode(&avail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrNotFound, hostID)
		}
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}

	return &avail, nil
}

func (r *mongoAvailabilityRepository) UpsertWeekly(ctx context.Context, avail *model.WeeklyAvailability) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	avail.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.availability.ReplaceOne(ctx, bson.M{"_id": avail.HostID}, avail, opts); err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindGap(ctx context.Context, hostID string) (*model.TimeGap, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var gap model.TimeGap
	err := r.timeGaps.FindOne(ctx, bson.M{"_id": hostID}).Decode(&gap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrGapNotFound, hostID)
		}
		return nil, fmt.Errorf("failed to find time gap: %w", err)
	}

	return &gap, nil
}

func (r *mongoAvailabilityRepository) UpsertGap(ctx context.Context, gap *model.TimeGap) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.timeGaps.ReplaceOne(ctx, bson.M{"_id": gap.HostID}, gap, opts); err != nil {
		return fmt.Errorf("failed to upsert time gap: %w", err)
	}
	return nil
}
