package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	accommodationserrors "stayhost/internal/accommodations/errors"
	"stayhost/pkg/config"
	mongotx "stayhost/pkg/db/mongo"
	"stayhost/pkg/model"
)

const (
	CollectionName = "Accommodations"
)

// Fields searched by the free-text location filter.
var locationFields = []string{"address", "distance", "description", "name"}

var catalogSort = bson.D{{Key: "priority", Value: -1}, {Key: "name", Value: 1}}

type AccommodationRepository interface {
	Create(ctx context.Context, a *model.Accommodation) error
	FindByID(ctx context.Context, id string) (*model.Accommodation, error)
	FindBySlug(ctx context.Context, slug string) (*model.Accommodation, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, error)
	FindActive(ctx context.Context, location string) ([]*model.Accommodation, error)
	Update(ctx context.Context, id string, a *model.Accommodation) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoAccommodationRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAccommodationRepository(cfg *config.Config) AccommodationRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoAccommodationRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout unless it is a SessionContext,
// which cannot be wrapped without breaking transaction semantics.
func (r *mongoAccommodationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAccommodationRepository) Create(ctx context.Context, a *model.Accommodation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	a.CreatedAt = now
	a.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", accommodationserrors.ErrDuplicateSlug, a.Slug)
		}
		return fmt.Errorf("failed to create accommodation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}

	return nil
}

func (r *mongoAccommodationRepository) FindByID(ctx context.Context, id string) (*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", accommodationserrors.ErrInvalidID, id)
	}

	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoAccommodationRepository) FindBySlug(ctx context.Context, slug string) (*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"slug": slug}, slug)
}

func (r *mongoAccommodationRepository) findOne(ctx context.Context, filter bson.M, ref string) (*model.Accommodation, error) {
	var a model.Accommodation
	err := r.collection.FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", accommodationserrors.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find accommodation: %w", err)
	}
	return &a, nil
}

func (r *mongoAccommodationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(catalogSort)

	return r.find(ctx, bson.M{}, opts)
}

// FindActive returns every active accommodation, optionally narrowed by a
// case-insensitive substring match of location over the descriptive fields.
func (r *mongoAccommodationRepository) FindActive(ctx context.Context, location string) ([]*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, ActiveFilter(location), options.Find().SetSort(catalogSort))
}

// ActiveFilter builds the query used by FindActive.
func ActiveFilter(location string) bson.M {
	filter := bson.M{"active": true}

	location = strings.TrimSpace(location)
	if location == "" {
		return filter
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(location), Options: "i"}
	or := make([]bson.M, 0, len(locationFields))
	for _, field := range locationFields {
		or = append(or, bson.M{field: pattern})
	}
	filter["$or"] = or

	return filter
}

func (r *mongoAccommodationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Accommodation, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query accommodations: %w", err)
	}
	defer cursor.Close(ctx)

	accommodations := make([]*model.Accommodation, 0)
	if err = cursor.All(ctx, &accommodations); err != nil {
		return nil, fmt.Errorf("failed to decode accommodations: %w", err)
	}

	return accommodations, nil
}

func (r *mongoAccommodationRepository) Update(ctx context.Context, id string, a *model.Accommodation) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", accommodationserrors.ErrInvalidID, id)
	}

	a.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"slug":              a.Slug,
			"name":              a.Name,
			"short_description": a.ShortDescription,
			"description":       a.Description,
			"capacity":          a.Capacity,
			"price":             a.Price,
			"address":           a.Address,
			"distance":          a.Distance,
			"features":          a.Features,
			"main_image":        a.MainImage,
			"images":            a.Images,
			"active":            a.Active,
			"priority":          a.Priority,
			"updated_at":        a.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", accommodationserrors.ErrDuplicateSlug, a.Slug)
		}
		return nil, fmt.Errorf("failed to update accommodation: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", accommodationserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoAccommodationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", accommodationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete accommodation: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", accommodationserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoAccommodationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count accommodations: %w", err)
	}
	return count, nil
}

func (r *mongoAccommodationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
