package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

// DefaultCollection is the collection dead letters are written to.
const DefaultCollection = "queue_dead_letters"

// Compile-time interface check.
var _ queue.DeadLetterRepository = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithCollection overrides the collection name.
func WithCollection(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store archives dead letters in MongoDB.
// The caller owns the database handle lifecycle.
type Store struct {
	db         *mongo.Database
	collection string
	logger     *slog.Logger
}

// New creates a MongoDB dead letter store.
func New(db *mongo.Database, opts ...Option) *Store {
	s := &Store{
		db:         db,
		collection: DefaultCollection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) col() *mongo.Collection {
	return s.db.Collection(s.collection)
}

// Migrate creates the indexes used for listing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.col().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "failed_at", Value: 1}}},
		{Keys: bson.D{{Key: "origin_queue", Value: 1}, {Key: "failed_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	s.logger.DebugContext(ctx, "dead letter indexes ensured", slog.String("collection", s.collection))
	return nil
}

// PushDeadLetter inserts the entry.
func (s *Store) PushDeadLetter(ctx context.Context, entry *queue.DeadLetter) error {
	if entry == nil {
		return errors.New("dead letter cannot be nil")
	}
	if _, err := s.col().InsertOne(ctx, toModel(entry)); err != nil {
		return fmt.Errorf("mongostore: push dead letter: %w", err)
	}
	return nil
}

// ListDeadLetters returns entries newest failure first, optionally filtered by origin queue.
func (s *Store) ListDeadLetters(ctx context.Context, originQueue string, limit int) ([]*queue.DeadLetter, error) {
	filter, findOpts := listQuery(originQueue, limit)
	cursor, err := s.col().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: list dead letters: %w", err)
	}
	defer cursor.Close(ctx)

	var models []deadLetterModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("mongostore: list dead letters decode: %w", err)
	}

	entries := make([]*queue.DeadLetter, 0, len(models))
	for i := range models {
		e, err := fromModel(&models[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// listQuery builds the filter and options of ListDeadLetters. A limit below 1
// returns everything.
func listQuery(originQueue string, limit int) (bson.M, *options.FindOptionsBuilder) {
	filter := bson.M{}
	if originQueue != "" {
		filter["origin_queue"] = originQueue
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "failed_at", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	return filter, findOpts
}

// GetDeadLetter retrieves a dead letter by ID.
func (s *Store) GetDeadLetter(ctx context.Context, id uuid.UUID) (*queue.DeadLetter, error) {
	var m deadLetterModel
	err := s.col().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", queue.ErrDeadLetterNotFound, id)
		}
		return nil, fmt.Errorf("mongostore: get dead letter: %w", err)
	}
	return fromModel(&m)
}

// DeleteDeadLetter removes a dead letter.
func (s *Store) DeleteDeadLetter(ctx context.Context, id uuid.UUID) error {
	res, err := s.col().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("mongostore: delete dead letter: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", queue.ErrDeadLetterNotFound, id)
	}
	return nil
}
