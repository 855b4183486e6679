package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ncobase/jobboard/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by Load for unknown ids.
var ErrNotFound = errors.New("event not found")

func (f Filter) match(e *Event) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	events map[string]*Event
	mu     sync.RWMutex
}

// NewMemoryStore creates a new memory-based event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]*Event)}
}

// Save saves a copy of event.
func (s *MemoryStore) Save(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *event
	s.events[event.ID] = &c
	return nil
}

// Load loads an event by ID.
func (s *MemoryStore) Load(_ context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *e
	return &c, nil
}

// List returns matching events, newest first.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]*Event, error) {
	s.mu.RLock()
	out := make([]*Event, 0)
	for _, e := range s.events {
		if filter.match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Event) int { return b.Timestamp.Compare(a.Timestamp) })
	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// MongoStore keeps handled events in a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewMongoStore creates a MongoDB event store.
func NewMongoStore(collection *mongo.Collection, logger *logger.Logger) (*MongoStore, error) {
	if collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	return &MongoStore{collection: collection, logger: logger}, nil
}

// EnsureIndexes creates the event indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}

// Save upserts the event record.
func (s *MongoStore) Save(ctx context.Context, event *Event) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event, options.Replace().SetUpsert(true))
	if err != nil {
		s.logger.Error(ctx, "failed to save event", "error", err, "event_id", event.ID)
		return err
	}
	return nil
}

// Load loads an event by ID.
func (s *MongoStore) Load(ctx context.Context, id string) (*Event, error) {
	result := &Event{}
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns matching events, newest first.
func (s *MongoStore) List(ctx context.Context, filter Filter) ([]*Event, error) {
	q := bson.M{}
	if filter.Type != "" {
		q["type"] = filter.Type
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if !filter.Since.IsZero() {
		q["timestamp"] = bson.M{"$gte": filter.Since}
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cursor, err := s.collection.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*Event, 0)
	for cursor.Next(ctx) {
		evt := &Event{}
		if err := cursor.Decode(evt); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
