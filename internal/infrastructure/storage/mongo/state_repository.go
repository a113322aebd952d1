package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

// DefaultCollection holds one document per (namespace, key).
const DefaultCollection = "client_state"

// StateRepository stores session entries as documents.
type StateRepository struct {
	coll *mongo.Collection
	ttl  time.Duration
}

var (
	_ ports.StorageProvider = (*StateRepository)(nil)
	_ ports.Pinger          = (*StateRepository)(nil)
)

func NewStateRepository(db *mongo.Database, collection string, ttl time.Duration) *StateRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &StateRepository{coll: db.Collection(collection), ttl: ttl}
}

type stateDoc struct {
	ID        string    `bson:"_id"`
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the namespace index and, when a ttl is configured,
// a TTL index on updated_at.
func (r *StateRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "namespace", Value: 1}}},
	}
	if r.ttl > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(r.ttl / time.Second)),
		})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create state indexes: %w", err)
	}
	return nil
}

func (r *StateRepository) Scope(namespace string) ports.KeyValueStore {
	return &stateScope{repo: r, namespace: namespace}
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// Close disconnects the client the repository was opened with.
func (r *StateRepository) Close(ctx context.Context) error {
	return r.coll.Database().Client().Disconnect(ctx)
}

func (r *StateRepository) find(ctx context.Context, namespace, key string) (string, error) {
	var doc stateDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": docID(namespace, key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find state: %w", err)
	}
	return doc.Value, nil
}

func (r *StateRepository) upsert(ctx context.Context, namespace, key, value string) error {
	doc := stateDoc{
		ID:        docID(namespace, key),
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (r *StateRepository) remove(ctx context.Context, namespace, key string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": docID(namespace, key)}); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func docID(namespace, key string) string {
	return namespace + "/" + key
}

type stateScope struct {
	repo      *StateRepository
	namespace string
}

func (s *stateScope) Get(ctx context.Context, key string) (string, error) {
	return s.repo.find(ctx, s.namespace, key)
}

func (s *stateScope) Set(ctx context.Context, key, value string) error {
	return s.repo.upsert(ctx, s.namespace, key, value)
}

func (s *stateScope) Delete(ctx context.Context, key string) error {
	return s.repo.remove(ctx, s.namespace, key)
}
