package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/artboard/pkg/scene"
)

// DefaultCollection is the MongoDB collection holding canvases.
const DefaultCollection = "canvases"

// MongoStore keeps one document per canvas, keyed by canvas id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// ConnectMongo dials uri and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoStore uses collection of database. An empty collection selects
// [DefaultCollection]. Close disconnects the client.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		now:    time.Now,
	}
}

func (s *MongoStore) Save(ctx context.Context, canvasID string, recs []scene.Record) error {
	if err := validate(canvasID); err != nil {
		return err
	}
	if recs == nil {
		recs = []scene.Record{}
	}
	doc := Document{ID: canvasID, Data: recs, UpdatedAt: s.now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": canvasID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save canvas %s: %w", canvasID, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, canvasID string) (Document, error) {
	if err := validate(canvasID); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": canvasID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, notFound(canvasID)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load canvas %s: %w", canvasID, err)
	}
	return doc, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
