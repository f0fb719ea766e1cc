package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lucedivina/storefront/internal/types"
)

const (
	productsCollection = "products"
	settingsCollection = "settings"

	// settingsDocID keys the single settings document.
	settingsDocID = "site"
)

// MongoStore persists the catalog and settings in MongoDB.
type MongoStore struct {
	client   *mongo.Client
	products *mongo.Collection
	settings *mongo.Collection
	logger   *slog.Logger
}

// NewMongoStore connects and pings the MongoDB deployment.
func NewMongoStore(uri, database string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:   client,
		products: db.Collection(productsCollection),
		settings: db.Collection(settingsCollection),
		logger:   logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	cur, err := s.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "list", Err: err}
	}
	defer cur.Close(ctx)

	var out []types.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "list", Err: err}
	}
	return out, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	var p types.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrProductNotFound
	}
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "get", Err: err}
	}
	return &p, nil
}

func (s *MongoStore) PutProduct(ctx context.Context, p *types.Product) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.products.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "put", Err: err}
	}
	return nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return types.ErrProductNotFound
	}
	return nil
}

func (s *MongoStore) ReplaceProducts(ctx context.Context, products []types.Product) error {
	if _, err := s.products.DeleteMany(ctx, bson.M{}); err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "replace", Err: err}
	}
	if len(products) == 0 {
		return nil
	}

	docs := make([]any, len(products))
	for i := range products {
		docs[i] = products[i]
	}
	if _, err := s.products.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "replace", Err: err}
	}
	return nil
}

func (s *MongoStore) LoadSettings(ctx context.Context) (*types.SiteSettings, error) {
	var doc struct {
		ID       string             `bson:"_id"`
		Settings types.SiteSettings `bson:"settings"`
	}
	err := s.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "load_settings", Err: err}
	}
	return &doc.Settings, nil
}

func (s *MongoStore) SaveSettings(ctx context.Context, settings *types.SiteSettings) error {
	doc := bson.M{"_id": settingsDocID, "settings": settings}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.settings.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, doc, opts); err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "save_settings", Err: err}
	}
	return nil
}

func (s *MongoStore) Close() error {
	s.logger.Info("mongodb store closing")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
