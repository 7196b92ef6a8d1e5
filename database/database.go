package database

import (
	"context"
	"errors"
	"log"
	"time"

	"placementflow/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store-level sentinels, so handlers never inspect driver errors.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// DB bundles the Mongo client with the two collections the API uses.
type DB struct {
	Client *mongo.Client
	Users  *mongo.Collection
	Posts  *mongo.Collection
}

// Connect dials MongoDB, pings it and binds the collections.
func Connect(ctx context.Context, cfg *config.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.DBName)

	log.Println("Connected to MongoDB successfully")

	return &DB{
		Client: client,
		Users:  db.Collection("users"),
		Posts:  db.Collection("posts"),
	}, nil
}

// EnsureIndexes creates the indexes the queries rely on: roll numbers are
// unique (stored uppercase, so uniqueness is case-insensitive), company
// names carry a text index, and post listings sort on createdAt.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := db.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rollNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "companyName", Value: "text"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "authorRoll", Value: 1}}},
	})
	return err
}

// Disconnect closes the underlying client.
func (db *DB) Disconnect(ctx context.Context) error {
	if db.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
