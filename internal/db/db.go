package db

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	tasksCollection    = "tasks"
	projectsCollection = "projects"
	usersCollection    = "users"
)

// DB wraps the Mongo client and is the sole writer of durable state.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	log      *logrus.Logger
}

// New connects to the document store. The attempt is bounded by the
// configured timeout so an unreachable store fails fast instead of
// hanging.
func New(cfg config.Mongo, log *logrus.Logger) (*DB, error) {
	timeout := cfg.ConnectTimeout()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, storeErr("connect", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storeErr("ping", err)
	}

	log.WithField("database", cfg.Database).Info("connected to mongodb")

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
		log:      log,
	}, nil
}

// Close disconnects from the store.
func (db *DB) Close(ctx context.Context) error {
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting from mongodb: %w", err)
	}
	return nil
}

// Ping verifies the connection is still alive.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx, nil); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (db *DB) tasks() *mongo.Collection {
	return db.database.Collection(tasksCollection)
}

func (db *DB) projects() *mongo.Collection {
	return db.database.Collection(projectsCollection)
}

func (db *DB) users() *mongo.Collection {
	return db.database.Collection(usersCollection)
}

// EnsureIndexes creates the indexes the task queries rely on. Safe to
// run repeatedly; Mongo treats identical index specs as a no-op.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	specs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completed", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	if _, err := db.tasks().Indexes().CreateMany(ctx, specs); err != nil {
		return storeErr("create task indexes", err)
	}

	projectSpecs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := db.projects().Indexes().CreateMany(ctx, projectSpecs); err != nil {
		return storeErr("create project indexes", err)
	}

	return nil
}

// now returns the timestamp the store stamps onto writes.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
