package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/quickmate/backend/config"
)

// MongoDatabase wraps the MongoDB client and the application database.
type MongoDatabase struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoConnection connects to MongoDB and verifies the primary is reachable.
func NewMongoConnection(ctx context.Context, cfg *config.MongoConfig) (*MongoDatabase, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	slog.Info("MongoDB connection established", "database", cfg.Database, "transactions", cfg.Transactions)

	return &MongoDatabase{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Client returns the underlying client.
func (m *MongoDatabase) Client() *mongo.Client {
	return m.client
}

// DB returns the application database.
func (m *MongoDatabase) DB() *mongo.Database {
	return m.db
}

// HealthCheck pings the primary.
func (m *MongoDatabase) HealthCheck(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		slog.Error("MongoDB health check failed", "error", err)
		return err
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDatabase) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	slog.Info("MongoDB connection closed")
	return nil
}
