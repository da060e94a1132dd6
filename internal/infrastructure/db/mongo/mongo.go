// Package mongo implements the MongoDB persistence layer: the connection
// helper plus the user, video and subscription repositories.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	// defaultTimeout bounds single repository operations.
	defaultTimeout = 5 * time.Second
	// defaultConnectTimeout bounds the initial dial and ping.
	defaultConnectTimeout = 10 * time.Second
)

// Config carries the connection settings for the platform database.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout > 0 {
		return c.ConnectTimeout
	}
	return defaultConnectTimeout
}

// Connect dials MongoDB and verifies the primary is reachable before any
// repository is built on the returned database. Writes use majority concern:
// the stored refresh token and the unique handle/email indexes are the
// source of truth for session and identity state, so a write must not be
// acknowledged by a node that can roll it back.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.connectTimeout()

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
