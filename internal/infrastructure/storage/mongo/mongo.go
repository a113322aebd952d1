package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartcampus/campus-portal/internal/pkg/config"
)

// AppName is reported to the server in the connection handshake.
const AppName = "campus-portal"

const defaultConnectTimeout = 10 * time.Second

// Connect opens the state collection described by cfg, pings the server and
// creates the repository's indexes. ttl expires idle entries; zero keeps them
// until they are cleared.
func Connect(ctx context.Context, cfg config.MongoConfig, ttl time.Duration) (*StateRepository, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(AppName).
		SetConnectTimeout(timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo state store: %w", err)
	}

	repo := NewStateRepository(client.Database(cfg.Database), cfg.Collection, ttl)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return repo, nil
}
