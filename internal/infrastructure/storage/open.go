// Package storage selects and opens the configured session backend.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/file"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/memory"
	mongostore "github.com/smartcampus/campus-portal/internal/infrastructure/storage/mongo"
	redisstore "github.com/smartcampus/campus-portal/internal/infrastructure/storage/redis"
	"github.com/smartcampus/campus-portal/internal/pkg/config"
)

// CloseFunc releases the connections held by a backend.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// Open builds the provider named by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.StorageProvider, CloseFunc, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.NewProvider(), noopClose, nil

	case config.BackendFile:
		return file.NewProvider(cfg.Storage.FilePath, log), noopClose, nil

	case config.BackendRedis:
		p, err := redisstore.Open(ctx, cfg.Redis, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return p, func(context.Context) error { return p.Close() }, nil

	case config.BackendMongo:
		repo, err := mongostore.Connect(ctx, cfg.Mongo, cfg.Storage.TTL)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongo state store ready")
		return repo, repo.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
