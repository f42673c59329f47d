// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flowkan/flowkan/pkg/persistence"
	"github.com/flowkan/flowkan/pkg/persistence/file"
	"github.com/flowkan/flowkan/pkg/persistence/postgresql"
	"github.com/flowkan/flowkan/pkg/persistence/redis"
)

// NewPersistence picks the backend from the database URL scheme:
// postgres://, redis://, anything else is a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(err)
		}

		return p
	case strings.HasPrefix(databaseURL, "redis://"), strings.HasPrefix(databaseURL, "rediss://"):
		p, err := redis.NewPersistence(ctx, databaseURL)
		if err != nil {
			panic(err)
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}
