// Package cmd provides the shared construction helpers used by the
// scriptflow binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/voxline/scriptflow/pkg/persistence"
	"github.com/voxline/scriptflow/pkg/persistence/file"
	"github.com/voxline/scriptflow/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL
// scheme: postgres:// connects to PostgreSQL, anything else is treated as a
// file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}
