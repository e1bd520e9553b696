// Package store persists datasets, upload chunks and saved visualizations.
package store

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/genbi/config"
	"github.com/pivolan/genbi/domain/models"
)

// DatasetStore keeps dataset metadata and the chunks of uploads in progress.
type DatasetStore interface {
	InsertDataset(ctx context.Context, ds *models.Dataset) error
	InsertChunk(ctx context.Context, chunk *models.Chunk) error
	// ListChunks returns the chunks of an upload session ordered by chunk index.
	ListChunks(ctx context.Context, sessionID, userID string) ([]models.Chunk, error)
	DeleteChunks(ctx context.Context, sessionID string) error
	// DeleteChunksBefore drops chunks created before t and returns how many went.
	DeleteChunksBefore(ctx context.Context, t time.Time) (int64, error)
}

// VisualizationStore keeps saved charts.
type VisualizationStore interface {
	InsertVisualization(ctx context.Context, v *models.Visualization) error
	// ListVisualizations returns a user's visualizations, newest first.
	ListVisualizations(ctx context.Context, userID string) ([]models.Visualization, error)
}

type Store interface {
	DatasetStore
	VisualizationStore
	Close() error
}

// Open returns the store selected by cfg.DBDriver: mysql, sqlite or memory.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case "memory":
		return NewMemoryStore(), nil
	case "mysql", "sqlite":
		return OpenGorm(cfg.DBDriver, cfg.DBDsn)
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

func newID() string {
	return uuid.NewV4().String()
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
