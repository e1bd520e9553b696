package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pivolan/genbi/domain/models"
)

// MemoryStore keeps everything in process memory. It backs tests and the memory driver.
type MemoryStore struct {
	mu             sync.Mutex
	datasets       []models.Dataset
	chunks         []models.Chunk
	visualizations []models.Visualization
	nextChunkID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertDataset(_ context.Context, ds *models.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ds.ID == "" {
		ds.ID = newID()
	}
	stamp(&ds.CreatedAt)
	s.datasets = append(s.datasets, *ds)
	return nil
}

// Datasets returns every stored dataset in insertion order.
func (s *MemoryStore) Datasets() []models.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Dataset(nil), s.datasets...)
}

func (s *MemoryStore) InsertChunk(_ context.Context, chunk *models.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextChunkID++
	chunk.ID = s.nextChunkID
	stamp(&chunk.CreatedAt)
	s.chunks = append(s.chunks, *chunk)
	return nil
}

func (s *MemoryStore) ListChunks(_ context.Context, sessionID, userID string) ([]models.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Chunk
	for _, c := range s.chunks {
		if c.SessionID == sessionID && c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

func (s *MemoryStore) DeleteChunks(_ context.Context, sessionID string) error {
	s.removeChunks(func(c models.Chunk) bool { return c.SessionID == sessionID })
	return nil
}

func (s *MemoryStore) DeleteChunksBefore(_ context.Context, t time.Time) (int64, error) {
	return s.removeChunks(func(c models.Chunk) bool { return c.CreatedAt.Before(t) }), nil
}

func (s *MemoryStore) removeChunks(match func(models.Chunk) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	var removed int64
	for _, c := range s.chunks {
		if match(c) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	s.chunks = kept
	return removed
}

func (s *MemoryStore) InsertVisualization(_ context.Context, v *models.Visualization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = newID()
	}
	stamp(&v.CreatedAt)
	s.visualizations = append(s.visualizations, *v)
	return nil
}

func (s *MemoryStore) ListVisualizations(_ context.Context, userID string) ([]models.Visualization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Visualization
	for i := len(s.visualizations) - 1; i >= 0; i-- {
		if v := s.visualizations[i]; v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
