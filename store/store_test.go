package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/config"
	"github.com/pivolan/genbi/domain/models"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	gs, err := OpenGorm("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { gs.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": gs,
	}
}

func TestChunks(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, idx := range []int{2, 0, 1} {
				require.NoError(t, s.InsertChunk(ctx, &models.Chunk{
					SessionID: "s1", UserID: "u1", ChunkIndex: idx,
					Rows: []models.Row{{"n": float64(idx), "label": "row"}},
				}))
			}
			require.NoError(t, s.InsertChunk(ctx, &models.Chunk{SessionID: "s2", UserID: "u1", Rows: []models.Row{{"n": 9.0}}}))

			chunks, err := s.ListChunks(ctx, "s1", "u1")
			require.NoError(t, err)
			require.Len(t, chunks, 3)
			for i, c := range chunks {
				assert.Equal(t, i, c.ChunkIndex)
				assert.Equal(t, []models.Row{{"n": float64(i), "label": "row"}}, c.Rows)
				assert.False(t, c.CreatedAt.IsZero())
			}

			other, err := s.ListChunks(ctx, "s1", "u2")
			require.NoError(t, err)
			assert.Empty(t, other)

			require.NoError(t, s.DeleteChunks(ctx, "s1"))
			chunks, err = s.ListChunks(ctx, "s1", "u1")
			require.NoError(t, err)
			assert.Empty(t, chunks)
			chunks, err = s.ListChunks(ctx, "s2", "u1")
			require.NoError(t, err)
			assert.Len(t, chunks, 1)
		})
	}
}

func TestDeleteChunksBefore(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.InsertChunk(ctx, &models.Chunk{SessionID: "old", UserID: "u1", CreatedAt: now.Add(-3 * time.Hour)}))
			require.NoError(t, s.InsertChunk(ctx, &models.Chunk{SessionID: "new", UserID: "u1", CreatedAt: now}))

			n, err := s.DeleteChunksBefore(ctx, now.Add(-time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			left, err := s.ListChunks(ctx, "new", "u1")
			require.NoError(t, err)
			assert.Len(t, left, 1)
			gone, err := s.ListChunks(ctx, "old", "u1")
			require.NoError(t, err)
			assert.Empty(t, gone)
		})
	}
}

func TestInsertDataset(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ds := &models.Dataset{
				UserID:     "u1",
				Name:       "sales",
				FileType:   "text/csv",
				Columns:    []models.Column{{Name: "month", Type: "string"}, {Name: "revenue", Type: "number"}},
				SampleData: []models.Row{{"month": "Jan", "revenue": 100.0}},
				RowCount:   1,
			}
			require.NoError(t, s.InsertDataset(ctx, ds))
			assert.Len(t, ds.ID, 36)
		})
	}
}

func TestVisualizationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			cfg := models.ChartConfig{Type: models.KindPie, Title: "Share", XAxis: "label", Series: []string{"value"}}
			older := &models.Visualization{UserID: "u1", Name: "older", ChartType: models.KindPie, ChartConfig: cfg, CreatedAt: t0}
			newer := &models.Visualization{UserID: "u1", Name: "newer", ChartType: models.KindPie, ChartConfig: cfg,
				Data: []models.Row{{"label": "A", "value": 3.0}}, CreatedAt: t0.Add(time.Minute)}
			foreign := &models.Visualization{UserID: "u2", Name: "foreign", ChartType: models.KindBar}
			for _, v := range []*models.Visualization{older, newer, foreign} {
				require.NoError(t, s.InsertVisualization(ctx, v))
				assert.NotEmpty(t, v.ID)
			}

			list, err := s.ListVisualizations(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "newer", list[0].Name)
			assert.Equal(t, "older", list[1].Name)
			assert.Equal(t, cfg, list[0].ChartConfig)
			assert.Equal(t, []models.Row{{"label": "A", "value": 3.0}}, list[0].Data)
		})
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(&config.Config{DBDriver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(&config.Config{DBDriver: "postgres"})
	assert.Error(t, err)
}
