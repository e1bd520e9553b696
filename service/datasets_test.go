package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/ingest"
	"github.com/pivolan/genbi/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func csvFile(content string) ingest.File {
	return ingest.File{Name: "sales", FileType: "text/csv", UserID: "u1", Size: int64(len(content)), Source: strings.NewReader(content)}
}

func TestChunkedUploadEndToEnd(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewDatasetService(st, discardLogger())
	u := ingest.NewUploader(svc, ingest.WithLogger(discardLogger()))

	ds, err := u.Upload(context.Background(), csvFile("month,revenue\nJan,100\nFeb,200\n"), nil)
	require.NoError(t, err)

	rows := []models.Row{{"month": "Jan", "revenue": 100.0}, {"month": "Feb", "revenue": 200.0}}
	assert.Equal(t, 2, ds.RowCount)
	assert.Equal(t, rows, ds.SampleData)
	assert.Equal(t, []models.Column{{Name: "month", Type: "string"}, {Name: "revenue", Type: "number"}}, ds.Columns)
	assert.NotEmpty(t, ds.ID)
	require.Len(t, st.Datasets(), 1)

	left, err := st.DeleteChunksBefore(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, left, "finalize removes the session's chunks")
}

func TestChunkedUploadRowCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,name\n")
	for i := 0; i < 1234; i++ {
		fmt.Fprintf(&b, "%d,item %d\n", i, i)
	}
	st := store.NewMemoryStore()
	u := ingest.NewUploader(NewDatasetService(st, discardLogger()),
		ingest.WithRangeSize(100), ingest.WithBatchSize(50), ingest.WithLogger(discardLogger()))

	ds, err := u.Upload(context.Background(), csvFile(b.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, 1234, ds.RowCount)
	assert.Len(t, ds.SampleData, SampleSize)
	assert.Equal(t, models.Row{"id": 0.0, "name": "item 0"}, ds.SampleData[0])
}

func TestFinalizeIsStrict(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewDatasetService(st, discardLogger())
	for i := 0; i < 2; i++ {
		require.NoError(t, svc.UploadChunk(ctx, models.Chunk{SessionID: "s1", UserID: "u1", ChunkIndex: i, Rows: []models.Row{{"n": 1.0}}}))
	}

	_, err := svc.Finalize(ctx, models.FinalizeRequest{
		Name: "sales", FileType: "text/csv", UserID: "u1", SessionID: "s1", TotalChunks: 3, Headers: []string{"n"},
	})
	var ce *models.ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Missing chunks. Expected 3, got 2", err.Error())
	assert.Empty(t, st.Datasets())

	chunks, err := st.ListChunks(ctx, "s1", "u1")
	require.NoError(t, err)
	assert.Len(t, chunks, 2, "chunks stay for a retry or the sweeper")
}

func TestFinalizeValidation(t *testing.T) {
	svc := NewDatasetService(store.NewMemoryStore(), discardLogger())
	valid := models.FinalizeRequest{Name: "n", FileType: "text/csv", UserID: "u", SessionID: "s", TotalChunks: 1}
	tests := []struct {
		name   string
		modify func(*models.FinalizeRequest)
	}{
		{"no name", func(r *models.FinalizeRequest) { r.Name = "" }},
		{"no file type", func(r *models.FinalizeRequest) { r.FileType = "" }},
		{"no user", func(r *models.FinalizeRequest) { r.UserID = "" }},
		{"no session", func(r *models.FinalizeRequest) { r.SessionID = "" }},
		{"zero chunks", func(r *models.FinalizeRequest) { r.TotalChunks = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			_, err := svc.Finalize(context.Background(), req)
			var ve *models.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

type failingCleanup struct {
	*store.MemoryStore
}

func (failingCleanup) DeleteChunks(context.Context, string) error {
	return errors.New("database is locked")
}

func TestFinalizeCleanupFailureKeepsDataset(t *testing.T) {
	ctx := context.Background()
	st := failingCleanup{store.NewMemoryStore()}
	var logs bytes.Buffer
	svc := NewDatasetService(st, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, svc.UploadChunk(ctx, models.Chunk{SessionID: "s1", UserID: "u1", Rows: []models.Row{{"n": 1.0}}}))

	ds, err := svc.Finalize(ctx, models.FinalizeRequest{Name: "n", FileType: "text/csv", UserID: "u1", SessionID: "s1", TotalChunks: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.RowCount)
	assert.Len(t, st.Datasets(), 1)
	assert.Contains(t, logs.String(), "chunk cleanup failed")
}

func TestUploadChunkValidation(t *testing.T) {
	svc := NewDatasetService(store.NewMemoryStore(), discardLogger())
	for _, c := range []models.Chunk{
		{SessionID: "s", UserID: "u"},
		{UserID: "u", Rows: []models.Row{}},
		{SessionID: "s", Rows: []models.Row{}},
	} {
		var ve *models.ValidationError
		assert.True(t, errors.As(svc.UploadChunk(context.Background(), c), &ve))
	}
}

func TestUploadDataset(t *testing.T) {
	ctx := context.Background()
	svc := NewDatasetService(store.NewMemoryStore(), discardLogger())

	ds, err := svc.UploadDataset(ctx, UploadRequest{
		Name: "flags", FileType: "text/csv", UserID: "u1",
		Data: []models.Row{{"name": "a", "on": true, "n": 1.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Column{{Name: "n", Type: "number"}, {Name: "name", Type: "string"}, {Name: "on", Type: "boolean"}}, ds.Columns)
	assert.Equal(t, 1, ds.RowCount)

	ds, err = svc.UploadDataset(ctx, UploadRequest{Name: "empty", FileType: "text/csv", UserID: "u1", Data: []models.Row{}})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount)
	assert.Empty(t, ds.Columns)

	_, err = svc.UploadDataset(ctx, UploadRequest{Name: "nil", FileType: "text/csv", UserID: "u1"})
	var ve *models.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestColumnsTypedByFirstRow(t *testing.T) {
	rows := []models.Row{{"a": 1.0}, {"a": "stray text", "b": 2.0}}
	assert.Equal(t, []models.Column{{Name: "a", Type: "number"}, {Name: "b", Type: "string"}}, Columns([]string{"a", "b"}, rows))
	assert.Equal(t, []models.Column{{Name: "x", Type: "string"}}, Columns([]string{"x"}, nil))
}
