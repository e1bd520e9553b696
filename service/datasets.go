// Package service holds the server side of GenBI: chunk intake and finalize, single-shot
// dataset upload, saved visualizations, the query service client and the stale chunk sweeper.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/store"
)

// SampleSize is the number of rows kept with a dataset.
const SampleSize = 5

// DatasetService accepts uploaded rows and turns them into dataset records.
// It satisfies ingest.Backend, so uploads can run in process.
type DatasetService struct {
	store  store.DatasetStore
	logger *slog.Logger
}

func NewDatasetService(s store.DatasetStore, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{store: s, logger: logger}
}

// UploadChunk stores one batch of an upload session.
func (s *DatasetService) UploadChunk(ctx context.Context, chunk models.Chunk) error {
	if chunk.Rows == nil || chunk.SessionID == "" || chunk.UserID == "" {
		return models.ErrValidation("Missing required fields")
	}
	chunk.ID = 0
	chunk.CreatedAt = time.Now()
	if err := s.store.InsertChunk(ctx, &chunk); err != nil {
		return fmt.Errorf("store chunk %d: %w", chunk.ChunkIndex, err)
	}
	return nil
}

// Finalize assembles the chunks of a session into a dataset. The number of stored
// chunks must equal req.TotalChunks exactly. Chunks are deleted afterwards; a failed
// delete is logged and does not undo the dataset.
func (s *DatasetService) Finalize(ctx context.Context, req models.FinalizeRequest) (models.Dataset, error) {
	if req.Name == "" || req.FileType == "" || req.UserID == "" || req.SessionID == "" || req.TotalChunks <= 0 {
		return models.Dataset{}, models.ErrValidation("Missing required fields")
	}
	log := s.logger.With("session_id", req.SessionID)

	chunks, err := s.store.ListChunks(ctx, req.SessionID, req.UserID)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("fetch chunks: %w", err)
	}
	if len(chunks) != req.TotalChunks {
		log.Warn("finalize with missing chunks", "total_chunks", req.TotalChunks, "stored", len(chunks))
		return models.Dataset{}, models.ErrMissingChunks(req.TotalChunks, len(chunks))
	}

	var rows []models.Row
	for _, c := range chunks {
		rows = append(rows, c.Rows...)
	}
	ds := newDataset(req.UserID, req.Name, req.Description, req.FileType, req.Headers, rows)
	if err := s.store.InsertDataset(ctx, &ds); err != nil {
		return models.Dataset{}, fmt.Errorf("save dataset: %w", err)
	}

	if err := s.store.DeleteChunks(ctx, req.SessionID); err != nil {
		log.Warn("chunk cleanup failed", "error", err)
	}
	log.Info("dataset created", "dataset_id", ds.ID, "rows", ds.RowCount, "total_chunks", req.TotalChunks)
	return ds, nil
}

// UploadRequest is a whole dataset sent in one request.
type UploadRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	FileType    string       `json:"fileType"`
	UserID      string       `json:"userId"`
	Data        []models.Row `json:"data"`
	Headers     []string     `json:"headers,omitempty"`
}

// UploadDataset stores a dataset whose rows arrived in a single request.
func (s *DatasetService) UploadDataset(ctx context.Context, req UploadRequest) (models.Dataset, error) {
	if req.Name == "" || req.FileType == "" || req.Data == nil || req.UserID == "" {
		return models.Dataset{}, models.ErrValidation("Missing required fields")
	}
	ds := newDataset(req.UserID, req.Name, req.Description, req.FileType, req.Headers, req.Data)
	if err := s.store.InsertDataset(ctx, &ds); err != nil {
		return models.Dataset{}, fmt.Errorf("save dataset: %w", err)
	}
	s.logger.Info("dataset created", "dataset_id", ds.ID, "rows", ds.RowCount)
	return ds, nil
}

func newDataset(userID, name, description, fileType string, headers []string, rows []models.Row) models.Dataset {
	return models.Dataset{
		UserID:      userID,
		Name:        name,
		Description: description,
		FileType:    fileType,
		Columns:     Columns(headers, rows),
		SampleData:  rows[:min(SampleSize, len(rows))],
		RowCount:    len(rows),
	}
}

// Columns describes the dataset columns: the given headers, or the fields of the first
// row sorted by name. Types come from the first row only; a column missing there is a string.
func Columns(headers []string, rows []models.Row) []models.Column {
	var first models.Row
	if len(rows) > 0 {
		first = rows[0]
	}
	if headers == nil {
		for name := range first {
			headers = append(headers, name)
		}
		sort.Strings(headers)
	}
	columns := make([]models.Column, len(headers))
	for i, h := range headers {
		columns[i] = models.Column{Name: h, Type: models.TypeOf(first[h])}
	}
	return columns
}
