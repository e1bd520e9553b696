// Package ingest uploads large CSV files in fixed byte ranges, batching parsed rows
// into chunks and finalizing them into a dataset.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/genbi/domain/models"
)

const (
	RangeSize   int64 = 5 << 20
	MaxFileSize int64 = 10 << 30
	BatchSize         = 1000
)

type State int

const (
	Idle State = iota
	ReadingHeader
	Uploading
	Finalizing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case ReadingHeader:
		return "reading header"
	case Uploading:
		return "uploading"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Backend stores uploaded chunks and assembles them into a dataset.
type Backend interface {
	UploadChunk(ctx context.Context, chunk models.Chunk) error
	Finalize(ctx context.Context, req models.FinalizeRequest) (models.Dataset, error)
}

// File is a source to upload together with the dataset metadata.
type File struct {
	Name        string
	Description string
	FileType    string
	UserID      string
	Size        int64
	Source      io.ReaderAt
}

// Uploader runs chunked uploads one at a time, one request in flight.
type Uploader struct {
	backend   Backend
	logger    *slog.Logger
	rangeSize int64
	batchSize int
	sessionID func() string

	mu    sync.Mutex
	state State
}

type Option func(*Uploader)

// WithRangeSize sets the byte range read per step.
func WithRangeSize(n int64) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.rangeSize = n
		}
	}
}

// WithBatchSize sets the number of rows sent per chunk.
func WithBatchSize(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.batchSize = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.logger = l
		}
	}
}

func NewUploader(backend Backend, opts ...Option) *Uploader {
	u := &Uploader{
		backend:   backend,
		logger:    slog.Default(),
		rangeSize: RangeSize,
		batchSize: BatchSize,
		sessionID: NewSessionID,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NewSessionID identifies an upload session by start time and a random suffix.
func NewSessionID() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.NewV4().String()[:8])
}

// State is the stage of the current or last upload.
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *Uploader) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

// Upload parses f range by range, sends each batch of rows as a chunk and finalizes the
// session. onProgress, when set, receives the share of ranges processed as a percentage.
// Any failed request ends the upload; it has to be started again from the beginning.
func (u *Uploader) Upload(ctx context.Context, f File, onProgress func(percent float64)) (models.Dataset, error) {
	u.setState(ReadingHeader)
	ds, err := u.run(ctx, f, onProgress)
	if err != nil {
		u.setState(Failed)
		return models.Dataset{}, err
	}
	u.setState(Done)
	return ds, nil
}

func (u *Uploader) run(ctx context.Context, f File, onProgress func(float64)) (models.Dataset, error) {
	if strings.TrimSpace(f.Name) == "" {
		return models.Dataset{}, models.ErrValidation("Dataset name is required")
	}
	if f.Size > MaxFileSize {
		return models.Dataset{}, models.ErrValidation("File size %d exceeds the limit of %d bytes", f.Size, MaxFileSize)
	}

	s := &session{
		Uploader: u,
		ctx:      ctx,
		id:       u.sessionID(),
		userID:   f.UserID,
	}
	ranges := max((f.Size+u.rangeSize-1)/u.rangeSize, 1)
	log := u.logger.With("session_id", s.id)
	log.Info("upload started", "name", f.Name, "size", f.Size, "ranges", ranges)

	var carry string
	buf := make([]byte, min(u.rangeSize, max(f.Size, 0)))
	for i := int64(0); i < ranges; i++ {
		if err := ctx.Err(); err != nil {
			return models.Dataset{}, err
		}
		off := i * u.rangeSize
		n := min(u.rangeSize, f.Size-off)
		if n > 0 {
			read, err := f.Source.ReadAt(buf[:n], off)
			if err != nil && !(errors.Is(err, io.EOF) && int64(read) == n) {
				return models.Dataset{}, fmt.Errorf("read range %d: %w", i, err)
			}
		}
		lines := strings.Split(carry+string(buf[:max(n, 0)]), "\n")
		if i < ranges-1 {
			carry, lines = lines[len(lines)-1], lines[:len(lines)-1]
		} else {
			carry = ""
		}
		if err := s.consume(lines); err != nil {
			return models.Dataset{}, err
		}
		if err := s.flush(); err != nil {
			return models.Dataset{}, err
		}
		if onProgress != nil {
			onProgress(float64(i+1) / float64(ranges) * 100)
		}
	}
	if s.headers == nil {
		return models.Dataset{}, models.ErrValidation("Invalid CSV header: the file is empty")
	}

	u.setState(Finalizing)
	req := models.FinalizeRequest{
		Name:        f.Name,
		Description: f.Description,
		FileType:    f.FileType,
		UserID:      f.UserID,
		SessionID:   s.id,
		TotalChunks: s.chunkIndex,
		Headers:     s.headers,
	}
	ds, err := u.backend.Finalize(ctx, req)
	if err != nil {
		log.Warn("finalize failed", "total_chunks", s.chunkIndex, "error", err)
		return models.Dataset{}, transportError("finalize", -1, err)
	}
	log.Info("upload finished", "dataset_id", ds.ID, "rows", s.rows, "total_chunks", s.chunkIndex)
	return ds, nil
}

// session is the parsing and batching state of one upload.
type session struct {
	*Uploader
	ctx        context.Context
	id         string
	userID     string
	headers    []string
	batch      []models.Row
	chunkIndex int
	rows       int
}

func (s *session) consume(lines []string) error {
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if s.headers == nil {
			headers, err := ParseHeader(line)
			if err != nil {
				return err
			}
			s.headers = headers
			s.setState(Uploading)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.batch = append(s.batch, ParseLine(line, s.headers))
		if len(s.batch) >= s.batchSize {
			if err := s.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *session) flush() error {
	if len(s.batch) == 0 {
		return nil
	}
	chunk := models.Chunk{
		SessionID:  s.id,
		UserID:     s.userID,
		ChunkIndex: s.chunkIndex,
		Rows:       s.batch,
	}
	if err := s.backend.UploadChunk(s.ctx, chunk); err != nil {
		s.logger.Warn("chunk upload failed", "session_id", s.id, "chunk_index", s.chunkIndex, "error", err)
		return transportError("upload", s.chunkIndex, err)
	}
	s.logger.Debug("chunk uploaded", "session_id", s.id, "chunk_index", s.chunkIndex, "rows", len(s.batch))
	s.rows += len(s.batch)
	s.chunkIndex++
	s.batch = nil
	return nil
}

// transportError attributes err to a request. Finalize count mismatches and
// validation failures keep their own type.
func transportError(op string, chunkIndex int, err error) error {
	var (
		te *models.TransportError
		ce *models.ConsistencyError
		ve *models.ValidationError
	)
	if errors.As(err, &te) || errors.As(err, &ce) || (chunkIndex < 0 && errors.As(err, &ve)) {
		return err
	}
	return models.ErrTransport(op, chunkIndex, err)
}
