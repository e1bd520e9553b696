package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivolan/genbi/domain/models"
)

// GormStore keeps everything in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects to MySQL or SQLite and migrates the tables.
func OpenGorm(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// every connection to :memory: is its own database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&models.Dataset{}, &models.Chunk{}, &models.Visualization{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) InsertDataset(ctx context.Context, ds *models.Dataset) error {
	if ds.ID == "" {
		ds.ID = newID()
	}
	return s.db.WithContext(ctx).Create(ds).Error
}

func (s *GormStore) InsertChunk(ctx context.Context, chunk *models.Chunk) error {
	return s.db.WithContext(ctx).Create(chunk).Error
}

func (s *GormStore) ListChunks(ctx context.Context, sessionID, userID string) ([]models.Chunk, error) {
	var chunks []models.Chunk
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("chunk_index asc").
		Find(&chunks).Error
	return chunks, err
}

func (s *GormStore) DeleteChunks(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.Chunk{}).Error
}

func (s *GormStore) DeleteChunksBefore(ctx context.Context, t time.Time) (int64, error) {
	tx := s.db.WithContext(ctx).Where("created_at < ?", t).Delete(&models.Chunk{})
	return tx.RowsAffected, tx.Error
}

func (s *GormStore) InsertVisualization(ctx context.Context, v *models.Visualization) error {
	if v.ID == "" {
		v.ID = newID()
	}
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *GormStore) ListVisualizations(ctx context.Context, userID string) ([]models.Visualization, error) {
	var out []models.Visualization
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
