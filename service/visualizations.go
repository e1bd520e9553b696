package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/store"
)

type VisualizationService struct {
	store  store.VisualizationStore
	logger *slog.Logger
}

func NewVisualizationService(s store.VisualizationStore, logger *slog.Logger) *VisualizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisualizationService{store: s, logger: logger}
}

// SaveRequest stores a rendered result under a name.
type SaveRequest struct {
	ChartData   *models.ChartData `json:"chartData"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	UserID      string            `json:"userId"`
	DatasetID   string            `json:"datasetId,omitempty"`
}

// Save keeps the chart config and rows; the chart type is taken from the config.
func (s *VisualizationService) Save(ctx context.Context, req SaveRequest) (models.Visualization, error) {
	if req.ChartData == nil || req.Name == "" || req.UserID == "" {
		return models.Visualization{}, models.ErrValidation("Missing required fields")
	}
	v := models.Visualization{
		UserID:      req.UserID,
		DatasetID:   req.DatasetID,
		Name:        req.Name,
		Description: req.Description,
		ChartType:   req.ChartData.ChartConfig.Type,
		ChartConfig: req.ChartData.ChartConfig,
		Data:        req.ChartData.Data,
	}
	if err := s.store.InsertVisualization(ctx, &v); err != nil {
		return models.Visualization{}, fmt.Errorf("save visualization: %w", err)
	}
	s.logger.Info("visualization saved", "visualization_id", v.ID, "chart_type", v.ChartType)
	return v, nil
}

// List returns the user's visualizations, newest first.
func (s *VisualizationService) List(ctx context.Context, userID string) ([]models.Visualization, error) {
	if userID == "" {
		return nil, models.ErrValidation("User ID is required")
	}
	list, err := s.store.ListVisualizations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visualizations: %w", err)
	}
	return list, nil
}
