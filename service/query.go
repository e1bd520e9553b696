package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/view"
)

// ErrNoQueryService is returned when no query service URL is configured.
var ErrNoQueryService = errors.New("query service is not configured")

// QueryRequest is a natural language question, optionally about one dataset.
type QueryRequest struct {
	Query     string `json:"query"`
	DatasetID string `json:"datasetId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// QueryService answers a question with rows and a chart config. How it does so is up to it.
type QueryService interface {
	Query(ctx context.Context, req QueryRequest) (models.ChartData, error)
}

// QueryClient calls a query service over HTTP.
type QueryClient struct {
	url    string
	key    string
	client *http.Client
}

// NewQueryClient posts questions to url, authenticating with key when it is set.
func NewQueryClient(url, key string, client *http.Client) *QueryClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &QueryClient{url: url, key: key, client: client}
}

func (c *QueryClient) Query(ctx context.Context, q QueryRequest) (models.ChartData, error) {
	if c.url == "" {
		return models.ChartData{}, ErrNoQueryService
	}
	body, err := json.Marshal(q)
	if err != nil {
		return models.ChartData{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return models.ChartData{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return models.ChartData{}, fmt.Errorf("query service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return models.ChartData{}, fmt.Errorf("query service: %s", apiErr.Error)
		}
		return models.ChartData{}, fmt.Errorf("query service: %s", resp.Status)
	}
	var data models.ChartData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.ChartData{}, fmt.Errorf("decode query response: %w", err)
	}
	return data, nil
}

// Querier validates questions before passing them to the query service.
type Querier struct {
	qs     QueryService
	logger *slog.Logger
}

func NewQuerier(qs QueryService, logger *slog.Logger) *Querier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Querier{qs: qs, logger: logger}
}

// Process asks the query service. A response whose chart type the container does not
// know is returned as is; it renders as the unsupported placeholder.
func (q *Querier) Process(ctx context.Context, req QueryRequest) (models.ChartData, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return models.ChartData{}, models.ErrValidation("Query is required")
	}
	data, err := q.qs.Query(ctx, req)
	if err != nil {
		return models.ChartData{}, err
	}
	if err := view.Validate(data); err != nil {
		q.logger.Warn("query returned an unknown chart type", "query", req.Query, "error", err)
	}
	return data, nil
}
