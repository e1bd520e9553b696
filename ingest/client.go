package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pivolan/genbi/domain/models"
)

// HTTPBackend sends chunks and the finalize call to a GenBI API server.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend talks to the API at baseURL. A nil client means http.DefaultClient.
func NewHTTPBackend(baseURL string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (b *HTTPBackend) UploadChunk(ctx context.Context, chunk models.Chunk) error {
	return b.post(ctx, "/api/visualizations/upload-chunk", chunk, nil)
}

func (b *HTTPBackend) Finalize(ctx context.Context, req models.FinalizeRequest) (models.Dataset, error) {
	var resp struct {
		Message string         `json:"message"`
		Dataset models.Dataset `json:"dataset"`
	}
	if err := b.post(ctx, "/api/visualizations/finalize-upload", req, &resp); err != nil {
		return models.Dataset{}, err
	}
	return resp.Dataset, nil
}

// post sends body as JSON and decodes a successful response into out. Error bodies
// are turned back into the typed error the server reported.
func (b *HTTPBackend) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("%s %s: %s", req.Method, path, resp.Status)
		}
		return apiErr.Err()
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
