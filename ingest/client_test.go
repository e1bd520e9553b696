package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/domain/models"
)

func TestHTTPBackend(t *testing.T) {
	var got []models.Chunk
	mux := http.NewServeMux()
	mux.HandleFunc("/api/visualizations/upload-chunk", func(w http.ResponseWriter, r *http.Request) {
		var c models.Chunk
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		got = append(got, c)
		w.Write([]byte(`{"message":"Chunk uploaded successfully"}`))
	})
	mux.HandleFunc("/api/visualizations/finalize-upload", func(w http.ResponseWriter, r *http.Request) {
		var req models.FinalizeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.TotalChunks != len(got) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.NewErrorResponse(models.ErrMissingChunks(req.TotalChunks, len(got))))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Dataset uploaded successfully",
			"dataset": models.Dataset{ID: "ds-9", Name: req.Name, RowCount: 2},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ds, err := NewUploader(NewHTTPBackend(srv.URL+"/", nil)).Upload(context.Background(), csvFile(sample), nil)
	require.NoError(t, err)
	assert.Equal(t, "ds-9", ds.ID)
	assert.Equal(t, 2, ds.RowCount)
	require.Len(t, got, 1)
	assert.Equal(t, []models.Row{{"month": "Jan", "revenue": 100.0}, {"month": "Feb", "revenue": 200.0}}, got[0].Rows)

	b := NewHTTPBackend(srv.URL, srv.Client())
	_, err = b.Finalize(context.Background(), models.FinalizeRequest{Name: "x", TotalChunks: 3})
	var ce *models.ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Expected)
	assert.Equal(t, 1, ce.Actual)
}

func TestHTTPBackendPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPBackend(srv.URL, nil).UploadChunk(context.Background(), models.Chunk{SessionID: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
