package api

import (
	"fmt"
	"net/http"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/service"
)

func (s *Server) handleUploadChunk(w http.ResponseWriter, r *http.Request) {
	var chunk models.Chunk
	if err := decodeJSON(r, &chunk); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.datasets.UploadChunk(r.Context(), chunk); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Chunk %d uploaded successfully", chunk.ChunkIndex),
	})
}

func (s *Server) handleFinalizeUpload(w http.ResponseWriter, r *http.Request) {
	var req models.FinalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.datasets.Finalize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{Message: "Dataset uploaded successfully", Dataset: ds})
}

func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	var req service.UploadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.datasets.UploadDataset(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{Message: "Dataset uploaded successfully", Dataset: ds})
}

func (s *Server) handleProcessQuery(w http.ResponseWriter, r *http.Request) {
	var req service.QueryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.querier.Process(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req service.SaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.visualizations.Save(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Visualization saved successfully",
		"visualization": v,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.visualizations.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Visualization{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"visualizations": list})
}

type datasetResponse struct {
	Message string         `json:"message"`
	Dataset models.Dataset `json:"dataset"`
}
