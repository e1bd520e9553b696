package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/ingest"
)

// handleFileUpload takes a multipart CSV (or archived CSV) and runs the chunked upload
// in process, so small clients can skip the chunk protocol.
func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, r, models.ErrValidation("Error uploading file: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, models.ErrValidation("Error uploading file: %v", err))
		return
	}
	defer file.Close()

	userID := r.FormValue("userId")
	if userID == "" {
		s.writeError(w, r, models.ErrValidation("User ID is required"))
		return
	}

	dir, err := os.MkdirTemp("", "genbi-upload-*")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(header.Filename))
	if err := saveFile(file, path); err != nil {
		s.writeError(w, r, err)
		return
	}
	if path, err = ingest.UnpackArchive(path, filepath.Join(dir, "unpacked")); err != nil {
		s.writeError(w, r, models.ErrValidation("Error unpacking archive: %v", err))
		return
	}

	fh, f, err := ingest.OpenFile(path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer fh.Close()
	if name := r.FormValue("name"); name != "" {
		f.Name = name
	}
	f.Description = r.FormValue("description")
	f.UserID = userID

	ds, err := ingest.NewUploader(s.datasets, ingest.WithLogger(s.logger)).Upload(r.Context(), f, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{Message: "Dataset uploaded successfully", Dataset: ds})
}

func saveFile(src io.Reader, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
