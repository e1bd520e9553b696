package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/service"
)

// httpStatusFromDomainError maps typed errors to response codes.
func httpStatusFromDomainError(err error) int {
	var (
		validation  *models.ValidationError
		consistency *models.ConsistencyError
		notFound    *models.NotFoundError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &consistency), errors.Is(err, models.ErrUnsupportedKind):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoQueryService):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, models.NewErrorResponse(err))
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrValidation("Invalid JSON body: %v", err)
	}
	return nil
}

