package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/screenlint/screenlint/internal/store"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/pipeline"
)

// defaultListLimit caps /reports responses when no limit is given.
const defaultListLimit = 50

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type listResponse struct {
	Reports []store.Record `json:"reports"`
	Count   int            `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleInvoke runs a full analysis over the sources named in the
// request body and responds with the report document. Successful
// reports are also saved to the store; a failed save is logged but
// does not fail the request.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.Record{
		ID:          result.Report.ID.String(),
		ImageName:   opts.ImageName,
		Timestamp:   result.Report.Timestamp,
		TotalIssues: result.Report.TotalIssues,
		Report:      result.JSON,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Warn("failed to store report", "id", rec.ID, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.JSON)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	s.writeJSON(w, http.StatusOK, listResponse{Reports: recs, Count: len(recs)})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Report)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"err", err,
			"request_id", requestIDFrom(r.Context()))
	} else {
		s.logger.Warn("request rejected",
			"path", r.URL.Path,
			"err", err,
			"request_id", requestIDFrom(r.Context()))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: string(code)})
}

// statusFor maps error codes to HTTP statuses. Input problems,
// including unfetchable sources, are the client's fault; everything
// else is ours.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidHierarchy,
		errors.ErrCodeInvalidImage,
		errors.ErrCodeInvalidBounds,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeNetwork,
		errors.ErrCodeTimeout:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeReportNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
