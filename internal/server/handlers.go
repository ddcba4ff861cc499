package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/figflow/figflow/pkg/buildinfo"
	"github.com/figflow/figflow/pkg/errors"
	"github.com/figflow/figflow/pkg/pipeline"
	"github.com/figflow/figflow/pkg/store"
)

// renderRequest is the POST /v1/render body. It embeds the pipeline
// options plus server-only knobs.
type renderRequest struct {
	pipeline.Options

	// Persist stores the rendered artifacts in history and returns
	// their record IDs.
	Persist bool `json:"persist,omitempty"`
}

// renderResponse is the POST /v1/render reply.
type renderResponse struct {
	PlanHash  string             `json:"planHash"`
	Title     string             `json:"title,omitempty"`
	Stats     renderStats        `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Artifacts map[string]string  `json:"artifacts"`
	RecordIDs map[string]string  `json:"recordIds,omitempty"`
}

type renderStats struct {
	Nodes      int           `json:"nodes"`
	Edges      int           `json:"edges"`
	ParseTime  time.Duration `json:"parseTimeNs"`
	LayoutTime time.Duration `json:"layoutTimeNs"`
	RenderTime time.Duration `json:"renderTimeNs"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidSpec, "invalid request body: %v", err))
		return
	}
	req.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := renderResponse{
		PlanHash: result.PlanHash,
		Title:    result.Plan.Title,
		Stats: renderStats{
			Nodes:      result.Stats.NodeCount,
			Edges:      result.Stats.EdgeCount,
			ParseTime:  result.Stats.ParseTime,
			LayoutTime: result.Stats.LayoutTime,
			RenderTime: result.Stats.RenderTime,
		},
		Cache:     result.CacheInfo,
		Artifacts: make(map[string]string, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = string(data)
	}

	if req.Persist {
		resp.RecordIDs = make(map[string]string, len(result.Artifacts))
		for format, data := range result.Artifacts {
			rec := &store.Record{
				PlanHash: result.PlanHash,
				Title:    result.Plan.Title,
				Format:   format,
				Artifact: data,
			}
			if err := s.store.Save(r.Context(), rec); err != nil {
				s.logger.Error("persist render", "error", err, "request_id", RequestID(r.Context()))
				continue
			}
			resp.RecordIDs[format] = rec.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidSpec, "invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidSpec, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidCanvas,
		errors.ErrCodeUnknownNode:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeLayoutDiverged:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
