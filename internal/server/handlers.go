package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/cyclegen/pkg/buildinfo"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
	"github.com/matzehuels/cyclegen/pkg/render/dot"
	"github.com/matzehuels/cyclegen/pkg/store"
)

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// typesResponse is the body of GET /types.
type typesResponse struct {
	Types []string `json:"types"`
}

// generateRequest is the body of POST /generate. Omitted settings fall back
// to generator.DefaultSettings.
type generateRequest struct {
	Seed               *int64 `json:"seed"`
	MaxDepth           *int   `json:"max_depth"`
	MaxInsertionsTotal *int   `json:"max_insertions_total"`
	MaxNodes           *int   `json:"max_nodes"`
	Overall            string `json:"overall"`
	Refresh            bool   `json:"refresh"`
}

// options resolves the request against the defaults and rejects budgets
// above the server limits. max_nodes 0 would lift the node cap, so it is
// rejected as well.
func (req generateRequest) options() (pipeline.Options, error) {
	s := generator.DefaultSettings()
	if req.Seed != nil {
		s.Seed = *req.Seed
	}
	if req.MaxDepth != nil {
		s.MaxDepth = *req.MaxDepth
	}
	if req.MaxInsertionsTotal != nil {
		s.MaxInsertionsTotal = *req.MaxInsertionsTotal
	}
	if req.MaxNodes != nil {
		s.MaxNodes = *req.MaxNodes
	}
	switch {
	case s.MaxDepth > maxDepthLimit:
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidSettings,
			"max depth must be <= %d, got %d", maxDepthLimit, s.MaxDepth)
	case s.MaxInsertionsTotal > maxInsertionsLimit:
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidSettings,
			"max insertions must be <= %d, got %d", maxInsertionsLimit, s.MaxInsertionsTotal)
	case s.MaxNodes == 0 || s.MaxNodes > maxNodesLimit:
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidSettings,
			"max nodes must be between 1 and %d, got %d", maxNodesLimit, s.MaxNodes)
	}
	return pipeline.Options{Settings: s, Overall: req.Overall, Refresh: req.Refresh}, nil
}

// generateResponse is the body of POST /generate.
type generateResponse struct {
	ID          string         `json:"id"`
	Fingerprint string         `json:"fingerprint"`
	Cached      bool           `json:"cached"`
	Document    graph.Document `json:"document"`
}

// listResponse is the body of GET /runs.
type listResponse struct {
	Runs []store.Summary `json:"runs"`
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) types(w http.ResponseWriter, r *http.Request) {
	types := s.runner.Library.Types()
	resp := typesResponse{Types: make([]string, len(types))}
	for i, t := range types {
		resp.Types[i] = string(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts, err := req.options()
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.logger
	res, hit, err := s.runner.GenerateWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := store.NewRecord(res)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Debug("archived run", "id", rec.ID, "overall", rec.Document.Overall, "cached", hit)
	writeJSON(w, http.StatusCreated, generateResponse{
		ID:          rec.ID,
		Fingerprint: rec.Fingerprint,
		Cached:      hit,
		Document:    rec.Document,
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, listResponse{Runs: runs})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, recordFrom(r.Context()))
}

func (s *Server) getRunDOT(w http.ResponseWriter, r *http.Request) {
	src, err := s.recordDOT(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(src))
}

func (s *Server) getRunSVG(w http.ResponseWriter, r *http.Request) {
	src, err := s.recordDOT(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := dot.RenderSVG(src)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), recordFrom(r.Context()).ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recordDOT rebuilds the archived result and exports it as DOT. The
// "clusters" and "labels" query flags select the drawing options.
func (s *Server) recordDOT(r *http.Request) (string, error) {
	res, err := recordFrom(r.Context()).Result()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "load archived run")
	}
	q := r.URL.Query()
	opts := dot.Options{
		Clusters: q.Get("clusters") == "true",
		Labels:   q.Get("labels") == "true",
	}
	return dot.ToDOT(res, opts), nil
}

// writeError maps err to a status code and writes an errorResponse.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: errs.GetCode(err)})
}

func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidSettings, errs.ErrCodeInvalidCycleType:
		return http.StatusBadRequest
	case errs.ErrCodeTemplateNotFound:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
