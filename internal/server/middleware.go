package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/observability"
	"github.com/matzehuels/cyclegen/pkg/store"
)

type ctxKey int

const recordKey ctxKey = 0

// logRequests logs every request at debug level and reports it to the HTTP
// observability hooks. The route pattern, not the raw path, is reported so
// run ids do not explode metric cardinality.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// withRecord loads the run named by the {id} URL parameter into the request
// context.
func (s *Server) withRecord(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := errs.ValidateRunID(id); err != nil {
			s.writeError(w, err)
			return
		}
		rec, err := s.store.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), recordKey, rec)))
	})
}

// recordFrom returns the record stored by withRecord.
func recordFrom(ctx context.Context) *store.Record {
	rec, _ := ctx.Value(recordKey).(*store.Record)
	return rec
}
