/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server.go
Description: HTTP API exposing inference, diffing, filtering and charting to a
presentation layer. Every endpoint takes and returns JSON.
*/

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kleascm/jsonlens/pkg/chart"
	"github.com/kleascm/jsonlens/pkg/diff"
	"github.com/kleascm/jsonlens/pkg/filter"
	"github.com/kleascm/jsonlens/pkg/history"
	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/logging"
	"github.com/kleascm/jsonlens/pkg/schema"
	"github.com/sirupsen/logrus"
)

// maxRequestBytes bounds every request body
const maxRequestBytes = 16 << 20

// Server serves the inspection API
type Server struct {
	router    chi.Router
	inspector *inspect.Inspector
	history   *history.Store
	logger    *logging.Logger
}

// New builds the router. store may be nil, in which case the history endpoints are not
// mounted.
func New(inspector *inspect.Inspector, store *history.Store, logger *logging.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		inspector: inspector,
		history:   store,
		logger:    logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/infer", s.handleInfer)
	s.router.Post("/fields", s.handleFields)
	s.router.Post("/diff", s.handleDiff)
	s.router.Post("/filter", s.handleFilter)
	s.router.Post("/chart", s.handleChart)

	if store != nil {
		s.router.Get("/history", s.handleHistoryList)
		s.router.Get("/history/{id}", s.handleHistoryGet)
	}
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if s.logger != nil {
		s.logger.GetLogger().WithField("addr", addr).Info("Server listening")
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	}
}

// Document fields are raw so that a JSON null can be told apart from a missing key
type inferRequest struct {
	Value json.RawMessage `json:"value"`
}

type inferResponse struct {
	Schema        *schema.Node   `json:"schema"`
	Tree          string         `json:"tree"`
	Fields        []schema.Field `json:"fields"`
	NumericFields []string       `json:"numericFields"`
}

type fieldsRequest struct {
	Value json.RawMessage `json:"value"`
	Path  string          `json:"path"`
}

type fieldsResponse struct {
	Records       int            `json:"records"`
	Fields        []schema.Field `json:"fields"`
	NumericFields []string       `json:"numericFields"`
}

type diffRequest struct {
	Old json.RawMessage `json:"old"`
	New json.RawMessage `json:"new"`
}

type diffResponse struct {
	Root    *diff.Node    `json:"root"`
	Changes []diff.Change `json:"changes"`
	Stats   diff.Stats    `json:"stats"`
}

type filterRequest struct {
	Records []jsonvalue.Value `json:"records"`
	Rules   []filter.Rule     `json:"rules"`
}

type filterResponse struct {
	Records []jsonvalue.Value `json:"records"`
	Count   int               `json:"count"`
}

type chartRequest struct {
	Records []jsonvalue.Value `json:"records"`
	Config  chart.Config      `json:"config"`
}

type chartResponse struct {
	Points []chart.Datum `json:"points"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "jsonlens"})
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	var req inferRequest
	if !decode(w, r, &req) {
		return
	}
	value, err := document(req.Value, "value")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := s.inspector.InspectValue(value)
	writeJSON(w, http.StatusOK, inferResponse{
		Schema:        snap.Schema,
		Tree:          schema.Render(snap.Schema),
		Fields:        snap.Fields,
		NumericFields: snap.NumericFields,
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	var req fieldsRequest
	if !decode(w, r, &req) {
		return
	}
	value, err := document(req.Value, "value")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := inspect.Records(value, req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fields, numeric := inspect.RecordFieldPaths(records)
	writeJSON(w, http.StatusOK, fieldsResponse{Records: len(records), Fields: fields, NumericFields: numeric})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if !decode(w, r, &req) {
		return
	}
	oldValue, err := document(req.Old, "old")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	newValue, err := document(req.New, "new")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	root := s.inspector.CompareValues(oldValue, newValue)
	writeJSON(w, http.StatusOK, diffResponse{Root: root, Changes: diff.Changes(root), Stats: diff.Count(root)})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !decode(w, r, &req) {
		return
	}

	out := s.inspector.Filter(req.Records, req.Rules)
	writeJSON(w, http.StatusOK, filterResponse{Records: out, Count: len(out)})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Config.Type == "" {
		req.Config.Type = chart.Bar
	}
	if _, err := chart.ParseType(string(req.Config.Type)); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, chartResponse{Points: s.inspector.Chart(req.Records, req.Config)})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.history.List())
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.history.Get(chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.GetLogger().WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
		}).Debug("Handled API request")
	})
}

// decode reads a JSON body into dst, writing a 400 and returning false on failure
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// document parses a required request field. Only an absent key is rejected; null is a
// valid document.
func document(raw json.RawMessage, name string) (jsonvalue.Value, error) {
	if len(raw) == 0 {
		return jsonvalue.Value{}, fmt.Errorf("missing %s", name)
	}
	v, err := jsonvalue.Parse(raw)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
