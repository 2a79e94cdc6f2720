// Package httpapi exposes the generation pipeline over HTTP so a remote
// control surface can trigger runs and download the results.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/pipeline"
	"github.com/Faultbox/meshgen/internal/preset"
	"github.com/Faultbox/meshgen/internal/scene"
)

// Config holds server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server handles run requests. Runs are serialized because they share the
// raster and terrain artifacts in the output directory; every run gets its
// own combined mesh file.
type Server struct {
	cfg  Config
	opts pipeline.Options
	log  *zap.Logger

	mu   sync.Mutex
	runs atomic.Int64
}

// New creates a server that writes artifacts as described by opts.
func New(cfg Config, opts pipeline.Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.CombinedFile == "" {
		opts.CombinedFile = pipeline.DefaultCombinedFile
	}
	opts.Logger = log.Named("pipeline")
	return &Server{cfg: cfg, opts: opts, log: log}
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/runs", s.runHandler).Methods(http.MethodPost)
	router.HandleFunc("/meshes/{name}", s.meshHandler).Methods(http.MethodGet, http.MethodHead)
	router.Use(s.logRequests)
	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunResponse is the body of a successful POST /runs.
type RunResponse struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Triangles int             `json:"triangles"`
	Sections  []scene.Section `json:"sections"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) healthHandler(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(res, "ok\n")
}

func (s *Server) runHandler(res http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(res, req.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(res, status, err)
		return
	}
	p, err := preset.Parse(body)
	if err != nil {
		s.writeError(res, statusFor(err), err)
		return
	}
	params, err := p.Params()
	if err != nil {
		s.writeError(res, statusFor(err), err)
		return
	}

	opts := s.opts
	opts.CombinedFile = fmt.Sprintf("run-%d-%s", s.runs.Add(1), s.opts.CombinedFile)

	result, err := s.run(req.Context(), params, opts)
	if err != nil {
		s.writeError(res, statusFor(err), err)
		return
	}

	writeJSON(res, http.StatusOK, RunResponse{
		Name:      opts.CombinedFile,
		Path:      "/meshes/" + opts.CombinedFile,
		Triangles: result.Triangles,
		Sections:  result.Sections,
	})
}

// run executes one pipeline run at a time; runs share the raster and
// terrain artifacts in the output directory.
func (s *Server) run(ctx context.Context, p pipeline.Params, opts pipeline.Options) (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pipeline.Run(ctx, p, opts, nil)
}

func (s *Server) meshHandler(res http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".stl") {
		s.writeError(res, http.StatusNotFound, fmt.Errorf("no mesh named %q", name))
		return
	}
	res.Header().Set("Content-Type", "model/stl")
	http.ServeFile(res, req, filepath.Join(s.opts.OutputDir, name))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: res, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		s.log.Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) writeError(res http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(res, status, errorResponse{Error: err.Error(), Kind: errdefs.Kind(err)})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errdefs.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(res http.ResponseWriter, status int, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
