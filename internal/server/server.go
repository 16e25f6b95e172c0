// Package server exposes artifact fetching over HTTP.
//
//	POST /v1/fetch   body: artifacts.Request, returns FetchResponse
//	GET  /healthz    returns build information
//
// Every response carries an X-Request-ID header; incoming IDs are kept,
// otherwise a UUID is generated.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackfetch/pkg/artifacts"
	"github.com/matzehuels/stackfetch/pkg/buildinfo"
	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/fetch"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// DefaultRequestTimeout bounds one fetch request.
const DefaultRequestTimeout = 5 * time.Minute

// Options configures a Server.
type Options struct {
	Runner         *artifacts.Runner
	Repositories   []repository.Repository // Used when a request names none
	Versions       artifacts.Versions
	Logger         *log.Logger
	RequestTimeout time.Duration
}

// Server handles fetch requests.
type Server struct {
	runner   *artifacts.Runner
	repos    []repository.Repository
	versions artifacts.Versions
	logger   *log.Logger
	timeout  time.Duration
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		repos:    opts.Repositories,
		versions: opts.Versions,
		logger:   opts.Logger,
		timeout:  opts.RequestTimeout,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if len(s.repos) == 0 {
		s.repos = repository.Default()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	return s
}

// FetchResponse is the body of a successful fetch.
type FetchResponse struct {
	ID               string                 `json:"id"`
	ClassPath        []string               `json:"class_path"`
	CompileClassPath []string               `json:"compile_class_path"`
	SourcePath       []string               `json:"source_path,omitempty"`
	UserClassPath    []string               `json:"user_class_path"`
	Artifacts        []fetch.Entry          `json:"artifacts"`
	HasJVMRunner     bool                   `json:"has_jvm_runner"`
	Scala            *artifacts.ScalaBundle `json:"scala,omitempty"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	ID      string   `json:"id"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"` // One line per failure, with positions
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/fetch", s.handleFetch)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	id := requestIDFrom(r.Context())

	var req artifacts.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, id, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	params, err := req.Params(s.repos, s.versions)
	if err != nil {
		s.writeError(w, id, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	b, err := s.runner.Run(ctx, params)
	if err != nil {
		s.writeError(w, id, err)
		return
	}

	writeJSON(w, http.StatusOK, FetchResponse{
		ID:               id,
		ClassPath:        b.ClassPath(),
		CompileClassPath: b.CompileClassPath(),
		SourcePath:       b.SourcePath(),
		UserClassPath:    b.UserClassPath(),
		Artifacts:        b.Artifacts(),
		HasJVMRunner:     b.HasJVMRunner(),
		Scala:            b.Scala,
	})
}

func (s *Server) writeError(w http.ResponseWriter, id string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("fetch failed", "id", id, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		ID:      id,
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
		Details: errors.Report(err),
	})
}

// statusFor maps an error to an HTTP status. Composite errors take the
// status of their first failure.
func statusFor(err error) int {
	if leaves := errors.Flatten(err); len(leaves) > 0 {
		err = leaves[0]
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDependency,
		errors.ErrCodeRepositoryFormat, errors.ErrCodeMissingScalaVersion:
		return http.StatusBadRequest
	case errors.ErrCodeFetchingDependencies, errors.ErrCodePackageNotFound,
		errors.ErrCodeNotFound, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
