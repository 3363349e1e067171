// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/evalhub/internal/adapters/repository"
	"github.com/okian/evalhub/internal/adapters/scanner"
	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/internal/domain/query"
	"github.com/okian/evalhub/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	List(ctx context.Context, p query.Params) (model.Snapshot, error)
	Detail(ctx context.Context, id string) (model.Detail, error)
	Groups(ctx context.Context) ([]string, error)
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	evalsHandler    *EvalsHandler
	groupsHandler   *GroupsHandler
	snapshotHandler *SnapshotFileHandler
	logger          logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	snapshotFile string
	logger       logger.Logger
}

// WithSnapshotFile serves path at /evals.json.
func WithSnapshotFile(path string) ServerOption {
	return func(o *serverOptions) {
		o.snapshotFile = path
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		evalsHandler:    NewEvalsHandler(deps, o.logger),
		groupsHandler:   NewGroupsHandler(deps, o.logger),
		snapshotHandler: NewSnapshotFileHandler(o.snapshotFile),
		logger:          o.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/evals.json", MetricsMiddleware(s.snapshotHandler.HandleSnapshot, "snapshot"))
	mux.HandleFunc("/api/evals", MetricsMiddleware(s.evalsHandler.HandleList, "evals"))
	mux.HandleFunc("/api/evals/", MetricsMiddleware(s.evalsHandler.HandleDetail, "eval"))
	mux.HandleFunc("/api/groups", MetricsMiddleware(s.groupsHandler.HandleGroups, "groups"))
}

// Handler wraps mux with request ids.
func (s *Server) Handler(mux http.Handler) http.Handler {
	return RequestIDMiddleware(mux, s.logger)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON marshals v before writing the header; an encoding failure is
// answered with 500 internal_error.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: ErrInternal.Error() + ": " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error onto a status and error code.
func writeFailure(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, context.Canceled):
		// Client went away; the status only reaches metrics and logs.
		writeError(w, StatusClientClosedRequest, "canceled", WrapKind(op, ErrCanceled, err))
	case errors.Is(err, scanner.ErrRootUnreadable):
		log.Error(ctx, "evals root unreadable",
			logger.String("op", op),
			logger.String("request_id", RequestIDFromContext(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "root_unreadable", Wrap(op, err))
	default:
		log.Error(ctx, "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFromContext(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
