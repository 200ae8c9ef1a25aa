package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/ionview/internal/artifact"
	"github.com/rpggio/ionview/internal/domain/viewer"
)

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error)
}

// Viewer is the viewer surface served over HTTP.
type Viewer interface {
	Session(id string) *viewer.State
	Reload(ctx context.Context) viewer.LoadResult
	Ticket(req viewer.DownloadRequested) (viewer.DownloadTicket, error)
}

// Options configures the HTTP router. Nil handlers leave their routes unmounted.
type Options struct {
	RPC       RPCHandler
	Stream    http.Handler
	Viewer    Viewer
	Artifacts artifact.Store
	Metrics   http.Handler
	Logger    *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	rpc       RPCHandler
	viewer    Viewer
	artifacts artifact.Store
	logger    *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(RequestLogging(logger))

	srv := &Server{
		rpc:       opts.RPC,
		viewer:    opts.Viewer,
		artifacts: opts.Artifacts,
		logger:    logger,
	}

	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.Stream != nil {
		r.Handle("/mcp", opts.Stream)
		r.Handle("/mcp/*", opts.Stream)
	}

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware)

		if srv.rpc != nil {
			r.Post("/rpc", srv.handleRPC)
		}
		if srv.viewer != nil {
			r.Get("/", srv.handlePage)
			r.Get("/api/view", srv.handleView)
			r.Post("/api/events", srv.handleEvent)
			r.Post("/api/reload", srv.handleReload)
			r.Get("/artifacts/{name}", srv.handleArtifact)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, parseErrorCode(err), err.Error(), nil)
		return
	}

	result, err := s.rpc.Handle(r.Context(), sessionID(r), req.Method, req.Params)
	if err != nil {
		rpcErr := errorFor(err)
		WriteError(w, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}

	WriteResult(w, req.ID, result)
}
