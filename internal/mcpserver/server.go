// Package mcpserver exposes a JSON-file bookmark collection to agents over
// the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nikbrunner/vault/internal/logger"
	"golang.org/x/term"
)

const (
	ServerName    = "bookmark-mcp"
	ServerVersion = "1.0.0"
	EndpointPath  = "/mcp"
)

// New builds an MCP server with the bookmark tools registered.
func New(h *BookmarkHandler) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)
	if err := h.RegisterTools(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Router mounts the streamable HTTP transport at /mcp next to /healthz.
func Router(s *server.MCPServer) http.Handler {
	stream := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(EndpointPath),
		server.WithHeartbeatInterval(30*time.Second),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle(EndpointPath, stream)
	return r
}

// HTTPOptions configures ServeHTTP.
type HTTPOptions struct {
	Addr            string
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// ServeHTTP serves s over streamable HTTP until ctx is cancelled, then shuts
// down gracefully.
func ServeHTTP(ctx context.Context, s *server.MCPServer, opts HTTPOptions, log logger.Logger) error {
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      Router(s),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: 0, // no deadline, required for SSE streaming
		IdleTimeout:  opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving MCP over streamable HTTP", logger.String("addr", opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("HTTP server shutdown complete")
	return nil
}

// ServeStdio serves s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// ShouldUseStdio picks the transport. MCP_STDIO=true and MCP_HTTP=true force
// one; otherwise stdio is used when stdin is not a terminal (launched by an
// agent host).
func ShouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}
