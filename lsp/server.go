// Package lsp implements a Language Server Protocol server offering htmx
// attribute completions.
package lsp

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/cristianoliveira/htmx-lsp/analysis"
	"github.com/cristianoliveira/htmx-lsp/catalog"
)

// Name is reported to clients as the server name.
const Name = "htmx-lsp"

// Options configures a Server.
type Options struct {
	// Catalog supplies completion candidates. Nil means the built-in catalog.
	Catalog *catalog.Catalog

	// Analysis tunes cursor classification.
	Analysis analysis.Options

	// Version is reported to clients in the initialize response.
	Version string
}

// Server holds everything a request needs: the open documents, the candidate
// catalog and the classification options. It keeps no other state between
// requests.
type Server struct {
	logger *zap.Logger

	documents *Registry
	catalog   *catalog.Catalog
	analysis  analysis.Options
	version   string

	exitOnce sync.Once
	exited   chan struct{}

	mu       sync.Mutex
	shutdown bool
}

// NewServer creates a new LSP server.
func NewServer(logger *zap.Logger, opts Options) *Server {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.MustLoad()
	}

	return &Server{
		logger:    logger,
		documents: NewRegistry(),
		catalog:   cat,
		analysis:  opts.Analysis,
		version:   opts.Version,
		exited:    make(chan struct{}),
	}
}

// Documents returns the server's document registry.
func (s *Server) Documents() *Registry {
	return s.documents
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("root", string(params.RootURI)))

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"-", `"`, " "},
				ResolveProvider:   false,
			},
			HoverProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    Name,
			Version: s.version,
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")

	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	return nil
}

// Exit handles the exit notification. The connection owner watches Exited.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	s.exitOnce.Do(func() { close(s.exited) })

	return nil
}

// Exited is closed once the client has sent exit.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

// IsShutdown reports whether shutdown was requested before exit.
func (s *Server) IsShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shutdown
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(_ context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	s.documents.Set(params.TextDocument.URI, params.TextDocument.Text)

	return nil
}

// DidChange handles textDocument/didChange notifications. Only full sync is
// advertised, so the first content change carries the whole document.
func (s *Server) DidChange(_ context.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.logger.Debug("DidChange",
		zap.String("uri", string(uri)),
		zap.Int32("version", params.TextDocument.Version))

	if len(params.ContentChanges) == 0 {
		s.logger.Warn("DidChange without content changes", zap.String("uri", string(uri)))

		return nil
	}

	if len(params.ContentChanges) > 1 {
		s.logger.Warn("More than one content change, applying the first",
			zap.String("uri", string(uri)),
			zap.Int("changes", len(params.ContentChanges)))
	}

	s.documents.Set(uri, params.ContentChanges[0].Text)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.documents.Delete(params.TextDocument.URI)

	return nil
}
