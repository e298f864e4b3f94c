package lsp

import (
	"context"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Handler returns the JSON-RPC handler serving s.
func (s *Server) Handler() jsonrpc2.Handler {
	return s.handle
}

// handle routes a message by kind: calls get exactly one reply, notifications
// none, and anything else is logged and dropped.
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch msg := req.(type) {
	case *jsonrpc2.Call:
		return s.handleCall(ctx, reply, msg)
	case *jsonrpc2.Notification:
		s.handleNotification(ctx, msg)

		return reply(ctx, nil, nil)
	default:
		s.logger.Warn("Unhandled message", zap.String("method", req.Method()))

		return reply(ctx, nil, nil)
	}
}

func (s *Server) handleCall(ctx context.Context, reply jsonrpc2.Replier, call *jsonrpc2.Call) error {
	switch call.Method() {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if !s.decode(call, &params) {
			return reply(ctx, nil, nil)
		}

		result, err := s.Initialize(ctx, &params)

		return reply(ctx, result, err)
	case protocol.MethodShutdown:
		return reply(ctx, nil, s.Shutdown(ctx))
	case protocol.MethodTextDocumentCompletion:
		var params protocol.CompletionParams
		if !s.decode(call, &params) {
			return reply(ctx, nil, nil)
		}

		result, err := s.Completion(ctx, &params)
		if result == nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, result, err)
	case protocol.MethodTextDocumentHover:
		var params protocol.HoverParams
		if !s.decode(call, &params) {
			return reply(ctx, nil, nil)
		}

		result, err := s.Hover(ctx, &params)
		if result == nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, result, err)
	default:
		s.logger.Warn("Unhandled request", zap.String("method", call.Method()))

		// Calls must be answered or the client waits forever.
		return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
	}
}

func (s *Server) handleNotification(ctx context.Context, n *jsonrpc2.Notification) {
	var err error

	switch n.Method() {
	case protocol.MethodInitialized:
		var params protocol.InitializedParams
		if s.decode(n, &params) {
			err = s.Initialized(ctx, &params)
		}
	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if s.decode(n, &params) {
			err = s.DidOpen(ctx, &params)
		}
	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if s.decode(n, &params) {
			err = s.DidChange(ctx, &params)
		}
	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if s.decode(n, &params) {
			err = s.DidClose(ctx, &params)
		}
	case protocol.MethodExit:
		err = s.Exit(ctx)
	default:
		s.logger.Debug("Unhandled notification", zap.String("method", n.Method()))
	}

	if err != nil {
		s.logger.Error("Notification failed", zap.String("method", n.Method()), zap.Error(err))
	}
}

// decode unmarshals the params of req into v. Malformed params are logged and
// reported as false so the message degrades to no result.
func (s *Server) decode(req jsonrpc2.Request, v any) bool {
	params := req.Params()
	if len(params) == 0 {
		return true
	}

	err := json.Unmarshal(params, v)
	if err != nil {
		s.logger.Warn("Malformed params",
			zap.String("method", req.Method()),
			zap.Error(err))

		return false
	}

	return true
}
