package lsp_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/cristianoliveira/htmx-lsp/lsp"
)

// connect serves server on one end of an in-memory pipe and returns a client
// connection on the other.
func connect(t *testing.T, server *lsp.Server) jsonrpc2.Conn {
	t.Helper()

	ctx := context.Background()
	a, b := net.Pipe()

	serverConn := jsonrpc2.NewConn(jsonrpc2.NewStream(a))
	serverConn.Go(ctx, server.Handler())

	clientConn := jsonrpc2.NewConn(jsonrpc2.NewStream(b))
	clientConn.Go(ctx, jsonrpc2.MethodNotFoundHandler)

	t.Cleanup(func() {
		_ = clientConn.Close()
		_ = serverConn.Close()
		<-clientConn.Done()
		<-serverConn.Done()
	})

	return clientConn
}

func TestHandler_CompletionRoundTrip(t *testing.T) {
	t.Parallel()

	client := connect(t, newTestServer(t))
	ctx := context.Background()

	var initResult protocol.InitializeResult
	_, err := client.Call(ctx, protocol.MethodInitialize, &protocol.InitializeParams{}, &initResult)
	require.NoError(t, err)
	require.NotNil(t, initResult.ServerInfo)
	assert.Equal(t, lsp.Name, initResult.ServerInfo.Name)

	require.NoError(t, client.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}))
	require.NoError(t, client.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "html", Version: 1, Text: "<div></div>"},
	}))
	require.NoError(t, client.Notify(ctx, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: `<div hx-swap=""></div>`}},
	}))

	var list *protocol.CompletionList
	_, err = client.Call(ctx, protocol.MethodTextDocumentCompletion,
		completionAt(0, 14, protocol.CompletionTriggerKindInvoked), &list)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Contains(t, itemLabels(list), "innerHTML")
}

func TestHandler_NullCompletion(t *testing.T) {
	t.Parallel()

	client := connect(t, newTestServer(t))
	ctx := context.Background()

	require.NoError(t, client.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Text: `<div class=""></div>`},
	}))

	var list *protocol.CompletionList
	_, err := client.Call(ctx, protocol.MethodTextDocumentCompletion,
		completionAt(0, 12, protocol.CompletionTriggerKindInvoked), &list)
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestHandler_MalformedParams(t *testing.T) {
	t.Parallel()

	client := connect(t, newTestServer(t))
	ctx := context.Background()

	// A malformed notification is dropped without disturbing the session.
	require.NoError(t, client.Notify(ctx, protocol.MethodTextDocumentDidChange, "not an object"))

	var list *protocol.CompletionList
	_, err := client.Call(ctx, protocol.MethodTextDocumentCompletion, []int{1, 2, 3}, &list)
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestHandler_UnknownMethods(t *testing.T) {
	t.Parallel()

	client := connect(t, newTestServer(t))
	ctx := context.Background()

	require.NoError(t, client.Notify(ctx, "$/cancelRequest", map[string]int{"id": 1}))

	var result any
	_, err := client.Call(ctx, protocol.MethodTextDocumentDefinition, &protocol.DefinitionParams{}, &result)
	require.Error(t, err)

	// The connection still serves requests afterwards.
	var shutdown any
	_, err = client.Call(ctx, protocol.MethodShutdown, nil, &shutdown)
	require.NoError(t, err)
}

func TestHandler_Exit(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := connect(t, server)
	ctx := context.Background()

	var shutdown any
	_, err := client.Call(ctx, protocol.MethodShutdown, nil, &shutdown)
	require.NoError(t, err)
	require.NoError(t, client.Notify(ctx, protocol.MethodExit, nil))

	select {
	case <-server.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not observe exit")
	}

	assert.True(t, server.IsShutdown())
}

func TestHandler_Hover(t *testing.T) {
	t.Parallel()

	client := connect(t, newTestServer(t))
	ctx := context.Background()

	require.NoError(t, client.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Text: `<button hx-post="/save"></button>`},
	}))

	var hover *protocol.Hover
	_, err := client.Call(ctx, protocol.MethodTextDocumentHover, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: 10},
		},
	}, &hover)
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "**hx-post**")
}
