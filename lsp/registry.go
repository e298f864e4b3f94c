package lsp

import (
	"sync"

	"go.lsp.dev/protocol"
)

// Registry holds the latest full text of every open document. Each update
// replaces the whole text, so a single lock is enough to keep readers from
// seeing a partial replacement.
type Registry struct {
	mu    sync.RWMutex
	texts map[protocol.DocumentURI]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{texts: make(map[protocol.DocumentURI]string)}
}

// Set replaces the text of uri.
func (r *Registry) Set(uri protocol.DocumentURI, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.texts[uri] = text
}

// Get returns the text of uri.
func (r *Registry) Get(uri protocol.DocumentURI) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	text, ok := r.texts[uri]

	return text, ok
}

// Delete forgets uri.
func (r *Registry) Delete(uri protocol.DocumentURI) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.texts, uri)
}

// Len returns the number of documents held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.texts)
}
