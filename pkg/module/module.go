// Package module mounts independently built HTTP handlers under
// single-segment prefixes such as "/api".
package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Module is a handler served beneath a fixed prefix with its own middleware.
type Module struct {
	prefix  string
	handler http.Handler
	mw      []func(http.Handler) http.Handler
}

// New creates a module. The prefix must be a single path segment with a
// leading slash; New panics otherwise.
func New(prefix string, handler http.Handler) *Module {
	if prefix == "" || !strings.HasPrefix(prefix, "/") || strings.Contains(prefix[1:], "/") {
		panic(fmt.Sprintf("module: invalid prefix %q", prefix))
	}
	return &Module{prefix: prefix, handler: handler}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. The first registered runs outermost.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.mw = append(m.mw, mw)
}

// Handler returns the inner handler wrapped in the module middleware.
func (m *Module) Handler() http.Handler {
	h := m.handler
	for i := len(m.mw) - 1; i >= 0; i-- {
		h = m.mw[i](h)
	}
	return h
}

// Serve strips the prefix from the request path and dispatches to Handler.
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r2 := r.Clone(r.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""

	m.Handler().ServeHTTP(w, r2)
}
