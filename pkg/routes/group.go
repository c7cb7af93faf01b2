// Package routes declares HTTP routes as nested groups and registers them
// on a Go 1.22+ ServeMux using method patterns.
package routes

import (
	"fmt"
	"net/http"
)

// Route is a single method and pattern bound to a handler.
// Pattern is relative to the enclosing group prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
// Middleware applies to every route in the group and its children.
type Group struct {
	Prefix      string
	Description string
	Middleware  []func(http.Handler) http.Handler
	Routes      []Route
	Children    []Group
}

// Register adds every route in groups to mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		register(mux, "", nil, g)
	}
}

func register(mux *http.ServeMux, parent string, mw []func(http.Handler) http.Handler, g Group) {
	prefix := parent + g.Prefix
	chain := append(append([]func(http.Handler) http.Handler{}, mw...), g.Middleware...)

	for _, r := range g.Routes {
		var h http.Handler = r.Handler
		for i := len(chain) - 1; i >= 0; i-- {
			h = chain[i](h)
		}
		mux.Handle(fmt.Sprintf("%s %s%s", r.Method, prefix, r.Pattern), h)
	}

	for _, child := range g.Children {
		register(mux, prefix, chain, child)
	}
}
