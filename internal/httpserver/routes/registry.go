package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jankclient/directory/internal/httpserver/deps"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

// Middleware wraps every route of a group.
type Middleware = func(http.Handler) http.Handler

type group struct {
	mount Registrar
	wrap  []Middleware
}

// groups is filled by the init functions of this package.
var groups []group

// Register adds a route group, optionally wrapped in middlewares.
func Register(mount Registrar, wrap ...Middleware) {
	groups = append(groups, group{mount: mount, wrap: wrap})
}

// RegisterAll mounts every registered group on r.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		var target chi.Router = r
		if len(g.wrap) > 0 {
			target = r.With(g.wrap...)
		}
		g.mount(target, d)
	}
}
