package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/jankclient/directory/internal/httpserver/deps"
	"github.com/jankclient/directory/internal/httpserver/handlers"
	"github.com/jankclient/directory/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

// liveness is public; readiness reveals whether data was ever loaded, so it
// stays behind the operator filter.
func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.With(mw.AllowCIDRs(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/readyz", handlers.Readyz(d))
}
