package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/jankclient/directory/internal/httpserver/deps"
	"github.com/jankclient/directory/internal/httpserver/handlers"
	"github.com/jankclient/directory/internal/httpserver/mw"
)

func init() { Register(registerCheck) }

func registerCheck(r chi.Router, d deps.Deps) {
	r.With(mw.AllowCIDRs(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/check", handlers.Check(d))
}
