package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/jankclient/directory/internal/httpserver/deps"
	"github.com/jankclient/directory/internal/httpserver/handlers"
	"github.com/jankclient/directory/internal/httpserver/mw"
)

func init() { Register(registerUptime) }

func registerUptime(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(mw.RateLimitConfig{
			Requests:   d.RateLimitRequests,
			Window:     d.RateLimitWindow,
			TrustProxy: d.TrustProxy,
		}))

		r.Get("/uptime", handlers.UptimeList(d))
		r.Get("/uptime/{name}", handlers.UptimeGet(d))
		r.Get("/uptime/{name}/entries", handlers.UptimeEntries(d))
		r.Get("/instances.json", handlers.Instances(d))
	})
}
