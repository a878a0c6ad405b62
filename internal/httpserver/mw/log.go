package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jankclient/directory/internal/logger"
	"github.com/jankclient/directory/internal/utils"
)

// recorder remembers what the handler sent.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Log writes one access line per request. Liveness and readiness polls are
// logged at debug so orchestrator traffic does not drown the uptime routes.
func Log(log logger.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			rw := &recorder{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}

			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("route", route),
				logger.String("path", r.URL.Path),
				logger.Int("status", rw.status),
				logger.Int("size", rw.size),
				logger.Duration("took", time.Since(began)),
				logger.String("client_ip", utils.ClientIP(r, trustProxy)),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			if isPoll(route) {
				log.Debug("http request", fields...)
				return
			}
			log.Info("http request", fields...)
		})
	}
}

func isPoll(route string) bool {
	return route == "/healthz" || route == "/readyz"
}
