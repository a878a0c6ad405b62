package mw

import (
	"net/http"

	"github.com/jankclient/directory/internal/logger"
	"github.com/jankclient/directory/internal/utils"
)

// AllowCIDRs restricts operator routes (/readyz, /infra, /check) to the
// configured addresses and ranges. An empty list lets everything through.
func AllowCIDRs(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	matcher := utils.NewIPMatcher(allowed)
	if matcher.IsEmpty() {
		log.Debug("no operator cidrs configured, operator routes are open")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("operator cidr filter enabled",
		logger.Int("rules", matcher.Len()),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !matcher.Allow(ip) {
				log.Warn("operator route refused",
					logger.String("client_ip", ip),
					logger.String("remote_addr", r.RemoteAddr),
					logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
