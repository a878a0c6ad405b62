package handlers

import (
	"net/http"

	"github.com/jankclient/directory/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz reports ready once uptime data is being served, either synced from
// the store at startup or produced by a completed pass.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		synced := !d.UptimeIndex.GetLastSync().IsZero()
		passed := !d.UptimeIndex.LastPass().StartedAt.IsZero()
		if !synced && !passed {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready:  false,
				Reason: "no uptime pass completed yet",
			})
			return
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
