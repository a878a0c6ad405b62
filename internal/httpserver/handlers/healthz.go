package handlers

import (
	"net/http"
	"time"

	"github.com/jankclient/directory/internal/httpserver/deps"
)

type buildInfo struct {
	Version string `json:"version,omitempty"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go,omitempty"`
}

type healthzResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Running string    `json:"running_for"`
	Build   buildInfo `json:"build"`
}

// Healthz is the liveness endpoint. It never touches the store.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version: d.Version,
		Commit:  d.Commit,
		Date:    d.BuildDate,
		Go:      d.GoVersion,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:  "ok",
			Service: "directory",
			Running: time.Since(d.StartTime).Round(time.Second).String(),
			Build:   build,
		})
	}
}
