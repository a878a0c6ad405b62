package handlers

import (
	"net/http"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/httpserver/deps"
)

// annotatedInstance is a directory entry with its uptime, when known.
type annotatedInstance struct {
	domain.Instance
	Online *bool                 `json:"online,omitempty"`
	Uptime *domain.UptimeWindows `json:"uptime,omitempty"`
}

// Instances serves the monitored directory annotated with uptime.
func Instances(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instances := d.UptimeIndex.Instances()
		summaries := d.Uptime.GetAllSummaries()

		out := make([]annotatedInstance, 0, len(instances))
		for _, instance := range instances {
			a := annotatedInstance{Instance: instance}
			if info, ok := summaries[instance.Name]; ok {
				online := info.Online
				uptime := info.Uptime
				a.Online = &online
				a.Uptime = &uptime
			}
			out = append(out, a)
		}

		writeJSON(w, http.StatusOK, out)
	}
}
