package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jankclient/directory/internal/httpserver/deps"
	"github.com/jankclient/directory/internal/index"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	InstancesLoaded *int   `json:"instances_loaded,omitempty"`
	RecordsKnown    *int   `json:"records_known,omitempty"`
	LastSync        string `json:"last_sync,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	MonitoringMode string                     `json:"monitoring_mode"`
	Components     map[string]componentStatus `json:"components"`
	LastPass       *index.PassReport          `json:"last_pass,omitempty"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instancesCount := len(d.UptimeIndex.Instances())
		recordsCount := d.UptimeIndex.Count()
		lastSync := d.UptimeIndex.GetLastSync()
		lastSyncStr := "never"
		if !lastSync.IsZero() {
			lastSyncStr = lastSync.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"directory": {
				OK:              instancesCount > 0,
				InstancesLoaded: &instancesCount,
				Mode:            d.InstanceFile,
			},
			"uptime": {
				OK:           !lastSync.IsZero(),
				RecordsKnown: &recordsCount,
				LastSync:     lastSyncStr,
			},
			"store": checkStore(r.Context(), d),
		}

		response := infraResponse{
			MonitoringMode: determineMonitoringMode(components),
			Components:     components,
		}
		if last := d.UptimeIndex.LastPass(); !last.StartedAt.IsZero() {
			response.LastPass = &last
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, response)
	}
}

func determineMonitoringMode(components map[string]componentStatus) string {
	// Nothing to monitor
	if directory, exists := components["directory"]; exists && !directory.OK {
		return "critical"
	}

	// Results are computed but cannot be persisted
	if store, exists := components["store"]; exists && !store.OK {
		return "degraded"
	}

	return "operational"
}

func checkStore(parent context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreMode,
			Impact: "uptime-not-persisted",
			Error:  "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreMode,
			Impact: "uptime-not-persisted",
			Error:  err.Error(),
		}
	}

	impact := "uptime-persisted"
	if d.StoreMode == "memory" {
		impact = "uptime-lost-on-restart"
	}
	return componentStatus{
		OK:     true,
		Mode:   d.StoreMode,
		Impact: impact,
	}
}
