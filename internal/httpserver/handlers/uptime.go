package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/httpserver/deps"
)

// UptimeList serves the summary of every known instance.
func UptimeList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Uptime.GetAllSummaries())
	}
}

// UptimeGet serves the summary of one instance.
func UptimeGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		summary, ok := d.Uptime.GetSummary(name)
		if !ok {
			writeProblem(w, r, http.StatusNotFound, fmt.Sprintf("no uptime recorded for instance %q", name))
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// UptimeEntries serves the transition log of one instance.
func UptimeEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		entries, ok := d.Uptime.GetEntries(name)
		if !ok {
			writeProblem(w, r, http.StatusNotFound, fmt.Sprintf("no uptime recorded for instance %q", name))
			return
		}
		if entries == nil {
			entries = []domain.UptimeEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
