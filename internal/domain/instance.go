package domain

import "strings"

// Instance is one entry of the federated instance directory.
//
// It mirrors the public instances.json document consumed by clients.
// An Instance is uniquely identified by its Name.
type Instance struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// Name is the stable key under which uptime is recorded.
	Name string `json:"name" yaml:"name"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLong string `json:"descriptionLong,omitempty" yaml:"descriptionLong,omitempty"`
	Image           string `json:"image,omitempty" yaml:"image,omitempty"`
	Language        string `json:"language,omitempty" yaml:"language,omitempty"`
	Country         string `json:"country,omitempty" yaml:"country,omitempty"`

	// Display controls whether clients list the instance.
	// Hidden instances are still monitored.
	Display bool `json:"display" yaml:"display"`

	// ─────────────────────────────
	// Endpoints
	// ─────────────────────────────

	// URL is the discoverable base URL, used when URLs.API is unknown.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// URLs holds explicit endpoints. Any of them may be empty.
	URLs *InstanceURLs `json:"urls,omitempty" yaml:"urls,omitempty"`

	ContactInfo *ContactInfo `json:"contactInfo,omitempty" yaml:"contactInfo,omitempty"`
}

// InstanceURLs are the resolved endpoints of an instance.
type InstanceURLs struct {
	WellKnown string `json:"wellknown" yaml:"wellknown"`
	API       string `json:"api" yaml:"api"`
	CDN       string `json:"cdn" yaml:"cdn"`
	Gateway   string `json:"gateway" yaml:"gateway"`
	Login     string `json:"login,omitempty" yaml:"login,omitempty"`
}

type ContactInfo struct {
	Discord  string `json:"discord,omitempty" yaml:"discord,omitempty"`
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Spacebar string `json:"spacebar,omitempty" yaml:"spacebar,omitempty"`
	Matrix   string `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	Mastodon string `json:"mastodon,omitempty" yaml:"mastodon,omitempty"`
}

// ExplicitAPI returns the configured API URL, or "" when it must be discovered.
func (i Instance) ExplicitAPI() string {
	if i.URLs == nil {
		return ""
	}
	return strings.TrimSpace(i.URLs.API)
}
