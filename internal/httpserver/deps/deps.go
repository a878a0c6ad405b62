package deps

import (
	"time"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/index"
	"github.com/jankclient/directory/internal/logger"
	"github.com/jankclient/directory/internal/store"
)

// UptimeReader is the read side of the monitor.
type UptimeReader interface {
	GetSummary(name string) (domain.InstanceUptimeInfo, bool)
	GetEntries(name string) ([]domain.UptimeEntry, bool)
	GetAllSummaries() map[string]domain.InstanceUptimeInfo
	LastPass() index.PassReport
}

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	TimeNow           func() time.Time   // for testing, defaults to time.Now
	AllowedHosts      []string           // Host headers allowed to access the server
	AllowedCIDRS      []string           // IPs allowed to access healthz/readyz endpoints
	TrustProxy        bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	InstanceFile      string             // Path to the instance directory file
	Store             store.Pinger       // Uptime store (nil if not pingable)
	StoreMode         string             // "redis" or "memory"
	Uptime            UptimeReader       // Monitor read paths
	UptimeIndex       *index.UptimeIndex // In-memory uptime snapshot
	CheckTrigger      chan struct{}      // Channel to trigger a manual uptime pass
	RateLimitRequests int                // Requests per client IP per window on public endpoints
	RateLimitWindow   time.Duration      // Rate limit window
}
