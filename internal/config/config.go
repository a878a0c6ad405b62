package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Monitoring
	InstanceFile   string        // path to the instance directory (.json, .jsonc, .yaml, .yml)
	CheckTick      time.Duration // how often due instances are looked for (default: 1m)
	ProbeTimeout   time.Duration // per-probe HTTP timeout (default: 10s)
	UptimeKey      string        // key holding the whole uptime dataset
	DiscoveryTO    time.Duration // timeout for well-known discovery requests (default: 10s)
	DiscoveryTTL   time.Duration // how long resolved endpoints are cached (default: 1h)
	BreakerTimeout time.Duration // how long a host's breaker stays open (default: 5m)
	BreakerTrip    int           // consecutive discovery failures that open the breaker

	// Public endpoints
	RateLimitRequests int           // requests per client IP per window on public GETs
	RateLimitWindow   time.Duration // rate limit window (default: 1m)

	// Telemetry
	OTelEnabled  bool   // true => export metrics and traces over OTLP gRPC
	OTelEndpoint string // ex: "localhost:4317"

	// Redis (empty address => in-memory store, nothing persisted across restarts)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DIRECTORY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DIRECTORY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DIRECTORY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DIRECTORY_PRETTY_LOG", true),

		// Monitoring
		InstanceFile:   getenv("DIRECTORY_INSTANCE_FILE", "/app/instances.json"),
		CheckTick:      mustDuration("DIRECTORY_CHECK_TICK", time.Minute),
		ProbeTimeout:   mustDuration("DIRECTORY_PROBE_TIMEOUT", 10*time.Second),
		UptimeKey:      getenv("DIRECTORY_UPTIME_KEY", "directory:uptime:data"),
		DiscoveryTO:    mustDuration("DIRECTORY_DISCOVERY_TIMEOUT", 10*time.Second),
		DiscoveryTTL:   mustDuration("DIRECTORY_DISCOVERY_CACHE_TTL", time.Hour),
		BreakerTimeout: mustDuration("DIRECTORY_DISCOVERY_BREAKER_TIMEOUT", 5*time.Minute),
		BreakerTrip:    getenvInt("DIRECTORY_DISCOVERY_BREAKER_TRIP", 3),

		// Public endpoints
		RateLimitRequests: getenvInt("DIRECTORY_RATE_LIMIT", 60),
		RateLimitWindow:   mustDuration("DIRECTORY_RATE_LIMIT_WINDOW", time.Minute),

		// Telemetry
		OTelEnabled:  mustBool("DIRECTORY_OTEL_ENABLED", false),
		OTelEndpoint: getenv("DIRECTORY_OTEL_ENDPOINT", "localhost:4317"),

		// Redis settings
		RedisAddr:             getenv("REDIS_ADDR", ""),
		RedisUser:             getenv("REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("DIRECTORY_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("DIRECTORY_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("DIRECTORY_TRUST_PROXY", true),
	}

	cfg.validate()

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// UseRedis reports whether a Redis store is configured.
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}

func (c *Config) validate() {
	if c.UseRedis() && c.RedisPasswordRequired && c.RedisPassword == "" {
		panic("❌ FATAL: REDIS_PASSWORD is required when REDIS_PASSWORD_REQUIRED=true")
	}
	if c.CheckTick <= 0 {
		panic(fmt.Sprintf("❌ FATAL: DIRECTORY_CHECK_TICK must be positive, got %s", c.CheckTick))
	}
	if c.ProbeTimeout <= 0 {
		panic(fmt.Sprintf("❌ FATAL: DIRECTORY_PROBE_TIMEOUT must be positive, got %s", c.ProbeTimeout))
	}
	if c.UptimeKey == "" {
		panic("❌ FATAL: DIRECTORY_UPTIME_KEY must not be empty")
	}
	if c.RateLimitRequests < 1 {
		c.RateLimitRequests = 1
	}
	if c.BreakerTrip < 1 {
		c.BreakerTrip = 1
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
