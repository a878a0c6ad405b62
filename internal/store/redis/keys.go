package redis

const (
	// KeyPrefixDiscovery is the prefix for cached discovery results
	KeyPrefixDiscovery = "directory:discovery:"
)

// DiscoveryKey returns the Redis key for a cached discovery of baseURL
func DiscoveryKey(baseURL string) string {
	return KeyPrefixDiscovery + baseURL
}
