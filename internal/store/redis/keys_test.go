package redis

import "testing"

func TestDiscoveryKey(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://spacebar.chat/", "directory:discovery:https://spacebar.chat/"},
		{"http://localhost:3001/", "directory:discovery:http://localhost:3001/"},
	}

	for _, tt := range tests {
		if got := DiscoveryKey(tt.base); got != tt.want {
			t.Errorf("DiscoveryKey(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
