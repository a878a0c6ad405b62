package logger

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); (got != nil) != tt.wantOK {
				t.Errorf("parseLevel(%q) = %v, want ok=%v", tt.in, got, tt.wantOK)
			}
		})
	}
}

func TestNamedLoggerWrites(t *testing.T) {
	log := New("error", false).Named("uptime")
	log.Info("discarded below level", String("instance", "alpha"), Bool("online", true))

	Nop().Named("x").Warn("nothing")
}
