package utils

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare host", input: "https://spacebar.chat", want: "https://spacebar.chat/"},
		{name: "already normalized", input: "https://api.example.com/api/", want: "https://api.example.com/api/"},
		{name: "path without slash", input: "https://api.example.com/api/v9", want: "https://api.example.com/api/v9/"},
		{name: "keeps query", input: "http://example.com/api?x=1", want: "http://example.com/api/?x=1"},
		{name: "trims spaces", input: "  https://example.com  ", want: "https://example.com/"},
		{name: "missing scheme", input: "example.com", wantErr: true},
		{name: "bad scheme", input: "ftp://example.com", wantErr: true},
		{name: "websocket", input: "wss://gateway.example.com", want: "wss://gateway.example.com/"},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}
