package instances

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestLoaderLoadJSON(t *testing.T) {
	path := writeFile(t, "instances.json", `[
  {
    "name": "Spacebar",
    "description": "The official Spacebar instance.",
    "display": true,
    "url": "https://spacebar.chat",
    "urls": {
      "wellknown": "https://spacebar.chat/",
      "api": "https://api.old.server.spacebar.chat/api",
      "cdn": "https://cdn.old.server.spacebar.chat",
      "gateway": "wss://gateway.old.server.spacebar.chat"
    },
    "contactInfo": {"github": "https://github.com/spacebarchat"}
  },
  {"name": "Hidden", "display": false, "url": "https://hidden.example"}
]`)

	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Spacebar", got[0].Name)
	assert.Equal(t, "https://api.old.server.spacebar.chat/api", got[0].ExplicitAPI())
	assert.Equal(t, "https://github.com/spacebarchat", got[0].ContactInfo.GitHub)
	assert.Equal(t, "Hidden", got[1].Name)
	assert.False(t, got[1].Display)
	assert.Empty(t, got[1].ExplicitAPI())
}

func TestLoaderLoadJSONC(t *testing.T) {
	path := writeFile(t, "instances.jsonc", `[
  // maintained by hand
  {"name": "alpha", "url": "https://alpha.example",},
  /* beta is new */
  {"name": "beta", "url": "https://beta.example"},
]`)

	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "beta", got[1].Name)
}

func TestLoaderLoadYAML(t *testing.T) {
	path := writeFile(t, "instances.yml", `---
- name: alpha
  display: true
  urls:
    api: https://alpha.example/api
- name: beta
  url: https://beta.example
`)

	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://alpha.example/api", got[0].ExplicitAPI())
	assert.Equal(t, "https://beta.example", got[1].URL)
}

func TestLoaderLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "malformed json", file: "instances.json", body: `[{"name":`},
		{name: "unknown field", file: "instances.json", body: `[{"name":"a","nmae":"b"}]`},
		{name: "object instead of list", file: "instances.json", body: `{"name":"a"}`},
		{name: "malformed yaml", file: "instances.yaml", body: "- name: [a"},
		{name: "unsupported extension", file: "instances.toml", body: `name = "a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.body)
			if _, err := NewLoader(path).Load(); err == nil {
				t.Errorf("Load() expected error for %s", tt.name)
			}
		})
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/instances.json").Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadEmptyList(t *testing.T) {
	path := writeFile(t, "instances.json", `[]`)

	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
