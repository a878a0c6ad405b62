// Package instances reads the instance directory file.
package instances

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jankclient/directory/internal/domain"
)

// Loader handles loading and parsing of the instance directory
type Loader struct {
	filePath string
}

// NewLoader creates a new instance directory loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the directory file. The format is picked from the
// extension: .json and .jsonc (comments and trailing commas allowed), or
// .yaml and .yml. Order is preserved.
func (l *Loader) Load() ([]domain.Instance, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read instances file: %w", err)
	}

	var instances []domain.Instance

	switch ext := strings.ToLower(filepath.Ext(l.filePath)); ext {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&instances); err != nil {
			return nil, fmt.Errorf("failed to parse instances json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &instances); err != nil {
			return nil, fmt.Errorf("failed to parse instances yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported instances file extension %q", ext)
	}

	if instances == nil {
		instances = []domain.Instance{}
	}
	return instances, nil
}
