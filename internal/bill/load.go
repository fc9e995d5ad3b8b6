package bill

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Batch is the on-disk shape of a bill input file.
type Batch struct {
	Dairy   string  `json:"dairy" yaml:"dairy"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// LoadEntries reads a batch file. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON.
func LoadEntries(path string) (*Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEntries(raw, filepath.Ext(path))
}

// ParseEntries decodes a batch; ext selects the format like LoadEntries.
func ParseEntries(raw []byte, ext string) (*Batch, error) {
	var b Batch
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("parse yaml entries: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("parse json entries: %w", err)
		}
	}
	if len(b.Entries) == 0 {
		return nil, fmt.Errorf("batch has no entries")
	}
	return &b, nil
}
