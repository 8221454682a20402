package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kairosolo/kprefs/internal/domain"
)

// Format selects the plaintext export encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks YAML for .yaml/.yml paths and JSON for everything else.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Export renders rec as a human-readable, unencrypted document.
func Export(rec domain.Record, f Format) ([]byte, error) {
	doc, err := ToDocument(rec)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(doc, "", "  ")
	}
}

// Import parses a document written by Export.
func Import(data []byte, f Format, now time.Time) (domain.Record, []error, error) {
	if f == FormatJSON {
		return UnmarshalRecord(data, now)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	rec, warnings := doc.Record(now)
	return rec, warnings, nil
}
