package romaji

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// overlayFile is the on-disk shape of a pattern overlay:
//
//	patterns:
//	  し: [shi, si, ci]
//	  ヴァ: [va, vua]
type overlayFile struct {
	Patterns map[string][]string `yaml:"patterns"`
}

// ParseOverlay decodes a YAML overlay document.
func ParseOverlay(r io.Reader) (map[string][]string, error) {
	var doc overlayFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("failed to parse pattern overlay: %w", err)
	}
	if doc.Patterns == nil {
		doc.Patterns = map[string][]string{}
	}
	for key, patterns := range doc.Patterns {
		if err := validateEntry(key, patterns); err != nil {
			return nil, err
		}
	}
	return doc.Patterns, nil
}

// LoadTable returns the built-in table extended with the overlay at path.
// An empty path returns Default().
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern overlay: %w", err)
	}
	defer f.Close()

	overlay, err := ParseOverlay(f)
	if err != nil {
		return nil, err
	}
	return Default().Extend(overlay)
}
