package points

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// This file contains the codecs of a portfolio.
//
// The persisted snapshot is a JSON array of programs. Export and import also
// support YAML and TOML, for hand editing, where the array is wrapped in a
// "programs" field because TOML documents must be tables.

// Format is a portfolio file format.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat parses a format name, "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unknown format %q, want one of json, yaml, toml", s)
	}
}

// document is the top level of YAML and TOML files.
type document struct {
	Programs []Program `yaml:"programs" toml:"programs"`
}

// EncodePrograms writes programs as the JSON snapshot.
func EncodePrograms(w io.Writer, programs []Program) error {
	if programs == nil {
		programs = []Program{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(programs)
}

// DecodePrograms reads a JSON snapshot. Any structural incompatibility or
// broken invariant is an error, nothing is repaired.
func DecodePrograms(r io.Reader) ([]Program, error) {
	var programs []Program
	dec := json.NewDecoder(r)
	if err := dec.Decode(&programs); err != nil {
		return nil, fmt.Errorf("format error: %w", err)
	}
	if programs == nil {
		return nil, fmt.Errorf("format error: not a list of programs")
	}
	return normalize(programs)
}

// normalize checks every program and fills the defaults of optional fields.
func normalize(programs []Program) ([]Program, error) {
	for i, p := range programs {
		p = p.withDefaults()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("format error in program #%d: %w", i+1, err)
		}
		programs[i] = p
	}
	return programs, nil
}

// Export writes programs in the given format.
func Export(w io.Writer, format Format, programs []Program) error {
	if programs == nil {
		programs = []Program{}
	}
	switch format {
	case JSON:
		return EncodePrograms(w, programs)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Programs: programs}); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(document{Programs: programs})
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Import reads programs written in the given format.
func Import(r io.Reader, format Format) ([]Program, error) {
	switch format {
	case JSON:
		return DecodePrograms(r)
	case YAML:
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("format error: %w", err)
		}
		return normalize(doc.Programs)
	case TOML:
		var doc document
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("format error: %w", err)
		}
		return normalize(doc.Programs)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
