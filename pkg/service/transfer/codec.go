package transfer

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a Document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for an unknown Format
var ErrUnsupportedFormat = goerr.New("unsupported document format")

// FormatFromPath picks the format by file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat converts a format name such as "json" or "yaml"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "unknown format", goerr.V("format", s))
	}
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes doc to w
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return goerr.Wrap(err, "failed to encode JSON document")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return goerr.Wrap(err, "failed to encode YAML document")
		}
		if err := enc.Close(); err != nil {
			return goerr.Wrap(err, "failed to flush YAML document")
		}
	default:
		return goerr.Wrap(ErrUnsupportedFormat, "cannot encode document", goerr.V("format", f))
	}
	return nil
}

// Decode reads one document from r
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode JSON document")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode YAML document")
		}
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "cannot decode document", goerr.V("format", f))
	}
	return &doc, nil
}
