package interchange

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format serializes a model to one concrete syntax and back.
type Format interface {
	Name() string
	Read(data []byte) (*Model, error)
	Write(m *Model) ([]byte, error)
}

// ByName returns the format for a user-supplied name.
func ByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "xmi", "sysmlx", "kermlx":
		return XMI{}, nil
	case "kpar":
		return KPAR{}, nil
	case "jsonld", "json-ld", "json":
		return JSONLD{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	}
	return nil, fmt.Errorf("unsupported format: %s (use xmi, kpar, jsonld or yaml)", name)
}

// Detect picks a format from the file extension, falling back to content
// sniffing.
func Detect(path string, data []byte) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "xmi", "sysmlx", "kermlx":
		return XMI{}
	case "kpar", "zip":
		return KPAR{}
	case "jsonld", "json":
		return JSONLD{}
	case "yaml", "yml":
		return YAML{}
	}
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return KPAR{}
	case bytes.HasPrefix(trimmed, []byte("<")):
		return XMI{}
	case bytes.HasPrefix(trimmed, []byte("{")):
		return JSONLD{}
	default:
		return YAML{}
	}
}
