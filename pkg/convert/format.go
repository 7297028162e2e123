package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/acronis/go-ftl"
)

// Format is an interchange format supported by the package.
type Format string

const (
	FormatJSON   Format = "json"
	FormatGoI18n Format = "go-i18n"
)

// DetectFormat returns the format named by name or, when name is empty, the one
// matching the extension of path.
func DetectFormat(name, path string) (Format, error) {
	if name == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			return FormatGoI18n, nil
		case ".json":
			return FormatJSON, nil
		}
		return "", fmt.Errorf("cannot detect the format of %q", path)
	}

	switch f := Format(name); f {
	case FormatJSON, FormatGoI18n:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q, expected %s or %s", name, FormatJSON, FormatGoI18n)
}

// Import reads data in the given format. path names the source; go-i18n reads the
// language and the encoding from it.
func Import(f Format, data []byte, path string) (*ftl.Resource, error) {
	switch f {
	case FormatGoI18n:
		return ImportGoI18n(data, path)
	case FormatJSON:
		return ImportJSON(data)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Export writes res in the given format.
func Export(f Format, res *ftl.Resource) ([]byte, error) {
	switch f {
	case FormatGoI18n:
		return ExportGoI18n(res)
	case FormatJSON:
		return ExportJSON(res)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}
