package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/m-tem/mailnir/pkg/value"
)

// Format identifies a supported source file format.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
	FormatCSV
)

// DetectFormat maps a file extension to its loader. Extensions are
// case-insensitive.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "json":
		return FormatJSON, nil
	case "yml", "yaml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return 0, &UnsupportedFormatError{Extension: ext}
	}
}

// Options tunes CSV loading; the other formats ignore it.
type Options struct {
	// Separator overrides autodetection when non-zero.
	Separator rune
	// Charset is an explicit byte-decoding label, e.g. "windows-1252".
	Charset string
}

// LoadFile reads one source file and returns its normalized value. A
// root object is wrapped into a single-record list so that homogeneous
// handling downstream stays possible; a scalar root is an error.
func LoadFile(path string, opts Options) (any, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return loadJSON(path)
	case FormatYAML:
		return loadYAML(path)
	case FormatTOML:
		return loadTOML(path)
	default:
		return loadCSV(path, opts)
	}
}

// LoadSources loads one file per namespace, producing the source map
// the join engine consumes.
func LoadSources(paths map[string]string) (map[string]any, error) {
	sources := make(map[string]any, len(paths))
	for namespace, path := range paths {
		data, err := LoadFile(path, Options{})
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", namespace, err)
		}
		sources[namespace] = data
	}
	return sources, nil
}

func loadJSON(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	v, err := oj.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	return normalizeRoot(path, normalizeValue(v))
}

func loadYAML(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	return normalizeRoot(path, normalizeValue(v))
}

func loadTOML(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	var table map[string]any
	if err := toml.Unmarshal(content, &table); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	v := normalizeValue(table)

	// A single-key table holding a list of records is the shape the
	// [[entry]] syntax produces; unwrap it to the list itself.
	if m, ok := v.(map[string]any); ok && len(m) == 1 {
		for _, inner := range m {
			if _, isRecords := value.Records(inner); isRecords {
				return inner, nil
			}
		}
	}
	return normalizeRoot(path, v)
}

// normalizeRoot enforces the root shape contract shared by all
// structured formats.
func normalizeRoot(path string, v any) (any, error) {
	switch v.(type) {
	case []any:
		return v, nil
	case map[string]any:
		return []any{v}, nil
	default:
		return nil, fmt.Errorf("%w: %s: expected list or record at root, got %s",
			ErrLoadFailed, path, value.KindOf(v))
	}
}

// normalizeValue rewrites decoder-specific shapes into the normalized
// model: typed slices become []any and datetimes become strings.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, el := range n {
			n[k] = normalizeValue(el)
		}
		return n
	case []any:
		for i, el := range n {
			n[i] = normalizeValue(el)
		}
		return n
	case []map[string]any:
		out := make([]any, len(n))
		for i, el := range n {
			out[i] = normalizeValue(el)
		}
		return out
	case time.Time:
		return n.Format(time.RFC3339)
	default:
		return v
	}
}
