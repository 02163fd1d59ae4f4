package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imgajeed76/pgrid/internal/util"
)

// Format is the type of a data file.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatJSON
	FormatYAML
	FormatParquet
)

// String returns the string representation of a Format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name (as accepted by --format) to a Format.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "csv", "tsv":
		return FormatCSV
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "parquet":
		return FormatParquet
	default:
		return FormatUnknown
	}
}

// DetectFormat determines the format of a file from its extension.
func DetectFormat(path string) Format {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FileOptions tune file loading.
type FileOptions struct {
	// Separator overrides CSV separator detection. Zero means sniff it
	// from the header line.
	Separator rune
}

// LoadFile reads a data file, choosing the reader by extension.
func LoadFile(ctx context.Context, path string, opts FileOptions) (*Dataset, error) {
	name := filepath.Base(path)

	switch DetectFormat(path) {
	case FormatCSV:
		sep := opts.Separator
		if sep == 0 {
			if strings.EqualFold(filepath.Ext(path), ".tsv") {
				sep = '\t'
			} else {
				var err error
				if sep, err = DetectSeparator(path); err != nil {
					return nil, err
				}
			}
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ReadCSV(name, f, sep)

	case FormatJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON file: %w", err)
		}
		return ParseJSON(name, data)

	case FormatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file: %w", err)
		}
		return ParseYAML(name, data)

	case FormatParquet:
		return LoadParquet(ctx, path)

	default:
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, filepath.Ext(path))
	}
}
