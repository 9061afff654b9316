// Package sample reads load-test result files into analyzer sample sets.
//
// Two physical encodings are supported: JMeter JTL (CSV with a header row)
// and JSON lines (one object per line). Rows that cannot be parsed are
// counted as malformed and skipped; surviving rows keep their original order.
package sample

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wexeljose/perfgate/internal/analyzer"
)

// Format identifies a sample file encoding.
type Format string

const (
	FormatJTL   Format = "jtl"
	FormatJSONL Format = "jsonl"
)

// DetectFormat guesses the encoding from a file extension. Defaults to JTL,
// the format JMeter-style harnesses emit.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL
	default:
		return FormatJTL
	}
}

// ReadFile reads a sample file in the given format. An empty format triggers
// extension-based detection.
func ReadFile(path string, format Format) (analyzer.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return analyzer.Set{}, fmt.Errorf("open sample file: %w", err)
	}
	defer file.Close()

	if format == "" {
		format = DetectFormat(path)
	}
	return Read(file, format)
}

// Read reads samples from r in the given format.
func Read(r io.Reader, format Format) (analyzer.Set, error) {
	switch format {
	case FormatJTL:
		return ReadJTL(r)
	case FormatJSONL:
		return ReadJSONL(r)
	default:
		return analyzer.Set{}, fmt.Errorf("unsupported sample format %q (supported: jtl, jsonl)", format)
	}
}
