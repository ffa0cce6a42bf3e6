// Package interchange encodes and decodes class and event records for bulk
// export and import, as JSON documents or ';' separated CSV.
package interchange

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("interchange: unknown format")

// Format selects the wire format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv". Empty input defaults to JSON.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Entry is one decoded record. Index is the 1-based position of the record
// in the input. Err is set when the record itself could not be decoded;
// the remaining entries are still usable.
type Entry[T any] struct {
	Index  int
	Record T
	Err    error
}
