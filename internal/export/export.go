// Package export writes dashboard data to CSV, JSON, Parquet and SVG files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
)

// Format is an export file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatParquet}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or parquet)", s)
}

// FileName returns a timestamped default file name for the format.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("users-%s.%s", now.Format("20060102-150405"), f)
}

// Write exports users to path in the given format, creating parent
// directories as needed.
func Write(f Format, path string, users []metrics.User) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	switch f {
	case FormatCSV:
		err = WriteUsersCSV(file, users)
	case FormatJSON:
		err = WriteUsersJSON(file, users)
	case FormatParquet:
		err = WriteUsersParquet(file, users)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
