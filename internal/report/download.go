package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidFilename is returned for names that could escape the output directory
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrReportNotFound is returned when no workbook with the name exists
	ErrReportNotFound = errors.New("report not found")
)

// ResolveDownload returns the path of workbook name inside dir. Only bare
// .xlsx file names are accepted.
func ResolveDownload(dir, name string) (string, error) {
	if name == "" ||
		name != filepath.Base(name) ||
		strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") ||
		!strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return "", ErrInvalidFilename
	}

	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrReportNotFound
		}
		return "", fmt.Errorf("failed to stat report: %w", err)
	}
	if info.IsDir() {
		return "", ErrReportNotFound
	}
	return path, nil
}
