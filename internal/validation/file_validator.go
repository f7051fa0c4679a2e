// Package validation provides preflight checks for marketplace export
// folders and report destinations before a pipeline run starts.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator checks export folders and files before the loaders touch
// them, so a misconfigured layout fails fast with a clear message instead
// of producing an empty analysis.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateSourceDir checks that an export folder exists and reports how
// many loadable files it holds. A missing folder is not an error: sellers
// rarely have every export type, so the loaders treat it as empty.
func (v *FileValidator) ValidateSourceDir(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Debug("export folder missing, treated as empty",
			slog.String("directory", dir))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat export folder %s: %w", dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read export folder %s: %w", dir, err)
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := v.ValidateExportFile(filepath.Join(dir, entry.Name())); err == nil {
			count++
		}
	}
	v.logger.Debug("export folder validated",
		slog.String("directory", dir),
		slog.Int("files", count))
	return count, nil
}

// ValidateExportFile checks that a path is a readable marketplace export:
// a non-empty .csv or .xlsx file that is not an Excel lock file or a
// cloud-drive placeholder.
func (v *FileValidator) ValidateExportFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return fmt.Errorf("%s is an Excel lock file", base)
	}
	if strings.EqualFold(base, "desktop.ini") {
		return fmt.Errorf("%s is not an export file", base)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return fmt.Errorf("unsupported export format %q", ext)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("export file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("stat export file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not an export file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("export file %s is empty", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("export file %s is not readable: %w", path, err)
	}
	f.Close()
	return nil
}

// ValidateOutputDir ensures the report destination exists and is writable
// by creating and removing a probe file.
func (v *FileValidator) ValidateOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}
