package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds how many export files parse at once. The files
// are small; the bound mostly keeps excelize memory in check.
const loadConcurrency = 4

// Loader reads marketplace export files. The zero value is not usable;
// construct with NewLoader.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// listFiles returns the directory's files with one of the given
// extensions, sorted by name for deterministic runs. Windows sync
// artifacts (desktop.ini) are skipped. A missing directory is treated as
// empty, not an error: operators add export folders as campaigns start.
func listFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(name, "desktop.ini") || strings.HasPrefix(name, "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// loadFiles parses every file in dir concurrently, preserving file order
// in the combined result. Files that fail to parse are logged and
// skipped; only directory access errors are fatal.
func loadFiles[T any](ctx context.Context, l *Loader, dir string, parse func(path string) ([]T, error), exts ...string) ([]T, error) {
	files, err := listFiles(dir, exts...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		l.logger.InfoContext(ctx, "no export files found", slog.String("dir", dir))
		return nil, nil
	}

	results := make([][]T, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := parse(path)
			if err != nil {
				l.logger.WarnContext(ctx, "skipping unreadable export file",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()))
				return nil
			}
			l.logger.DebugContext(ctx, "loaded export file",
				slog.String("file", filepath.Base(path)),
				slog.Int("rows", len(rows)))
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []T
	for _, rows := range results {
		combined = append(combined, rows...)
	}
	return combined, nil
}

// readCSV reads a whole CSV file, tolerating the ragged row lengths and
// UTF-8 BOM the seller-centre exports ship with.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// findHeaderRow scans the leading rows for one whose cells translate to
// at least minHits canonical columns. The exports pad report metadata
// above the real header, so the header is rarely row zero.
func findHeaderRow(rows [][]string, columns map[string]string, minHits int) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		if len(columnIndex(rows[i], columns)) >= minHits {
			return i
		}
	}
	return -1
}
