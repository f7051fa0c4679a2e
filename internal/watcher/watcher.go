// Package watcher polls the marketplace export folders for new or
// changed files and triggers a pipeline re-run when it finds any.
// Content hashes rather than modification times drive the detection:
// the export folders sync from cloud drives that rewrite timestamps.
package watcher

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileState records one scanned file.
type fileState struct {
	Hash     string    `json:"hash"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
}

// state is the persisted scan snapshot, keyed by folder then file name.
type state struct {
	FileHashes map[string]map[string]fileState `json:"file_hashes"`
	LastScan   time.Time                       `json:"last_scan"`
}

// Change describes one detected folder change.
type Change struct {
	Folder string
	File   string
	Kind   string // "new" or "modified"
}

func (c Change) String() string {
	return c.Folder + "/" + c.File + " (" + c.Kind + ")"
}

// Watcher scans a set of folders on an interval and invokes the
// callback when export files appear or change.
type Watcher struct {
	folders   map[string]string
	stateFile string
	interval  time.Duration
	onChange  func(ctx context.Context, changes []Change) error
	logger    *slog.Logger
}

// New creates a watcher over the named folders. The callback runs once
// per scan that detects changes; its error is logged, not fatal, so a
// failed pipeline run retries on the next change.
func New(folders map[string]string, stateFile string, interval time.Duration,
	onChange func(ctx context.Context, changes []Change) error, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		folders:   folders,
		stateFile: stateFile,
		interval:  interval,
		onChange:  onChange,
		logger:    logger,
	}
}

// Run polls until the context is cancelled. The first scan runs
// immediately so a cold start picks up files dropped while the process
// was down.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "watcher starting",
		slog.Int("folders", len(w.folders)),
		slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "watcher stopping")
			return ctx.Err()
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// ScanOnce performs a single scan cycle and returns the changes found.
// Used by Run on every tick and directly by the one-shot CLI mode.
func (w *Watcher) ScanOnce(ctx context.Context) ([]Change, error) {
	previous, err := w.loadState()
	if err != nil {
		return nil, err
	}

	current := w.scanFolders(ctx)
	changes := diff(previous.FileHashes, current)

	next := state{FileHashes: current, LastScan: time.Now()}
	if err := w.saveState(next); err != nil {
		return nil, err
	}
	return changes, nil
}

func (w *Watcher) scan(ctx context.Context) {
	changes, err := w.ScanOnce(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "scan failed", slog.String("error", err.Error()))
		return
	}
	if len(changes) == 0 {
		return
	}

	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.String())
	}
	w.logger.InfoContext(ctx, "export changes detected",
		slog.Int("count", len(changes)),
		slog.Any("files", names))

	if w.onChange == nil {
		return
	}
	if err := w.onChange(ctx, changes); err != nil {
		w.logger.ErrorContext(ctx, "change callback failed",
			slog.String("error", err.Error()))
	}
}

// scanFolders hashes every export file in every watched folder. Missing
// folders and unreadable files are skipped.
func (w *Watcher) scanFolders(ctx context.Context) map[string]map[string]fileState {
	snapshot := make(map[string]map[string]fileState, len(w.folders))
	for name, dir := range w.folders {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		files := make(map[string]fileState)
		for _, entry := range entries {
			if entry.IsDir() || !exportFile(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				continue
			}
			hash, err := hashFile(path)
			if err != nil {
				w.logger.WarnContext(ctx, "cannot hash file",
					slog.String("file", path),
					slog.String("error", err.Error()))
				continue
			}
			files[entry.Name()] = fileState{
				Hash:     hash,
				Modified: info.ModTime(),
				Size:     info.Size(),
			}
		}
		snapshot[name] = files
	}
	return snapshot
}

func exportFile(name string) bool {
	if strings.EqualFold(name, "desktop.ini") || strings.HasPrefix(name, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xlsx" || ext == ".csv"
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// diff reports files that are new or whose content hash changed.
// Deletions are ignored: a removed export only matters on the next
// full pipeline run.
func diff(old, current map[string]map[string]fileState) []Change {
	var changes []Change
	for folder, files := range current {
		oldFiles := old[folder]
		for name, info := range files {
			prev, seen := oldFiles[name]
			switch {
			case !seen:
				changes = append(changes, Change{Folder: folder, File: name, Kind: "new"})
			case prev.Hash != info.Hash:
				changes = append(changes, Change{Folder: folder, File: name, Kind: "modified"})
			}
		}
	}
	return changes
}

func (w *Watcher) loadState() (state, error) {
	var s state
	data, err := os.ReadFile(w.stateFile)
	if os.IsNotExist(err) {
		return state{FileHashes: map[string]map[string]fileState{}}, nil
	}
	if err != nil {
		return s, fmt.Errorf("read state file: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt state file means one spurious full re-run, which is
		// safe. Start over rather than wedging the watcher.
		return state{FileHashes: map[string]map[string]fileState{}}, nil
	}
	return s, nil
}

func (w *Watcher) saveState(s state) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if dir := filepath.Dir(w.stateFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	if err := os.WriteFile(w.stateFile, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
