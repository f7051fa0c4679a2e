package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWatcher(t *testing.T, onChange func(ctx context.Context, changes []Change) error) (*Watcher, string) {
	t.Helper()
	base := t.TempDir()
	ordersDir := filepath.Join(base, "orders")
	require.NoError(t, os.MkdirAll(ordersDir, 0o755))

	w := New(
		map[string]string{"orders": ordersDir},
		filepath.Join(base, "state.json"),
		time.Minute,
		onChange,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return w, ordersDir
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanOnceDetectsNewAndModified(t *testing.T) {
	w, dir := testWatcher(t, nil)
	ctx := context.Background()

	write(t, dir, "orders.csv", "a,b\n1,2\n")
	write(t, dir, "desktop.ini", "[ViewState]")
	write(t, dir, "notes.txt", "not an export")

	changes, err := w.ScanOnce(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Folder: "orders", File: "orders.csv", Kind: "new"}, changes[0])

	// Unchanged content, no changes on the next scan.
	changes, err = w.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Empty(t, changes)

	// Same name, new content.
	write(t, dir, "orders.csv", "a,b\n1,2\n3,4\n")
	changes, err = w.ScanOnce(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "modified", changes[0].Kind)
}

func TestScanOnceSurvivesRestart(t *testing.T) {
	w, dir := testWatcher(t, nil)
	ctx := context.Background()

	write(t, dir, "orders.csv", "a,b\n")
	_, err := w.ScanOnce(ctx)
	require.NoError(t, err)

	// A fresh watcher with the same state file sees nothing new.
	again := New(w.folders, w.stateFile, w.interval, nil, w.logger)
	changes, err := again.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestScanOnceCorruptState(t *testing.T) {
	w, dir := testWatcher(t, nil)
	ctx := context.Background()

	write(t, dir, "orders.csv", "a,b\n")
	require.NoError(t, os.WriteFile(w.stateFile, []byte("{not json"), 0o644))

	changes, err := w.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Len(t, changes, 1, "corrupt state resets to a full scan")
}

func TestRunInvokesCallback(t *testing.T) {
	got := make(chan []Change, 1)
	w, dir := testWatcher(t, func(ctx context.Context, changes []Change) error {
		select {
		case got <- changes:
		default:
		}
		return nil
	})
	w.interval = 10 * time.Millisecond

	write(t, dir, "orders.csv", "a,b\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case changes := <-got:
		require.Len(t, changes, 1)
		assert.Equal(t, "orders.csv", changes[0].File)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never invoked")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestMissingFolderSkipped(t *testing.T) {
	base := t.TempDir()
	w := New(
		map[string]string{"ghost": filepath.Join(base, "missing")},
		filepath.Join(base, "state.json"),
		time.Minute,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	changes, err := w.ScanOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)
}
