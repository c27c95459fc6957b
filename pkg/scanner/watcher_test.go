package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/scanner"
)

func TestWatcher_BatchesMarkdownChanges(t *testing.T) {
	root := writeTree(t, map[string]string{
		"guide/existing.md":       "# Existing",
		"node_modules/pkg/doc.md": "# Vendored",
	})

	w, err := scanner.NewWatcher(root, scanner.WatchConfig{Debounce: 50 * time.Millisecond}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.md"), []byte("# New"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "guide", "existing.md"), []byte("# Changed"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg", "doc.md"), []byte("ignored"), 0o644))

	seen := make(map[string]bool)
	require.Eventually(t, func() bool {
		for {
			select {
			case batch := <-w.Batches():
				for _, p := range batch {
					seen[p] = true
				}
			default:
				return seen["new.md"] && seen["guide/existing.md"]
			}
		}
	}, 5*time.Second, 20*time.Millisecond)

	assert.False(t, seen["notes.txt"])
	assert.False(t, seen["node_modules/pkg/doc.md"])
}

func TestWatcher_ClosesBatchesOnCancel(t *testing.T) {
	root := t.TempDir()

	w, err := scanner.NewWatcher(root, scanner.DefaultWatchConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	cancel()

	select {
	case _, ok := <-w.Batches():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("batches channel not closed after cancel")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	w, err := scanner.NewWatcher(filepath.Join(t.TempDir(), "missing"), scanner.DefaultWatchConfig(), nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}
