package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lcov.info")
	require.NoError(t, os.WriteFile(path, []byte("SF:a.c\nend_of_record\n"), 0644))

	w, err := New(path, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
			cancel()
		})
	}()

	// Give the watch loop a moment, then touch the file.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("SF:b.c\nend_of_record\n"), 0644))

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("watcher never fired on write")
	}
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lcov.info")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	w, err := New(path, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	fired := false
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { fired = true })
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	<-done
	assert.False(t, fired, "events for sibling files must not trigger a reload")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "lcov.info"), time.Millisecond)
	assert.Error(t, err)
}
