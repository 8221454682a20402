package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kairosolo/kprefs/internal/store"
	"github.com/kairosolo/kprefs/internal/watch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type collector struct {
	mu      sync.Mutex
	changes []watch.Change
}

func (c *collector) add(ch watch.Change) {
	c.mu.Lock()
	c.changes = append(c.changes, ch)
	c.mu.Unlock()
}

func (c *collector) snapshot() []watch.Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]watch.Change(nil), c.changes...)
}

func (c *collector) find(target watch.Target, profile string) (watch.Change, bool) {
	for _, ch := range c.snapshot() {
		if ch.Target == target && ch.Profile == profile {
			return ch, true
		}
	}
	return watch.Change{}, false
}

func TestWatcher_ReportsStoreFiles(t *testing.T) {
	dir := t.TempDir()
	layout := store.Layout{Dir: dir}
	col := &collector{}

	w, err := watch.New(dir, 20*time.Millisecond, col.add, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(layout.GlobalPath(), []byte("g"), 0o600))
	require.NoError(t, os.WriteFile(layout.ProfilePath("Alice"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(layout.RegistryPath(), []byte("r"), 0o600))
	require.NoError(t, os.WriteFile(layout.LegacyPath()+".txt", []byte("ignored"), 0o600))

	require.Eventually(t, func() bool {
		_, g := col.find(watch.TargetGlobal, "")
		_, p := col.find(watch.TargetProfile, "Alice")
		_, r := col.find(watch.TargetRegistry, "")
		return g && p && r
	}, 5*time.Second, 10*time.Millisecond)

	for _, ch := range col.snapshot() {
		assert.False(t, ch.Removed, "%+v", ch)
		assert.NotEqual(t, layout.LegacyPath()+".txt", ch.Path)
	}

	require.NoError(t, os.Remove(layout.ProfilePath("Alice")))
	require.Eventually(t, func() bool {
		for _, ch := range col.snapshot() {
			if ch.Profile == "Alice" && ch.Removed {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	layout := store.Layout{Dir: dir}
	col := &collector{}

	w, err := watch.New(dir, 100*time.Millisecond, col.add, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(layout.GlobalPath(), []byte{byte(i)}, 0o600))
	}

	require.Eventually(t, func() bool { return len(col.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Len(t, col.snapshot(), 1)
}

func TestWatcher_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w, err := watch.New(t.TempDir(), 0, func(watch.Change) {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not exit after cancel")
	}
	w.Stop()
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	w, err := watch.New(file, 20*time.Millisecond, func(watch.Change) {}, nil)
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after a failed Start")
	}
}
