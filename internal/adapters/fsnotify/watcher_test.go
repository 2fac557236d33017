package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/derivtree/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, path string) (*Watcher, <-chan string) {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(path, func(p string) { changed <- p }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0644))

	_, changed := startWatcher(t, input)
	require.NoError(t, os.WriteFile(input, []byte("aAb"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, input, path)
}

func TestWatcher_DetectsCreateOfMissingFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "later.txt")

	_, changed := startWatcher(t, input)
	require.NoError(t, os.WriteFile(input, []byte("abc"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for created file")
	assert.Equal(t, input, path)
}

func TestWatcher_DetectsRenameOntoFile(t *testing.T) {
	// Editors commonly save by writing a temp file and renaming it over the target.
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0644))

	_, changed := startWatcher(t, input)
	tmp := filepath.Join(dir, ".input.txt.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("bb"), 0644))
	require.NoError(t, os.Rename(tmp, input))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for rename")
	assert.Equal(t, input, path)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0644))

	_, changed := startWatcher(t, input)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling file must not trigger callback")
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()
	w.SetDebounce(150 * time.Millisecond)

	var mu sync.Mutex
	count := 0
	require.NoError(t, w.Watch(input, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	}))
	time.Sleep(50 * time.Millisecond)

	for _, s := range []string{"a", "aa", "aaa", "aaaa"} {
		require.NoError(t, os.WriteFile(input, []byte(s), 0644))
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count, "burst of writes should collapse into one callback")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(filepath.Join(t.TempDir(), "no", "such", "input.txt"), func(string) {})
	assert.Error(t, err)
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire. Double-stop is safe.
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)

	var mu sync.Mutex
	callCount := 0
	require.NoError(t, w.Watch(input, func(string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Stop())

	os.WriteFile(input, []byte("nope"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 0, callCount, "callbacks fired after Stop()")
	mu.Unlock()

	assert.NoError(t, w.Stop())
}

func TestWatcher_ImplementsPort(t *testing.T) {
	var _ ports.Watcher = (*Watcher)(nil)
}

func TestWatcher_StopWaitsForRunningCallback(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var finished bool
	var mu sync.Mutex
	require.NoError(t, w.Watch(input, func(string) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
	}))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("ab"), 0644))

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never started")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the callback was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the callback finished")
	}
	mu.Lock()
	assert.True(t, finished)
	mu.Unlock()
}
