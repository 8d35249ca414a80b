package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bigocheck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) handle(paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), paths...))
	return nil
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestDebouncerCoalescesEvents(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()
	rec := &recorder{}

	for _, p := range []string{"b.py", "a.py", "b.py"} {
		d.add(FileChangeEvent{Path: p, Timestamp: time.Now()}, rec.handle)
	}

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a.py", "b.py"}, rec.snapshot()[0])
}

func TestDebouncerStop(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	rec := &recorder{}
	d.add(FileChangeEvent{Path: "a.py"}, rec.handle)
	d.stop()
	d.stop()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestDebouncerQueuesWhileHandlerRuns(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	rec := &recorder{}
	slow := func(paths []string) error {
		once.Do(func() {
			close(started)
			<-release
		})
		return rec.handle(paths)
	}

	d.add(FileChangeEvent{Path: "a.py"}, slow)
	<-started

	added := make(chan struct{})
	go func() {
		d.add(FileChangeEvent{Path: "b.py"}, slow)
		close(added)
	}()
	select {
	case <-added:
	case <-time.After(time.Second):
		t.Fatal("add blocked while the handler was running")
	}

	close(release)
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, [][]string{{"a.py"}, {"b.py"}}, rec.snapshot())
}

func TestContentHashesFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	h := &contentHashes{seen: make(map[string]uint64)}
	rec := &recorder{}
	filtered := h.filter(rec.handle)

	require.NoError(t, filtered([]string{path}))
	require.NoError(t, filtered([]string{path}))
	require.NoError(t, os.WriteFile(path, []byte("for i in range(n):\n    x = 1\n"), 0644))
	require.NoError(t, filtered([]string{path, filepath.Join(dir, "gone.py")}))

	assert.Equal(t, [][]string{{path}, {path}}, rec.snapshot())
}

func TestFileWatcherReportsEditedSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "algo.py")
	require.NoError(t, os.WriteFile(src, []byte("x = 1\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "vendor"), 0755))

	fw, err := NewFileWatcher(config.DefaultConfig(), WithDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer fw.Close()

	rec := &recorder{}
	require.NoError(t, fw.Watch([]string{dir}, rec.handle))
	assert.Equal(t, []string{dir}, fw.GetWatchedPaths())

	// ignored: not a source file, and an unchanged rewrite
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(src, []byte("x = 1\n"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	require.NoError(t, os.WriteFile(src, []byte("for i in range(n):\n    x = 1\n"), 0644))
	assert.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{src}, rec.snapshot()[0])
}

func TestFileWatcherSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "algo.py")
	sibling := filepath.Join(dir, "other.py")
	require.NoError(t, os.WriteFile(src, []byte("x = 1\n"), 0644))
	require.NoError(t, os.WriteFile(sibling, []byte("y = 2\n"), 0644))

	fw, err := NewFileWatcher(config.DefaultConfig(), WithDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer fw.Close()

	rec := &recorder{}
	require.NoError(t, fw.Watch([]string{src}, rec.handle))
	assert.Equal(t, []string{dir}, fw.GetWatchedPaths())

	// siblings of an explicitly watched file are ignored
	require.NoError(t, os.WriteFile(sibling, []byte("for i in range(n):\n    y = 2\n"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	require.NoError(t, os.WriteFile(src, []byte("for i in range(n):\n    x = 1\n"), 0644))
	assert.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{src}, rec.snapshot()[0])
}

func TestFileWatcherRejectsNonSourceFile(t *testing.T) {
	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hi"), 0644))

	fw, err := NewFileWatcher(config.DefaultConfig())
	require.NoError(t, err)
	defer fw.Close()

	assert.Error(t, fw.Watch([]string{notes}, (&recorder{}).handle))
}

func TestShouldSkip(t *testing.T) {
	fw := &FileWatcher{config: config.DefaultConfig()}

	assert.True(t, fw.shouldSkipDir("/src/.git"))
	assert.True(t, fw.shouldSkipDir("/src/__pycache__"))
	assert.True(t, fw.shouldSkipDir("/src/node_modules"))
	assert.False(t, fw.shouldSkipDir("/src/pkg"))

	assert.True(t, fw.shouldSkipFile("/src/.main.py.swp"))
	assert.True(t, fw.shouldSkipFile("/src/main.py~"))
	assert.False(t, fw.shouldSkipFile("/src/main.py"))

	assert.True(t, fw.isSourceFile("/src/Main.java"))
	assert.False(t, fw.isSourceFile("/src/vendor/x.py"))
	assert.False(t, fw.isSourceFile("/src/readme.md"))
}
