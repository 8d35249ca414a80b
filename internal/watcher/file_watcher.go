package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bigocheck/internal/config"
	"bigocheck/internal/models"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits for edits to settle.
const DefaultDelay = 500 * time.Millisecond

type FileWatcher struct {
	watcher     *fsnotify.Watcher
	config      *config.Config
	watchedDirs map[string]bool

	// dirs watched only for the files passed explicitly
	fileOnlyDirs map[string]bool
	files        map[string]bool

	debouncer *debouncer
	hashes    *contentHashes
	logger    *slog.Logger
}

type FileChangeEvent struct {
	Path      string
	Operation string
	Timestamp time.Time
}

// FileChangeHandler receives the sorted set of source files whose content
// changed since they were last handed out.
type FileChangeHandler func([]string) error

type Option func(*FileWatcher)

func WithDelay(d time.Duration) Option {
	return func(fw *FileWatcher) { fw.debouncer.delay = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(fw *FileWatcher) { fw.logger = l }
}

func NewFileWatcher(cfg *config.Config, opts ...Option) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw := &FileWatcher{
		watcher:      watcher,
		config:       cfg,
		watchedDirs:  make(map[string]bool),
		fileOnlyDirs: make(map[string]bool),
		files:        make(map[string]bool),
		debouncer:    newDebouncer(DefaultDelay),
		hashes:       &contentHashes{seen: make(map[string]uint64)},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(fw)
	}
	fw.debouncer.logger = fw.logger
	return fw, nil
}

// Watch registers every directory under paths and starts the event loop.
// Files that already exist are fingerprinted first, so touching them without
// editing does not trigger the handler.
func (fw *FileWatcher) Watch(paths []string, handler FileChangeHandler) error {
	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}
	go fw.eventLoop(fw.hashes.filter(handler))
	return nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.addFile(filepath.Clean(path))
	}

	return filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if fw.isSourceFile(walkPath) {
				fw.hashes.changed(walkPath)
			}
			return nil
		}
		if walkPath != path && fw.shouldSkipDir(walkPath) {
			return filepath.SkipDir
		}
		// a full directory watch lifts any single-file restriction
		delete(fw.fileOnlyDirs, walkPath)
		return fw.addDir(walkPath)
	})
}

// addFile watches one source file through its parent directory. Events for
// its siblings are dropped unless the directory is watched in full.
func (fw *FileWatcher) addFile(path string) error {
	if !fw.isSourceFile(path) {
		return fmt.Errorf("%s is not a supported source file", path)
	}
	fw.hashes.changed(path)
	fw.files[path] = true

	dir := filepath.Dir(path)
	if !fw.watchedDirs[dir] {
		fw.fileOnlyDirs[dir] = true
	}
	return fw.addDir(dir)
}

func (fw *FileWatcher) addDir(dir string) error {
	if fw.watchedDirs[dir] {
		return nil
	}
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	fw.watchedDirs[dir] = true
	return nil
}

func (fw *FileWatcher) eventLoop(handler FileChangeHandler) {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event, handler)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, handler FileChangeHandler) {
	if !fw.isSourceFile(event.Name) {
		return
	}
	if fw.shouldSkipFile(event.Name) {
		return
	}
	if fw.fileOnlyDirs[filepath.Dir(event.Name)] && !fw.files[filepath.Clean(event.Name)] {
		return
	}
	changeEvent := FileChangeEvent{
		Path:      event.Name,
		Operation: fw.eventOpToString(event.Op),
		Timestamp: time.Now(),
	}
	fw.logger.Debug("source changed", "path", changeEvent.Path, "op", changeEvent.Operation)
	fw.debouncer.add(changeEvent, handler)
}

func (fw *FileWatcher) isSourceFile(path string) bool {
	if !models.IsSourceFile(path) {
		return false
	}
	return fw.config == nil || !fw.config.ShouldExclude(path)
}

func (fw *FileWatcher) shouldSkipDir(path string) bool {
	defaultExclusions := []string{
		".git", ".vscode", ".idea", "__pycache__", "dist", "tmp", "temp",
	}
	dirName := filepath.Base(path)
	for _, excluded := range defaultExclusions {
		if dirName == excluded {
			return true
		}
	}
	if fw.config != nil {
		return fw.config.ShouldExclude(path + string(filepath.Separator))
	}
	return false
}

func (fw *FileWatcher) shouldSkipFile(path string) bool {
	filename := filepath.Base(path)
	if strings.HasPrefix(filename, ".") {
		return true
	}
	if strings.HasSuffix(filename, ".tmp") || strings.HasSuffix(filename, "~") {
		return true
	}
	if strings.HasSuffix(filename, ".swp") || strings.HasSuffix(filename, ".swo") {
		return true
	}
	return false
}

func (fw *FileWatcher) eventOpToString(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return "CREATE"
	case op&fsnotify.Write == fsnotify.Write:
		return "WRITE"
	case op&fsnotify.Remove == fsnotify.Remove:
		return "REMOVE"
	case op&fsnotify.Rename == fsnotify.Rename:
		return "RENAME"
	case op&fsnotify.Chmod == fsnotify.Chmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

func (fw *FileWatcher) Close() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) GetWatchedPaths() []string {
	paths := make([]string, 0, len(fw.watchedDirs))
	for path := range fw.watchedDirs {
		paths = append(paths, path)
	}
	return paths
}

// contentHashes remembers the last fingerprint handed to the handler per
// file.
type contentHashes struct {
	mu   sync.Mutex
	seen map[string]uint64
}

// changed records path's current content and reports whether it differs
// from the last record. Unreadable files are forgotten.
func (h *contentHashes) changed(path string) bool {
	data, err := os.ReadFile(path)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		delete(h.seen, path)
		return false
	}
	sum := xxhash.Sum64(data)
	if prev, ok := h.seen[path]; ok && prev == sum {
		return false
	}
	h.seen[path] = sum
	return true
}

// filter wraps handler so it only sees files with new content.
func (h *contentHashes) filter(handler FileChangeHandler) FileChangeHandler {
	return func(paths []string) error {
		changed := paths[:0:0]
		for _, p := range paths {
			if h.changed(p) {
				changed = append(changed, p)
			}
		}
		if len(changed) == 0 {
			return nil
		}
		return handler(changed)
	}
}
