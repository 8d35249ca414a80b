package watcher

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

type debouncer struct {
	delay    time.Duration
	events   map[string]FileChangeEvent
	timer    *time.Timer
	mutex    sync.Mutex
	handling sync.Mutex
	stopChan chan struct{}
	stopped  bool
	logger   *slog.Logger
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:    delay,
		events:   make(map[string]FileChangeEvent),
		stopChan: make(chan struct{}),
		logger:   slog.Default(),
	}
}

func (d *debouncer) add(event FileChangeEvent, handler FileChangeHandler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.events[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.flush(handler)
	})
}

// flush hands the pending files to handler. The handler runs outside mutex so
// new events keep queueing; handling serializes the handler calls.
func (d *debouncer) flush(handler FileChangeHandler) {
	d.handling.Lock()
	defer d.handling.Unlock()

	d.mutex.Lock()
	if len(d.events) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}
	changedFiles := make([]string, 0, len(d.events))
	for path := range d.events {
		changedFiles = append(changedFiles, path)
	}
	sort.Strings(changedFiles)
	d.events = make(map[string]FileChangeEvent)
	d.mutex.Unlock()

	if err := handler(changedFiles); err != nil {
		d.logger.Error("change handler failed", "files", len(changedFiles), "error", err)
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.stopChan)
}
