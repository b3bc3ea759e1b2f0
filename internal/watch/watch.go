// Package watch implements the hot-reload file watcher from 4.N: a thin,
// debounced wrapper over fsnotify scoped to a single canonical document
// path. Per the redesign note in 9 ("Callback-based file watcher"), the
// watcher's only job is to debounce OS events and send a message — it
// never reloads the document or invokes a caller-supplied closure itself.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/arx-os/arxos/internal/common/logger"
)

// ReloadEvent signals that the watched document changed on disk and should
// be reloaded by the command loop.
type ReloadEvent struct {
	Path string
	Time time.Time
}

// Watcher wraps a single fsnotify.Watcher scoped to one canonical document
// path, debouncing rapid write bursts (editors that write-then-rename, or
// a save that touches the file more than once) into a single ReloadEvent.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	events  chan ReloadEvent
	limiter *rate.Limiter
	log     *logger.Logger
}

// New creates a Watcher for path, debounced to at most one event per
// interval. The returned channel is bounded at capacity 1: a reload still
// unread by the caller coalesces with any later reload rather than
// backing up the channel, per 5's bounded-channel requirement.
func New(path string, interval time.Duration, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		path:    path,
		fs:      fsw,
		events:  make(chan ReloadEvent, 1),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log,
	}, nil
}

// Events returns the channel reload notifications are sent on.
func (w *Watcher) Events() <-chan ReloadEvent { return w.events }

// Run watches until ctx is canceled or Close is called, debouncing OS
// write/create events on the watched path into ReloadEvents. It is meant
// to run on its own goroutine; the command loop selects on Events().
func (w *Watcher) Run(ctx context.Context) {
	watched := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != watched {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.limiter.Allow() {
				continue
			}
			w.send(ReloadEvent{Path: w.path, Time: time.Now()})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Warn("file watcher error", "error", err)
			}
		}
	}
}

// send delivers ev, replacing any still-unread pending event rather than
// blocking — the command loop only ever cares about the most recent
// change.
func (w *Watcher) send(ev ReloadEvent) {
	select {
	case w.events <- ev:
		return
	default:
	}
	select {
	case <-w.events:
	default:
	}
	select {
	case w.events <- ev:
	default:
	}
}

// Close stops the underlying fsnotify watcher and closes the events
// channel. Run returns once its watcher channels are closed.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	close(w.events)
	return err
}
