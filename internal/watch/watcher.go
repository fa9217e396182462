package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies a file change.
type EventKind int

const (
	// KindModified covers content writes and newly created files.
	KindModified EventKind = iota

	// KindRemoved covers deletes and renames away from the path.
	KindRemoved
)

// String returns a short name for the kind.
func (k EventKind) String() string {
	switch k {
	case KindModified:
		return "modified"
	case KindRemoved:
		return "removed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one debounced file change.
type Event struct {
	Path string
	Kind EventKind
}

// Batch is what the watcher delivers: either the events of one debounce
// window or a single watcher error. Errors are per batch and do not stop
// the watcher.
type Batch struct {
	Events []Event
	Err    error
}

// EventSource is the consumer side of a watcher.
type EventSource interface {
	Events() <-chan Batch
	Close() error
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet window that closes a batch.
	Debounce time.Duration

	// Extension filters events to files with this suffix, e.g. ".go".
	// Empty means no filtering.
	Extension string

	// Logger receives debug output. May be nil.
	Logger *slog.Logger
}

// batchBuffer is the capacity of the delivery channel.
const batchBuffer = 16

// Watcher observes a directory tree with fsnotify and delivers debounced
// batches of changes to source files.
type Watcher struct {
	fsw     *fsnotify.Watcher
	opts    Options
	deb     *debouncer
	batches chan Batch
	done    chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Start registers every directory under root, recursively, and begins
// delivering batches. Directories created later are registered as they
// appear.
//
// A registration failure is returned immediately. The usual causes are a
// missing root directory or an exhausted inotify watch limit, neither of
// which goes away by retrying.
func Start(root string, opts Options) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		opts:    opts,
		batches: make(chan Batch, batchBuffer),
		done:    make(chan struct{}),
	}
	w.deb = newDebouncer(opts.Debounce, w.deliver)

	if err := w.addTree(root, false); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the channel batches are delivered on. The channel is
// never closed; stop reading once Close has been called.
func (w *Watcher) Events() <-chan Batch {
	return w.batches
}

// Close stops the watcher and releases its OS resources. Pending events
// that have not been delivered yet are discarded.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.deb.stop()
		w.closeErr = w.fsw.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

// addTree registers dir and all directories below it. With seed set, files
// already present in the tree are reported as modified: they may have been
// written before the new directory's watch was in place.
func (w *Watcher) addTree(dir string, seed bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", path, err)
		}
		if !d.IsDir() {
			if seed && w.matchesExtension(path) {
				w.deb.add(Event{Path: path, Kind: KindModified})
			}
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("cannot watch %s: %w", path, err)
		}
		w.debug("watching directory", slog.String("path", path))
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(Batch{Err: err})
		}
	}
}

// handle translates one raw fsnotify event. New directories are added to
// the watch set; events for other files are filtered by extension before
// they reach the debouncer.
func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name, true); err != nil {
				w.send(Batch{Err: err})
			}
			return
		}
	}

	if !w.matchesExtension(ev.Name) {
		return
	}

	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		w.deb.add(Event{Path: ev.Name, Kind: KindModified})
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.deb.add(Event{Path: ev.Name, Kind: KindRemoved})
	default:
		// Chmod only.
	}
}

func (w *Watcher) matchesExtension(path string) bool {
	return w.opts.Extension == "" || filepath.Ext(path) == w.opts.Extension
}

func (w *Watcher) deliver(events []Event) {
	w.debug("delivering batch", slog.Int("events", len(events)))
	w.send(Batch{Events: events})
}

// send blocks until the batch is consumed or the watcher is closed.
func (w *Watcher) send(b Batch) {
	select {
	case w.batches <- b:
	case <-w.done:
	}
}

func (w *Watcher) debug(msg string, args ...any) {
	if w.opts.Logger != nil {
		w.opts.Logger.Debug(msg, args...)
	}
}
