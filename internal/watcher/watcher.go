// Package watcher reports file changes below a directory tree.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pagelayout/internal/logger"
)

// ChangeType describes what happened to a file.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is a single file event.
type Change struct {
	Type ChangeType
	Path string
}

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// bufferSize bounds pending changes before the event loop blocks.
const bufferSize = 64

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions limits changes to files with one of the given extensions.
func WithExtensions(exts []string) Option {
	return func(w *Watcher) {
		w.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			w.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithRate limits emitted changes to perSecond with the given burst.
// A non-positive rate disables limiting.
func WithRate(perSecond float64, burst int) Option {
	return func(w *Watcher) {
		if perSecond <= 0 {
			w.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		w.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// Watcher watches a directory tree with fsnotify.
type Watcher struct {
	root       string
	extensions map[string]bool
	limiter    *rate.Limiter

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// New creates a watcher for root.
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{root: root}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Accepts reports whether changes to path are reported.
func (w *Watcher) Accepts(path string) bool {
	if w.extensions == nil {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// Existing returns the accepted files already below root, sorted.
func (w *Watcher) Existing() ([]string, error) {
	return w.files(w.root)
}

// files returns the accepted files below dir, sorted.
func (w *Watcher) files(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && w.Accepts(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Watch starts watching and returns the change stream.
// The channel closes when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if w.fsw != nil {
		return nil, errors.New("watcher already running")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	changes := make(chan Change, bufferSize)
	go w.loop(ctx, fsw, changes)
	return changes, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- Change) {
	defer close(changes)
	defer func() { _ = fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			for _, change := range w.translate(fsw, event) {
				if w.limiter != nil {
					if err := w.limiter.Wait(ctx); err != nil {
						return
					}
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.root, err)
		}
	}
}

// translate maps an fsnotify event to changes. A new directory is added
// to the watch list and the files already inside it, such as those of a
// directory moved into the tree, are reported as created.
func (w *Watcher) translate(fsw *fsnotify.Watcher, event fsnotify.Event) []Change {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				logger.Warn("watch %s: %v", event.Name, err)
			}
			files, err := w.files(event.Name)
			if err != nil {
				logger.Warn("watch %s: %v", event.Name, err)
			}
			changes := make([]Change, 0, len(files))
			for _, path := range files {
				changes = append(changes, Change{Type: ChangeCreated, Path: path})
			}
			return changes
		}
	}
	if !w.Accepts(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		return []Change{{Type: ChangeCreated, Path: event.Name}}
	case event.Has(fsnotify.Write):
		return []Change{{Type: ChangeUpdated, Path: event.Name}}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return []Change{{Type: ChangeDeleted, Path: event.Name}}
	default:
		return nil
	}
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
