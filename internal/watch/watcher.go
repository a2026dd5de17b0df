// Package watch observes a git repository for head movement so the
// changelog preview can be re-rendered as commits land.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// HeadReader reports the current head commit of the repository. An
// empty string means the repository has no commits yet.
type HeadReader func() (string, error)

// Watcher fires a callback whenever the repository head moves. It uses
// fsnotify on the git directory for prompt wake-ups and a polling
// ticker as backup for missed events. Event bursts are coalesced by a
// debounce window, and the callback only fires when the head commit
// actually changed.
type Watcher struct {
	gitDir   string
	head     HeadReader
	debounce time.Duration
	interval time.Duration
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet window applied after a change before the
// callback fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithInterval sets the polling interval used as backup for missed
// filesystem events.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// New creates a Watcher for the repository whose git directory is at
// gitDir. The head reader is consulted to decide whether an observed
// filesystem change actually moved the head.
func New(gitDir string, head HeadReader, opts ...Option) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		gitDir:   gitDir,
		head:     head,
		debounce: 300 * time.Millisecond,
		interval: 2 * time.Second,
		watcher:  watcher,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Watch blocks, invoking onChange after every head movement, until the
// context is cancelled or onChange returns an error. The initial head
// is read on entry; onChange is not invoked for it.
func (w *Watcher) Watch(ctx context.Context, onChange func(context.Context) error) error {
	if err := w.watcher.Add(w.gitDir); err != nil {
		return fmt.Errorf("watching git directory: %w", err)
	}
	// Branch tips live under refs/heads. The directory may be absent
	// when all refs are packed, so failure to watch it is tolerated.
	_ = w.watcher.Add(filepath.Join(w.gitDir, "refs", "heads"))

	last, err := w.head()
	if err != nil {
		return fmt.Errorf("reading repository head: %w", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if relevantEvent(event) {
				debounce.Reset(w.debounce)
			}
		case <-ticker.C:
			if sha, err := w.head(); err == nil && sha != last {
				debounce.Reset(w.debounce)
			}
		case <-debounce.C:
			sha, err := w.head()
			if err != nil || sha == last {
				continue
			}
			last = sha
			if err := onChange(ctx); err != nil {
				return err
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			// Polling covers missed events
		}
	}
}

// relevantEvent reports whether a filesystem event could indicate head
// movement. HEAD changes on checkout, refs move on commit, and
// packed-refs changes when refs are repacked.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}

	switch filepath.Base(event.Name) {
	case "HEAD", "packed-refs":
		return true
	}
	return strings.Contains(filepath.ToSlash(event.Name), "/refs/")
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// GitDir returns the directory being watched.
func (w *Watcher) GitDir() string {
	return w.gitDir
}
