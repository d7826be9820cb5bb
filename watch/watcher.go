// Package watch re-scans a worktodo file whenever it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/logger"
	"github.com/teranos/worktodo/worktodo"
)

// Handler receives the result of every scan: the next entry, or the error
// from Queue.FindNext (errors.ErrNotFound when nothing is runnable).
type Handler func(ctx context.Context, entry *worktodo.Entry, err error)

// Watcher watches the directory of a queue file and calls FindNext after
// each burst of changes to the file settles. Scans are serialized on the
// Run goroutine and throttled to a per-minute ceiling.
type Watcher struct {
	queue    *worktodo.Queue
	target   string
	debounce time.Duration
	limiter  *rate.Limiter
	handler  Handler
	log      *zap.SugaredLogger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change (default 250ms)
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithMaxScansPerMinute caps how often the file is re-scanned (default 60)
func WithMaxScansPerMinute(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), 1)
		}
	}
}

// WithLogger sets the watcher logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a Watcher for q; handler is called after every scan
func New(q *worktodo.Queue, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		queue:    q,
		target:   filepath.Clean(q.Path()),
		debounce: 250 * time.Millisecond,
		limiter:  rate.NewLimiter(rate.Limit(1), 1),
		handler:  handler,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.ComponentLogger("watch")
	}
	return w
}

// Run scans once, then again after every settled change, until ctx is done.
// The directory is watched rather than the file so that the rename used by
// archiving does not drop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer fw.Close()

	dir := filepath.Dir(w.target)
	if err := fw.Add(dir); err != nil {
		return errors.WrapIO(err, "watch", dir)
	}
	w.log.Infow("Watching worktodo file",
		logger.FieldFile, w.target,
		"debounce", w.debounce.String(),
	)

	w.scan(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Worktodo file changed", logger.FieldFile, event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			w.scan(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *Watcher) scan(ctx context.Context) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	entry, err := w.queue.FindNext()
	if w.handler != nil {
		w.handler(ctx, entry, err)
	}
}
