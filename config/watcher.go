package config

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// ChangeCallback is called with the spec files that changed since the last
// call
type ChangeCallback func(ctx context.Context, changed []string) error

// SpecWatcher watches binding documents and triggers regeneration after
// edits settle
type SpecWatcher struct {
	watcher        *fsnotify.Watcher
	files          map[string]struct{}
	callback       ChangeCallback
	debouncePeriod time.Duration
	limiter        *rate.Limiter
	log            *zap.SugaredLogger

	mu            sync.Mutex
	pending       map[string]struct{}
	debounceTimer *time.Timer

	// runMu serializes callbacks; inflight counts armed or running flushes
	runMu    sync.Mutex
	inflight sync.WaitGroup
}

// DefaultMaxRunsPerMinute caps regenerations triggered by the watcher
const DefaultMaxRunsPerMinute = 30

// NewSpecWatcher watches the directories holding paths. Directories are
// watched rather than files so that editors replacing files on save are
// still seen.
func NewSpecWatcher(paths []string, callback ChangeCallback, log *zap.SugaredLogger) (*SpecWatcher, error) {
	if log == nil {
		log = logger.ComponentLogger("watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	sw := &SpecWatcher{
		watcher:        watcher,
		files:          make(map[string]struct{}),
		callback:       callback,
		debouncePeriod: 300 * time.Millisecond,
		limiter:        rate.NewLimiter(rate.Limit(float64(DefaultMaxRunsPerMinute)/60.0), 1),
		log:            log,
		pending:        make(map[string]struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		sw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return sw, nil
}

// SetMaxRunsPerMinute limits how often the callback runs. Zero or less
// removes the limit.
func (sw *SpecWatcher) SetMaxRunsPerMinute(n int) {
	if n <= 0 {
		sw.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	sw.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), 1)
}

// Run delivers changes until ctx is done. It returns once no callback is
// running.
func (sw *SpecWatcher) Run(ctx context.Context) error {
	defer sw.inflight.Wait()
	defer sw.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return sw.watcher.Close()

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			sw.handle(ctx, event)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			sw.log.Warnw("spec watcher error", logger.FieldError, err)
		}
	}
}

// handle records relevant events and (re)arms the debounce timer
func (sw *SpecWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := sw.files[abs]; !ok {
		return
	}

	sw.log.Debugw("spec changed", logger.FieldFile, abs, "op", event.Op.String())

	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.pending[abs] = struct{}{}
	if sw.debounceTimer != nil && sw.debounceTimer.Stop() {
		sw.inflight.Done()
	}
	sw.inflight.Add(1)
	sw.debounceTimer = time.AfterFunc(sw.debouncePeriod, func() {
		defer sw.inflight.Done()
		sw.flush(ctx)
	})
}

// flush hands pending changes to the callback. Only one callback runs at a
// time; changes recorded meanwhile stay pending for the next flush.
func (sw *SpecWatcher) flush(ctx context.Context) {
	sw.runMu.Lock()
	defer sw.runMu.Unlock()

	if !sw.hasPending() || ctx.Err() != nil {
		return
	}
	// Excess runs are delayed, not dropped
	if err := sw.limiter.Wait(ctx); err != nil {
		return
	}

	sw.mu.Lock()
	changed := make([]string, 0, len(sw.pending))
	for p := range sw.pending {
		changed = append(changed, p)
	}
	sw.pending = make(map[string]struct{})
	sw.mu.Unlock()
	sort.Strings(changed)

	if err := sw.callback(ctx, changed); err != nil {
		sw.log.Errorw("regeneration after spec change failed", logger.FieldError, err)
	}
}

func (sw *SpecWatcher) hasPending() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.pending) > 0
}

func (sw *SpecWatcher) stopTimer() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.debounceTimer != nil && sw.debounceTimer.Stop() {
		sw.inflight.Done()
	}
	sw.debounceTimer = nil
}
