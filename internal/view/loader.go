// Package view holds the state machines behind the portfolio page: the
// content loader, the contact form controller and the navigation menu.
// Templates render snapshots of these; they never mutate them.
package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gsivak487/emrgent-labs/internal/content"
	"github.com/gsivak487/emrgent-labs/internal/logging"
	"github.com/gsivak487/emrgent-labs/internal/model"
)

// LoadState is the lifecycle of the page's content load.
type LoadState int

const (
	Loading LoadState = iota
	Ready
	Empty
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// LoadSnapshot is an immutable view of a Loader. Doc is non-nil only when
// State is Ready.
type LoadSnapshot struct {
	State LoadState
	Doc   *model.ContentDocument
	// Err is the failure behind an Empty state, if there was one. It is for
	// diagnostics only; the page shows the same placeholder either way.
	Err error
}

// Loader performs the single content load of a page and tracks its
// lifecycle: Loading, then Ready or Empty.
type Loader struct {
	src    content.Source
	logger *slog.Logger

	once sync.Once
	done chan struct{}

	mu       sync.Mutex
	state    LoadState
	doc      *model.ContentDocument
	err      error
	disposed bool
	cancel   context.CancelFunc
}

// NewLoader returns a Loader in the Loading state. Nothing is fetched until
// Start is called.
func NewLoader(src content.Source, logger *slog.Logger) *Loader {
	return &Loader{
		src:    src,
		logger: logging.OrDiscard(logger),
		done:   make(chan struct{}),
	}
}

// Start issues the load in the background. Only the first call has any
// effect. The load is cancelled when ctx is done or the loader is disposed.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		l.mu.Lock()
		if l.disposed {
			l.mu.Unlock()
			close(l.done)
			return
		}
		ctx, cancel := context.WithCancel(ctx)
		l.cancel = cancel
		l.mu.Unlock()

		go func() {
			defer close(l.done)
			defer cancel()
			doc, err := l.src.Load(ctx)
			l.settle(doc, err)
		}()
	})
}

// Load starts the load and waits for it to settle or for ctx to end. If ctx
// ends first the loader is disposed and the snapshot stays Loading.
func (l *Loader) Load(ctx context.Context) LoadSnapshot {
	l.Start(ctx)
	select {
	case <-l.done:
	case <-ctx.Done():
		l.Dispose()
	}
	return l.Snapshot()
}

// Done is closed once the load has settled or been abandoned.
func (l *Loader) Done() <-chan struct{} { return l.done }

// settle records the outcome unless the loader was disposed meanwhile.
func (l *Loader) settle(doc *model.ContentDocument, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disposed {
		l.logger.Debug("portfolio load completed after dispose, ignored")
		return
	}
	switch {
	case err != nil:
		l.state = Empty
		l.err = err
		l.logger.Error("error fetching portfolio data", "error", err)
	case doc == nil:
		l.state = Empty
		l.logger.Warn("portfolio source returned no document")
	default:
		l.state = Ready
		l.doc = doc
	}
}

// Dispose ends the loader's lifetime. An in-flight load is cancelled and its
// completion, if it still arrives, is ignored.
func (l *Loader) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return
	}
	l.disposed = true
	if l.cancel != nil {
		l.cancel()
	}
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() LoadSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LoadSnapshot{State: l.state, Doc: l.doc, Err: l.err}
}
