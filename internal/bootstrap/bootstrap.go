// Package bootstrap implements the sequential-init / concurrent-run /
// signal-shutdown process lifecycle, generalized from the teacher's
// bootstrap.Bootstrap()/Run() shape (forbearing-gst/bootstrap) down to the
// handful of init/run/cleanup functions this service's two processes
// (api-categories, cache-worker) actually need.
package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Lifecycle collects the init, goroutine, and cleanup functions for one
// process and drives them through Init -> Run -> Cleanup.
type Lifecycle struct {
	mu        sync.Mutex
	inits     []func() error
	runs      []func() error
	cleanups  []func()
	logger    *zap.Logger
	autoprocs bool
}

// New constructs a Lifecycle. When autoprocs is true, GOMAXPROCS is set
// from the container cgroup quota before anything else runs, matching the
// teacher's first bootstrap step.
func New(logger *zap.Logger, autoprocs bool) *Lifecycle {
	return &Lifecycle{logger: logger, autoprocs: autoprocs}
}

// RegisterInit adds functions to be run sequentially, in registration
// order, by Init.
func (l *Lifecycle) RegisterInit(fn ...func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inits = append(l.inits, fn...)
}

// RegisterRun adds a long-running function to be started concurrently by
// Run; the process exits when any of them returns (error or nil) or a
// shutdown signal arrives.
func (l *Lifecycle) RegisterRun(fn ...func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, fn...)
}

// RegisterCleanup adds a function to be run, in LIFO order, when the
// process shuts down.
func (l *Lifecycle) RegisterCleanup(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanups = append(l.cleanups, fn)
}

// Init runs every registered init function, in order, stopping at the
// first error.
func (l *Lifecycle) Init() error {
	if l.autoprocs {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			l.logger.Sugar().Infof(format, args...)
		}))
	}
	for _, fn := range l.inits {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Run starts every registered run function concurrently and blocks until a
// shutdown signal arrives or one of them returns. It always runs Cleanup
// before returning.
func (l *Lifecycle) Run() error {
	defer l.cleanup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	g, _ := errgroup.WithContext(context.Background())
	errCh := make(chan error, len(l.runs)+1)
	for _, fn := range l.runs {
		g.Go(func() error {
			err := fn()
			errCh <- err
			return err
		})
	}
	go func() { errCh <- g.Wait() }()

	select {
	case sig := <-sigCh:
		l.logger.Info("shutting down on signal", zap.String("signal", sig.String()))
		return nil
	case err := <-errCh:
		return err
	}
}

func (l *Lifecycle) cleanup() {
	for i := len(l.cleanups) - 1; i >= 0; i-- {
		l.cleanups[i]()
	}
}
