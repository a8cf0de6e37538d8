package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Pool runs the long-lived goroutines of the process (servers, health watchers)
// and stops them together.
type Pool struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	errs   chan error
}

// NewPool creates a pool whose tasks share one cancellable context
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		errs:   make(chan error, 1),
	}
}

// Go starts a named task. A task returning a non-nil error (other than
// context.Canceled) is logged and reported on Failed.
func (p *Pool) Go(name string, task func(ctx context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		err := task(p.ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			p.logger.Debug("🧵 [Worker] Task finished", "task", name)
			return
		}

		p.logger.Error("❌ [Worker] Task failed", "task", name, "error", err)
		select {
		case p.errs <- err:
		default:
		}
	}()
}

// Failed delivers the first task error
func (p *Pool) Failed() <-chan error {
	return p.errs
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown cancels the shared context and waits up to timeout for tasks to
// return. It reports whether every task finished in time.
func (p *Pool) Shutdown(timeout time.Duration) bool {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
		return true
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
		return false
	}
}
