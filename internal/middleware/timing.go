package middleware

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
)

// TimingOptions controls the artificial latency added in development
type TimingOptions struct {
	DevDelay bool
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Timing logs how long each procedure took, including the middleware it wraps. In
// development it first sleeps a random delay so request waterfalls show up locally.
// The result and error of the chain are returned untouched.
func Timing(logger *slog.Logger, opts TimingOptions) rpc.Middleware {
	return func(ctx *rpc.Context, next rpc.Next) (any, error) {
		start := time.Now()

		if opts.DevDelay {
			timer := time.NewTimer(randomDelay(opts.MinDelay, opts.MaxDelay))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}

		result, err := next(ctx)

		logger.Info("⏱️ [RPC] Procedure executed",
			"operation", ctx.Path,
			"elapsed", time.Since(start),
			"ok", err == nil,
		)

		return result, err
	}
}

func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}
