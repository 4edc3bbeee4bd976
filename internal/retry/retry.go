// Package retry wraps provider calls with a fixed retry budget. Every failure
// waits the base delay plus up to one second of jitter; the wait never grows.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// ErrRetriesExhausted is returned once every attempt has failed. Callers
// treat it as terminal and do not retry it again.
var ErrRetriesExhausted = errors.New("retries exhausted")

const (
	DefaultRetries   = 5
	DefaultBaseDelay = time.Second
)

// Executor runs a call up to Retries times.
type Executor struct {
	Retries   int
	BaseDelay time.Duration
	Logger    *slog.Logger

	// Jitter returns a value in [0, 1) added to BaseDelay, in seconds.
	Jitter func() float64
	// Timer drives the waits between attempts. Nil uses the real clock.
	Timer retrygo.Timer
}

// New returns an Executor with production jitter and timer.
func New(retries int, baseDelay time.Duration, logger *slog.Logger) *Executor {
	if retries <= 0 {
		retries = DefaultRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		Retries:   retries,
		BaseDelay: baseDelay,
		Logger:    logger,
		Jitter:    rand.Float64,
	}
}

// jitterDelay is the random half of the wait, added to retry-go's FixedDelay.
func (e *Executor) jitterDelay(_ uint, _ error, _ *retrygo.Config) time.Duration {
	jitter := e.Jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	return time.Duration(jitter() * float64(time.Second))
}

// Do runs fn until it succeeds or Retries attempts have failed. The returned
// error wraps both ErrRetriesExhausted and the last failure. A cancelled
// context stops the loop and its error is returned as is.
func (e *Executor) Do(ctx context.Context, call string, fn func(ctx context.Context) error) error {
	retries := e.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []retrygo.Option{
		retrygo.Context(ctx),
		retrygo.Attempts(uint(retries)),
		retrygo.Delay(e.BaseDelay),
		retrygo.MaxDelay(0),
		retrygo.DelayType(retrygo.CombineDelay(retrygo.FixedDelay, e.jitterDelay)),
		retrygo.LastErrorOnly(true),
	}
	if e.Timer != nil {
		opts = append(opts, retrygo.WithTimer(e.Timer))
	}

	attempt := 0
	err := retrygo.Do(func() error {
		if err := ctx.Err(); err != nil {
			return retrygo.Unrecoverable(err)
		}
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return retrygo.Unrecoverable(err)
		}
		logger.Warn("call failed",
			"call", call, "attempt", attempt, "retries", retries, "error", err)
		return err
	}, opts...)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w after %d attempts: %w", call, ErrRetriesExhausted, attempt, err)
}

// Call is Do for functions that return a value.
func Call[T any](ctx context.Context, e *Executor, call string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := e.Do(ctx, call, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
