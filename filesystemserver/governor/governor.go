// Package governor bounds the latency and byte volume of a single request.
//
// A Governor is request-scoped: handlers build one per top-level operation
// so that concurrent requests never share a running total.
package governor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
)

// Limits configures the ceilings enforced by a Governor. A zero value
// disables the corresponding check.
type Limits struct {
	Timeout      time.Duration
	MaxFileSize  int64
	MaxTotalSize int64
}

// Governor enforces Limits and tracks the bytes observed in one pass.
type Governor struct {
	limits Limits
	total  atomic.Int64
}

// New returns a Governor with a zeroed running total.
func New(limits Limits) *Governor {
	return &Governor{limits: limits}
}

// Limits returns the configured ceilings.
func (g *Governor) Limits() Limits {
	return g.limits
}

// CheckFileSize fails with fserr.ErrFileTooLarge when size exceeds the
// per-file ceiling.
func (g *Governor) CheckFileSize(size int64, path string) error {
	if g.limits.MaxFileSize <= 0 || size <= g.limits.MaxFileSize {
		return nil
	}
	return &fserr.LimitError{
		Code:     fserr.CodeFileTooLarge,
		Observed: size,
		Limit:    g.limits.MaxFileSize,
	}
}

// TrackSize adds size to the running total and fails with
// fserr.ErrTotalSizeExceeded once the total passes the cumulative ceiling.
// The addition is kept even when it triggers the failure, so ResetSize is
// required before the Governor is used for another pass.
func (g *Governor) TrackSize(size int64) error {
	total := g.total.Add(size)
	if g.limits.MaxTotalSize > 0 && total > g.limits.MaxTotalSize {
		return &fserr.LimitError{
			Code:     fserr.CodeTotalSizeExceeded,
			Observed: total,
			Limit:    g.limits.MaxTotalSize,
		}
	}
	return nil
}

// ResetSize zeroes the running total. Call it once at the start of a
// top-level pass, never mid-traversal.
func (g *Governor) ResetSize() {
	g.total.Store(0)
}

// TotalSize returns the running total.
func (g *Governor) TotalSize() int64 {
	return g.total.Load()
}

// RunWithTimeout runs op under the governor's timeout, or under override
// when it is positive. Without any timeout op runs to completion.
//
// When the bound elapses RunWithTimeout returns a *fserr.TimeoutError
// immediately and cancels the context handed to op. Cancellation is
// cooperative: op stops at its next context check, and until then it keeps
// running in the background with its result discarded.
func RunWithTimeout[T any](
	ctx context.Context,
	g *Governor,
	label string,
	override time.Duration,
	op func(context.Context) (T, error),
) (T, error) {
	timeout := override
	if timeout <= 0 && g != nil {
		timeout = g.limits.Timeout
	}
	if timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			var zero T
			return zero, &fserr.TimeoutError{Operation: label, Bound: timeout}
		}
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, &fserr.TimeoutError{Operation: label, Bound: timeout}
		}
		return zero, ctx.Err()
	}
}
