package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"complaint-analytics/pkg/metrics"
)

// ScopedRead runs one read against the store under its own deadline. A read that runs
// out of time yields the zero value of T and degraded=true, so the response is built
// from what is available instead of failing; every other error is returned.
func ScopedRead[T any](ctx context.Context, name string, timeout time.Duration, logger *zap.Logger, read func(ctx context.Context) (T, error)) (result T, degraded bool, err error) {
	readCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	value, err := read(readCtx)
	metrics.ObserveRead(name, started)
	if err == nil {
		return value, false, nil
	}

	var zero T
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(readCtx.Err(), context.DeadlineExceeded) {
		if logger != nil {
			logger.Warn("scoped read hit its deadline, using empty result",
				zap.String("read", name),
				zap.Duration("timeout", timeout),
				zap.Error(err),
			)
		}
		metrics.RecordDegradedRead(name)
		return zero, true, nil
	}
	return zero, false, fmt.Errorf("%s: %w", name, err)
}
