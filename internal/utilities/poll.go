package utilities

import (
	"context"
	"time"
)

// PollUntil calls check immediately and then on a growing backoff schedule
// until it reports done, the timeout elapses, or ctx is cancelled. It
// returns true only when check reported done. Errors from check stop the
// poll and are returned to the caller.
func PollUntil(ctx context.Context, timeout time.Duration, check func(context.Context) (bool, error)) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	interval := 200 * time.Millisecond
	const maxInterval = 2 * time.Second

	for {
		done, err := check(ctx)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, nil
		case <-timer.C:
		}

		if interval < maxInterval {
			interval *= 2
			if interval > maxInterval {
				interval = maxInterval
			}
		}
	}
}
