package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 3
	DefaultInterval    = 1 * time.Second
)

type Operation func() error

// Permanent marks an error as non-retryable: Constant and Exponential
// stop immediately and return it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

type ExponentialConfig struct {
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
	OnRetry         func(error, time.Duration)
}

func Exponential(fn Operation, cfg ExponentialConfig) error {
	if cfg.InitialInterval <= 0 {
		return errors.New("initial interval must be > 0")
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	if cfg.MaxElapsedTime > 0 {
		bo.MaxElapsedTime = cfg.MaxElapsedTime
	}

	return backoff.RetryNotify(backoff.Operation(fn), bo, func(err error, next time.Duration) {
		if cfg.OnRetry != nil {
			cfg.OnRetry(err, next)
		}
	})
}

func Constant(fn Operation, interval time.Duration, attempts int) error {
	if attempts <= 0 {
		attempts = 1
	}

	var calls int
	wrapped := func() error {
		calls++
		return fn()
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1))
	if err := backoff.Retry(backoff.Operation(wrapped), bo); err != nil {
		return fmt.Errorf("failed after %d attempts: %w", calls, err)
	}
	return nil
}
