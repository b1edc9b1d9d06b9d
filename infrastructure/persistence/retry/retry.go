// Package retry re-runs a unit of work on transient database conflicts
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"posimarket/config"
	"posimarket/domain/order"
	"posimarket/domain/payment"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205
)

type Config struct {
	Enabled                       bool
	MaxAttempts                   int
	InitialDelay                  time.Duration
	MaxDelay                      time.Duration
	BackoffFactor                 float64
	JitterEnabled                 bool
	RetryOnConcurrentModification bool
	RetryOnDeadlock               bool
	RetryOnLockTimeout            bool
	RetryPredicate                func(error) bool
}

var DefaultConfig = Config{
	Enabled:                       true,
	MaxAttempts:                   3,
	InitialDelay:                  100 * time.Millisecond,
	MaxDelay:                      2 * time.Second,
	BackoffFactor:                 2.0,
	JitterEnabled:                 true,
	RetryOnConcurrentModification: true,
	RetryOnDeadlock:               true,
	RetryOnLockTimeout:            true,
}

func FromAppConfig(appConfig *config.Config) Config {
	rc := appConfig.Database.Retry
	return Config{
		Enabled:                       rc.Enabled,
		MaxAttempts:                   rc.MaxAttempts,
		InitialDelay:                  rc.InitialDelay,
		MaxDelay:                      rc.MaxDelay,
		BackoffFactor:                 rc.BackoffFactor,
		JitterEnabled:                 rc.JitterEnabled,
		RetryOnConcurrentModification: rc.RetryOnConcurrentModification,
		RetryOnDeadlock:               rc.RetryOnDeadlock,
		RetryOnLockTimeout:            rc.RetryOnLockTimeout,
	}
}

// ExponentialBackoffWithJitter delay before the attempt after `attempt`; jitter is ±20%
func ExponentialBackoffWithJitter(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		delay *= 0.8 + rand.Float64()*0.4
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// IsRetryableError transient conflicts only; business errors are never retried
func IsRetryableError(err error, config Config) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}
	if config.RetryOnConcurrentModification &&
		(errors.Is(err, order.ErrConcurrentModification) || errors.Is(err, payment.ErrConcurrentModification)) {
		return true
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDeadlock:
			return config.RetryOnDeadlock
		case mysqlLockWaitTimeout:
			return config.RetryOnLockTimeout
		}
		return false
	}

	errStr := strings.ToLower(err.Error())
	if config.RetryOnDeadlock && strings.Contains(errStr, "deadlock") {
		return true
	}
	if config.RetryOnLockTimeout && strings.Contains(errStr, "lock wait timeout") {
		return true
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost")) {
		return true
	}
	return false
}

// ExecuteWithRetry runs fn until it succeeds, fails with a non-retryable error,
// or MaxAttempts is reached. The last error is returned unchanged.
func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryableError(err, config) || attempt == config.MaxAttempts {
			break
		}

		if delay := ExponentialBackoffWithJitter(attempt, config); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return lastErr
}
