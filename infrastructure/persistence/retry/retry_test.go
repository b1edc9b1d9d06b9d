package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/payment"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

var fastConfig = Config{
	Enabled:                       true,
	MaxAttempts:                   3,
	InitialDelay:                  time.Millisecond,
	MaxDelay:                      2 * time.Millisecond,
	BackoffFactor:                 2,
	RetryOnConcurrentModification: true,
	RetryOnDeadlock:               true,
	RetryOnLockTimeout:            true,
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"order version conflict", order.NewConcurrentModificationError("o1"), true},
		{"payment version conflict", payment.NewConcurrentModificationError("o1"), true},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"wrapped lock wait timeout", fmt.Errorf("save: %w", &mysqlDriver.MySQLError{Number: 1205}), true},
		{"duplicate key", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"insufficient stock", catalog.NewInsufficientStockError("p1", 2, 1), false},
		{"invalid transition", order.NewInvalidTransitionError("o1", order.StatusShipped, order.StatusCancelled), false},
		{"cancelled context", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err, fastConfig); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableErrorRespectsSwitches(t *testing.T) {
	cfg := fastConfig
	cfg.RetryOnDeadlock = false
	cfg.RetryOnConcurrentModification = false

	if IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg) {
		t.Error("deadlock retried with RetryOnDeadlock off")
	}
	if IsRetryableError(order.NewConcurrentModificationError("o1"), cfg) {
		t.Error("version conflict retried with RetryOnConcurrentModification off")
	}
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return order.NewConcurrentModificationError("o1")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d; want nil after 3 calls", err, calls)
		}
	})

	t.Run("stops on business error", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig, func(ctx context.Context) error {
			calls++
			return catalog.NewInsufficientStockError("p1", 1, 0)
		})
		if !errors.Is(err, catalog.ErrInsufficientStock) || calls != 1 {
			t.Errorf("err = %v, calls = %d; want insufficient stock after 1 call", err, calls)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig, func(ctx context.Context) error {
			calls++
			return &mysqlDriver.MySQLError{Number: 1213}
		})
		if err == nil || calls != fastConfig.MaxAttempts {
			t.Errorf("err = %v, calls = %d; want error after %d calls", err, calls, fastConfig.MaxAttempts)
		}
	})

	t.Run("disabled runs once", func(t *testing.T) {
		cfg := fastConfig
		cfg.Enabled = false
		calls := 0
		_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return order.NewConcurrentModificationError("o1")
		})
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ExecuteWithRetry(ctx, fastConfig, func(ctx context.Context) error {
			t.Error("fn must not run on a cancelled context")
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{10, time.Second},
	}
	for _, tt := range tests {
		if got := ExponentialBackoffWithJitter(tt.attempt, cfg); got != tt.want {
			t.Errorf("attempt %d: delay = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	cfg.JitterEnabled = true
	for i := 0; i < 50; i++ {
		d := ExponentialBackoffWithJitter(1, cfg)
		if d < 80*time.Millisecond || d > 120*time.Millisecond {
			t.Fatalf("jittered delay %v outside ±20%%", d)
		}
	}
}
