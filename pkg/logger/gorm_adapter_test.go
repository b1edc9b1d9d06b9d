package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"posimarket/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerAdapterLevels(t *testing.T) {
	original := log
	defer func() { log = original }()

	testCases := []struct {
		name      string
		logLevel  gormlogger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn level", gormlogger.Warn, false, false},
		{"info level", gormlogger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			log = zap.New(core)

			adapter := NewGormLoggerAdapter(tc.logLevel)
			if adapter.LogMode(gormlogger.Info) == nil {
				t.Fatal("LogMode should return a new adapter")
			}

			ctx := context.Background()
			adapter.Info(ctx, "reserving %d units", 2)
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM products WHERE id = 'p1' FOR UPDATE", 1
			}, nil)

			if got := logs.FilterMessage("reserving 2 units").Len() == 1; got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if logs.FilterMessage("test warn message").Len() != 1 {
				t.Error("warn message not found in logs")
			}
			if logs.FilterMessage("test error message").Len() != 1 {
				t.Error("error message not found in logs")
			}
			traces := logs.FilterMessage("SQL query executed").All()
			if (len(traces) == 1) != tc.wantTrace {
				t.Errorf("trace logged = %v, want %v", len(traces) == 1, tc.wantTrace)
			}
			if tc.wantTrace {
				if _, ok := traces[0].ContextMap()["sql"]; !ok {
					t.Error("sql field missing from trace log")
				}
			}
		})
	}
}

func TestGormLoggerAdapterSlowQueryAndNotFound(t *testing.T) {
	original := log
	defer func() { log = original }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})

	ctx := persistence.ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-50*time.Millisecond), func() (string, int64) {
		return "UPDATE products SET stock = stock - 1 WHERE id = 'p1' AND stock >= 1", 1
	}, nil)

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE id = 'missing'", 0
	}, gormlogger.ErrRecordNotFound)

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO orders", 0
	}, errors.New("duplicate entry"))

	slow := logs.FilterMessage("Slow SQL query").All()
	if len(slow) != 1 {
		t.Fatalf("expected 1 slow query entry, got %d", len(slow))
	}
	if slow[0].ContextMap()["request_id"] != "test-request-123" {
		t.Error("request id should be propagated from context")
	}
	if got := logs.FilterMessage("Database operation failed").Len(); got != 1 {
		t.Errorf("failed operations logged = %d, want 1 (record-not-found ignored)", got)
	}
}
