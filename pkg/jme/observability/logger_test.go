package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture returns a debug-level JSON logger and a function decoding what
// it wrote, one map per record.
func capture() (*slog.Logger, func() []map[string]any) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() []map[string]any {
		var records []map[string]any
		for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
			if len(line) == 0 {
				continue
			}
			var m map[string]any
			if err := json.Unmarshal(line, &m); err == nil {
				records = append(records, m)
			}
		}
		return records
	}
}

func TestEnrichLogger(t *testing.T) {
	logger, records := capture()

	enriched := EnrichLogger(logger, "run-123", "evaluate")
	enriched.Info("test message")

	got := records()
	require.Len(t, got, 1)
	assert.Equal(t, "run-123", got[0]["run_id"])
	assert.Equal(t, "evaluate", got[0]["op"])
	assert.Equal(t, "test message", got[0]["msg"])

	assert.Nil(t, EnrichLogger(nil, "run-123", "evaluate"))
}

func TestLogHelpers(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
		msg   string
		attrs map[string]any
	}{
		{
			name:  "eval start",
			log:   func(l *slog.Logger) { LogEvalStart(l, "r1", "1+2") },
			level: "DEBUG",
			msg:   "evaluation starting",
			attrs: map[string]any{"run_id": "r1", "expr": "1+2"},
		},
		{
			name:  "eval complete",
			log:   func(l *slog.Logger) { LogEvalComplete(l, "r1", "3", 1.5) },
			level: "INFO",
			msg:   "evaluation completed",
			attrs: map[string]any{"result": "3", "duration_ms": 1.5},
		},
		{
			name:  "eval error",
			log:   func(l *slog.Logger) { LogEvalError(l, "r1", boom, 2) },
			level: "ERROR",
			msg:   "evaluation failed",
			attrs: map[string]any{"error": "boom", "duration_ms": float64(2)},
		},
		{
			name:  "simplify complete",
			log:   func(l *slog.Logger) { LogSimplifyComplete(l, "r2", "all", "x", 3, 0.5) },
			level: "INFO",
			msg:   "simplification completed",
			attrs: map[string]any{"ruleset": "all", "result": "x", "rewrites": float64(3)},
		},
		{
			name:  "rule applied",
			log:   func(l *slog.Logger) { LogRuleApplied(l, "?;x+0 -> x", "y+0", "y") },
			level: "DEBUG",
			msg:   "rule applied",
			attrs: map[string]any{"rule": "?;x+0 -> x", "before": "y+0", "after": "y"},
		},
		{
			name:  "store error",
			log:   func(l *slog.Logger) { LogStoreError(l, "get", "tidy", boom) },
			level: "WARN",
			msg:   "store operation failed",
			attrs: map[string]any{"operation": "get", "name": "tidy", "error": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, records := capture()
			tt.log(logger)

			got := records()
			require.Len(t, got, 1)
			assert.Equal(t, tt.level, got[0]["level"])
			assert.Equal(t, tt.msg, got[0]["msg"])
			for k, v := range tt.attrs {
				assert.Equal(t, v, got[0][k], k)
			}
		})

		t.Run(tt.name+"/nil logger", func(t *testing.T) {
			assert.NotPanics(t, func() { tt.log(nil) })
		})
	}
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, 5.0)
	assert.Less(t, elapsed, 5000.0)
}
