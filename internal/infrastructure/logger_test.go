package infrastructure

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "ERROR", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestRunID_Context(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))

	// EnsureRunID keeps an existing ID
	same := EnsureRunID(ctx)
	assert.Equal(t, "run-123", GetRunID(same))

	// ...and generates one when missing
	fresh := EnsureRunID(context.Background())
	assert.NotEmpty(t, GetRunID(fresh))
}

func TestGenerateRunID_Unique(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRunHandler_InjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := WithRunID(context.Background(), "abc-def")
	logger.InfoContext(ctx, "cleaning table", slog.String("table", "orders"))

	require.Contains(t, buf.String(), `"run_id":"abc-def"`)
	assert.Contains(t, buf.String(), `"table":"orders"`)
}

func TestRunHandler_NoRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	logger.Info("no context")

	assert.NotContains(t, buf.String(), "run_id")
}

func TestLoggerWithContext(t *testing.T) {
	logger := LoggerWithContext(WithRunID(context.Background(), "xyz"))
	assert.NotNil(t, logger)
}
