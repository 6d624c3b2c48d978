package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/log"
	"github.com/tuanvumaihuynh/catalog-service/pkg/correlationid"
)

func TestNew(t *testing.T) {
	t.Run("Should enrich json records from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}, &buf)

		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)

		ctx := correlationid.NewContext(context.Background(), "corr-1")
		ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

		logger.InfoContext(ctx, "hello", slog.Any("error", errors.New("boom")))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "corr-1", record["correlation_id"])
		assert.Equal(t, traceID.String(), record["trace_id"])
		assert.Equal(t, spanID.String(), record["span_id"])
		assert.Equal(t, "boom", record["error"])
	})

	t.Run("Should respect level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(config.Log{Format: config.LogFormatText, Level: slog.LevelWarn}, &buf)

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}
