package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
)

// errorColor is the ANSI color tint uses for error attributes.
const errorColor = 9

// NewSlogLogger creates the process logger writing to stdout and installs it
// as the slog default.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	logger := New(cfg, os.Stdout)
	slog.SetDefault(logger)

	return logger
}

// New creates a logger writing to w. Records are enriched with the
// correlation id and trace identifiers carried by the context.
func New(cfg config.Log, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       cfg.Level,
			AddSource:   cfg.AddSource,
			ReplaceAttr: stringifyErrors,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.RFC3339,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if _, ok := attrError(a); ok {
					return tint.Attr(errorColor, a)
				}
				return a
			},
			NoColor: !cfg.Color,
		})
	}

	return slog.New(newContextHandler(handler, correlationAttrs, traceAttrs))
}

// stringifyErrors renders error values by their message; the JSON handler
// would otherwise encode most error structs as {}.
func stringifyErrors(_ []string, a slog.Attr) slog.Attr {
	if err, ok := attrError(a); ok {
		return slog.String(a.Key, err.Error())
	}
	return a
}

func attrError(a slog.Attr) (error, bool) {
	if a.Value.Kind() != slog.KindAny {
		return nil, false
	}
	err, ok := a.Value.Any().(error)
	return err, ok
}
