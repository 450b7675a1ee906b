package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewConsoleAdapter writes human-readable entries to w, dropping those
// below level.
func NewConsoleAdapter(w io.Writer, level zerolog.Level) *ZerologAdapter {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return NewZerologAdapterWithLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

// NewZerologAdapterWithLogger creates an adapter wrapping an existing zerolog.Logger.
func NewZerologAdapterWithLogger(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

func (z *ZerologAdapter) Debug(msg string, fields ...Field) { z.write(zerolog.DebugLevel, msg, fields) }
func (z *ZerologAdapter) Info(msg string, fields ...Field)  { z.write(zerolog.InfoLevel, msg, fields) }
func (z *ZerologAdapter) Warn(msg string, fields ...Field)  { z.write(zerolog.WarnLevel, msg, fields) }
func (z *ZerologAdapter) Error(msg string, fields ...Field) { z.write(zerolog.ErrorLevel, msg, fields) }

// With binds fields into the zerolog context, so they are encoded once
// rather than on every entry.
func (z *ZerologAdapter) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZerologAdapter{logger: z.logger.With().Fields(keyValues(fields)).Logger()}
}

// Logger returns the underlying zerolog.Logger.
func (z *ZerologAdapter) Logger() zerolog.Logger {
	return z.logger
}

func (z *ZerologAdapter) write(level zerolog.Level, msg string, fields []Field) {
	event := z.logger.WithLevel(level)
	if event == nil {
		return
	}
	if len(fields) > 0 {
		event = event.Fields(keyValues(fields))
	}
	event.Msg(msg)
}

// keyValues flattens fields into the ordered key/value list zerolog accepts.
func keyValues(fields []Field) []interface{} {
	kv := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
