package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Field is a structured logging key/value pair. Using a small concrete type
// instead of variadic any keeps call sites explicit and lets adapters map
// values onto their backend's native field types.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 creates an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates an error field with the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the leveled logging sink consumed by the harness. Components
// receive a Logger explicitly at construction time; there is no package-level
// global logger.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, fields ...Field)
	// Info logs a message at info level.
	Info(msg string, fields ...Field)
	// Warn logs a message at warn level.
	Warn(msg string, fields ...Field)
	// Error logs a message at error level with an associated error.
	Error(msg string, err error, fields ...Field)
	// Printf logs a formatted message at info level (log.Printf compatibility).
	Printf(format string, v ...any)
	// Println logs its arguments at info level (log.Println compatibility).
	Println(v ...any)
}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// Verify interface compliance.
var _ Logger = (*ZerologAdapter)(nil)

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a Logger writing structured JSON to w, tagged with the
// given component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologAdapter{logger: zl}
}

// NewDefaultLogger creates a Logger writing human-friendly output to stderr.
func NewDefaultLogger() *ZerologAdapter {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	zl := zerolog.New(cw).With().Timestamp().Logger()
	return &ZerologAdapter{logger: zl}
}

// Debug logs a message at debug level.
func (a *ZerologAdapter) Debug(msg string, fields ...Field) {
	a.applyFields(a.logger.Debug(), fields).Msg(msg)
}

// Info logs a message at info level.
func (a *ZerologAdapter) Info(msg string, fields ...Field) {
	a.applyFields(a.logger.Info(), fields).Msg(msg)
}

// Warn logs a message at warn level.
func (a *ZerologAdapter) Warn(msg string, fields ...Field) {
	a.applyFields(a.logger.Warn(), fields).Msg(msg)
}

// Error logs a message at error level. A nil err is tolerated and logged
// without a cause.
func (a *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	a.applyFields(a.logger.Error().Err(err), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (a *ZerologAdapter) Printf(format string, v ...any) {
	a.logger.Info().Msgf(format, v...)
}

// Println logs its arguments at info level.
func (a *ZerologAdapter) Println(v ...any) {
	a.logger.Info().Msg(fmt.Sprintln(v...))
}

// applyFields maps Field values onto zerolog's typed event methods. Unknown
// value types fall back to Interface.
func (a *ZerologAdapter) applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// StdLoggerAdapter adapts the standard library log.Logger to the Logger
// interface. Used in tests and as a fallback when zerolog output is not
// wanted.
type StdLoggerAdapter struct {
	logger *log.Logger
}

// Verify interface compliance.
var _ Logger = (*StdLoggerAdapter)(nil)

// NewStdLoggerAdapter wraps an existing standard library logger.
func NewStdLoggerAdapter(logger *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger}
}

// Debug logs a message at debug level.
func (a *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	a.logger.Printf("[DEBUG] %s%s", msg, formatFields(fields))
}

// Info logs a message at info level.
func (a *StdLoggerAdapter) Info(msg string, fields ...Field) {
	a.logger.Printf("[INFO] %s%s", msg, formatFields(fields))
}

// Warn logs a message at warn level.
func (a *StdLoggerAdapter) Warn(msg string, fields ...Field) {
	a.logger.Printf("[WARN] %s%s", msg, formatFields(fields))
}

// Error logs a message at error level.
func (a *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	if err != nil {
		a.logger.Printf("[ERROR] %s: %v%s", msg, err, formatFields(fields))
		return
	}
	a.logger.Printf("[ERROR] %s%s", msg, formatFields(fields))
}

// Printf logs a formatted message.
func (a *StdLoggerAdapter) Printf(format string, v ...any) {
	a.logger.Printf(format, v...)
}

// Println logs its arguments.
func (a *StdLoggerAdapter) Println(v ...any) {
	a.logger.Println(v...)
}

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	out := ""
	for _, f := range fields {
		out += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	return out
}

// NopLogger discards all messages. Useful for tests that do not assert on
// log output.
type NopLogger struct{}

// Verify interface compliance.
var _ Logger = NopLogger{}

// Debug discards the message.
func (NopLogger) Debug(string, ...Field) {}

// Info discards the message.
func (NopLogger) Info(string, ...Field) {}

// Warn discards the message.
func (NopLogger) Warn(string, ...Field) {}

// Error discards the message.
func (NopLogger) Error(string, error, ...Field) {}

// Printf discards the message.
func (NopLogger) Printf(string, ...any) {}

// Println discards the message.
func (NopLogger) Println(...any) {}
