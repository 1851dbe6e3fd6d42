// Package observability wraps zerolog for structured logging and
// prometheus/client_golang for metrics.
package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog for structured logging.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new Logger at the given level ("debug", "info",
// "warn", "error", "fatal") and format ("json" or "text"/"console").
func NewLogger(level, format string) *Logger {
	var output io.Writer = os.Stdout

	zerolog.SetGlobalLevel(parseLogLevel(level))

	if format == "text" || format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger: logger}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.logger.Debug().Msgf(format, args...) }
func (l *Logger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logger.Info().Msgf(format, args...) }
func (l *Logger) Warn(msg string)  { l.logger.Warn().Msg(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logger.Warn().Msgf(format, args...) }
func (l *Logger) Error(msg string) { l.logger.Error().Msg(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logger.Error().Msgf(format, args...) }

// ErrorWithErr logs an error message together with the causing error.
func (l *Logger) ErrorWithErr(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

func (l *Logger) Fatal(msg string) { l.logger.Fatal().Msg(msg) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.logger.Fatal().Msgf(format, args...) }

// WithField returns a derived logger carrying an extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithFields returns a derived logger carrying extra fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

// WithContext pulls a request id out of ctx, if present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return l.WithField("request_id", requestID)
	}
	return l
}

type requestIDKey struct{}

// GetZerologLogger returns the underlying zerolog.Logger.
func (l *Logger) GetZerologLogger() zerolog.Logger {
	return l.logger
}

// SetGlobalLogger installs logger as the package-level zerolog logger.
func SetGlobalLogger(logger *Logger) {
	log.Logger = logger.logger
}

// RequestLogger creates a logger scoped to one HTTP request.
func RequestLogger(requestID, method, path string) *Logger {
	return &Logger{
		logger: log.With().
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Logger(),
	}
}

// PipelineLogger creates a logger scoped to one pipeline invocation.
func PipelineLogger(documentID string) *Logger {
	return &Logger{
		logger: log.With().
			Str("document_id", documentID).
			Str("component", "pipeline").
			Logger(),
	}
}

// WorkerLogger creates a logger scoped to one async worker.
func WorkerLogger(workerID int, jobID string) *Logger {
	return &Logger{
		logger: log.With().
			Int("worker_id", workerID).
			Str("job_id", jobID).
			Str("component", "worker").
			Logger(),
	}
}
