package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Fields carries structured key/value pairs for a log entry
type Fields = logrus.Fields

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID returns a context whose log entries carry the given request ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// Options selects where log files are written
type Options struct {
	Folder     string
	CommandLog string
	ErrorLog   string
	InfoLog    string
	Level      LogLevel
}

// Logger writes commands, errors and diagnostic messages to separate outputs
type Logger struct {
	commandLogger *logrus.Logger
	errorLogger   *logrus.Logger
	infoLogger    *logrus.Logger
	closers       []io.Closer
}

// NewLogger creates a new Logger writing JSON lines into files under opts.Folder
func NewLogger(opts Options) (*Logger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(opts.Folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var files []io.Closer
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(opts.Folder, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			for _, c := range files {
				c.Close()
			}
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}

	commandFile, err := open(opts.CommandLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open command log file: %w", err)
	}
	errorFile, err := open(opts.ErrorLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log file: %w", err)
	}
	infoFile, err := open(opts.InfoLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open info log file: %w", err)
	}

	l := NewWriterLogger(commandFile, errorFile, infoFile, opts.Level)
	l.closers = files
	return l, nil
}

// NewWriterLogger creates a Logger on arbitrary writers
func NewWriterLogger(commandOut, errorOut, infoOut io.Writer, level LogLevel) *Logger {
	return &Logger{
		commandLogger: newLogrus(commandOut, logrus.InfoLevel),
		errorLogger:   newLogrus(errorOut, logrus.ErrorLevel),
		infoLogger:    newLogrus(infoOut, level.toLogrusLevel()),
	}
}

// Discard returns a Logger that drops everything
func Discard() *Logger {
	return NewWriterLogger(io.Discard, io.Discard, io.Discard, LevelError)
}

func newLogrus(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	return l
}

func entry(l *logrus.Logger, ctx context.Context, fields Fields) *logrus.Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	e := l.WithContext(ctx)
	if id, ok := RequestID(ctx); ok {
		e = e.WithField("request_id", id)
	}
	if len(fields) > 0 {
		e = e.WithFields(fields)
	}
	return e
}

// Command logs a user command to the command log
func (l *Logger) Command(ctx context.Context, msg string, fields Fields) {
	entry(l.commandLogger, ctx, fields).Info(msg)
}

// Debug logs a debug message to the info log
func (l *Logger) Debug(ctx context.Context, msg string, fields Fields) {
	entry(l.infoLogger, ctx, fields).Debug(msg)
}

// Info logs an informational message to the info log
func (l *Logger) Info(ctx context.Context, msg string, fields Fields) {
	entry(l.infoLogger, ctx, fields).Info(msg)
}

// Warn logs a warning to the info log
func (l *Logger) Warn(ctx context.Context, msg string, fields Fields) {
	entry(l.infoLogger, ctx, fields).Warn(msg)
}

// Error logs an error to both the error log and the info log
func (l *Logger) Error(ctx context.Context, msg string, fields Fields) {
	entry(l.errorLogger, ctx, fields).Error(msg)
	entry(l.infoLogger, ctx, fields).Error(msg)
}

// SetLevel changes the level of the info log
func (l *Logger) SetLevel(level LogLevel) {
	l.infoLogger.SetLevel(level.toLogrusLevel())
}

// Close closes all log files opened by NewLogger
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close log file: %w", err)
		}
	}
	l.closers = nil
	return firstErr
}
