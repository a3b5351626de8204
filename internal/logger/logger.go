package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger carries the package/file/function scope of a log line. It is a
// value type; File and Function return narrowed copies.
type Logger struct {
	pkg      string
	file     string
	function string
}

func New(pkg string) Logger {
	return Logger{pkg: pkg}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

// Setup installs the process-wide slog handler. Production gets JSON, every
// other environment gets text.
func Setup(environment, level string) {
	SetupWriter(os.Stdout, environment, level)
}

func SetupWriter(w io.Writer, environment, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(environment, "production") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l Logger) slog() *slog.Logger {
	log := slog.Default().With("package", l.pkg)
	if l.file != "" {
		log = log.With("file", l.file)
	}
	if l.function != "" {
		log = log.With("function", l.function)
	}
	return log
}

func (l Logger) Debug(msg string, args ...any) {
	l.slog().Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.slog().Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.slog().Warn(msg, args...)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.slog().Error(msg, args...)
	return errors.New(msg)
}

// Err logs msg with the cause and returns the cause wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.slog().Error(msg, append(args, "error", err)...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs msg with the cause without returning anything.
func (l Logger) Er(msg string, err error, args ...any) {
	l.slog().Error(msg, append(args, "error", err)...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.slog().Error(msg, args...)
}

func (l Logger) ErrMsg(msg string, args ...any) error {
	l.slog().Error(msg, args...)
	return errors.New(msg)
}
