package log

import (
	"io"
	"os"
	"sync"

	"github.com/paularlott/logger"
	logslog "github.com/paularlott/logger/slog"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
	log    logger.Logger
)

func init() {
	Configure("info", "console")
}

// Configure (re)initialises the package logger. Level is one of trace, debug, info, warn
// or error; format is console or json.
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	log = logslog.New(logslog.Config{
		Level:  level,
		Format: format,
		Writer: output,
	})
}

// SetOutput redirects log output. It must be followed by Configure to take effect.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger returns the current package logger
func Logger() logger.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func WithGroup(group string) logger.Logger {
	return Logger().WithGroup(group)
}

func Trace(msg string, keysAndValues ...any) {
	Logger().Trace(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	Logger().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	Logger().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	Logger().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	Logger().Error(msg, keysAndValues...)
}
