package worker

import "github.com/martinsuchenak/advisorctl/internal/log"

// cronLogger forwards robfig/cron diagnostics to the package logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Trace("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
