package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger forwards robfig/cron's internal messages to slog. cron reports every
// wake-up through Info, so only skipped runs are promoted above debug level.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = cronLogger{}

func newCronLogger(logger *slog.Logger) cronLogger {
	return cronLogger{logger: logger}
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	if msg == "skip" {
		l.logger.Warn("tick skipped, previous tick still running", keysAndValues...)
		return
	}
	l.logger.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron "+msg, append(keysAndValues, "error", err)...)
}
