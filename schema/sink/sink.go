// Package sink provides a schema.WarningSink backed by log/slog, in the
// same spirit as the pack's own ambient-logging idiom: a thin wrapper
// around a structured logger rather than a bespoke warning type.
package sink

import (
	"log/slog"
)

// LogWarningSink reports schema validation warnings through a slog.Logger,
// one structured record per warning with the dotted path as an attribute.
type LogWarningSink struct {
	logger *slog.Logger
}

// NewLogWarningSink wraps logger. A nil logger falls back to slog.Default.
func NewLogWarningSink(logger *slog.Logger) *LogWarningSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogWarningSink{logger: logger}
}

// Warn implements schema.WarningSink.
func (s *LogWarningSink) Warn(path string, message string) {
	s.logger.Warn(message, slog.String("path", path))
}
