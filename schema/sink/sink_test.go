package sink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingHandler captures the records a slog.Logger emits, so a test can
// assert on what LogWarningSink actually logged without parsing text output.
type recordingHandler struct {
	records *[]slog.Record
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}

func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestLogWarningSinkReportsPathAndMessage(t *testing.T) {
	var records []slog.Record
	logger := slog.New(recordingHandler{records: &records})
	s := NewLogWarningSink(logger)

	s.Warn("root.records.foo[3]", "expected a string")

	require.Len(t, records, 1)
	require.Equal(t, "expected a string", records[0].Message)
	require.Equal(t, slog.LevelWarn, records[0].Level)

	var gotPath string
	records[0].Attrs(func(a slog.Attr) bool {
		if a.Key == "path" {
			gotPath = a.Value.String()
		}
		return true
	})
	require.Equal(t, "root.records.foo[3]", gotPath)
}

func TestNewLogWarningSinkFallsBackToDefaultLogger(t *testing.T) {
	s := NewLogWarningSink(nil)
	require.NotNil(t, s)
	// Must not panic when routed through slog.Default().
	s.Warn("root", "sanity check")
}
