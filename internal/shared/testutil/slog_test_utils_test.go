package testutil

import (
	"log/slog"
	"testing"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("run_start", slog.String("variant", "general"))
		logger.Error("stage_error", slog.Int("columns", 26))

		if got := handler.Count(); got != 2 {
			t.Errorf("Expected 2 records, got %d", got)
		}
		if !handler.ContainsMessage("run_start") {
			t.Error("Expected to find 'run_start'")
		}
		if !handler.ContainsAttr("variant", "general") {
			t.Error("Expected to find attribute variant=general")
		}
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if got := len(handler.GetRecordsByLevel(slog.LevelInfo)); got != 1 {
			t.Errorf("Expected 1 info record, got %d", got)
		}
		if got := len(handler.GetRecordsByLevel(slog.LevelWarn)); got != 1 {
			t.Errorf("Expected 1 warn record, got %d", got)
		}
	})

	t.Run("keeps attributes of derived loggers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		stepLog := logger.With(slog.String("component", "pipeline")).With(slog.String("step", "impute"))
		stepLog.Info("missing cells imputed", slog.Int("numeric", 4))
		logger.WithGroup("report").Info("written", slog.String("path", "out.json"))

		records := handler.Find("missing cells imputed")
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
		if got := records[0].Attr("step"); got != "impute" {
			t.Errorf("step = %q, want impute", got)
		}
		if got := records[0].Attr("component"); got != "pipeline" {
			t.Errorf("component = %q, want pipeline", got)
		}
		if got := records[0].Attr("numeric"); got != "4" {
			t.Errorf("numeric = %q, want 4", got)
		}
		AssertLogAttr(t, handler, "report.path", "out.json")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.With("k", "v").Info("message 2")
		handler.Clear()

		if handler.Count() != 0 {
			t.Errorf("Expected 0 records after clear, got %d", handler.Count())
		}
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("run_complete", slog.String("component", "pipeline"))
		logger.Warn("columns missing from type-action table treated as numeric")

		AssertLogContains(t, handler, slog.LevelInfo, "run_complete")
		AssertLogContains(t, handler, slog.LevelWarn, "treated as numeric")
		AssertLogAttr(t, handler, "component", "pipeline")
		AssertNoErrors(t, handler)
	})
}
