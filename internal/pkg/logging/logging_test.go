package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/samirrijal/routekit/internal/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetup_JSONWithService(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logging.Setup(logging.Options{Level: "warn", Service: "routekit-test", Output: &buf})

	slog.Info("dropped")
	slog.Warn("kept", "points", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record above warn, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["service"] != "routekit-test" || rec["points"] != float64(3) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestSetup_Text(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logging.Setup(logging.Options{Format: "text", Output: &buf})
	slog.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text record, got %q", buf.String())
	}
}
