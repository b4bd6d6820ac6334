package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.ConsoleEnabled {
		t.Error("Default ConsoleEnabled = false, want true")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
	if config.FilePath != "logs/gacharealm.log" {
		t.Errorf("Default FilePath = %q, want %q", config.FilePath, "logs/gacharealm.log")
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config := DefaultConfig()
	config.ApplyEnv()

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q (from env var)", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q (from env var)", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true (from env var)")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q (from env var)", config.FilePath, "/custom/path.log")
	}
}

func TestInitializeConsole(t *testing.T) {
	var buf bytes.Buffer
	consoleOutput = &buf
	defer func() { consoleOutput = os.Stderr }()

	config := DefaultConfig()
	config.Level = "WARNING"
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Info("hidden")
	Warning("store fallback", "driver", "redis")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("INFO logged at WARNING level: %s", output)
	}
	if !strings.Contains(output, "store fallback") || !strings.Contains(output, "driver=redis") {
		t.Errorf("missing warning: %s", output)
	}
}

func TestInitializeNoOutputs(t *testing.T) {
	var buf bytes.Buffer
	consoleOutput = &buf
	defer func() { consoleOutput = os.Stderr }()

	config := DefaultConfig()
	config.ConsoleEnabled = false
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Error("nowhere")
	if buf.Len() != 0 {
		t.Errorf("console disabled but got output: %s", buf.String())
	}
}

func TestInitializeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	config := DefaultConfig()
	config.ConsoleEnabled = false
	config.FileEnabled = true
	config.FilePath = path
	config.FileFormat = "json"
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Info("engine ready", "items", 69)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"items":69`) {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestInitializeFileRequiresPath(t *testing.T) {
	config := DefaultConfig()
	config.FileEnabled = true
	config.FilePath = ""
	if err := Initialize(config); err == nil {
		t.Error("expected error for empty file path")
	}
}

func TestLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer

	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger = slog.New(handler)

	Debug("battle start", "monster", "slime")
	Info("saved", "key", "gacharealm:player_state")
	Warning("autosave failed", "attempt", 2)
	Error("lore request failed", "status", 503)

	output := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=\"battle start\" monster=slime",
		"level=INFO msg=saved key=gacharealm:player_state",
		"level=WARN msg=\"autosave failed\" attempt=2",
		"level=ERROR msg=\"lore request failed\" status=503",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelError})
	logger = slog.New(newMultiHandler(handler1, handler2))

	Info("Multi-handler test", "field", "value")

	if !strings.Contains(buf1.String(), "field=value") {
		t.Error("First handler did not receive message")
	}
	if buf2.Len() != 0 {
		t.Error("Second handler received a message below its level")
	}
}
