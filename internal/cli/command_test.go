package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "rstedit [file]" {
		t.Errorf("Expected Use to be 'rstedit [file]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "reStructuredText") {
		t.Errorf("Expected Short description to mention reStructuredText")
	}

	if err := cmd.Args(cmd, []string{"a.rst", "b.rst"}); err == nil {
		t.Error("Expected error for more than one file argument")
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"log-level", true},
		{"engine", true},
		{"rst-command", true},
		{"preview", false},
		{"auto-reload", false},
		{"no-history", false},
		{"history-db", false},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestCreateExportCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateExportCommand(flags)

	if !strings.HasPrefix(cmd.Use, "export") {
		t.Errorf("Expected Use to start with export, got %s", cmd.Use)
	}

	for _, name := range []string{"output-dir", "batch", "force"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag %s to exist", name)
		}
	}
	if cmd.Flags().Lookup("output-dir").Shorthand != "o" {
		t.Error("Expected shorthand 'o' for output-dir")
	}

	// documents or a batch file are required
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("Expected error without documents or --batch")
	}
	if err := cmd.Args(cmd, []string{"a.rst", "b.rst"}); err != nil {
		t.Errorf("Unexpected error for documents: %v", err)
	}
	flags.BatchFile = "site.txt"
	if err := cmd.Args(cmd, nil); err != nil {
		t.Errorf("Unexpected error with --batch: %v", err)
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	engineFlag := cmd.PersistentFlags().Lookup("engine")
	if engineFlag == nil {
		t.Fatal("engine flag not found")
	}
	if engineFlag.DefValue != "docutils" {
		t.Errorf("Expected default engine to be docutils, got %s", engineFlag.DefValue)
	}
	if engineFlag.Shorthand != "e" {
		t.Errorf("Expected shorthand 'e', got %q", engineFlag.Shorthand)
	}

	previewFlag := cmd.Flags().Lookup("preview")
	if previewFlag == nil {
		t.Fatal("preview flag not found")
	}
	if previewFlag.DefValue != "true" {
		t.Errorf("Expected preview default true, got %s", previewFlag.DefValue)
	}
}

// saveViper restores the global viper instance after a test
func saveViper(t *testing.T) {
	t.Helper()

	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	t.Cleanup(func() {
		*viper.GetViper() = *originalConfig
	})
	viper.Reset()
}

func TestInitConfig(t *testing.T) {
	saveViper(t)

	cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
	content := `render:
  engine: markdown
  command: rst2html5
  args: ["--stylesheet=minimal.css"]
  timeout: 3s
editor:
  preview: false
history:
  enabled: false`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	InitConfig(cfgPath)

	if viper.GetString("render.engine") != "markdown" {
		t.Errorf("Expected render.engine markdown, got %q", viper.GetString("render.engine"))
	}

	// Test environment variable prefix
	t.Setenv("RSTEDIT_TEST_VAR", "test-value")
	if viper.GetString("test_var") != "test-value" {
		t.Error("Environment variable not properly loaded")
	}

	settings := LoadSettings(NewFlags())
	if settings.Render.Engine != "markdown" {
		t.Errorf("Expected engine markdown, got %s", settings.Render.Engine)
	}
	if settings.Render.Command != "rst2html5" {
		t.Errorf("Expected command rst2html5, got %s", settings.Render.Command)
	}
	if len(settings.Render.Args) != 1 || settings.Render.Args[0] != "--stylesheet=minimal.css" {
		t.Errorf("Unexpected args %v", settings.Render.Args)
	}
	if settings.Render.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %s", settings.Render.Timeout)
	}
	if settings.PreviewRendered {
		t.Error("Expected preview disabled by config")
	}
	if settings.HistoryEnabled {
		t.Error("Expected history disabled by config")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	saveViper(t)

	settings := LoadSettings(NewFlags())

	if settings.Render.Engine != "docutils" {
		t.Errorf("Expected engine docutils, got %s", settings.Render.Engine)
	}
	if settings.Render.Command != "rst2html" {
		t.Errorf("Expected command rst2html, got %s", settings.Render.Command)
	}
	if settings.Render.HaltLevel != "severe" {
		t.Errorf("Expected halt level severe, got %s", settings.Render.HaltLevel)
	}
	if !settings.PreviewRendered || !settings.AutoReload || !settings.HistoryEnabled {
		t.Errorf("Unexpected boolean defaults: %+v", settings)
	}
	if filepath.Base(settings.HistoryDB) != "history.db" {
		t.Errorf("Expected default history database, got %s", settings.HistoryDB)
	}
	if settings.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", settings.LogLevel)
	}
}

func TestLoadSettingsNoHistory(t *testing.T) {
	saveViper(t)

	flags := NewFlags()
	flags.NoHistory = true

	if LoadSettings(flags).HistoryEnabled {
		t.Error("Expected --no-history to disable history")
	}
}

func TestBindFlagsToViper(t *testing.T) {
	saveViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("engine", "source")
	cmd.PersistentFlags().Set("rst-command", "rst2html5")
	cmd.Flags().Set("preview", "false")
	cmd.PersistentFlags().Set("log-level", "debug")

	bindFlagsToViper(cmd)

	if viper.GetString("render.engine") != "source" {
		t.Errorf("Expected render.engine to be source, got %s", viper.GetString("render.engine"))
	}

	if viper.GetString("render.command") != "rst2html5" {
		t.Errorf("Expected render.command to be rst2html5, got %s", viper.GetString("render.command"))
	}

	if viper.GetBool("editor.preview") {
		t.Error("Expected editor.preview to be false")
	}

	if viper.GetString("log.level") != "debug" {
		t.Errorf("Expected log.level to be debug, got %s", viper.GetString("log.level"))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewLogger("warn", &a, &b)

	logger.Info("hidden")
	logger.Warn("shown", "path", "doc.rst")

	for _, buf := range []*bytes.Buffer{&a, &b} {
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("Info record should be filtered: %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "path=doc.rst") {
			t.Errorf("Expected warn record, got %q", out)
		}
	}
}
