package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/scrollwm/internal/input"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndHasStockBindings(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	table, err := cfg.BindingTable()
	if err != nil {
		t.Fatalf("binding table: %v", err)
	}
	if table.Len() != len(input.DefaultBindings()) {
		t.Fatalf("expected %d bindings, got %d", len(input.DefaultBindings()), table.Len())
	}
	b, ok := table.Lookup(input.Chord{Key: "a", Mods: input.Mod4})
	if !ok || b.Action != input.Spawn || b.Command[0] != "ulauncher-toggle" {
		t.Fatalf("expected Mod4-a to spawn ulauncher-toggle, got %+v", b)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("scrollwm", "config.yaml")) {
		t.Fatalf("unexpected config path %q", path)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file recorded, got %q", res.File)
	}
	if res.Config.DragScrollZone != DefaultDragScrollZone {
		t.Fatalf("expected default drag zone, got %d", res.Config.DragScrollZone)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MoveButton != DefaultMoveButton {
		t.Fatalf("expected move_button %q, got %q", DefaultMoveButton, res.Config.MoveButton)
	}
	if len(res.Config.Bindings) != len(input.DefaultBindings()) {
		t.Fatalf("expected default bindings")
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	data := strings.Join([]string{
		`display: ":1"`,
		`excluded_app_ids: [rofi, ulauncher]`,
		`drag_scroll_zone: 40`,
		`ignore_lock_modifiers: true`,
		`logging:`,
		`  level: DEBUG`,
		`bindings:`,
		`  - keys: Super-Return`,
		`    action: spawn`,
		`    command: alacritty --class term`,
		`  - keys: Mod4-h`,
		`    action: navigate-left`,
		``,
	}, "\n")
	res, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" || cfg.DragScrollZone != 40 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.ExcludedAppIDs) != 2 || cfg.ExcludedAppIDs[0] != "rofi" {
		t.Fatalf("unexpected excluded ids %v", cfg.ExcludedAppIDs)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("expected level override with default format, got %+v", cfg.Logging)
	}
	if cfg.IgnoredModifiers() != input.Lock|input.Mod2 {
		t.Fatalf("expected lock modifiers ignored")
	}

	bindings, err := cfg.KeyBindings()
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("expected file bindings to replace defaults, got %d", len(bindings))
	}
	want := []string{"alacritty", "--class", "term"}
	if strings.Join(bindings[0].Command, " ") != strings.Join(want, " ") {
		t.Fatalf("expected command %v, got %v", want, bindings[0].Command)
	}
	if bindings[0].Chord != (input.Chord{Key: "Return", Mods: input.Mod4}) {
		t.Fatalf("unexpected chord %+v", bindings[0].Chord)
	}
}

func TestLoadFromPath_CommandList(t *testing.T) {
	data := "bindings:\n  - keys: Mod4-d\n    action: spawn\n    command: [\"sh\", \"-c\", \"echo hi there\"]\n"
	res, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := res.Config.Bindings[0].Command; len(got) != 3 || got[2] != "echo hi there" {
		t.Fatalf("unexpected command %q", got)
	}
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "gap_size: 4\n"))
	if err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestLoadFromPath_ValidationErrorHasPosition(t *testing.T) {
	data := "bindings:\n  - keys: Mod4-q\n    action: explode\n"
	path := writeConfig(t, data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "bindings[0].action" {
		t.Fatalf("expected path bindings[0].action, got %q", verr.Path)
	}
	if verr.Source.File != path || verr.Source.Line != 3 {
		t.Fatalf("expected source %s line 3, got %+v", path, verr.Source)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("expected file position in message, got %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative drag zone", func(c *Config) { c.DragScrollZone = -1 }, "drag_scroll_zone"},
		{"empty excluded id", func(c *Config) { c.ExcludedAppIDs = []string{" "} }, "excluded_app_ids[0]"},
		{"bad move button", func(c *Config) { c.MoveButton = "Mod4-9" }, "move_button"},
		{"same buttons", func(c *Config) { c.ResizeButton = c.MoveButton }, "resize_button"},
		{"bad keys", func(c *Config) { c.Bindings[0].Keys = "Hyper-x" }, "bindings[0].keys"},
		{"spawn without command", func(c *Config) {
			c.Bindings = []BindingConfig{{Keys: "Mod4-x", Action: "spawn"}}
		}, "bindings[0].command"},
		{"command on non-spawn", func(c *Config) {
			c.Bindings = []BindingConfig{{Keys: "Mod4-x", Action: "close-window", Command: CommandLine{"x"}}}
		}, "bindings[0].command"},
		{"duplicate chord", func(c *Config) {
			c.Bindings = []BindingConfig{
				{Keys: "Mod4-x", Action: "close-window"},
				{Keys: "Super-x", Action: "navigate-last"},
			}
		}, "bindings[1].keys"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, "drag_scroll_zone: 60\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "drag_scroll_zone")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(int) != 60 || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	val, src, err = Explain(res, "bindings[0].action")
	if err != nil {
		t.Fatalf("explain binding: %v", err)
	}
	if val.(string) != "navigate-first" || src.Kind != SourceDefault {
		t.Fatalf("expected default first binding, got %v %+v", val, src)
	}

	if _, _, err := Explain(res, "bindings[99].keys"); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := NewLogger(&buf, LoggingConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "monitor", 1)
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("unexpected output %q", buf.String())
	}

	lvl, _ := ParseLevel("debug")
	level.Set(lvl)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("expected level change to apply")
	}

	if _, _, err := NewLogger(&buf, LoggingConfig{Format: "xml"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan *LoadResult, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(res *LoadResult) { reloads <- res })
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, []byte("drag_scroll_zone: 7\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case res := <-reloads:
			if res.Config.DragScrollZone != 7 {
				t.Fatalf("expected reloaded drag zone 7, got %d", res.Config.DragScrollZone)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-tick.C:
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
	}
}
