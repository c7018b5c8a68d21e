package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/1broseidon/scrollwm/internal/input"
)

// Config is the effective daemon configuration.
type Config struct {
	// Display overrides $DISPLAY for the X connection.
	Display string `yaml:"display,omitempty"`
	// ExcludedAppIDs lists WM_CLASS classes that never tile.
	ExcludedAppIDs []string `yaml:"excluded_app_ids"`
	// DragScrollZone is the height in pixels of the band at the top of a
	// monitor where dragging a window scrolls its workspace.
	DragScrollZone int `yaml:"drag_scroll_zone"`
	// MoveButton and ResizeButton are xgbutil mouse strings ("Mod4-1").
	MoveButton   string `yaml:"move_button"`
	ResizeButton string `yaml:"resize_button"`
	// IgnoreLockModifiers lets bindings match while Caps Lock or Num Lock is
	// on.
	IgnoreLockModifiers bool            `yaml:"ignore_lock_modifiers"`
	Bindings            []BindingConfig `yaml:"bindings"`
	Logging             LoggingConfig   `yaml:"logging"`
}

// BindingConfig is one key binding as written in the config file.
type BindingConfig struct {
	Keys    string      `yaml:"keys"`
	Action  string      `yaml:"action"`
	Command CommandLine `yaml:"command,omitempty"`
}

// LoggingConfig configures the daemon logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

const (
	DefaultDragScrollZone = 100
	DefaultMoveButton     = "Mod4-1"
	DefaultResizeButton   = "Mod4-3"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	defaults := input.DefaultBindings()
	bindings := make([]BindingConfig, 0, len(defaults))
	for _, b := range defaults {
		bindings = append(bindings, BindingConfig{
			Keys:    b.Chord.String(),
			Action:  b.Action.String(),
			Command: CommandLine(slices.Clone(b.Command)),
		})
	}
	return &Config{
		ExcludedAppIDs: []string{"ulauncher"},
		DragScrollZone: DefaultDragScrollZone,
		MoveButton:     DefaultMoveButton,
		ResizeButton:   DefaultResizeButton,
		Bindings:       bindings,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration and returns a *ValidationError naming
// the first offending path.
func (c *Config) Validate() error {
	if c.DragScrollZone < 0 {
		return &ValidationError{Path: "drag_scroll_zone", Err: fmt.Errorf("must be >= 0")}
	}
	for i, id := range c.ExcludedAppIDs {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: fmt.Sprintf("excluded_app_ids[%d]", i), Err: fmt.Errorf("must not be empty")}
		}
	}
	if err := validateButton(c.MoveButton); err != nil {
		return &ValidationError{Path: "move_button", Err: err}
	}
	if err := validateButton(c.ResizeButton); err != nil {
		return &ValidationError{Path: "resize_button", Err: err}
	}
	if c.MoveButton == c.ResizeButton {
		return &ValidationError{Path: "resize_button", Err: fmt.Errorf("same as move_button %q", c.MoveButton)}
	}
	if _, err := c.BindingTable(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Err: err}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("must be text or json, got %q", c.Logging.Format)}
	}
	return nil
}

// validateButton accepts a modifier chord on pointer button 1-5.
func validateButton(s string) error {
	chord, err := input.ParseChord(s)
	if err != nil {
		return err
	}
	switch chord.Key {
	case "1", "2", "3", "4", "5":
		return nil
	}
	return fmt.Errorf("%q: button must be 1-5", s)
}

// KeyBindings parses the configured bindings.
func (c *Config) KeyBindings() ([]input.Binding, error) {
	out := make([]input.Binding, 0, len(c.Bindings))
	for i, b := range c.Bindings {
		chord, err := input.ParseChord(b.Keys)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("bindings[%d].keys", i), Err: err}
		}
		action, err := input.ParseAction(b.Action)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("bindings[%d].action", i), Err: err}
		}
		if action == input.Spawn && len(b.Command) == 0 {
			return nil, &ValidationError{Path: fmt.Sprintf("bindings[%d].command", i), Err: fmt.Errorf("spawn requires a command")}
		}
		if action != input.Spawn && len(b.Command) > 0 {
			return nil, &ValidationError{Path: fmt.Sprintf("bindings[%d].command", i), Err: fmt.Errorf("only spawn takes a command")}
		}
		out = append(out, input.Binding{Chord: chord, Action: action, Command: slices.Clone([]string(b.Command))})
	}
	return out, nil
}

// BindingTable builds the dispatch table for the configured bindings.
func (c *Config) BindingTable() (*input.Table, error) {
	bindings, err := c.KeyBindings()
	if err != nil {
		return nil, err
	}
	for i := range bindings {
		for j := range i {
			if bindings[j].Chord == bindings[i].Chord {
				return nil, &ValidationError{
					Path: fmt.Sprintf("bindings[%d].keys", i),
					Err:  fmt.Errorf("%s already bound by bindings[%d]", bindings[i].Chord, j),
				}
			}
		}
	}
	return input.NewTable(bindings)
}

// IgnoredModifiers returns the modifiers key matching disregards.
func (c *Config) IgnoredModifiers() input.ModSet {
	if c.IgnoreLockModifiers {
		return input.Lock | input.Mod2
	}
	return 0
}
