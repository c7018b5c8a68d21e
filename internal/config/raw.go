package config

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommandLine supports either:
//
//	command: "rofi -show run"
//
// or:
//
//	command: ["rofi", "-show", "run"]
//
// A string is split on whitespace; use the list form for arguments that
// contain spaces.
type CommandLine []string

func (l *CommandLine) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("command must be a string or list of strings")
		}
		*l = strings.Fields(value.Value)
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("command entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("command must be a string or list of strings")
	}
}

// RawConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type RawConfig struct {
	Display             *string          `yaml:"display"`
	ExcludedAppIDs      *[]string        `yaml:"excluded_app_ids"`
	DragScrollZone      *int             `yaml:"drag_scroll_zone"`
	MoveButton          *string          `yaml:"move_button"`
	ResizeButton        *string          `yaml:"resize_button"`
	IgnoreLockModifiers *bool            `yaml:"ignore_lock_modifiers"`
	Bindings            *[]BindingConfig `yaml:"bindings"`
	Logging             *RawLogging      `yaml:"logging"`
}

type RawLogging struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

// apply overlays the raw values onto cfg.
func (r RawConfig) apply(cfg *Config) {
	if r.Display != nil {
		cfg.Display = *r.Display
	}
	if r.ExcludedAppIDs != nil {
		cfg.ExcludedAppIDs = slices.Clone(*r.ExcludedAppIDs)
	}
	if r.DragScrollZone != nil {
		cfg.DragScrollZone = *r.DragScrollZone
	}
	if r.MoveButton != nil {
		cfg.MoveButton = *r.MoveButton
	}
	if r.ResizeButton != nil {
		cfg.ResizeButton = *r.ResizeButton
	}
	if r.IgnoreLockModifiers != nil {
		cfg.IgnoreLockModifiers = *r.IgnoreLockModifiers
	}
	if r.Bindings != nil {
		cfg.Bindings = slices.Clone(*r.Bindings)
	}
	if r.Logging != nil {
		if r.Logging.Level != nil {
			cfg.Logging.Level = strings.ToLower(*r.Logging.Level)
		}
		if r.Logging.Format != nil {
			cfg.Logging.Format = strings.ToLower(*r.Logging.Format)
		}
	}
}
