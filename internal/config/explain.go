package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and where
// it came from.
//
// Supported paths:
//
//	display
//	excluded_app_ids
//	drag_scroll_zone
//	move_button
//	resize_button
//	ignore_lock_modifiers
//	bindings
//	bindings[<i>].keys
//	bindings[<i>].action
//	bindings[<i>].command
//	logging.level
//	logging.format
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	if strings.HasPrefix(path, "bindings[") {
		return lookupBinding(cfg, path)
	}
	switch path {
	case "display":
		return cfg.Display, nil
	case "excluded_app_ids":
		return cfg.ExcludedAppIDs, nil
	case "drag_scroll_zone":
		return cfg.DragScrollZone, nil
	case "move_button":
		return cfg.MoveButton, nil
	case "resize_button":
		return cfg.ResizeButton, nil
	case "ignore_lock_modifiers":
		return cfg.IgnoreLockModifiers, nil
	case "bindings":
		return cfg.Bindings, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.format":
		return cfg.Logging.Format, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

func lookupBinding(cfg *Config, path string) (any, error) {
	end := strings.Index(path, "]")
	if end < 0 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	i, err := strconv.Atoi(path[len("bindings["):end])
	if err != nil || i < 0 || i >= len(cfg.Bindings) {
		return nil, fmt.Errorf("no binding at %s", path[:end+1])
	}
	b := cfg.Bindings[i]
	switch strings.TrimPrefix(path[end+1:], ".") {
	case "":
		return b, nil
	case "keys":
		return b.Keys, nil
	case "action":
		return b.Action, nil
	case "command":
		return []string(b.Command), nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
