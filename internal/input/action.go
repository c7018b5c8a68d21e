package input

import (
	"fmt"
	"slices"
	"strings"
)

// Action is a command a binding triggers.
type Action int

const (
	ActionNone Action = iota
	NavigateLeft
	NavigateRight
	NavigateFirst
	NavigateLast
	MoveWindowLeft
	MoveWindowRight
	NavigateMonitorLeft
	NavigateMonitorRight
	MoveWindowMonitorLeft
	MoveWindowMonitorRight
	CloseWindow
	Spawn
)

var actionNames = map[Action]string{
	NavigateLeft:           "navigate-left",
	NavigateRight:          "navigate-right",
	NavigateFirst:          "navigate-first",
	NavigateLast:           "navigate-last",
	MoveWindowLeft:         "move-window-left",
	MoveWindowRight:        "move-window-right",
	NavigateMonitorLeft:    "navigate-monitor-left",
	NavigateMonitorRight:   "navigate-monitor-right",
	MoveWindowMonitorLeft:  "move-window-monitor-left",
	MoveWindowMonitorRight: "move-window-monitor-right",
	CloseWindow:            "close-window",
	Spawn:                  "spawn",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// ParseAction resolves an action name as written in the configuration.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q (valid: %s)", s, strings.Join(ActionNames(), ", "))
}

// ActionNames lists every valid action name in sorted order.
func ActionNames() []string {
	names := make([]string, 0, len(actionNames))
	for _, name := range actionNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
