package input

import (
	"sort"
	"strings"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceMouse
	DeviceTouch
	DeviceTerminal
)

// Action represents a high‑level intent of the viewer.
type Action int

const (
	ActionNone Action = iota

	ActionQuit
	ActionToggleAutoAnimate
	ActionToggleRipple
	ActionToggleSound
	ActionOpenConfig
	ActionScrollTop
	ActionScrollSection1
	ActionScrollSection2
	ActionScrollSection3
	ActionScrollSection4
	ActionScrollSection5
	ActionScrollSection6
	ActionScrollSection7
	ActionScrollSection8
	ActionScrollSection9
)

// Intent is the 4th‑layer, high‑level description of what the viewer wants to do.
type Intent struct {
	Action Action
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "a", "escape", "home").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// Both backends already report key presses as edges (inpututil, tcell events),
// so this is a thin wrapper that keeps the layering explicit.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// bindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
var bindings = map[string]Action{
	"q":      ActionQuit,
	"escape": ActionQuit,
	"ctrl+c": ActionQuit,

	"a": ActionToggleAutoAnimate,
	"r": ActionToggleRipple,
	"m": ActionToggleSound,
	"o": ActionOpenConfig,

	"home": ActionScrollTop,
	"0":    ActionScrollTop,
	"1":    ActionScrollSection1,
	"2":    ActionScrollSection2,
	"3":    ActionScrollSection3,
	"4":    ActionScrollSection4,
	"5":    ActionScrollSection5,
	"6":    ActionScrollSection6,
	"7":    ActionScrollSection7,
	"8":    ActionScrollSection8,
	"9":    ActionScrollSection9,
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// SectionIndex returns the zero-based section an action scrolls to, or -1.
func SectionIndex(a Action) int {
	if a >= ActionScrollSection1 && a <= ActionScrollSection9 {
		return int(a - ActionScrollSection1)
	}
	return -1
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionQuit:
		return "Quit"
	case ActionToggleAutoAnimate:
		return "Toggle Auto-Animate"
	case ActionToggleRipple:
		return "Toggle Ripple"
	case ActionToggleSound:
		return "Toggle Sound"
	case ActionOpenConfig:
		return "Open Config"
	case ActionScrollTop:
		return "Scroll To Top"
	}
	if i := SectionIndex(a); i >= 0 {
		return "Scroll To Section " + string(rune('1'+i))
	}
	return "None"
}

// ParseAction finds the action whose name matches s, ignoring case and treating
// dashes and underscores as spaces ("toggle-ripple" names Toggle Ripple).
func ParseAction(s string) (Action, bool) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace
	want := norm(strings.TrimSpace(s))
	for a := ActionQuit; a <= ActionScrollSection9; a++ {
		if strings.EqualFold(norm(ActionName(a)), want) {
			return a, true
		}
	}
	return ActionNone, false
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering so help text doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// SetSingleBinding replaces all bindings for the given action with a single code.
// Quit keeps its escape binding so it can never be unbound.
func SetSingleBinding(action Action, code string) {
	for c, a := range bindings {
		if c == "escape" || c == "ctrl+c" {
			continue
		}
		if a == action {
			delete(bindings, c)
		}
	}
	if code != "" && code != "escape" && code != "ctrl+c" {
		bindings[code] = action
	}
}
