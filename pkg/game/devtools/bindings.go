package devtools

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"cubefield/pkg/engine/input"
)

var (
	colorAction = color.Style{color.FgMagenta}
	colorKey    = color.Style{color.FgGreen, color.OpBold}
)

// WriteBindings lists every action with the keys bound to it, one per line
func WriteBindings(w io.Writer, colour bool) {
	byAction := input.GetBindingsByAction()
	for a := input.ActionQuit; a <= input.ActionScrollSection9; a++ {
		name := input.ActionName(a)
		keys := strings.Join(byAction[a], ", ")
		if keys == "" {
			keys = "(unbound)"
		}
		if colour {
			name = colorAction.Sprint(name)
			keys = colorKey.Sprint(keys)
		}
		fmt.Fprintf(w, "%s: %s\n", name, keys)
	}
}

// ParseBinding applies one "action=key" rebinding, e.g. "toggle-ripple=x".
// An empty key unbinds the action.
func ParseBinding(s string) error {
	name, key, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("binding %q: want action=key", s)
	}
	a, ok := input.ParseAction(name)
	if !ok {
		return fmt.Errorf("binding %q: unknown action %q", s, name)
	}
	input.SetSingleBinding(a, strings.ToLower(strings.TrimSpace(key)))
	return nil
}
