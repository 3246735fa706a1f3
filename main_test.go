package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cubefield/pkg/game/config"
)

func runArgs(t *testing.T, args ...string) (string, bool, error) {
	t.Helper()
	t.Cleanup(func() { config.SetCurrent(nil) })
	missing := filepath.Join(t.TempDir(), "missing.ini")
	var out bytes.Buffer
	window, err := run(append([]string{"-config", missing}, args...), &out)
	return out.String(), window, err
}

func TestRun_HeadlessDump(t *testing.T) {
	out, window, err := runArgs(t, "-renderer", "headless", "-ticks", "3", "-unpaced", "-loader", "none", "-seed", "1", "-dump")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if window {
		t.Error("headless run reported window mode")
	}
	if !strings.Contains(out, "=== TILT DUMP") || !strings.Contains(out, "frames: 3") {
		t.Errorf("unexpected dump:\n%s", out)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown renderer", []string{"-renderer", "vga"}, "unknown renderer"},
		{"bad loader", []string{"-renderer", "headless", "-loader", "spinner"}, "spinner"},
		{"bad binding", []string{"-bind", "jump=j"}, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runArgs(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(%v) error = %v, want one mentioning %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestRun_WriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ini")
	if _, _, err := runArgs(t, "-write-config", path, "-loader", "honey"); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "honey") {
		t.Errorf("written config lacks the loader override:\n%s", data)
	}
}

func TestRun_Keys(t *testing.T) {
	out, _, err := runArgs(t, "-keys")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Quit: ") {
		t.Errorf("key listing missing quit:\n%s", out)
	}
}
