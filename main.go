package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncruces/zenity"

	"cubefield/pkg/engine/terminal"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/devtools"
	"cubefield/pkg/game/i18n"
	"cubefield/pkg/game/renderer"
	"cubefield/pkg/game/renderer/ebiten"
	"cubefield/pkg/game/renderer/headless"
	"cubefield/pkg/game/renderer/tui"
	"cubefield/pkg/game/sound"
	"cubefield/pkg/game/state"
)

const (
	rendererEbiten   = "ebiten"
	rendererTUI      = "tui"
	rendererHeadless = "headless"
)

// fatal reports a startup error and exits. Window mode also shows it in a dialog,
// since there may be no terminal to read stderr from.
func fatal(window bool, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if window {
		zenity.Error(err.Error(), zenity.Title(i18n.T("ERROR_TITLE")))
	}
	os.Exit(1)
}

func main() {
	window, err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fatal(window, err)
	}
}

// run parses args and drives one session to completion. Dumps and listings go
// to stdout. window reports whether errors should also be shown in a dialog.
func run(args []string, stdout io.Writer) (window bool, err error) {
	fs := flag.NewFlagSet("cubefield", flag.ContinueOnError)
	configPath := fs.String("config", "cubefield.ini", "ini file to load settings from (missing file keeps defaults)")
	writeConfig := fs.String("write-config", "", "write the effective settings to this ini file and exit")
	rendererName := fs.String("renderer", rendererEbiten, "display backend: ebiten, tui or headless")
	ticks := fs.Uint64("ticks", 0, "headless: frames to run before stopping (0 runs until interrupted)")
	hz := fs.Int("hz", 60, "headless and tui: frames per second")
	unpaced := fs.Bool("unpaced", false, "headless: step as fast as possible instead of in real time")
	dump := fs.Bool("dump", false, "print the tilt field when the run ends (window mode writes tilt.txt)")
	screenshot := fs.Bool("screenshot", false, "save the last frame as an HTML file when the run ends")
	seed := fs.Int64("seed", 0, "random seed for the auto-pilot (0 uses the clock)")
	lang := fs.String("lang", "", "UI language, e.g. en_GB or de_DE (default from the environment)")
	loaderKind := fs.String("loader", "", "loader scene: cube, honey or none (overrides the config file)")
	soundOn := fs.Bool("sound", false, "play a chime on every ripple")
	verbose := fs.Bool("v", false, "log every tracker, ripple and loader event")
	keys := fs.Bool("keys", false, "list the key bindings and exit")
	fs.Func("bind", "rebind a key as action=key, e.g. toggle-ripple=x (repeatable)", devtools.ParseBinding)
	if err := fs.Parse(args); err != nil {
		return false, err
	}

	if *keys {
		devtools.WriteBindings(stdout, stdout == os.Stdout && terminal.StdoutIsTerminal())
		return false, nil
	}

	name := *rendererName
	window = name == rendererEbiten

	if *lang != "" {
		if err := i18n.SetLanguage(*lang); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	} else {
		i18n.SetLanguageFromEnv()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return window, err
	}
	if *loaderKind != "" {
		cfg.Loader = *loaderKind
	}
	if *soundOn {
		cfg.Sound = true
	}
	if err := cfg.Validate(); err != nil {
		return window, err
	}
	config.SetCurrent(cfg)

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			return false, err
		}
		log.Printf("Wrote config %s", *writeConfig)
		return false, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chime := sound.NewChime(cfg.ChimeFrequency, cfg.ChimeLength)
	if cfg.Sound {
		// A missing audio device is logged by the chime and leaves it silent
		_ = chime.Initialize()
	}
	defer chime.Cleanup()

	opts := state.Options{
		Seed:   *seed,
		Width:  float64(cfg.WindowWidth),
		Height: float64(cfg.WindowHeight),
		Debug:  *verbose,
		Chime:  chime,
	}

	var win *ebiten.EbitenRenderer
	switch name {
	case rendererHeadless:
		renderer.SetRenderer(headless.New(headless.Config{Hz: *hz, Ticks: *ticks, Unpaced: *unpaced}))
	case rendererTUI:
		if !terminal.IsInteractive() {
			return false, fmt.Errorf("-renderer tui needs an interactive terminal")
		}
		w, h := terminal.GetSize()
		opts.Width, opts.Height = float64(w), float64(h)
		renderer.SetRenderer(tui.New(nil, *hz))
	case rendererEbiten:
		win = ebiten.New(cfg.WindowWidth, cfg.WindowHeight, cfg.Title)
		renderer.SetRenderer(win)
	default:
		return false, fmt.Errorf("unknown renderer %q (want ebiten, tui or headless)", name)
	}

	s := state.New(cfg, opts)
	if *verbose {
		log.Printf("Starting %s renderer (%s, loader %s)", renderer.Current.Name(), i18n.Language(), cfg.Loader)
	}
	// An interrupt is the normal way to end an unbounded headless run
	if err := renderer.Run(ctx, s); err != nil && !errors.Is(err, context.Canceled) {
		return window, err
	}

	// The window renderer swaps sessions when a config file is opened
	if win != nil && win.Session() != nil {
		s = win.Session()
	}
	if *dump {
		// A window may have been launched without a terminal to print to
		if window {
			path, err := devtools.DumpTiltToFile(s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: tilt dump failed: %v\n", err)
			} else {
				log.Printf("Wrote tilt dump %s", path)
			}
		} else if err := devtools.WriteTiltDump(stdout, s, stdout == os.Stdout && terminal.StdoutIsTerminal()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if *screenshot {
		name, err := devtools.SaveScreenshotHTML(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: screenshot failed: %v\n", err)
		} else {
			log.Printf("Saved screenshot %s", name)
		}
	}
	return window, nil
}
