package ebiten

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/engine/input"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/i18n"
	"cubefield/pkg/game/state"
)

// keyCodes maps Ebiten keys to the binding codes of the input layer
var keyCodes = map[ebiten.Key]string{
	ebiten.KeyA: "a", ebiten.KeyB: "b", ebiten.KeyC: "c", ebiten.KeyD: "d",
	ebiten.KeyE: "e", ebiten.KeyF: "f", ebiten.KeyG: "g", ebiten.KeyH: "h",
	ebiten.KeyI: "i", ebiten.KeyJ: "j", ebiten.KeyK: "k", ebiten.KeyL: "l",
	ebiten.KeyM: "m", ebiten.KeyN: "n", ebiten.KeyO: "o", ebiten.KeyP: "p",
	ebiten.KeyQ: "q", ebiten.KeyR: "r", ebiten.KeyS: "s", ebiten.KeyT: "t",
	ebiten.KeyU: "u", ebiten.KeyV: "v", ebiten.KeyW: "w", ebiten.KeyX: "x",
	ebiten.KeyY: "y", ebiten.KeyZ: "z",

	ebiten.KeyDigit0: "0", ebiten.KeyDigit1: "1", ebiten.KeyDigit2: "2", ebiten.KeyDigit3: "3",
	ebiten.KeyDigit4: "4", ebiten.KeyDigit5: "5", ebiten.KeyDigit6: "6", ebiten.KeyDigit7: "7",
	ebiten.KeyDigit8: "8", ebiten.KeyDigit9: "9",
	ebiten.KeyNumpad0: "0", ebiten.KeyNumpad1: "1", ebiten.KeyNumpad2: "2", ebiten.KeyNumpad3: "3",
	ebiten.KeyNumpad4: "4", ebiten.KeyNumpad5: "5", ebiten.KeyNumpad6: "6", ebiten.KeyNumpad7: "7",
	ebiten.KeyNumpad8: "8", ebiten.KeyNumpad9: "9",

	ebiten.KeyEscape: "escape",
	ebiten.KeyHome:   "home",
}

// keyCode returns the binding code for k, or "" for keys nothing can bind
func keyCode(k ebiten.Key, ctrl bool) string {
	if ctrl && k == ebiten.KeyC {
		return "ctrl+c"
	}
	return keyCodes[k]
}

// Update handles input and advances the session by one tick (Ebiten interface)
func (e *EbitenRenderer) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		log.Printf("Main window opened successfully (%dx%d)", w, h)
	}
	if e.ctx != nil && e.ctx.Err() != nil {
		return ebiten.Termination
	}

	e.pollConfigDialog()

	s := e.session
	e.handleTouches(s)
	if !e.touchActive {
		e.handleMouse(s)
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		s.Page.ScrollBy(-dy * wheelPixels)
	}

	for _, intent := range e.checkInput() {
		if intent.Action == input.ActionOpenConfig {
			e.openConfigDialog()
			continue
		}
		s.HandleIntent(intent)
	}
	if s.Quit {
		return ebiten.Termination
	}

	s.Step(time.Second / time.Duration(ebiten.TPS()))
	e.captureSnapshot()
	return nil
}

// checkInput turns this tick's key presses into intents
func (e *EbitenRenderer) checkInput() []input.Intent {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	var intents []input.Intent
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		code := keyCode(k, ctrl)
		if code == "" {
			continue
		}
		raw := input.RawInput{Device: input.DeviceKeyboard, Code: code, Timestamp: time.Now()}
		if intent := input.MapToIntent(input.NewDebouncedInput(raw)); intent.Action != input.ActionNone {
			intents = append(intents, intent)
		}
	}
	return intents
}

// handleMouse feeds cursor moves, leaves and clicks to the session
func (e *EbitenRenderer) handleMouse(s *state.Session) {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	inside := ebiten.IsFocused() &&
		cx >= 0 && cy >= 0 && cx < e.windowWidth && cy < e.windowHeight &&
		s.Cubes.Bounds().Contains(x, y)
	for _, ev := range e.pointer.Poll(x, y, inside) {
		s.HandlePointer(ev)
	}
	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.HandlePointer(input.PointerEvent{Kind: input.PointerClick, Device: input.DeviceMouse, X: x, Y: y, HasPoint: true})
	}
}

// handleTouches follows the first active touch the way a page follows touches[0].
// A touch that ends close to where it began also clicks, as browsers do for taps.
func (e *EbitenRenderer) handleTouches(s *state.Session) {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		if e.touches.Size() == 0 {
			x, y := ebiten.TouchPosition(id)
			e.touchStart = geom.Vec2{X: float64(x), Y: float64(y)}
			e.touchLast = e.touchStart
			e.touchMoved = false
		}
		e.touches.Put(id)
		s.HandlePointer(input.PointerEvent{Kind: input.TouchStart, Device: input.DeviceTouch})
	}

	ids := ebiten.AppendTouchIDs(nil)
	if len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		p := geom.Vec2{X: float64(x), Y: float64(y)}
		if p != e.touchLast {
			e.touchLast = p
			dx, dy := p.X-e.touchStart.X, p.Y-e.touchStart.Y
			if dx*dx+dy*dy > tapSlop*tapSlop {
				e.touchMoved = true
			}
			s.HandlePointer(input.PointerEvent{Kind: input.TouchMove, Device: input.DeviceTouch, X: p.X, Y: p.Y, HasPoint: true})
		}
	}

	var released []ebiten.TouchID
	e.touches.Each(func(id ebiten.TouchID) {
		if inpututil.IsTouchJustReleased(id) {
			released = append(released, id)
		}
	})
	for _, id := range released {
		e.touches.Remove(id)
	}
	if len(released) > 0 && e.touches.Size() == 0 {
		s.HandlePointer(input.PointerEvent{Kind: input.TouchEnd, Device: input.DeviceTouch})
		if !e.touchMoved {
			s.HandlePointer(input.PointerEvent{Kind: input.PointerClick, Device: input.DeviceTouch, X: e.touchLast.X, Y: e.touchLast.Y, HasPoint: true})
		}
	}
	e.touchActive = e.touches.Size() > 0
}

// openConfigDialog asks for a config file without blocking the game loop
func (e *EbitenRenderer) openConfigDialog() {
	if e.dialogOpen {
		return
	}
	e.dialogOpen = true
	go func() {
		path, err := zenity.SelectFile(
			zenity.Title(i18n.T("CONFIG_DIALOG_TITLE")),
			zenity.FileFilters{{
				Name:     i18n.T("CONFIG_FILTER"),
				Patterns: []string{"*.ini"},
			}},
		)
		e.dialogResult <- dialogResult{path: path, err: err}
	}()
}

// pollConfigDialog applies a finished dialog: the chosen file replaces the
// current config and the session is rebuilt around it.
func (e *EbitenRenderer) pollConfigDialog() {
	var res dialogResult
	select {
	case res = <-e.dialogResult:
	default:
		return
	}
	e.dialogOpen = false
	if res.err != nil {
		if !errors.Is(res.err, zenity.ErrCanceled) {
			fmt.Fprintf(os.Stderr, "Warning: config dialog failed: %v\n", res.err)
		}
		return
	}
	name := filepath.Base(res.path)
	cfg, err := config.Load(res.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		e.session.AddMessage(i18n.T("CONFIG_FAILED", name))
		return
	}
	config.SetCurrent(cfg)
	e.session = e.session.Rebuild()
	e.session.AddMessage(i18n.T("CONFIG_LOADED", name))
	log.Printf("Loaded config %s", res.path)
}

// Layout returns the game's logical screen size (Ebiten interface)
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != e.windowWidth || outsideHeight != e.windowHeight {
		e.windowWidth = outsideWidth
		e.windowHeight = outsideHeight
		e.invalidateFontCache()
	}
	if e.session != nil {
		e.session.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
