package input

// PointerKind is the kind of a pointer or touch event.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerLeave
	PointerClick
	TouchStart
	TouchMove
	TouchEnd
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case PointerLeave:
		return "pointerleave"
	case PointerClick:
		return "click"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer or touch event in device coordinates
// (window pixels, or terminal cells for the terminal backend).
// HasPoint is false for touch events that carry no touch point.
type PointerEvent struct {
	Kind     PointerKind
	Device   Device
	X, Y     float64
	HasPoint bool
}

// PointerTracker turns polled cursor state into edge events. Backends that only
// expose "where is the cursor now" feed it once per frame.
type PointerTracker struct {
	lastX, lastY float64
	inside       bool
	seen         bool
}

// Poll compares the cursor with the previous poll and returns the events it implies:
// a move when the cursor moved inside bounds, a leave when it crossed out.
func (p *PointerTracker) Poll(x, y float64, inside bool) []PointerEvent {
	var events []PointerEvent
	moved := !p.seen || x != p.lastX || y != p.lastY
	switch {
	case inside && moved:
		events = append(events, PointerEvent{Kind: PointerMove, Device: DeviceMouse, X: x, Y: y, HasPoint: true})
	case !inside && p.inside:
		events = append(events, PointerEvent{Kind: PointerLeave, Device: DeviceMouse, X: x, Y: y, HasPoint: true})
	}
	p.lastX, p.lastY = x, y
	p.inside = inside
	p.seen = true
	return events
}
