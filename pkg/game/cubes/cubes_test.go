package cubes

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"
	"time"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/engine/input"
	"cubefield/pkg/engine/loop"
	"cubefield/pkg/engine/tween"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/page"
)

const frame = 16 * time.Millisecond

type harness struct {
	loop   *loop.Loop
	tweens *tween.Manager
	doc    *page.Document
	fx     *Effect
}

// newHarness mounts an effect whose cells are 10x10 units
func newHarness(t *testing.T, size int, mutate func(*Options)) *harness {
	t.Helper()
	l := loop.New()
	tw := tween.NewManager(l)
	doc := page.New(tw, page.Options{})
	doc.Layout(float64(size*10), float64(size*10))

	cfg := config.Default()
	cfg.GridSize = size
	opts := OptionsFrom(cfg)
	opts.AutoAnimate = false
	if mutate != nil {
		mutate(&opts)
	}
	fx := Mount(doc, l, tw, rand.New(rand.NewSource(7)), opts)
	if fx == nil {
		t.Fatal("Mount returned nil")
	}
	return &harness{loop: l, tweens: tw, doc: doc, fx: fx}
}

func (h *harness) advance(d time.Duration) {
	for d > 0 {
		step := frame
		if d < step {
			step = d
		}
		h.loop.Advance(step)
		h.tweens.Update()
		d -= step
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTiltFor_FalloffProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const radius, maxAngle = 4.0, 30.0
	for i := 0; i < 500; i++ {
		focus := Focus{Row: rng.Float64()*17 - 1, Col: rng.Float64()*17 - 1}
		r, c := rng.Intn(15), rng.Intn(15)
		dist := math.Hypot(float64(r)-focus.Row, float64(c)-focus.Col)
		got := TiltFor(r, c, focus, radius, maxAngle)
		want := 0.0
		if dist <= radius {
			want = (1 - dist/radius) * maxAngle
		}
		if !near(got.RotateY, want) || !near(got.RotateX, -want) {
			t.Fatalf("TiltFor(%d,%d,%+v) = %+v, want angle %v", r, c, focus, got, want)
		}
		if got.Inside != (dist <= radius) {
			t.Fatalf("TiltFor(%d,%d,%+v).Inside = %v at dist %v", r, c, focus, got.Inside, dist)
		}
	}
}

func TestTiltPlan_ThreeByThreeScenario(t *testing.T) {
	plan := TiltPlan(3, Focus{Row: 1, Col: 1}, 1, 30)
	at := func(r, c int) TiltTarget { return plan[r*3+c] }

	if centre := at(1, 1); !centre.Inside || centre.RotateY != 30 || centre.RotateX != -30 {
		t.Errorf("centre = %+v, want inside at 30 deg", centre)
	}
	for _, rc := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}} {
		if n := at(rc[0], rc[1]); !n.Inside || n.RotateY != 0 || n.RotateX != 0 {
			t.Errorf("orthogonal %v = %+v, want inside at 0 deg", rc, n)
		}
	}
	for _, rc := range [][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}} {
		if d := at(rc[0], rc[1]); d.Inside || d.RotateY != 0 {
			t.Errorf("diagonal %v = %+v, want reset branch", rc, d)
		}
	}
}

func TestTiltPlan_Idempotent(t *testing.T) {
	focus := Focus{Row: 6.3, Col: 8.9}
	a := TiltPlan(15, focus, 4, 30)
	b := TiltPlan(15, focus, 4, 30)
	if !reflect.DeepEqual(a, b) {
		t.Error("TiltPlan is not a pure function of the focus point")
	}
	if TiltPlan(0, focus, 4, 30) != nil {
		t.Error("empty grid should yield a nil plan")
	}
}

func TestTiltAt_AnimatesToAbsoluteTargets(t *testing.T) {
	h := newHarness(t, 3, func(o *Options) { o.Radius = 1; o.MaxAngle = 30 })
	h.fx.TiltAt(Focus{Row: 1, Col: 1})
	h.advance(100 * time.Millisecond)
	mid := h.fx.Grid().GetCell(1, 1)
	if mid.RotateY <= 0 || mid.RotateY >= 30 {
		t.Errorf("mid-tween RotateY = %v, want between 0 and 30", mid.RotateY)
	}

	h.advance(700 * time.Millisecond)
	if !near(mid.RotateX, -30) || !near(mid.RotateY, 30) {
		t.Errorf("centre rotation = (%v, %v), want (-30, 30)", mid.RotateX, mid.RotateY)
	}

	// Same focus again: same absolute targets, nothing accumulates.
	h.fx.TiltAt(Focus{Row: 1, Col: 1})
	h.advance(700 * time.Millisecond)
	if !near(mid.RotateX, -30) || !near(mid.RotateY, 30) {
		t.Errorf("after second tilt rotation = (%v, %v), want (-30, 30)", mid.RotateX, mid.RotateY)
	}
	if !h.fx.Grid().GetCell(0, 0).IsNeutral() {
		t.Error("corner cell should be neutral")
	}
}

func TestTiltAt_OverwritesInFlightTween(t *testing.T) {
	h := newHarness(t, 3, func(o *Options) { o.Radius = 1 })
	cell := h.fx.Grid().GetCell(1, 1)
	h.fx.TiltAt(Focus{Row: 1, Col: 1})
	h.advance(50 * time.Millisecond)
	h.fx.TiltAt(Focus{Row: 1, Col: 1})
	if n := h.tweens.Active(); n != h.fx.Grid().Len() {
		t.Errorf("Active() = %d, want one tween per cell (%d)", n, h.fx.Grid().Len())
	}
	h.advance(time.Second)
	if !near(cell.RotateY, 30) {
		t.Errorf("RotateY = %v, want 30", cell.RotateY)
	}
}

func TestRings_CornerHit(t *testing.T) {
	gr := grid.New(3, grid.Style{})
	rings := Rings(gr, 0, 0)

	got := map[int][][2]int{}
	var order []int
	rings.Each(func(ring int, cells []*grid.Cell) {
		order = append(order, ring)
		for _, c := range cells {
			got[ring] = append(got[ring], [2]int{c.Row, c.Col})
		}
	})
	if !sort.IntsAreSorted(order) {
		t.Errorf("rings visited out of order: %v", order)
	}
	want := map[int][][2]int{
		0: {{0, 0}},
		1: {{0, 1}, {1, 0}, {1, 1}}, // sqrt(2) rounds to 1
		2: {{0, 2}, {1, 2}, {2, 0}, {2, 1}},
		3: {{2, 2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rings = %v, want %v", got, want)
	}
}

func TestRings_CentreHitIsSoleMemberOfRingZero(t *testing.T) {
	gr := grid.New(5, grid.Style{})
	rings := Rings(gr, 2, 3)
	zero, ok := rings.Get(0)
	if !ok || len(zero) != 1 || zero[0] != gr.GetCell(2, 3) {
		t.Errorf("ring 0 = %v, want only (2,3)", zero)
	}
	total := 0
	rings.Each(func(_ int, cells []*grid.Cell) { total += len(cells) })
	if total != gr.Len() {
		t.Errorf("rings hold %d cells, want %d", total, gr.Len())
	}
}

func TestRingTiming(t *testing.T) {
	got := RingTiming(2, 150*time.Millisecond, 300*time.Millisecond, 600*time.Millisecond, 2)
	want := RippleTiming{
		FlashDelay: 150 * time.Millisecond,
		FadeDelay:  600 * time.Millisecond,
		Duration:   150 * time.Millisecond,
	}
	if got != want {
		t.Errorf("RingTiming = %+v, want %+v", got, want)
	}
}

func TestRipple_FlashesAndFadesBack(t *testing.T) {
	h := newHarness(t, 3, nil)
	opts := h.fx.Options()
	var hits [][2]int
	h.fx.OnRipple = func(r, c int) { hits = append(hits, [2]int{r, c}) }

	h.fx.HandlePointer(input.PointerEvent{Kind: input.PointerClick, X: 5, Y: 5, HasPoint: true})
	if len(hits) != 1 || hits[0] != [2]int{0, 0} {
		t.Fatalf("OnRipple hits = %v, want [(0,0)]", hits)
	}

	hit := h.fx.Grid().GetCell(0, 0).Face(grid.FaceFront)
	far := h.fx.Grid().GetCell(2, 2).Face(grid.FaceTop)

	// Ring 0 is fully flashed at 150ms; ring 3 has not started yet (delay 225ms).
	h.advance(160 * time.Millisecond)
	if hit.Background != opts.RippleColor {
		t.Errorf("hit face at 160ms = %+v, want ripple colour", hit.Background)
	}
	if far.Background != opts.Style.FaceColor {
		t.Errorf("far face at 160ms = %+v, want base colour", far.Background)
	}

	// Ring 0 holds until 450ms.
	h.advance(240 * time.Millisecond)
	if hit.Background != opts.RippleColor {
		t.Errorf("hit face at 400ms = %+v, want ripple colour", hit.Background)
	}
	if far.Background != opts.RippleColor {
		t.Errorf("far face at 400ms = %+v, want ripple colour", far.Background)
	}

	h.advance(time.Second)
	for _, cell := range h.fx.Grid().Cells() {
		for _, f := range cell.Faces {
			if f.Background != opts.Style.FaceColor {
				t.Fatalf("cell (%d,%d) %s = %+v, want base colour", cell.Row, cell.Col, f.Side, f.Background)
			}
		}
	}
	if h.tweens.Active() != 0 {
		t.Errorf("Active() = %d after ripple, want 0", h.tweens.Active())
	}
}

func TestRipple_DisabledIsNoOp(t *testing.T) {
	h := newHarness(t, 3, func(o *Options) { o.Ripple = false })
	called := false
	h.fx.OnRipple = func(int, int) { called = true }
	h.fx.Ripple(5, 5)
	if called || h.tweens.Active() != 0 {
		t.Error("disabled ripple should schedule nothing")
	}
	h.fx.SetRipple(true)
	h.fx.Ripple(5, 5)
	if !called {
		t.Error("ripple should run once re-enabled")
	}
}

func TestRipple_MissingPointIsIgnored(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.fx.HandlePointer(input.PointerEvent{Kind: input.PointerClick, Device: input.DeviceTouch})
	h.fx.HandlePointer(input.PointerEvent{Kind: input.TouchMove, Device: input.DeviceTouch})
	if h.tweens.Active() != 0 || h.loop.PendingFrames() != 0 || h.fx.UserActive() {
		t.Error("events without a touch point should be ignored")
	}
}

func TestOnMove_MapsToFractionalGridCoordinates(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.fx.OnMove(15, 25)
	h.loop.Advance(frame)
	focus, ok := h.fx.Focus()
	if !ok || !near(focus.Row, 2.5) || !near(focus.Col, 1.5) {
		t.Errorf("Focus = %+v (%v), want row 2.5 col 1.5", focus, ok)
	}
}

func TestOnMove_CoalescesToOneFrame(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.fx.OnMove(1, 1)
	first := h.fx.PendingFrame()
	h.fx.OnMove(2, 2)
	h.fx.OnMove(25, 5)
	if h.loop.PendingFrames() != 1 {
		t.Fatalf("PendingFrames = %d, want 1", h.loop.PendingFrames())
	}
	if h.fx.PendingFrame() == first {
		t.Error("a new move should replace the pending token")
	}
	h.loop.Advance(frame)
	if h.fx.PendingFrame() != 0 {
		t.Error("token should clear once the frame ran")
	}
	focus, _ := h.fx.Focus()
	if !near(focus.Row, 0.5) || !near(focus.Col, 2.5) {
		t.Errorf("Focus = %+v, want the last move (row 0.5, col 2.5)", focus)
	}
}

func TestIdle_ActivityClearsAfterTimeout(t *testing.T) {
	h := newHarness(t, 5, func(o *Options) { o.AutoAnimate = true })
	h.fx.OnMove(25, 25)
	if !h.fx.UserActive() {
		t.Fatal("move should mark the viewer active")
	}

	h.loop.Advance(2999 * time.Millisecond)
	if !h.fx.UserActive() {
		t.Fatal("activity cleared before 3s")
	}
	pos, _ := h.fx.AutoPilot()
	focus, _ := h.fx.Focus()
	if focus == pos {
		t.Fatal("auto-pilot drove the focus while the viewer was active")
	}

	h.loop.Advance(time.Millisecond)
	if h.fx.UserActive() {
		t.Fatal("activity still set at 3s")
	}
	pos, _ = h.fx.AutoPilot()
	focus, _ = h.fx.Focus()
	if focus != pos {
		t.Errorf("auto-pilot should drive the focus in the same frame: focus %+v pos %+v", focus, pos)
	}
}

func TestIdle_MoveRestartsCountdown(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.fx.OnMove(10, 10)
	h.loop.Advance(2 * time.Second)
	h.fx.OnMove(20, 20)
	h.loop.Advance(1500 * time.Millisecond)
	if !h.fx.UserActive() {
		t.Error("second move should restart the 3s countdown")
	}
	if h.loop.ActiveTimers() != 1 {
		t.Errorf("ActiveTimers = %d, want exactly one idle timer", h.loop.ActiveTimers())
	}
	h.loop.Advance(1500 * time.Millisecond)
	if h.fx.UserActive() {
		t.Error("viewer should be idle 3s after the last move")
	}
}

func TestTouchStart_ActivatesAndTimesOut(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.fx.HandlePointer(input.PointerEvent{Kind: input.TouchStart, Device: input.DeviceTouch})
	if !h.fx.UserActive() {
		t.Fatal("touchstart should mark the viewer active")
	}
	h.loop.Advance(3 * time.Second)
	if h.fx.UserActive() {
		t.Error("touchstart without movement should still time out")
	}
}

func TestLeave_ResetsEveryCell(t *testing.T) {
	for _, kind := range []input.PointerKind{input.PointerLeave, input.TouchEnd} {
		t.Run(kind.String(), func(t *testing.T) {
			h := newHarness(t, 5, nil)
			h.fx.TiltAt(Focus{Row: 2, Col: 2})
			h.advance(500 * time.Millisecond)
			if h.fx.Grid().GetCell(2, 2).IsNeutral() {
				t.Fatal("centre should be tilted before leave")
			}
			h.fx.HandlePointer(input.PointerEvent{Kind: kind})
			h.advance(700 * time.Millisecond)
			for _, c := range h.fx.Grid().Cells() {
				if !near(c.RotateX, 0) || !near(c.RotateY, 0) {
					t.Fatalf("cell (%d,%d) = (%v, %v), want neutral", c.Row, c.Col, c.RotateX, c.RotateY)
				}
			}
		})
	}
}

func TestAutoPilot_RetargetsAfterConverging(t *testing.T) {
	h := newHarness(t, 15, func(o *Options) { o.AutoAnimate = true })
	_, first := h.fx.AutoPilot()
	for i := 0; i < 300; i++ {
		h.loop.Advance(frame)
		h.tweens.Update()
	}
	_, now := h.fx.AutoPilot()
	if now == first {
		t.Error("target never changed within 300 frames")
	}
	pos, target := h.fx.AutoPilot()
	for _, v := range []float64{pos.Row, pos.Col, target.Row, target.Col} {
		if v < 0 || v >= 15 {
			t.Errorf("auto-pilot coordinate %v outside [0, 15)", v)
		}
	}
}

func TestAutoPilot_ScheduleKeepsTickingWhileActive(t *testing.T) {
	h := newHarness(t, 5, func(o *Options) { o.AutoAnimate = true })
	h.fx.OnTouchStart()
	before, _ := h.fx.AutoPilot()
	for i := 0; i < 10; i++ {
		h.loop.Advance(frame)
	}
	after, _ := h.fx.AutoPilot()
	if before != after {
		t.Error("auto-pilot moved while the viewer was active")
	}
	if h.loop.PendingFrames() != 1 {
		t.Errorf("PendingFrames = %d, want the auto-pilot frame", h.loop.PendingFrames())
	}

	h.fx.SetAutoAnimate(false)
	if h.loop.PendingFrames() != 0 || h.fx.AutoAnimating() {
		t.Error("SetAutoAnimate(false) should cancel the schedule")
	}
	h.fx.SetAutoAnimate(true)
	if h.loop.PendingFrames() != 1 || !h.fx.AutoAnimating() {
		t.Error("SetAutoAnimate(true) should restart the schedule")
	}
}

func TestStepsToConverge_Bounded(t *testing.T) {
	n := StepsToConverge(Focus{}, Focus{Row: 15, Col: 15}, 0.02, 0.1, 1000)
	if n != 266 {
		t.Errorf("StepsToConverge across the grid = %d, want 266", n)
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		a := Focus{Row: rng.Float64() * 15, Col: rng.Float64() * 15}
		b := Focus{Row: rng.Float64() * 15, Col: rng.Float64() * 15}
		if got := StepsToConverge(a, b, 0.02, 0.1, 266); got < 0 {
			t.Fatalf("%+v -> %+v did not converge within 266 steps", a, b)
		}
	}
}

func TestMount_MissingContainerIsNoOp(t *testing.T) {
	l := loop.New()
	tw := tween.NewManager(l)
	doc := page.New(tw, page.Options{})
	doc.Layout(100, 100)
	doc.Remove(page.IDCubesBackground)

	fx := Mount(doc, l, tw, nil, OptionsFrom(config.Default()))
	if fx != nil {
		t.Fatal("Mount without a container should return nil")
	}
	fx.OnMove(1, 1)
	fx.Ripple(1, 1)
	fx.ResetAll()
	fx.TiltAt(Focus{})
	fx.HandlePointer(input.PointerEvent{Kind: input.TouchStart})
	fx.SetAutoAnimate(true)
	if fx.Grid() != nil || fx.UserActive() || l.PendingFrames() != 0 || tw.Active() != 0 {
		t.Error("nil effect should do nothing")
	}
	if Mount(nil, l, tw, nil, Options{}) != nil {
		t.Error("Mount(nil doc) should return nil")
	}
}

func TestCellRect_AppliesGaps(t *testing.T) {
	h := newHarness(t, 3, nil)
	r := h.fx.CellRect(1, 2)
	// 30 wide, 2% gap = 0.6, cell = (30 - 1.2) / 3 = 9.6
	if !near(r.W, 9.6) || !near(r.X, 2*(9.6+0.6)) || !near(r.Y, 9.6+0.6) {
		t.Errorf("CellRect(1,2) = %+v", r)
	}
}
