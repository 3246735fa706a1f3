// Package tween is the animation facility: it interpolates float fields towards
// target values over time with an ease curve.
//
// Tweens are grouped by a key (usually the pointer of the object that owns the
// fields). A tween created with Overwrite kills every other tween on the same key,
// including ones still waiting on their delay. Without Overwrite, tweens on the
// same fields coexist and the most recently created one wins while both run.
//
// Start values are captured when a tween's delay elapses, not when it is created,
// so chained tweens (flash, then fade back) start from wherever the previous one left
// the fields.
package tween

import (
	"time"

	"github.com/zyedidia/generic/mapset"
)

// Clock supplies the current time. *loop.Loop satisfies it.
type Clock interface {
	Now() time.Duration
}

// Options control a single tween.
type Options struct {
	Duration  time.Duration
	Delay     time.Duration
	Ease      Ease
	Overwrite bool

	// OnComplete runs once after the final value has been written.
	OnComplete func()
}

// Tween is one running interpolation.
type Tween struct {
	id     uint64
	key    any
	fields []*float64
	from   []float64
	to     []float64

	start    time.Duration
	duration time.Duration
	ease     Ease

	started bool
	done    bool
	killed  bool

	onComplete func()
}

// Key returns the key the tween was registered under
func (t *Tween) Key() any { return t.key }

// Done reports whether the tween has finished or was killed
func (t *Tween) Done() bool { return t.done || t.killed }

// Manager owns every running tween and advances them against its clock.
type Manager struct {
	clock  Clock
	tweens []*Tween
	nextID uint64
}

// NewManager creates a manager reading time from clock
func NewManager(clock Clock) *Manager {
	return &Manager{clock: clock}
}

// To animates each fields[i] towards to[i]. When to is shorter than fields it is
// repeated, so a four-channel colour can drive any number of faces.
// Returns nil when there is nothing to animate.
func (m *Manager) To(key any, fields []*float64, to []float64, opts Options) *Tween {
	if len(fields) == 0 || len(to) == 0 {
		return nil
	}
	if opts.Overwrite {
		m.Kill(key)
	}
	ease := opts.Ease
	if ease == nil {
		ease = Linear
	}

	targets := make([]float64, len(fields))
	for i := range targets {
		targets[i] = to[i%len(to)]
	}

	m.nextID++
	t := &Tween{
		id:         m.nextID,
		key:        key,
		fields:     fields,
		to:         targets,
		start:      m.clock.Now() + opts.Delay,
		duration:   opts.Duration,
		ease:       ease,
		onComplete: opts.OnComplete,
	}
	m.tweens = append(m.tweens, t)
	return t
}

// Kill stops every tween registered under any of keys. Fields keep their current values.
func (m *Manager) Kill(keys ...any) {
	if len(keys) == 0 {
		return
	}
	doomed := mapset.New[any]()
	for _, k := range keys {
		doomed.Put(k)
	}
	for _, t := range m.tweens {
		if doomed.Has(t.key) {
			t.killed = true
		}
	}
}

// KillAll stops every tween
func (m *Manager) KillAll() {
	for _, t := range m.tweens {
		t.killed = true
	}
	m.tweens = nil
}

// IsTweening reports whether key has a live tween, delayed ones included
func (m *Manager) IsTweening(key any) bool {
	for _, t := range m.tweens {
		if t.key == key && !t.Done() {
			return true
		}
	}
	return false
}

// Active returns the number of live tweens
func (m *Manager) Active() int {
	n := 0
	for _, t := range m.tweens {
		if !t.Done() {
			n++
		}
	}
	return n
}

// Update writes every started tween's value for the current clock time and
// drops finished ones. Tweens created by OnComplete callbacks are first updated
// on the next call.
func (m *Manager) Update() {
	now := m.clock.Now()
	n := len(m.tweens)
	for i := 0; i < n; i++ {
		t := m.tweens[i]
		if t.killed || now < t.start {
			continue
		}
		if !t.started {
			t.started = true
			t.from = make([]float64, len(t.fields))
			for j, f := range t.fields {
				t.from[j] = *f
			}
		}

		p := 1.0
		if t.duration > 0 {
			p = float64(now-t.start) / float64(t.duration)
			if p > 1 {
				p = 1
			}
		}
		if p >= 1 {
			// the last write lands on the target exactly, not on from+(to-from)*1
			for j, f := range t.fields {
				*f = t.to[j]
			}
			t.done = true
			if t.onComplete != nil {
				t.onComplete()
			}
			continue
		}
		e := t.ease(p)
		for j, f := range t.fields {
			*f = t.from[j] + (t.to[j]-t.from[j])*e
		}
	}

	live := m.tweens[:0]
	for _, t := range m.tweens {
		if !t.Done() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.tweens); i++ {
		m.tweens[i] = nil
	}
	m.tweens = live
}
