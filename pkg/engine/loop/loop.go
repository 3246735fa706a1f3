// Package loop is the cooperative, single-threaded scheduler every effect runs on.
//
// A Loop owns a monotonic clock that only moves when Advance is called, once per
// rendered frame. Work is deferred either to "the next frame" (RequestFrame) or to a
// point in time (SetTimeout, SetInterval). Nothing runs concurrently: every callback
// is invoked from Advance on the caller's goroutine, so state touched only by
// callbacks needs no locking.
package loop

import (
	"sort"
	"time"
)

// FrameID identifies a pending per-frame callback. The zero value is never issued.
type FrameID uint64

// TimerID identifies a pending timeout or interval. The zero value is never issued.
type TimerID uint64

type frameRequest struct {
	id        FrameID
	fn        func()
	cancelled bool
}

type timer struct {
	id       TimerID
	due      time.Duration
	interval time.Duration // 0 for one-shot timeouts
	fn       func()
	cleared  bool
}

// Loop is a deterministic frame/timer scheduler.
type Loop struct {
	now    time.Duration
	frames uint64
	nextID uint64

	pending []*frameRequest
	running []*frameRequest
	timers  []*timer
}

// New creates a loop whose clock starts at zero
func New() *Loop {
	return &Loop{}
}

// Now returns the loop clock
func (l *Loop) Now() time.Duration {
	return l.now
}

// Frames returns how many frames have been advanced
func (l *Loop) Frames() uint64 {
	return l.frames
}

func (l *Loop) issue() uint64 {
	l.nextID++
	return l.nextID
}

// RequestFrame schedules fn to run once during the next Advance.
// Callbacks requested while a frame is running are deferred to the following frame.
func (l *Loop) RequestFrame(fn func()) FrameID {
	id := FrameID(l.issue())
	l.pending = append(l.pending, &frameRequest{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame callback. Unknown or already-run ids are ignored.
func (l *Loop) CancelFrame(id FrameID) {
	if id == 0 {
		return
	}
	for i, req := range l.pending {
		if req.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
	// Still queued in the frame currently being run.
	for _, req := range l.running {
		if req.id == id {
			req.cancelled = true
			return
		}
	}
}

// PendingFrames returns the number of frame callbacks waiting for the next Advance
func (l *Loop) PendingFrames() int {
	return len(l.pending)
}

// SetTimeout runs fn once when the clock reaches Now()+d
func (l *Loop) SetTimeout(d time.Duration, fn func()) TimerID {
	return l.addTimer(d, 0, fn)
}

// SetInterval runs fn every d until cleared. A non-positive d is treated as one nanosecond.
func (l *Loop) SetInterval(d time.Duration, fn func()) TimerID {
	if d <= 0 {
		d = time.Nanosecond
	}
	return l.addTimer(d, d, fn)
}

func (l *Loop) addTimer(d, interval time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	t := &timer{
		id:       TimerID(l.issue()),
		due:      l.now + d,
		interval: interval,
		fn:       fn,
	}
	l.timers = append(l.timers, t)
	return t.id
}

// ClearTimer cancels a pending timeout or interval. Unknown ids are ignored.
func (l *Loop) ClearTimer(id TimerID) {
	if id == 0 {
		return
	}
	for i, t := range l.timers {
		if t.id == id {
			t.cleared = true
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
}

// ActiveTimers returns the number of timeouts and intervals still pending
func (l *Loop) ActiveTimers() int {
	return len(l.timers)
}

// Advance moves the clock forward by dt, fires every timer that became due
// (in due order, intervals once per elapsed period), then runs the frame
// callbacks that were pending when the frame started.
func (l *Loop) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	l.now += dt
	l.frames++

	for {
		t := l.nextDue()
		if t == nil {
			break
		}
		if t.interval > 0 {
			t.due += t.interval
		} else {
			l.ClearTimer(t.id)
		}
		t.fn()
	}

	l.running = l.pending
	l.pending = nil
	for _, req := range l.running {
		if !req.cancelled {
			req.fn()
		}
	}
	l.running = nil
}

// nextDue returns the earliest timer due at or before now, or nil
func (l *Loop) nextDue() *timer {
	if len(l.timers) == 0 {
		return nil
	}
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].due == l.timers[j].due {
			return l.timers[i].id < l.timers[j].id
		}
		return l.timers[i].due < l.timers[j].due
	})
	t := l.timers[0]
	if t.cleared || t.due > l.now {
		return nil
	}
	return t
}
