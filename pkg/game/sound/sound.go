// Package sound plays the short chime that accompanies a ripple.
package sound

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone returns d of a freq Hz sine that fades linearly to silence so the
// chime does not click when it stops.
func Tone(freq float64, d time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	n := rate.N(d)
	return effects.Transition(beep.Take(n, sine), n, 1, 0, effects.TransitionLinear), nil
}

// Chime plays ripple tones through the speaker. The zero value is silent;
// call Initialize to open the audio device.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	enabled     bool

	Frequency float64
	Length    time.Duration
	Volume    float64 // linear gain in (0, 1]
}

// NewChime creates a chime with the given tone
func NewChime(freq float64, length time.Duration) *Chime {
	return &Chime{
		mixer:     &beep.Mixer{},
		Frequency: freq,
		Length:    length,
		Volume:    0.3,
	}
}

// Initialize opens the speaker. Failure leaves the chime disabled; it is logged
// and returned but never fatal.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		log.Printf("Audio unavailable, ripple chime disabled: %v", err)
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	c.enabled = true
	return nil
}

// Enabled reports whether chimes are audible
func (c *Chime) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized && c.enabled
}

// SetEnabled mutes or unmutes the chime. It cannot enable an uninitialised speaker.
func (c *Chime) SetEnabled(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = on
}

// Play queues one chime. Silent when disabled.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || !c.enabled {
		return
	}
	s, err := Tone(c.Frequency, c.Length, sampleRate)
	if err != nil {
		log.Printf("Chime disabled: %v", err)
		c.enabled = false
		return
	}
	speaker.Lock()
	c.mixer.Add(gain(s, c.Volume))
	speaker.Unlock()
}

// Cleanup silences everything still queued
func (c *Chime) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(vol, 1))}
}
