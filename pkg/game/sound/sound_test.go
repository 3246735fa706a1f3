package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestTone_LengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	s, err := Tone(880, 50*time.Millisecond, rate)
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if math.Abs(buf[i][0]) > 1 || buf[i][0] != buf[i][1] {
				t.Fatalf("sample %d = %v out of range or not mono", total+i, buf[i])
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if want := rate.N(50 * time.Millisecond); total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}

func TestTone_FadesOut(t *testing.T) {
	rate := beep.SampleRate(8000)
	s, err := Tone(440, 100*time.Millisecond, rate)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([][2]float64, rate.N(100*time.Millisecond))
	n, _ := s.Stream(buf)

	peak := func(from, to int) float64 {
		m := 0.0
		for i := from; i < to; i++ {
			m = math.Max(m, math.Abs(buf[i][0]))
		}
		return m
	}
	if head, tail := peak(0, n/4), peak(3*n/4, n); tail >= head {
		t.Errorf("tail peak %v should be below head peak %v", tail, head)
	}
}

func TestTone_AboveNyquist(t *testing.T) {
	if _, err := Tone(5000, 10*time.Millisecond, beep.SampleRate(8000)); err == nil {
		t.Error("expected an error for a tone above half the sample rate")
	}
}

func TestChime_SilentUntilInitialized(t *testing.T) {
	c := NewChime(880, 50*time.Millisecond)
	c.SetEnabled(true)
	if c.Enabled() {
		t.Error("chime should stay disabled without a speaker")
	}
	c.Play()
	c.Cleanup()
}
