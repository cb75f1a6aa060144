package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Cue identifies a short sound effect
type Cue int

const (
	CuePass Cue = iota
	CueFail
	CueOver
	CueTick
)

func (c Cue) String() string {
	switch c {
	case CuePass:
		return "pass"
	case CueFail:
		return "fail"
	case CueOver:
		return "over"
	case CueTick:
		return "tick"
	default:
		return "unknown"
	}
}

// toneGenerator plays a sequence of equal-length sine notes
type toneGenerator struct {
	sr    beep.SampleRate
	notes []float64
	step  int // samples per note
	pos   int
	total int
}

// NewToneGenerator creates a generator playing notes back to back, each for noteLen
func NewToneGenerator(sr beep.SampleRate, noteLen time.Duration, notes ...float64) beep.Streamer {
	step := sr.N(noteLen)
	return &toneGenerator{sr: sr, notes: notes, step: step, total: step * len(notes)}
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		note := g.notes[g.pos/g.step]
		inNote := g.pos % g.step
		t := float64(g.pos) / float64(g.sr)

		// Short attack and release per note to avoid clicks
		env := math.Min(float64(inNote)/float64(g.sr.N(5*time.Millisecond)), 1.0)
		env = math.Min(env, float64(g.step-inNote)/float64(g.sr.N(10*time.Millisecond)))

		sample := 0.2 * env * math.Sin(2*math.Pi*note*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error { return nil }

// BuzzGenerator generates a low square-ish buzz
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Odd harmonics approximate a square wave
		sample := 0.3*math.Sin(2*math.Pi*g.freq*t) +
			0.1*math.Sin(2*math.Pi*g.freq*3*t) +
			0.06*math.Sin(2*math.Pi*g.freq*5*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.4

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error { return nil }

// SweepGenerator glides from one frequency to another with exponential decay
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a sweep lasting d
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, length: sr.N(d)}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.length {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.length {
			return i, true
		}
		progress := float64(g.pos) / float64(g.length)
		freq := g.from + (g.to-g.from)*progress
		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase -= 1
		}

		sample := 0.25 * math.Exp(-progress*3) * math.Sin(2*math.Pi*g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error { return nil }

// streamerFor builds the finite streamer for a cue
func streamerFor(c Cue) beep.Streamer {
	switch c {
	case CuePass:
		return NewToneGenerator(sampleRate, 80*time.Millisecond, 660, 880)
	case CueFail:
		return beep.Take(sampleRate.N(180*time.Millisecond), NewBuzzGenerator(sampleRate, 110))
	case CueOver:
		return NewSweepGenerator(sampleRate, 520, 90, 700*time.Millisecond)
	case CueTick:
		sine, err := generators.SineTone(sampleRate, 1200)
		if err != nil {
			return nil
		}
		return &effects.Volume{
			Streamer: beep.Take(sampleRate.N(25*time.Millisecond), sine),
			Base:     2,
			Volume:   -2,
		}
	default:
		return nil
	}
}
