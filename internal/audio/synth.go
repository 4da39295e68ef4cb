// Package audio synthesizes the scene's sound effects and background melody
// and plays them through the system speaker.
package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// Wave is an oscillator shape.
type Wave uint8

const (
	Sine Wave = iota
	Square
	Triangle
	Sawtooth
)

// sample returns the wave value at phase in [0, 1).
func (w Wave) sample(phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case Sawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Ramp moves a parameter from From to To over Over, then holds To.
// A zero Over holds From.
type Ramp struct {
	From, To    float64
	Over        time.Duration
	Exponential bool
}

// Const is a Ramp that never changes.
func Const(v float64) Ramp {
	return Ramp{From: v, To: v}
}

func (r Ramp) at(t time.Duration) float64 {
	if r.Over <= 0 {
		return r.From
	}
	if t >= r.Over {
		return r.To
	}
	frac := float64(t) / float64(r.Over)
	if r.Exponential && r.From > 0 && r.To > 0 {
		return r.From * math.Pow(r.To/r.From, frac)
	}
	return r.From + (r.To-r.From)*frac
}

// Tone is a single oscillator voice with frequency and gain envelopes.
type Tone struct {
	Wave     Wave
	Freq     Ramp
	Gain     Ramp
	Duration time.Duration
}

// Streamer renders the tone at sr. The streamer ends after Duration.
func (t Tone) Streamer(sr beep.SampleRate) beep.Streamer {
	total := sr.N(t.Duration)
	pos := 0
	phase := 0.0

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			at := sr.D(pos)
			v := t.Gain.at(at) * t.Wave.sample(phase)
			samples[i][0] = v
			samples[i][1] = v

			phase += t.Freq.at(at) / float64(sr)
			phase -= math.Floor(phase)
			pos++
			n++
		}
		return n, true
	})
}
