package audio

import (
	"time"

	"github.com/faiface/beep"
)

// Note is one melody step. Beats scale both the slot and the tone length.
type Note struct {
	Pitch string
	Beats float64
}

// Pitches maps note names to frequencies in Hz.
var Pitches = map[string]float64{
	"C4": 261.63,
	"D4": 293.66,
	"E4": 329.63,
	"F4": 349.23,
	"G4": 392.00,
	"A4": 440.00,
	"B4": 493.88,
}

// JingleBells is the background melody.
var JingleBells = []Note{
	{"E4", 0.25}, {"E4", 0.25}, {"E4", 0.5},
	{"E4", 0.25}, {"E4", 0.25}, {"E4", 0.5},
	{"E4", 0.25}, {"G4", 0.25}, {"C4", 0.35}, {"D4", 0.15}, {"E4", 1.0},
	{"F4", 0.25}, {"F4", 0.25}, {"F4", 0.35}, {"F4", 0.15},
	{"F4", 0.25}, {"E4", 0.25}, {"E4", 0.25}, {"E4", 0.15}, {"E4", 0.1},
	{"E4", 0.25}, {"D4", 0.25}, {"D4", 0.25}, {"E4", 0.25}, {"D4", 0.5}, {"G4", 0.5},
}

const (
	// slotPerBeat is the time between note onsets per beat.
	slotPerBeat = 500 * time.Millisecond
	// tonePerBeat is how long each note sounds per beat; notes overlap.
	tonePerBeat = 800 * time.Millisecond
	noteGain    = 0.1
)

// NoteTone returns the voice for a melody note.
func NoteTone(n Note) Tone {
	return Tone{
		Wave:     Sine,
		Freq:     Const(Pitches[n.Pitch]),
		Gain:     Ramp{From: noteGain, To: 0.01, Over: beats(tonePerBeat, n.Beats), Exponential: true},
		Duration: beats(tonePerBeat, n.Beats),
	}
}

func beats(per time.Duration, n float64) time.Duration {
	return time.Duration(float64(per) * n)
}

// Melody loops a note sequence forever. It never drains.
type Melody struct {
	sr    beep.SampleRate
	notes []Note

	voices    beep.Mixer
	next      int
	untilNext int
}

// NewMelody creates a looping melody starting at its first note.
func NewMelody(sr beep.SampleRate, notes []Note) *Melody {
	return &Melody{sr: sr, notes: notes}
}

// Length is the time one pass through the melody takes.
func (m *Melody) Length() time.Duration {
	var total time.Duration
	for _, n := range m.notes {
		total += beats(slotPerBeat, n.Beats)
	}
	return total
}

// Stream implements beep.Streamer.
func (m *Melody) Stream(samples [][2]float64) (n int, ok bool) {
	if len(m.notes) == 0 {
		clear(samples)
		return len(samples), true
	}
	for n < len(samples) {
		if m.untilNext <= 0 {
			note := m.notes[m.next]
			m.voices.Add(NoteTone(note).Streamer(m.sr))
			m.untilNext = max(1, m.sr.N(beats(slotPerBeat, note.Beats)))
			m.next = (m.next + 1) % len(m.notes)
		}
		chunk := min(m.untilNext, len(samples)-n)
		m.voices.Stream(samples[n : n+chunk])
		n += chunk
		m.untilNext -= chunk
	}
	return n, true
}

// Err implements beep.Streamer.
func (m *Melody) Err() error {
	return nil
}
