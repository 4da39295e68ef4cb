package scene

import (
	"fmt"
	"sync"
	"time"
)

// Recorder implements Renderer, Audio and UI by recording every call.
// Tests of the engine, app and server use it as their hook sink.
type Recorder struct {
	mu       sync.Mutex
	calls    []string
	feedback []string
	playing  bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Hooks returns a Hooks bundle backed by r.
func (r *Recorder) Hooks() Hooks {
	return Hooks{Renderer: r, Audio: r, UI: r}
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Feedback returns the feedback texts shown, including clears as "".
func (r *Recorder) Feedback() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.feedback...)
}

// Count returns how many recorded calls equal call.
func (r *Recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.feedback = nil
}

func (r *Recorder) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *Recorder) SetCursorWorldPosition(Point3) { r.record("cursor") }
func (r *Recorder) SpawnTrailBurst(Point3)        { r.record("trail") }
func (r *Recorder) SpawnHeart(Point3)             { r.record("heart") }
func (r *Recorder) PulseStar()                    { r.record("pulseStar") }
func (r *Recorder) PulseTree()                    { r.record("pulseTree") }

func (r *Recorder) RebuildTreeForTheme(index int, _ Theme) {
	r.record(fmt.Sprintf("theme:%d", index))
}

func (r *Recorder) SetOrnamentFlicker(active bool) {
	r.record(fmt.Sprintf("flicker:%t", active))
}

func (r *Recorder) PlayEffect(e Effect) {
	r.record("effect:" + e.String())
}

func (r *Recorder) ToggleBackgroundMusic() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing = !r.playing
	r.calls = append(r.calls, fmt.Sprintf("music:%t", r.playing))
	return r.playing
}

func (r *Recorder) ShowFeedback(text string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, text)
	r.calls = append(r.calls, "feedback:"+text)
}
