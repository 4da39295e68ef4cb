// Package engine turns per-frame hand landmarks into scene updates. It owns
// the scene state and must be driven from a single goroutine.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/ayusman/christmasmagic/internal/detector"
	"github.com/ayusman/christmasmagic/internal/gesture"
	"github.com/ayusman/christmasmagic/internal/scene"
)

// DefaultHeartChance is the per-frame probability of a heart while Love is held.
const DefaultHeartChance = 0.2

// Frame is one inference result. A nil Hand means no hand was visible.
type Frame struct {
	Hand *detector.HandLandmarks
	At   time.Time
}

// Result describes what the engine did with a frame.
type Result struct {
	At       time.Time
	Hand     bool
	Gesture  gesture.Label
	Decision gesture.Decision
	Features gesture.Features
}

// Fired reports whether the frame triggered a one-shot action. An
// unrecognised pose still takes the lock but runs no action, so it does
// not count.
func (r Result) Fired() bool {
	return r.Hand && r.Decision == gesture.Fire && r.Gesture != gesture.None
}

// Config holds the engine tuning.
type Config struct {
	Thresholds  gesture.Thresholds
	Cooldown    time.Duration
	HeartChance float64
	Motion      scene.MotionConfig
	Camera      scene.Camera
	Actions     scene.ActionsConfig
	// ThemeIndex is the starting palette, e.g. restored from settings.
	// Out-of-range values wrap.
	ThemeIndex int
	// Rand returns a number in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		Thresholds:  gesture.DefaultThresholds(),
		Cooldown:    gesture.DefaultCooldown,
		HeartChance: DefaultHeartChance,
		Motion:      scene.DefaultMotionConfig(),
		Camera:      scene.DefaultCamera(),
	}
}

// Engine runs the extractor, classifier, dispatcher and action table.
type Engine struct {
	config     Config
	state      *scene.State
	classifier *gesture.Classifier
	dispatcher *gesture.Dispatcher
	actions    *scene.Actions
	motion     *scene.Motion
	renderer   scene.Renderer
	clock      scene.Clock
}

// New creates an Engine driving hooks. themes must not be empty.
func New(config Config, themes []scene.Theme, hooks scene.Hooks) (*Engine, error) {
	hooks = hooks.WithDefaults()
	actions, err := scene.NewActions(themes, hooks, config.Actions)
	if err != nil {
		return nil, err
	}
	if config.Rand == nil {
		config.Rand = rand.Float64
	}
	if config.Thresholds == (gesture.Thresholds{}) {
		config.Thresholds = gesture.DefaultThresholds()
	}
	if config.Camera.FOV <= 0 {
		config.Camera = scene.DefaultCamera()
	}

	state := scene.NewState()
	n := len(themes)
	state.ThemeIndex = (config.ThemeIndex%n + n) % n

	return &Engine{
		config:     config,
		state:      state,
		classifier: gesture.NewClassifier(config.Thresholds),
		dispatcher: gesture.NewDispatcher(config.Cooldown),
		actions:    actions,
		motion:     scene.NewMotion(config.Motion, config.Camera),
		renderer:   hooks.Renderer,
	}, nil
}

// HandleFrame processes one inference result.
//
// With a hand: cursor and wind update first, then the gesture is classified
// and dispatched, then held effects (trail, hearts) run. Without a hand the
// dispatcher resets, wind decays and feedback clears.
func (e *Engine) HandleFrame(f Frame) Result {
	s := e.state
	if !f.Hand.Valid() {
		wasDetected := s.HandDetected
		e.motion.NoHand(s)
		e.dispatcher.Reset()
		if wasDetected {
			e.renderer.SetCursorWorldPosition(s.Cursor)
			e.actions.ClearFeedback()
		}
		return Result{At: f.At, Gesture: gesture.None, Decision: gesture.Ignore}
	}

	e.motion.Hand(s, f.Hand)
	e.renderer.SetCursorWorldPosition(s.Cursor)

	features := gesture.Extract(f.Hand, e.config.Thresholds)
	label := e.classifier.Classify(features)
	decision := e.dispatcher.Observe(label, f.At)
	if decision == gesture.Fire {
		e.actions.Apply(s, label, f.At)
	}
	s.LastGesture = e.dispatcher.Last()
	e.motion.SetFist(s, label == gesture.Fist)

	switch label {
	case gesture.Point:
		e.renderer.SpawnTrailBurst(s.Cursor)
	case gesture.Love:
		if e.config.Rand() < e.config.HeartChance {
			e.renderer.SpawnHeart(s.Cursor)
		}
	}

	return Result{
		At:       f.At,
		Hand:     true,
		Gesture:  label,
		Decision: decision,
		Features: features,
	}
}

// Trigger runs the action bound to l as if it had fired, without touching
// the dispatcher. The tray uses it for music and theme controls.
func (e *Engine) Trigger(l gesture.Label, now time.Time) {
	e.actions.Apply(e.state, l, now)
}

// Tick advances time-driven state on a render tick and returns the scaled
// animation delta.
func (e *Engine) Tick(now time.Time) time.Duration {
	e.actions.Tick(e.state, now)
	delta := e.clock.Tick(now)
	return time.Duration(float64(delta) * float64(e.state.TimeScale))
}

// Pause stops the animation clock while the scene is hidden.
func (e *Engine) Pause() {
	e.clock.Pause()
}

// Resume restarts the animation clock without catching up.
func (e *Engine) Resume(now time.Time) {
	e.clock.Resume(now)
}

// Paused reports whether the animation clock is paused.
func (e *Engine) Paused() bool {
	return e.clock.Paused()
}

// Elapsed is the unscaled animation time accumulated so far.
func (e *Engine) Elapsed() time.Duration {
	return e.clock.Elapsed()
}

// State returns a snapshot of the scene state.
func (e *Engine) State() scene.State {
	return e.state.Snapshot()
}

// Themes returns the palettes in use.
func (e *Engine) Themes() []scene.Theme {
	return e.actions.Themes()
}

// Locked reports whether the dispatcher lock is held at now.
func (e *Engine) Locked(now time.Time) bool {
	return e.dispatcher.Locked(now)
}
