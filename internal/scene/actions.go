package scene

import (
	"fmt"
	"time"

	"github.com/ayusman/christmasmagic/internal/gesture"
)

const (
	// DefaultFeedbackDuration is how long feedback text stays visible.
	DefaultFeedbackDuration = 2 * time.Second
	// DefaultStarDuration is how long the star stays lit after Open.
	DefaultStarDuration = 3 * time.Second
)

// ActionsConfig tunes the action table.
type ActionsConfig struct {
	Feedback     time.Duration
	StarDuration time.Duration
}

// Actions maps fired gestures to state mutations and hook calls.
type Actions struct {
	themes []Theme
	hooks  Hooks
	config ActionsConfig

	starUntil time.Time
}

// NewActions creates the action table. At least one theme is required.
func NewActions(themes []Theme, hooks Hooks, config ActionsConfig) (*Actions, error) {
	if len(themes) == 0 {
		return nil, ErrNoThemes
	}
	if config.Feedback <= 0 {
		config.Feedback = DefaultFeedbackDuration
	}
	if config.StarDuration <= 0 {
		config.StarDuration = DefaultStarDuration
	}
	return &Actions{
		themes: themes,
		hooks:  hooks.WithDefaults(),
		config: config,
	}, nil
}

// Themes returns the palettes Shaka cycles through.
func (a *Actions) Themes() []Theme {
	return a.themes
}

// Describe returns a short description of what label does when fired.
func Describe(l gesture.Label) string {
	switch l {
	case gesture.Victory:
		return "toggle rainbow mode"
	case gesture.OK:
		return "toggle background music"
	case gesture.Open:
		return "light the star"
	case gesture.Fist:
		return "freeze time while held"
	case gesture.ThumbsUp:
		return "charge the tree"
	case gesture.Shaka:
		return "next color theme"
	case gesture.Love:
		return "spawn hearts while held"
	case gesture.Point:
		return "draw a magic trail while held"
	default:
		return "nothing"
	}
}

// Apply runs the action bound to a fired gesture. Every mutation and hook
// call completes before Apply returns.
func (a *Actions) Apply(s *State, l gesture.Label, now time.Time) {
	switch l {
	case gesture.Victory:
		s.RainbowMode = !s.RainbowMode
		a.hooks.Audio.PlayEffect(EffectSwitch)
		if s.RainbowMode {
			a.feedback("Rainbow mode")
		} else {
			a.feedback("Pure snow mode")
		}

	case gesture.OK:
		s.BGMPlaying = a.hooks.Audio.ToggleBackgroundMusic()
		if s.BGMPlaying {
			a.feedback("Music on")
		} else {
			a.feedback("Music off")
		}

	case gesture.Open:
		if s.StarActive {
			return
		}
		s.StarActive = true
		a.starUntil = now.Add(a.config.StarDuration)
		a.hooks.Audio.PlayEffect(EffectMagic)
		a.feedback("Star of Bethlehem")
		a.hooks.Renderer.PulseStar()
		a.hooks.Renderer.SetOrnamentFlicker(true)

	case gesture.Fist:
		a.feedback("Time frozen")

	case gesture.ThumbsUp:
		a.hooks.Audio.PlayEffect(EffectGrow)
		a.feedback("Tree charged")
		a.hooks.Renderer.PulseTree()

	case gesture.Shaka:
		a.hooks.Audio.PlayEffect(EffectSwitch)
		s.ThemeIndex = (s.ThemeIndex + 1) % len(a.themes)
		theme := a.themes[s.ThemeIndex]
		a.hooks.Renderer.RebuildTreeForTheme(s.ThemeIndex, theme)
		a.feedback(fmt.Sprintf("Theme: %s", theme.Name))

	case gesture.Love:
		a.feedback("Merry Christmas")
		a.hooks.Audio.PlayEffect(EffectMagic)

	case gesture.Point, gesture.None:
	}
}

// Tick expires the star once its duration has elapsed.
func (a *Actions) Tick(s *State, now time.Time) {
	if !s.StarActive || now.Before(a.starUntil) {
		return
	}
	s.StarActive = false
	a.starUntil = time.Time{}
	a.hooks.Renderer.SetOrnamentFlicker(false)
}

// ClearFeedback hides any visible feedback text.
func (a *Actions) ClearFeedback() {
	a.hooks.UI.ShowFeedback("", 0)
}

func (a *Actions) feedback(text string) {
	a.hooks.UI.ShowFeedback(text, a.config.Feedback)
}
