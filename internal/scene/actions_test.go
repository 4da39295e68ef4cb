package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/christmasmagic/internal/gesture"
)

var t0 = time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)

func newActions(t *testing.T) (*Actions, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	a, err := NewActions(DefaultThemes(), rec.Hooks(), ActionsConfig{})
	require.NoError(t, err)
	return a, rec
}

func TestNewActions_RequiresThemes(t *testing.T) {
	_, err := NewActions(nil, Hooks{}, ActionsConfig{})
	assert.ErrorIs(t, err, ErrNoThemes)
}

func TestActions_Apply(t *testing.T) {
	tests := []struct {
		name     string
		label    gesture.Label
		calls    []string
		feedback string
		check    func(t *testing.T, s State)
	}{
		{
			name:     "victory toggles rainbow",
			label:    gesture.Victory,
			calls:    []string{"effect:switch", "feedback:Rainbow mode"},
			feedback: "Rainbow mode",
			check: func(t *testing.T, s State) {
				assert.True(t, s.RainbowMode)
			},
		},
		{
			name:     "ok toggles music",
			label:    gesture.OK,
			calls:    []string{"music:true", "feedback:Music on"},
			feedback: "Music on",
			check: func(t *testing.T, s State) {
				assert.True(t, s.BGMPlaying)
			},
		},
		{
			name:     "open lights the star",
			label:    gesture.Open,
			calls:    []string{"effect:magic", "feedback:Star of Bethlehem", "pulseStar", "flicker:true"},
			feedback: "Star of Bethlehem",
			check: func(t *testing.T, s State) {
				assert.True(t, s.StarActive)
			},
		},
		{
			name:     "fist only shows feedback",
			label:    gesture.Fist,
			calls:    []string{"feedback:Time frozen"},
			feedback: "Time frozen",
		},
		{
			name:     "thumbs up charges the tree",
			label:    gesture.ThumbsUp,
			calls:    []string{"effect:grow", "feedback:Tree charged", "pulseTree"},
			feedback: "Tree charged",
		},
		{
			name:     "shaka advances the theme",
			label:    gesture.Shaka,
			calls:    []string{"effect:switch", "theme:1", "feedback:Theme: Frozen"},
			feedback: "Theme: Frozen",
			check: func(t *testing.T, s State) {
				assert.Equal(t, 1, s.ThemeIndex)
			},
		},
		{
			name:     "love plays magic",
			label:    gesture.Love,
			calls:    []string{"feedback:Merry Christmas", "effect:magic"},
			feedback: "Merry Christmas",
		},
		{
			name:  "point does nothing",
			label: gesture.Point,
		},
		{
			name:  "none does nothing",
			label: gesture.None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rec := newActions(t)
			s := NewState()

			a.Apply(s, tt.label, t0)

			assert.Equal(t, tt.calls, rec.Calls())
			if tt.feedback != "" {
				assert.Equal(t, []string{tt.feedback}, rec.Feedback())
			}
			if tt.check != nil {
				tt.check(t, *s)
			}
		})
	}
}

func TestActions_VictoryTwiceRestoresPureSnow(t *testing.T) {
	a, rec := newActions(t)
	s := NewState()

	a.Apply(s, gesture.Victory, t0)
	a.Apply(s, gesture.Victory, t0.Add(time.Second))

	assert.False(t, s.RainbowMode)
	assert.Equal(t, []string{"Rainbow mode", "Pure snow mode"}, rec.Feedback())
}

func TestActions_MusicTracksPlayer(t *testing.T) {
	a, rec := newActions(t)
	s := NewState()

	a.Apply(s, gesture.OK, t0)
	a.Apply(s, gesture.OK, t0.Add(time.Second))

	assert.False(t, s.BGMPlaying)
	assert.Equal(t, []string{"Music on", "Music off"}, rec.Feedback())
}

func TestActions_ShakaCyclesBackToStart(t *testing.T) {
	a, _ := newActions(t)
	s := NewState()
	n := len(a.Themes())

	for i := 0; i < n; i++ {
		a.Apply(s, gesture.Shaka, t0.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, 0, s.ThemeIndex)
}

func TestActions_StarExpires(t *testing.T) {
	a, rec := newActions(t)
	s := NewState()

	a.Apply(s, gesture.Open, t0)
	require.True(t, s.StarActive)

	a.Tick(s, t0.Add(2999*time.Millisecond))
	assert.True(t, s.StarActive, "star should still be lit just before 3s")

	a.Tick(s, t0.Add(3*time.Second))
	assert.False(t, s.StarActive)
	assert.Equal(t, 1, rec.Count("flicker:false"))

	// Further ticks are no-ops.
	a.Tick(s, t0.Add(4*time.Second))
	assert.Equal(t, 1, rec.Count("flicker:false"))
}

func TestActions_OpenWhileStarActive(t *testing.T) {
	a, rec := newActions(t)
	s := NewState()

	a.Apply(s, gesture.Open, t0)
	rec.Reset()

	a.Apply(s, gesture.Open, t0.Add(time.Second))
	assert.Empty(t, rec.Calls())

	// The second Open must not extend the expiry.
	a.Tick(s, t0.Add(3*time.Second))
	assert.False(t, s.StarActive)

	a.Apply(s, gesture.Open, t0.Add(4*time.Second))
	assert.True(t, s.StarActive)
}

func TestActions_ClearFeedback(t *testing.T) {
	a, rec := newActions(t)
	a.ClearFeedback()
	assert.Equal(t, []string{""}, rec.Feedback())
}

func TestDescribe(t *testing.T) {
	for _, l := range gesture.Labels() {
		assert.NotEmpty(t, Describe(l), l.String())
	}
	assert.Equal(t, "nothing", Describe(gesture.None))
}

func TestHooks_WithDefaults(t *testing.T) {
	h := Hooks{}.WithDefaults()
	require.NotNil(t, h.Renderer)
	require.NotNil(t, h.Audio)
	require.NotNil(t, h.UI)

	assert.True(t, h.Audio.ToggleBackgroundMusic())
	assert.False(t, h.Audio.ToggleBackgroundMusic())
}

func TestFanout(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Fanout{a, b}.ShowFeedback("hello", time.Second)

	assert.Equal(t, []string{"hello"}, a.Feedback())
	assert.Equal(t, []string{"hello"}, b.Feedback())
}
