package scene

import "time"

// Effect is a one-shot sound.
type Effect uint8

const (
	EffectSwitch Effect = iota
	EffectMagic
	EffectGrow
	EffectWind
)

func (e Effect) String() string {
	switch e {
	case EffectSwitch:
		return "switch"
	case EffectMagic:
		return "magic"
	case EffectGrow:
		return "grow"
	case EffectWind:
		return "wind"
	default:
		return "unknown"
	}
}

// Renderer receives visual effects. Implementations must not block.
type Renderer interface {
	SetCursorWorldPosition(p Point3)
	SpawnTrailBurst(p Point3)
	SpawnHeart(p Point3)
	RebuildTreeForTheme(index int, theme Theme)
	PulseStar()
	PulseTree()
	SetOrnamentFlicker(active bool)
}

// Audio plays effects and the background melody.
type Audio interface {
	PlayEffect(e Effect)
	// ToggleBackgroundMusic starts or stops the melody and reports
	// whether it is now playing.
	ToggleBackgroundMusic() bool
}

// UI shows transient status text. Empty text clears it.
type UI interface {
	ShowFeedback(text string, d time.Duration)
}

// Hooks bundles the collaborators the scene drives. Nil members are
// replaced with no-ops by WithDefaults.
type Hooks struct {
	Renderer Renderer
	Audio    Audio
	UI       UI
}

// WithDefaults fills nil members with no-op implementations.
func (h Hooks) WithDefaults() Hooks {
	if h.Renderer == nil {
		h.Renderer = NopRenderer{}
	}
	if h.Audio == nil {
		h.Audio = &NopAudio{}
	}
	if h.UI == nil {
		h.UI = NopUI{}
	}
	return h
}

// NopRenderer ignores every call.
type NopRenderer struct{}

func (NopRenderer) SetCursorWorldPosition(Point3)  {}
func (NopRenderer) SpawnTrailBurst(Point3)         {}
func (NopRenderer) SpawnHeart(Point3)              {}
func (NopRenderer) RebuildTreeForTheme(int, Theme) {}
func (NopRenderer) PulseStar()                     {}
func (NopRenderer) PulseTree()                     {}
func (NopRenderer) SetOrnamentFlicker(bool)        {}

// NopAudio tracks the music toggle without producing sound.
type NopAudio struct {
	playing bool
}

func (*NopAudio) PlayEffect(Effect) {}

func (a *NopAudio) ToggleBackgroundMusic() bool {
	a.playing = !a.playing
	return a.playing
}

// NopUI ignores feedback.
type NopUI struct{}

func (NopUI) ShowFeedback(string, time.Duration) {}

// Fanout forwards feedback to several sinks, e.g. the browser hub and the
// system tray.
type Fanout []UI

func (f Fanout) ShowFeedback(text string, d time.Duration) {
	for _, ui := range f {
		ui.ShowFeedback(text, d)
	}
}
