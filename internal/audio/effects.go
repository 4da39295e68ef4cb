package audio

import (
	"time"

	"github.com/ayusman/christmasmagic/internal/scene"
)

// EffectTone returns the voice for a one-shot effect.
func EffectTone(e scene.Effect) Tone {
	switch e {
	case scene.EffectMagic:
		return Tone{
			Wave:     Triangle,
			Freq:     Ramp{From: 500, To: 1500, Over: 500 * time.Millisecond},
			Gain:     Ramp{From: 0.1, To: 0, Over: time.Second},
			Duration: time.Second,
		}
	case scene.EffectWind:
		return Tone{
			Wave:     Sawtooth,
			Freq:     Ramp{From: 100, To: 50, Over: time.Second, Exponential: true},
			Gain:     Ramp{From: 0.05, To: 0, Over: time.Second},
			Duration: time.Second,
		}
	case scene.EffectGrow:
		return Tone{
			Wave:     Sine,
			Freq:     Ramp{From: 200, To: 400, Over: 300 * time.Millisecond},
			Gain:     Ramp{From: 0.1, To: 0, Over: 300 * time.Millisecond},
			Duration: 300 * time.Millisecond,
		}
	default: // switch
		return Tone{
			Wave:     Square,
			Freq:     Const(880),
			Gain:     Ramp{From: 0.05, To: 0.01, Over: 100 * time.Millisecond, Exponential: true},
			Duration: 100 * time.Millisecond,
		}
	}
}
