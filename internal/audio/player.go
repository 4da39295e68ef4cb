package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/ayusman/christmasmagic/internal/scene"
)

// Config holds audio output settings.
type Config struct {
	Enabled    bool
	SampleRate int
	Volume     float64
	Buffer     time.Duration
}

// DefaultConfig returns the standard audio settings.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		SampleRate: 44100,
		Volume:     0.5,
		Buffer:     100 * time.Millisecond,
	}
}

// Player mixes effect voices and the background melody into one stream.
// It implements scene.Audio and beep.Streamer.
type Player struct {
	config Config
	sr     beep.SampleRate
	log    zerolog.Logger

	mu      sync.Mutex
	effects beep.Mixer
	melody  *Melody
	buf     [][2]float64
}

// NewPlayer creates a Player. Call Start to route it to the speaker.
func NewPlayer(config Config, log zerolog.Logger) *Player {
	def := DefaultConfig()
	if config.SampleRate <= 0 {
		config.SampleRate = def.SampleRate
	}
	if config.Volume < 0 {
		config.Volume = def.Volume
	}
	if config.Buffer <= 0 {
		config.Buffer = def.Buffer
	}
	return &Player{
		config: config,
		sr:     beep.SampleRate(config.SampleRate),
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// SampleRate returns the output sample rate.
func (p *Player) SampleRate() beep.SampleRate {
	return p.sr
}

// Start opens the speaker and begins playback. A disabled player is a no-op.
func (p *Player) Start() error {
	if !p.config.Enabled {
		p.log.Info().Msg("audio output disabled")
		return nil
	}
	if err := speaker.Init(p.sr, p.sr.N(p.config.Buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p)
	p.log.Info().Int("sample_rate", int(p.sr)).Float64("volume", p.config.Volume).Msg("audio output started")
	return nil
}

// Close stops speaker playback.
func (p *Player) Close() {
	if p.config.Enabled {
		speaker.Clear()
	}
}

// PlayEffect queues a one-shot effect.
func (p *Player) PlayEffect(e scene.Effect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.effects.Add(EffectTone(e).Streamer(p.sr))
	p.log.Debug().Stringer("effect", e).Msg("play effect")
}

// ToggleBackgroundMusic starts the melody from its first note or stops it.
func (p *Player) ToggleBackgroundMusic() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.melody != nil {
		p.melody = nil
	} else {
		p.melody = NewMelody(p.sr, JingleBells)
	}
	playing := p.melody != nil
	p.log.Debug().Bool("playing", playing).Msg("toggle background music")
	return playing
}

// MusicPlaying reports whether the melody is on.
func (p *Player) MusicPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.melody != nil
}

// ActiveEffects returns the number of effect voices still sounding.
func (p *Player) ActiveEffects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.effects.Len()
}

// Stream implements beep.Streamer. It never drains.
func (p *Player) Stream(samples [][2]float64) (n int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.effects.Stream(samples)
	if p.melody != nil {
		if cap(p.buf) < len(samples) {
			p.buf = make([][2]float64, len(samples))
		}
		buf := p.buf[:len(samples)]
		p.melody.Stream(buf)
		for i := range samples {
			samples[i][0] += buf[i][0]
			samples[i][1] += buf[i][1]
		}
	}
	for i := range samples {
		samples[i][0] *= p.config.Volume
		samples[i][1] *= p.config.Volume
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (p *Player) Err() error {
	return nil
}
