package app

import (
	"github.com/ayusman/christmasmagic/internal/audio"
	"github.com/ayusman/christmasmagic/internal/capture"
	"github.com/ayusman/christmasmagic/internal/config"
	"github.com/ayusman/christmasmagic/internal/detector"
	"github.com/ayusman/christmasmagic/internal/engine"
	"github.com/ayusman/christmasmagic/internal/gesture"
	"github.com/ayusman/christmasmagic/internal/scene"
)

// FromConfig maps loaded settings onto an app Config. Collaborators
// (browser, audio, store, themes) are left for the caller to fill in.
func FromConfig(c *config.Config) Config {
	return Config{
		Engine:    EngineConfig(c),
		RenderFPS: c.Scene.RenderFPS,
		MinFPS:    c.Scene.MinFPS,

		CameraEnabled: c.Camera.Enabled,
		CameraConfig: capture.Config{
			DeviceID: c.Camera.DeviceID,
			Width:    c.Camera.Width,
			Height:   c.Camera.Height,
			FPS:      c.Camera.IdleFPS,
		},
		Gate: capture.GateConfig{
			IdleFPS:   c.Camera.IdleFPS,
			ActiveFPS: c.Camera.ActiveFPS,
			IdleAfter: c.Camera.IdleAfter,
		},
		Motion: capture.MotionConfig{
			Threshold: c.Camera.MotionThreshold,
			Width:     c.Camera.MotionWidth,
		},
		JPEGQuality:    c.Camera.JPEGQuality,
		DetectorConfig: DetectorConfig(c),
	}
}

// EngineConfig builds the engine tuning from the gesture and scene sections.
func EngineConfig(c *config.Config) engine.Config {
	return engine.Config{
		Thresholds: gesture.Thresholds{
			ThumbReach:   c.Gesture.ThumbReach,
			FingerMargin: c.Gesture.FingerMargin,
			Pinch:        c.Gesture.Pinch,
		},
		Cooldown:    c.Gesture.Cooldown,
		HeartChance: c.Gesture.HeartChance,
		Motion: scene.MotionConfig{
			WindDecay:   float32(c.Scene.WindDecay),
			FreezeScale: float32(c.Scene.FreezeScale),
		},
		Camera: scene.DefaultCamera(),
		Actions: scene.ActionsConfig{
			Feedback:     c.Scene.Feedback,
			StarDuration: c.Scene.StarDuration,
		},
	}
}

// DetectorConfig maps the detector section.
func DetectorConfig(c *config.Config) detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		ModelComplexity: c.Detector.ModelComplexity,
		MinConfidence:   c.Detector.MinConfidence,
		MinTrackingConf: c.Detector.MinTrackingConf,
		IdleTimeout:     c.Detector.IdleTimeout,
	}
}

// AudioConfig maps the audio section.
func AudioConfig(c *config.Config) audio.Config {
	return audio.Config{
		Enabled:    c.Audio.Enabled,
		SampleRate: c.Audio.SampleRate,
		Volume:     c.Audio.Volume,
		Buffer:     c.Audio.Buffer,
	}
}
