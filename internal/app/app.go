// Package app wires capture, detection, the scene engine and its outputs
// into one running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/christmasmagic/internal/capture"
	"github.com/ayusman/christmasmagic/internal/detector"
	"github.com/ayusman/christmasmagic/internal/engine"
	"github.com/ayusman/christmasmagic/internal/gesture"
	"github.com/ayusman/christmasmagic/internal/scene"
	"github.com/ayusman/christmasmagic/internal/store"
)

const (
	// DefaultRenderFPS is the render tick rate.
	DefaultRenderFPS = 60
	// DefaultMinFPS is the rate below which a slow-render warning is logged.
	DefaultMinFPS = 30

	frameBuffer   = 4
	journalBuffer = 32
)

// Browser is the page side of the scene: it renders hook calls and state
// snapshots, and may run hand tracking itself.
type Browser interface {
	scene.Renderer
	scene.UI
	Frames() <-chan engine.Frame
	Visibility() <-chan bool
	BroadcastState(s scene.State, fps float64)
	Error(err error)
}

// Config holds configuration options for the application. Nil
// collaborators are optional except Browser.
type Config struct {
	Engine    engine.Config
	Themes    []scene.Theme
	RenderFPS int
	MinFPS    float64

	// CameraEnabled turns on local capture. Camera and Detector default to
	// the real device and MediaPipe when nil.
	CameraEnabled  bool
	CameraConfig   capture.Config
	Gate           capture.GateConfig
	Motion         capture.MotionConfig
	JPEGQuality    int
	DetectorConfig detector.Config
	Camera         capture.Camera
	Detector       detector.Detector

	Browser Browser
	Audio   scene.Audio
	// Feedback receives feedback text in addition to Browser, e.g. the tray.
	Feedback []scene.UI
	Frames   *capture.FrameCache
	Store    *store.Store
	Log      zerolog.Logger
}

// App is the main application that orchestrates gesture detection and the scene.
type App struct {
	config   Config
	log      zerolog.Logger
	engine   *engine.Engine
	camera   capture.Camera
	motion   *capture.MotionDetector
	gate     *capture.Gate
	detector detector.Detector

	frames   chan engine.Frame
	journal  chan record
	commands chan func(*engine.Engine, time.Time)

	mu      sync.RWMutex
	enabled bool
	started bool
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.Browser == nil {
		return nil, errors.New("app: browser is required")
	}
	if len(config.Themes) == 0 {
		config.Themes = scene.DefaultThemes()
	}
	if config.RenderFPS <= 0 {
		config.RenderFPS = DefaultRenderFPS
	}
	if config.MinFPS <= 0 {
		config.MinFPS = DefaultMinFPS
	}

	log := config.Log.With().Str("component", "app").Logger()
	enabled := true
	if config.Store != nil {
		settings := config.Store.Settings()
		config.Engine.ThemeIndex = settings.GetInt(store.SettingThemeIndex, config.Engine.ThemeIndex)
		enabled = settings.GetInt(store.SettingEnabled, 1) != 0
	}

	ui := scene.Fanout{config.Browser}
	ui = append(ui, config.Feedback...)
	eng, err := engine.New(config.Engine, config.Themes, scene.Hooks{
		Renderer: config.Browser,
		Audio:    config.Audio,
		UI:       ui,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	a := &App{
		config:   config,
		log:      log,
		engine:   eng,
		camera:   config.Camera,
		detector: config.Detector,
		frames:   make(chan engine.Frame, frameBuffer),
		journal:  make(chan record, journalBuffer),
		commands: make(chan func(*engine.Engine, time.Time), frameBuffer),
		enabled:  enabled,
	}

	if config.CameraEnabled {
		if a.camera == nil {
			a.camera = capture.NewCamera(config.CameraConfig)
		}
		a.motion = capture.NewMotionDetector(config.Motion)
		a.gate = capture.NewGate(config.Gate)
		if a.detector == nil {
			// Try MediaPipe first, fall back to mock detector
			if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig, config.Log); err == nil {
				a.detector = mp
				log.Info().Msg("using MediaPipe hand detection")
			} else {
				log.Warn().Err(err).Msg("MediaPipe not available, using mock detector")
				a.detector = detector.NewMockDetector()
			}
		}
	}

	return a, nil
}

// Start opens the camera. Without local capture it does nothing; hands
// then come from the browser.
func (a *App) Start() error {
	if a.camera == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	a.camera.SetFPS(a.gate.FPS())
	a.started = true
	a.log.Info().Int("fps", a.gate.FPS()).Msg("capture started")
	return nil
}

// Run drives the scene until ctx is cancelled. The inference loop only
// runs after a successful Start.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	a.mu.RLock()
	capturing := a.started
	a.mu.RUnlock()
	if capturing {
		g.Go(func() error {
			a.runInference(ctx)
			return nil
		})
	}

	g.Go(func() error {
		a.runScene(ctx)
		return nil
	})

	if a.config.Store != nil {
		g.Go(func() error {
			return a.runJournal(ctx)
		})
	}

	err := g.Wait()
	a.stop()
	return err
}

func (a *App) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		if err := a.camera.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing camera")
		}
		a.started = false
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing detector")
		}
	}
	a.log.Info().Msg("stopped")
}

// SetEnabled enables or disables gesture detection. The choice is kept in
// settings when a store is configured.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		v := 0
		if enabled {
			v = 1
		}
		if err := a.config.Store.Settings().SetInt(store.SettingEnabled, v); err != nil {
			a.log.Warn().Err(err).Msg("save enabled setting")
		}
	}
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Trigger queues the action for l on the scene goroutine, as if the
// gesture had fired.
func (a *App) Trigger(l gesture.Label) {
	a.do(func(e *engine.Engine, now time.Time) {
		e.Trigger(l, now)
		a.record(record{gesture: l, themeIndex: e.State().ThemeIndex, at: now, manual: true})
	})
}

// ToggleMusic starts or stops the background melody.
func (a *App) ToggleMusic() {
	a.Trigger(gesture.OK)
}

// NextTheme switches to the next palette.
func (a *App) NextTheme() {
	a.Trigger(gesture.Shaka)
}

func (a *App) do(cmd func(*engine.Engine, time.Time)) {
	select {
	case a.commands <- cmd:
	default:
		a.log.Warn().Msg("scene busy, command dropped")
	}
}

// Themes returns the palettes in use.
func (a *App) Themes() []scene.Theme {
	return a.engine.Themes()
}

// Detector returns the hand detector, nil without local capture.
func (a *App) Detector() detector.Detector {
	return a.detector
}
