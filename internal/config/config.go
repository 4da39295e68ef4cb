// Package config loads application settings from christmasmagic.yaml,
// XMAS_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// FileName is the config file base name, without extension.
	FileName = "christmasmagic"
	// EnvPrefix prefixes environment overrides, e.g. XMAS_SERVER_ADDR.
	EnvPrefix = "XMAS"
)

// Config is the full application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Detector DetectorConfig `mapstructure:"detector"`
	Gesture  GestureConfig  `mapstructure:"gesture"`
	Scene    SceneConfig    `mapstructure:"scene"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Tray     TrayConfig     `mapstructure:"tray"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CameraConfig controls local capture. When disabled, landmarks come from
// browser clients over the websocket.
type CameraConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DeviceID        int           `mapstructure:"device_id"`
	Width           int           `mapstructure:"width"`
	Height          int           `mapstructure:"height"`
	IdleFPS         int           `mapstructure:"idle_fps"`
	ActiveFPS       int           `mapstructure:"active_fps"`
	IdleAfter       time.Duration `mapstructure:"idle_after"`
	MotionThreshold float64       `mapstructure:"motion_threshold"`
	MotionWidth     int           `mapstructure:"motion_width"`
	JPEGQuality     int           `mapstructure:"jpeg_quality"`
}

type DetectorConfig struct {
	MaxHands        int           `mapstructure:"max_hands"`
	ModelComplexity int           `mapstructure:"model_complexity"`
	MinConfidence   float64       `mapstructure:"min_confidence"`
	MinTrackingConf float64       `mapstructure:"min_tracking_confidence"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
}

type GestureConfig struct {
	Cooldown     time.Duration `mapstructure:"cooldown"`
	ThumbReach   float64       `mapstructure:"thumb_reach"`
	FingerMargin float64       `mapstructure:"finger_margin"`
	Pinch        float64       `mapstructure:"pinch"`
	HeartChance  float64       `mapstructure:"heart_chance"`
}

type SceneConfig struct {
	RenderFPS    int           `mapstructure:"render_fps"`
	MinFPS       float64       `mapstructure:"min_fps"`
	Feedback     time.Duration `mapstructure:"feedback"`
	StarDuration time.Duration `mapstructure:"star_duration"`
	WindDecay    float64       `mapstructure:"wind_decay"`
	FreezeScale  float64       `mapstructure:"freeze_scale"`
	ThemesFile   string        `mapstructure:"themes_file"`
}

type AudioConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SampleRate int           `mapstructure:"sample_rate"`
	Volume     float64       `mapstructure:"volume"`
	Buffer     time.Duration `mapstructure:"buffer"`
}

type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Defaults returns the default value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.pretty": true,

		"server.addr":       ":8080",
		"server.static_dir": "",

		"store.enabled": true,
		"store.path":    filepath.Join(DataDir(), "christmasmagic.db"),

		"camera.enabled":          true,
		"camera.device_id":        0,
		"camera.width":            640,
		"camera.height":           480,
		"camera.idle_fps":         5,
		"camera.active_fps":       30,
		"camera.idle_after":       "2s",
		"camera.motion_threshold": 1.0,
		"camera.motion_width":     160,
		"camera.jpeg_quality":     80,

		"detector.max_hands":               1,
		"detector.model_complexity":        0,
		"detector.min_confidence":          0.5,
		"detector.min_tracking_confidence": 0.5,
		"detector.idle_timeout":            "30s",

		"gesture.cooldown":      "800ms",
		"gesture.thumb_reach":   0.15,
		"gesture.finger_margin": 1.1,
		"gesture.pinch":         0.05,
		"gesture.heart_chance":  0.2,

		"scene.render_fps":    60,
		"scene.min_fps":       30,
		"scene.feedback":      "2s",
		"scene.star_duration": "3s",
		"scene.wind_decay":    0.95,
		"scene.freeze_scale":  0.05,
		"scene.themes_file":   "",

		"audio.enabled":     true,
		"audio.sample_rate": 44100,
		"audio.volume":      0.5,
		"audio.buffer":      "100ms",

		"tray.enabled": false,
	}
}

// DataDir is where the database and MediaPipe assets live by default.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".christmasmagic"
	}
	return filepath.Join(home, ".christmasmagic")
}

// Load reads configuration. Search order for the file: dir (when set), the
// working directory, then DataDir. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.AddConfigPath(DataDir())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("config: server.addr is required")
	case c.Scene.RenderFPS <= 0:
		return fmt.Errorf("config: scene.render_fps must be positive, got %d", c.Scene.RenderFPS)
	case c.Gesture.Cooldown < 0:
		return fmt.Errorf("config: gesture.cooldown must not be negative, got %s", c.Gesture.Cooldown)
	case c.Gesture.HeartChance < 0 || c.Gesture.HeartChance > 1:
		return fmt.Errorf("config: gesture.heart_chance must be within [0,1], got %v", c.Gesture.HeartChance)
	case c.Audio.Volume < 0:
		return fmt.Errorf("config: audio.volume must not be negative, got %v", c.Audio.Volume)
	case c.Store.Enabled && c.Store.Path == "":
		return errors.New("config: store.path is required when the store is enabled")
	}
	return nil
}
