// Package scene holds the shared state read by the render loop, the action
// table that mutates it, and the hooks it drives in the renderer, audio
// engine and UI.
package scene

import "github.com/ayusman/christmasmagic/internal/gesture"

// Point3 is a position in scene world space.
type Point3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// FarAway is where the cursor parks when no hand is visible, well outside
// the camera frustum.
var FarAway = Point3{X: 9999, Y: 9999, Z: 9999}

// State is the scene record consumed by the render loop.
//
// Field ownership: Actions writes RainbowMode, BGMPlaying, StarActive,
// ThemeIndex and BlizzardMode. Motion writes Wind, TimeScale, Cursor,
// IsFist, HandDetected and LastGesture. Everyone else reads snapshots.
type State struct {
	Wind         float32       `json:"wind"`
	TimeScale    float32       `json:"timeScale"`
	Cursor       Point3        `json:"cursor"`
	IsFist       bool          `json:"isFist"`
	HandDetected bool          `json:"handDetected"`
	StarActive   bool          `json:"starActive"`
	RainbowMode  bool          `json:"rainbowMode"`
	BlizzardMode bool          `json:"blizzardMode"`
	BGMPlaying   bool          `json:"bgmPlaying"`
	ThemeIndex   int           `json:"themeIndex"`
	LastGesture  gesture.Label `json:"lastGesture"`
}

// NewState returns the startup state.
func NewState() *State {
	return &State{
		TimeScale: 1,
		Cursor:    FarAway,
	}
}

// Snapshot returns a copy safe to hand to readers.
func (s *State) Snapshot() State {
	return *s
}
