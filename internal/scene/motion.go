package scene

import (
	"github.com/chewxy/math32"

	"github.com/ayusman/christmasmagic/internal/detector"
	"github.com/ayusman/christmasmagic/internal/gesture"
)

// MotionConfig tunes the continuous per-frame updates.
type MotionConfig struct {
	// WindDecay multiplies wind on every frame without a hand.
	WindDecay float32
	// FreezeScale is the animation time scale while a fist is held.
	FreezeScale float32
}

// DefaultMotionConfig returns the standard motion tuning.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		WindDecay:   0.95,
		FreezeScale: 0.05,
	}
}

const (
	windGain     = 50
	windFollow   = 0.1
	windPush     = -0.5
	blizzardWind = 5
	cursorPlaneZ = 5
)

// Camera is the fixed perspective camera the browser scene renders with.
type Camera struct {
	Position Point3
	Target   Point3
	FOV      float32 // vertical, degrees
	Aspect   float32
}

// DefaultCamera matches the scene camera for a 640x480 feed.
func DefaultCamera() Camera {
	return Camera{
		Position: Point3{X: 0, Y: 10, Z: 30},
		Target:   Point3{X: 0, Y: 5, Z: 0},
		FOV:      60,
		Aspect:   4.0 / 3.0,
	}
}

// Motion updates cursor, wind and time scale from raw landmarks.
type Motion struct {
	config MotionConfig
	camera Camera

	forward, right, up Point3
	tanHalf            float32

	lastX float32
}

// NewMotion creates a Motion projecting through camera.
func NewMotion(config MotionConfig, camera Camera) *Motion {
	if config.WindDecay <= 0 || config.WindDecay > 1 {
		config.WindDecay = DefaultMotionConfig().WindDecay
	}
	if config.FreezeScale <= 0 {
		config.FreezeScale = DefaultMotionConfig().FreezeScale
	}

	m := &Motion{config: config, camera: camera}
	m.forward = normalize(sub(camera.Target, camera.Position))
	m.right = normalize(cross(m.forward, Point3{Y: 1}))
	m.up = cross(m.right, m.forward)
	m.tanHalf = math32.Tan(camera.FOV * math32.Pi / 360)
	return m
}

// Hand applies cursor and wind updates for a visible hand. It reads
// s.LastGesture, so call it before dispatching the current frame.
func (m *Motion) Hand(s *State, hand *detector.HandLandmarks) {
	s.HandDetected = true

	tip := hand.Points[detector.IndexTip]
	s.Cursor = m.Project(float32(tip.X), float32(tip.Y))

	x := float32(hand.Points[detector.Wrist].X)
	velocity := (x - m.lastX) * windGain
	m.lastX = x
	if s.LastGesture == gesture.Open {
		s.Wind += (velocity*windPush - s.Wind) * windFollow
	}
	if s.BlizzardMode {
		s.Wind = blizzardWind
	}
}

// SetFist records whether the classified gesture is a fist and scales time.
func (m *Motion) SetFist(s *State, fist bool) {
	s.IsFist = fist
	if fist {
		s.TimeScale = m.config.FreezeScale
	} else {
		s.TimeScale = 1
	}
}

// NoHand decays wind and parks the cursor.
func (m *Motion) NoHand(s *State) {
	s.HandDetected = false
	s.Wind *= m.config.WindDecay
	s.Cursor = FarAway
	s.LastGesture = gesture.None
	m.SetFist(s, false)
}

// Project maps a normalized image point onto the cursor plane. The image is
// mirrored so moving the hand right moves the cursor right.
func (m *Motion) Project(x, y float32) Point3 {
	ndcX := (1-x)*2 - 1
	ndcY := -y*2 + 1

	dir := add(m.forward, add(
		scale(m.right, ndcX*m.tanHalf*m.camera.Aspect),
		scale(m.up, ndcY*m.tanHalf),
	))
	dir = normalize(dir)
	if math32.Abs(dir.Z) < 1e-6 {
		return FarAway
	}

	dist := (cursorPlaneZ - m.camera.Position.Z) / dir.Z
	return add(m.camera.Position, scale(dir, dist))
}

func add(a, b Point3) Point3 { return Point3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func sub(a, b Point3) Point3 { return Point3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func scale(a Point3, k float32) Point3 { return Point3{a.X * k, a.Y * k, a.Z * k} }

func cross(a, b Point3) Point3 {
	return Point3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize(a Point3) Point3 {
	l := math32.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	if l == 0 {
		return a
	}
	return scale(a, 1/l)
}
