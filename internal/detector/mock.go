package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Synthetic right hand, palm facing the camera, wrist low in the frame.
// Image y grows downward, so "up" means smaller y.
var (
	poseWrist = Point3D{X: 0.50, Y: 0.80}

	// x position of each finger column, thumb first.
	poseColumns = [NumFingers]float64{0.66, 0.56, 0.50, 0.44, 0.38}
)

// Pose builds a synthetic hand whose fingers are straight where extended[i]
// is true and tucked into the palm otherwise. With pinch set, the thumb and
// index tips are moved together as in an "OK" sign.
func Pose(extended [NumFingers]bool, pinch bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	h.Points[Wrist] = poseWrist

	// Thumb chain. The extension test measures the tip against the pinky MCP.
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70}
	if extended[0] {
		h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.62}
		h.Points[ThumbTip] = Point3D{X: 0.72, Y: 0.55}
	} else {
		h.Points[ThumbIP] = Point3D{X: 0.54, Y: 0.68}
		h.Points[ThumbTip] = Point3D{X: 0.46, Y: 0.66}
	}

	for f := 1; f < NumFingers; f++ {
		x := poseColumns[f]
		mcp := IndexMCP + (f-1)*4
		h.Points[mcp] = Point3D{X: x, Y: 0.65}
		if extended[f] {
			h.Points[mcp+1] = Point3D{X: x, Y: 0.55}
			h.Points[mcp+2] = Point3D{X: x, Y: 0.47}
			h.Points[mcp+3] = Point3D{X: x, Y: 0.40}
		} else {
			h.Points[mcp+1] = Point3D{X: x, Y: 0.58}
			h.Points[mcp+2] = Point3D{X: x, Y: 0.64}
			h.Points[mcp+3] = Point3D{X: x, Y: 0.70}
		}
	}

	if pinch {
		// Index curls forward to meet the thumb.
		h.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.56}
		h.Points[IndexDIP] = Point3D{X: 0.60, Y: 0.57}
		h.Points[IndexTip] = Point3D{X: 0.61, Y: 0.58}
		h.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.63}
		h.Points[ThumbTip] = Point3D{X: 0.63, Y: 0.58}
	}

	return h
}

// FistLandmarks returns a preset hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{}, false)
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{true, true, true, true, true}, false)
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{true, false, false, false, false}, false)
}

// VictoryLandmarks returns index and middle extended.
func VictoryLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{false, true, true, false, false}, false)
}

// PointLandmarks returns only the index finger extended.
func PointLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{false, true, false, false, false}, false)
}

// ShakaLandmarks returns thumb and pinky extended.
func ShakaLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{true, false, false, false, true}, false)
}

// LoveLandmarks returns thumb, index and pinky extended.
func LoveLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{true, true, false, false, true}, false)
}

// OKLandmarks returns a thumb-index pinch with the other three fingers open.
func OKLandmarks() HandLandmarks {
	return Pose([NumFingers]bool{true, false, true, true, true}, true)
}
