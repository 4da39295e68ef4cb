package gesture

import "github.com/ayusman/christmasmagic/internal/detector"

// Finger indexes into Features.Extended.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// Thresholds tunes feature extraction and classification.
// Distances are in normalized image units.
type Thresholds struct {
	// ThumbReach is how far the thumb tip must be from the pinky MCP
	// for the thumb to count as extended.
	ThumbReach float64
	// FingerMargin is the factor by which a fingertip must be farther from
	// the wrist than its PIP joint to count as extended.
	FingerMargin float64
	// Pinch is the thumb-index tip distance under which an OK sign is possible.
	Pinch float64
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ThumbReach:   0.15,
		FingerMargin: 1.1,
		Pinch:        0.05,
	}
}

// Features is the per-frame summary the classifier works from.
type Features struct {
	Extended           [detector.NumFingers]bool
	ThumbIndexDistance float64
}

// Extract computes finger extension flags and the thumb-index distance.
// The hand must be non-nil.
func Extract(hand *detector.HandLandmarks, th Thresholds) Features {
	p := &hand.Points
	wrist := p[detector.Wrist]

	var f Features
	f.Extended[Thumb] = detector.Distance2D(p[detector.ThumbTip], p[detector.PinkyMCP]) > th.ThumbReach
	for i := Index; i <= Pinky; i++ {
		tip := detector.Distance2D(p[detector.Tips[i]], wrist)
		joint := detector.Distance2D(p[detector.Joints[i]], wrist)
		f.Extended[i] = tip > joint*th.FingerMargin
	}
	f.ThumbIndexDistance = detector.Distance2D(p[detector.ThumbTip], p[detector.IndexTip])
	return f
}

// Count returns how many fingers are extended.
func (f Features) Count() int {
	n := 0
	for _, e := range f.Extended {
		if e {
			n++
		}
	}
	return n
}
