package capture

import (
	"image"

	"gocv.io/x/gocv"
)

// MotionConfig tunes frame differencing.
type MotionConfig struct {
	// Threshold is the percentage of changed pixels that counts as motion.
	Threshold float64
	// Width is the width frames are shrunk to before comparison. Zero
	// compares at full size.
	Width int
	// Blur is the Gaussian kernel size. Even values are rounded up.
	Blur int
	// PixelDelta is the gray level change that marks a pixel as changed.
	PixelDelta float32
}

// DefaultMotionConfig compares 160px wide thumbnails, enough to notice a
// hand entering the frame without paying for full-size differencing at the
// active rate.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Threshold:  1.0,
		Width:      160,
		Blur:       7,
		PixelDelta: 25,
	}
}

// Motion is the outcome of comparing one frame with its predecessor.
type Motion struct {
	Moved bool
	// Changed is the percentage of pixels that changed, 0..100.
	Changed float64
}

// MotionDetector keeps the previous thumbnail and compares each new frame
// against it. It belongs to the capture loop and is not safe for
// concurrent use.
type MotionDetector struct {
	config MotionConfig
	prev   gocv.Mat
}

// NewMotionDetector fills zero fields of config from DefaultMotionConfig.
func NewMotionDetector(config MotionConfig) *MotionDetector {
	def := DefaultMotionConfig()
	if config.Threshold <= 0 {
		config.Threshold = def.Threshold
	}
	if config.Width < 0 {
		config.Width = 0
	}
	if config.Blur <= 0 {
		config.Blur = def.Blur
	}
	if config.Blur%2 == 0 {
		config.Blur++
	}
	if config.PixelDelta <= 0 {
		config.PixelDelta = def.PixelDelta
	}
	return &MotionDetector{config: config, prev: gocv.NewMat()}
}

// Config returns the effective configuration.
func (m *MotionDetector) Config() MotionConfig {
	return m.config
}

// Detect compares frame with the previous one. The first frame, and any
// frame whose size differs from its predecessor, only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) Motion {
	if frame == nil || frame.Empty() {
		return Motion{}
	}

	thumb := m.thumbnail(frame)
	if m.prev.Empty() || m.prev.Rows() != thumb.Rows() || m.prev.Cols() != thumb.Cols() {
		m.prev.Close()
		m.prev = thumb
		return Motion{}
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(thumb, m.prev, &diff)
	gocv.Threshold(diff, &diff, m.config.PixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) * 100 / float64(diff.Rows()*diff.Cols())
	m.prev.Close()
	m.prev = thumb

	return Motion{Moved: changed > m.config.Threshold, Changed: changed}
}

// thumbnail returns a blurred gray copy of frame, shrunk to the configured
// width. The caller owns the result.
func (m *MotionDetector) thumbnail(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	if w := m.config.Width; w > 0 && gray.Cols() > w {
		h := max(1, gray.Rows()*w/gray.Cols())
		small := gocv.NewMat()
		gocv.Resize(gray, &small, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationArea)
		gray.Close()
		gray = small
	}

	k := m.config.Blur
	gocv.GaussianBlur(gray, &gray, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)
	return gray
}

// Reset drops the baseline so the next frame starts a fresh comparison.
func (m *MotionDetector) Reset() {
	m.prev.Close()
	m.prev = gocv.NewMat()
}

// Close releases the baseline. Detect keeps working afterwards and starts
// from a fresh baseline.
func (m *MotionDetector) Close() {
	m.Reset()
}

// SetThreshold changes the change percentage needed to count as motion.
// Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold > 0 {
		m.config.Threshold = threshold
	}
}
