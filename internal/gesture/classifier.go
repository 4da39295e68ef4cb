package gesture

// want is the required state of one finger in a rule.
type want uint8

const (
	either want = iota
	up
	down
)

// pattern describes a finger configuration, thumb first.
type pattern [5]want

func (p pattern) match(ext [5]bool) bool {
	for i, w := range p {
		if w == up && !ext[i] || w == down && ext[i] {
			return false
		}
	}
	return true
}

type rule struct {
	label   Label
	fingers pattern
	pinch   bool
}

// rules are evaluated in order and the first match wins. Several patterns
// overlap (an OK sign with the index straight also looks like Open), so the
// order is the tie-break. Note Fist ignores the thumb, which makes it shadow
// ThumbsUp for every input.
var rules = []rule{
	{label: Fist, fingers: pattern{either, down, down, down, down}},
	{label: OK, fingers: pattern{either, either, up, up, up}, pinch: true},
	{label: Victory, fingers: pattern{either, up, up, down, down}},
	{label: Shaka, fingers: pattern{up, down, down, down, up}},
	{label: Point, fingers: pattern{down, up, down, down, down}},
	{label: ThumbsUp, fingers: pattern{up, down, down, down, down}},
	{label: Love, fingers: pattern{up, up, down, down, up}},
	{label: Open, fingers: pattern{either, up, up, up, up}},
}

// Classifier maps Features to a Label. It is stateless and safe for
// concurrent use.
type Classifier struct {
	pinch float64
}

// NewClassifier returns a Classifier using the pinch threshold from th.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{pinch: th.Pinch}
}

// Classify returns the first matching label, or None.
func (c *Classifier) Classify(f Features) Label {
	for _, r := range rules {
		if r.pinch && !(f.ThumbIndexDistance < c.pinch) {
			continue
		}
		if r.fingers.match(f.Extended) {
			return r.label
		}
	}
	return None
}

// Fingers describes the extension pattern of a label for display, thumb
// first: "1" extended, "0" curled, "-" ignored. None has no pattern.
func Fingers(l Label) string {
	for _, r := range rules {
		if r.label != l {
			continue
		}
		out := make([]byte, len(r.fingers))
		for i, w := range r.fingers {
			switch w {
			case up:
				out[i] = '1'
			case down:
				out[i] = '0'
			default:
				out[i] = '-'
			}
		}
		return string(out)
	}
	return ""
}
