// Package gesture turns hand landmarks into discrete gesture labels and
// decides which labels fire an action.
package gesture

import "fmt"

// Label is a discrete hand pose. The zero value is None.
type Label uint8

const (
	None Label = iota
	Fist
	OK
	Victory
	Shaka
	Point
	ThumbsUp
	Love
	Open

	numLabels
)

var labelNames = [numLabels]string{
	None:     "None",
	Fist:     "Fist",
	OK:       "OK",
	Victory:  "Victory",
	Shaka:    "Shaka",
	Point:    "Point",
	ThumbsUp: "ThumbsUp",
	Love:     "Love",
	Open:     "Open",
}

// Labels returns every label in declaration order.
func Labels() []Label {
	out := make([]Label, 0, numLabels)
	for l := None; l < numLabels; l++ {
		out = append(out, l)
	}
	return out
}

// String returns the label's name.
func (l Label) String() string {
	if l >= numLabels {
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
	return labelNames[l]
}

// Valid reports whether l is one of the declared labels.
func (l Label) Valid() bool {
	return l < numLabels
}

// ParseLabel returns the label with the given name.
func ParseLabel(s string) (Label, error) {
	for l, name := range labelNames {
		if name == s {
			return Label(l), nil
		}
	}
	return None, fmt.Errorf("unknown gesture %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid gesture label %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
