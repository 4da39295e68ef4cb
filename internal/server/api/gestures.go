package api

import (
	"net/http"

	"github.com/ayusman/christmasmagic/internal/gesture"
	"github.com/ayusman/christmasmagic/internal/scene"
)

// GestureHandler serves the fixed gesture catalogue.
type GestureHandler struct {
	cooldown string
}

// NewGestureHandler creates a GestureHandler. cooldown is reported so the
// page can explain why held gestures do not repeat.
func NewGestureHandler(cooldown string) *GestureHandler {
	return &GestureHandler{cooldown: cooldown}
}

type gestureResponse struct {
	Label   string `json:"label"`
	Fingers string `json:"fingers"`
	Action  string `json:"action"`
	// Locks is false for gestures that run every frame instead of firing once.
	Locks bool `json:"locks"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
	Cooldown string            `json:"cooldown"`
}

func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	response := listGesturesResponse{Cooldown: h.cooldown}
	for _, l := range gesture.Labels() {
		if l == gesture.None {
			continue
		}
		response.Gestures = append(response.Gestures, gestureResponse{
			Label:   l.String(),
			Fingers: gesture.Fingers(l),
			Action:  scene.Describe(l),
			Locks:   l != gesture.Point,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
