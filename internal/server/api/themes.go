package api

import (
	"fmt"
	"net/http"

	"github.com/ayusman/christmasmagic/internal/scene"
)

// ThemeHandler lists the palettes Shaka cycles through.
type ThemeHandler struct {
	themes []scene.Theme
}

func NewThemeHandler(themes []scene.Theme) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

// ThemeResponse is a theme with colors as CSS hex strings.
type ThemeResponse struct {
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

type listThemesResponse struct {
	Themes []ThemeResponse `json:"themes"`
}

// ThemeJSON renders a theme the way the browser consumes it.
func ThemeJSON(index int, t scene.Theme) ThemeResponse {
	colors := make([]string, 0, len(t.Colors))
	for _, c := range t.Colors {
		colors = append(colors, fmt.Sprintf("#%06x", c))
	}
	return ThemeResponse{Index: index, Name: t.Name, Colors: colors}
}

func (h *ThemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	response := listThemesResponse{Themes: make([]ThemeResponse, 0, len(h.themes))}
	for i, t := range h.themes {
		response.Themes = append(response.Themes, ThemeJSON(i, t))
	}
	writeJSON(w, http.StatusOK, response)
}
