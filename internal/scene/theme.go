package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoThemes is returned when a theme file defines no palettes.
var ErrNoThemes = errors.New("no themes defined")

// Theme is a named palette applied to the tree: foliage, then ornament colors.
type Theme struct {
	Name   string   `json:"name" yaml:"name"`
	Colors []uint32 `json:"colors" yaml:"-"`
}

// DefaultThemes returns the built-in palettes.
func DefaultThemes() []Theme {
	return []Theme{
		{Name: "Classic", Colors: []uint32{0x2ecc71, 0xf1c40f, 0xe74c3c}},
		{Name: "Frozen", Colors: []uint32{0x3498db, 0xffffff, 0xaed6f1}},
		{Name: "Mystic", Colors: []uint32{0x9b59b6, 0xe91e63, 0x00bcd4}},
	}
}

type themeFile struct {
	Themes []struct {
		Name   string   `yaml:"name"`
		Colors []string `yaml:"colors"`
	} `yaml:"themes"`
}

// LoadThemes decodes palettes from YAML:
//
//	themes:
//	  - name: Classic
//	    colors: ["#2ecc71", "#f1c40f", "#e74c3c"]
func LoadThemes(r io.Reader) ([]Theme, error) {
	var f themeFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoThemes
		}
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	if len(f.Themes) == 0 {
		return nil, ErrNoThemes
	}

	themes := make([]Theme, 0, len(f.Themes))
	for i, t := range f.Themes {
		if t.Name == "" {
			return nil, fmt.Errorf("theme %d: name is required", i)
		}
		if len(t.Colors) == 0 {
			return nil, fmt.Errorf("theme %q: at least one color is required", t.Name)
		}
		theme := Theme{Name: t.Name, Colors: make([]uint32, 0, len(t.Colors))}
		for _, c := range t.Colors {
			rgb, err := parseColor(c)
			if err != nil {
				return nil, fmt.Errorf("theme %q: %w", t.Name, err)
			}
			theme.Colors = append(theme.Colors, rgb)
		}
		themes = append(themes, theme)
	}
	return themes, nil
}

// LoadThemesFile reads palettes from path. An empty path yields the defaults.
func LoadThemesFile(path string) ([]Theme, error) {
	if path == "" {
		return DefaultThemes(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open themes: %w", err)
	}
	defer f.Close()
	return LoadThemes(f)
}

func parseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
