package app

import (
	"time"

	"github.com/rs/zerolog"
)

// fpsMonitor measures the render tick rate over fixed windows and warns
// when a window falls below the minimum.
type fpsMonitor struct {
	window  time.Duration
	minRate float64
	log     zerolog.Logger

	start time.Time
	ticks int
	rate  float64
}

func newFPSMonitor(window time.Duration, minRate float64, log zerolog.Logger) *fpsMonitor {
	return &fpsMonitor{window: window, minRate: minRate, log: log}
}

// Tick counts one render tick at now and closes the window when it is due.
func (m *fpsMonitor) Tick(now time.Time) {
	if m.start.IsZero() {
		m.start = now
	}
	m.ticks++

	elapsed := now.Sub(m.start)
	if elapsed < m.window {
		return
	}

	m.rate = float64(m.ticks) / elapsed.Seconds()
	if m.rate < m.minRate {
		m.log.Warn().Float64("fps", m.rate).Float64("min", m.minRate).Msg("render rate low")
	}
	m.start = now
	m.ticks = 0
}

// Rate is the rate measured over the last complete window.
func (m *fpsMonitor) Rate() float64 {
	return m.rate
}
