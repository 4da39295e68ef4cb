package capture

import "time"

// GateConfig sets the capture rates used while idle and while a hand is moving.
type GateConfig struct {
	IdleFPS   int
	ActiveFPS int
	// IdleAfter is how long without motion before dropping back to IdleFPS.
	IdleAfter time.Duration
}

// DefaultGateConfig samples slowly until something moves, then at the
// full rate the render loop can use.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		IdleFPS:   5,
		ActiveFPS: 30,
		IdleAfter: 2 * time.Second,
	}
}

// Gate switches between idle and active capture rates based on motion. It
// only sets the rate; every captured frame still goes to the detector.
type Gate struct {
	config     GateConfig
	active     bool
	lastMotion time.Time
}

// NewGate creates a Gate in idle mode.
func NewGate(config GateConfig) *Gate {
	def := DefaultGateConfig()
	if config.IdleFPS <= 0 {
		config.IdleFPS = def.IdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = def.ActiveFPS
	}
	if config.IdleAfter <= 0 {
		config.IdleAfter = def.IdleAfter
	}
	return &Gate{config: config}
}

// Observe records whether the latest frame moved. It returns true when the
// mode changed, in which case the caller should apply FPS.
func (g *Gate) Observe(moved bool, now time.Time) bool {
	if moved {
		g.lastMotion = now
		if !g.active {
			g.active = true
			return true
		}
		return false
	}
	if g.active && now.Sub(g.lastMotion) > g.config.IdleAfter {
		g.active = false
		return true
	}
	return false
}

// Active reports whether the gate is at the active rate.
func (g *Gate) Active() bool {
	return g.active
}

// FPS is the capture rate for the current mode.
func (g *Gate) FPS() int {
	if g.active {
		return g.config.ActiveFPS
	}
	return g.config.IdleFPS
}

// Interval is the time between frames for the current mode.
func (g *Gate) Interval() time.Duration {
	return time.Second / time.Duration(g.FPS())
}
