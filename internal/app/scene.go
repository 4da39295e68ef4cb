package app

import (
	"context"
	"time"

	"github.com/ayusman/christmasmagic/internal/engine"
	"github.com/ayusman/christmasmagic/internal/gesture"
)

// runScene is the only goroutine that touches the engine.
func (a *App) runScene(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(a.config.RenderFPS))
	defer ticker.Stop()

	fps := newFPSMonitor(time.Second, a.config.MinFPS, a.log)
	browserFrames := a.config.Browser.Frames()
	visibility := a.config.Browser.Visibility()

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-a.frames:
			a.handleFrame(f)
		case f := <-browserFrames:
			a.handleFrame(f)
		case visible := <-visibility:
			if visible {
				a.engine.Resume(time.Now())
				a.log.Debug().Msg("scene visible")
			} else {
				a.engine.Pause()
				a.log.Debug().Msg("scene hidden")
			}
		case cmd := <-a.commands:
			cmd(a.engine, time.Now())
		case now := <-ticker.C:
			if a.engine.Paused() {
				continue
			}
			a.engine.Tick(now)
			fps.Tick(now)
			a.config.Browser.BroadcastState(a.engine.State(), fps.Rate())
		}
	}
}

func (a *App) handleFrame(f engine.Frame) {
	if !a.IsEnabled() {
		f.Hand = nil
	}

	r := a.engine.HandleFrame(f)
	if !r.Fired() {
		return
	}

	a.log.Info().Stringer("gesture", r.Gesture).Msg("gesture fired")
	a.record(record{
		gesture:    r.Gesture,
		fingers:    r.Features.Extended,
		pinch:      r.Features.ThumbIndexDistance,
		themeIndex: a.engine.State().ThemeIndex,
		at:         r.At,
	})
}

// record queues rec for the journal writer when a store is configured.
func (a *App) record(rec record) {
	if a.config.Store == nil {
		return
	}
	select {
	case a.journal <- rec:
	default:
		a.log.Warn().Stringer("gesture", rec.gesture).Msg("journal full, dispatch not recorded")
	}
}

// record is a fired gesture on its way to the journal.
type record struct {
	gesture    gesture.Label
	fingers    [5]bool
	pinch      float64
	themeIndex int
	at         time.Time
	// manual marks tray triggers, which update settings but are not
	// journaled as dispatches.
	manual bool
}
