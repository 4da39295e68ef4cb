package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ayusman/christmasmagic/internal/capture"
	"github.com/ayusman/christmasmagic/internal/engine"
)

// runInference is the capture loop feeding the scene.
//
// Pipeline logic:
//  1. Start in idle mode at the gate's idle rate.
//  2. Publish every frame to the preview cache.
//  3. On motion, switch to the active rate; after the idle window without
//     motion, drop back to the idle rate.
//  4. Run hand detection on every captured frame, so a hand held still is
//     still reported, and send the first hand or a no-hand frame to the
//     scene.
//
// The first detection failure is reported to the browsers; repeats are only
// logged until detection succeeds again.
func (a *App) runInference(ctx context.Context) {
	ticker := time.NewTicker(a.gate.Interval())
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			continue
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			a.log.Debug().Err(err).Msg("read frame")
			continue
		}

		if a.config.Frames != nil {
			if jpeg, err := capture.EncodeJPEG(frame, a.config.JPEGQuality); err == nil {
				a.config.Frames.Publish(jpeg)
			} else {
				a.log.Debug().Err(err).Msg("encode preview")
			}
		}

		motion := a.motion.Detect(frame)
		now := time.Now()
		if a.gate.Observe(motion.Moved, now) {
			a.camera.SetFPS(a.gate.FPS())
			ticker.Reset(a.gate.Interval())
			if a.gate.Active() {
				a.log.Debug().Float64("changed", motion.Changed).Msg("switched to active mode")
			} else {
				a.log.Debug().Msg("switched to idle mode")
			}
		}

		hands, err := a.detector.Detect(frame)
		frame.Close()
		if err != nil {
			if !failing {
				failing = true
				a.log.Error().Err(err).Msg("hand detection failed")
				a.config.Browser.Error(fmt.Errorf("hand detection: %w", err))
			} else {
				a.log.Debug().Err(err).Msg("detect hands")
			}
			continue
		}
		if failing {
			failing = false
			a.log.Info().Msg("hand detection recovered")
		}

		f := engine.Frame{At: now}
		if len(hands) > 0 {
			f.Hand = &hands[0]
		}
		a.sendFrame(ctx, f)
	}
}

// sendFrame hands f to the scene loop, dropping it when the loop lags.
func (a *App) sendFrame(ctx context.Context, f engine.Frame) {
	select {
	case a.frames <- f:
	case <-ctx.Done():
	default:
		a.log.Debug().Msg("frame dropped")
	}
}
