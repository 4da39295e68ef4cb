package app

import (
	"context"
	"strings"
	"time"

	"github.com/ayusman/christmasmagic/internal/gesture"
	"github.com/ayusman/christmasmagic/internal/store"
)

// runJournal writes fired gestures to the store for one session. Writes
// are best-effort: failures are logged and the scene carries on.
func (a *App) runJournal(ctx context.Context) error {
	source := "browser"
	if a.camera != nil {
		source = "camera"
	}

	session, err := a.config.Store.Sessions().Start(source, time.Now())
	if err != nil {
		a.log.Error().Err(err).Msg("start journal session")
		return nil
	}
	log := a.log.With().Str("session", session.ID).Logger()
	log.Info().Str("source", source).Msg("journal session started")

	defer func() {
		if err := a.config.Store.Sessions().End(session.ID, time.Now()); err != nil {
			log.Warn().Err(err).Msg("end journal session")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.drainJournal(session.ID)
			return nil
		case rec := <-a.journal:
			a.write(session.ID, rec)
		}
	}
}

// drainJournal writes whatever was queued before shutdown.
func (a *App) drainJournal(sessionID string) {
	for {
		select {
		case rec := <-a.journal:
			a.write(sessionID, rec)
		default:
			return
		}
	}
}

func (a *App) write(sessionID string, rec record) {
	if rec.manual {
		a.saveTheme(rec)
		return
	}

	d := &store.Dispatch{
		SessionID:          sessionID,
		Gesture:            rec.gesture.String(),
		Fingers:            fingerString(rec.fingers),
		ThumbIndexDistance: rec.pinch,
		ThemeIndex:         rec.themeIndex,
		At:                 rec.at,
	}
	if err := a.config.Store.Dispatches().Create(d); err != nil {
		a.log.Warn().Err(err).Stringer("gesture", rec.gesture).Msg("record dispatch")
	}

	a.saveTheme(rec)
}

func (a *App) saveTheme(rec record) {
	if rec.gesture != gesture.Shaka {
		return
	}
	if err := a.config.Store.Settings().SetInt(store.SettingThemeIndex, rec.themeIndex); err != nil {
		a.log.Warn().Err(err).Msg("save theme")
	}
}

// fingerString renders extension flags thumb first, "1" for extended.
func fingerString(ext [5]bool) string {
	var b strings.Builder
	for _, up := range ext {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
