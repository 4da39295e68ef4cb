// Package tray provides a system tray menu for the Christmas scene.
package tray

import (
	"sync"
	"time"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onMusic  func()
	onTheme  func()
	onOpen   func()
	onQuit   func()
	enabled  bool
	status   string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray showing the given detection state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
	}
}

// OnToggle sets the callback function to be called when detection is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMusic sets the callback for the music menu item.
func (t *Tray) OnMusic(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMusic = fn
}

// OnTheme sets the callback for the next theme menu item.
func (t *Tray) OnTheme(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTheme = fn
}

// OnOpen sets the callback for opening the scene in a browser.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu, e.g. on a signal.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("🎄")
	systray.SetTooltip("Christmas Magic")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(statusTitle(t.status), "Last scene message")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuMusic := systray.AddMenuItem("Toggle Music", "Start or stop Jingle Bells")
	menuTheme := systray.AddMenuItem("Next Theme", "Switch the tree colors")
	menuOpen := systray.AddMenuItem("Open Scene...", "Open the scene in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Christmas Magic")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuMusic.ClickedCh:
				t.call(func() func() { return t.onMusic })
			case <-menuTheme.ClickedCh:
				t.call(func() func() { return t.onTheme })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

func statusTitle(text string) string {
	if text == "" {
		return "Waiting for a hand"
	}
	return text
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// SetEnabled updates the toggle without invoking the callback, e.g. to
// reflect a restored setting.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// call runs the callback returned by get outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.call(func() func() { return t.onQuit })
	systray.Quit()
}

// ShowFeedback mirrors scene feedback in the menu. Empty text is ignored
// so the last message stays readable after it fades in the browser.
func (t *Tray) ShowFeedback(text string, _ time.Duration) {
	if text == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = text
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(text))
	}
}

// Status returns the last feedback text shown.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
