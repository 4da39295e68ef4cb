package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/christmasmagic/internal/detector"
	"github.com/ayusman/christmasmagic/internal/engine"
	"github.com/ayusman/christmasmagic/internal/scene"
	"github.com/ayusman/christmasmagic/internal/server/api"
)

const (
	frameBuffer   = 4
	sendBuffer    = 64
	writeWait     = 2 * time.Second
	maxMessageLen = 64 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// inbound is a message from a browser. Landmarks arrive when the page runs
// hand tracking itself; visibility follows document.hidden.
type inbound struct {
	Type   string              `json:"type"`
	Hands  []detector.WireHand `json:"hands"`
	Hidden bool                `json:"hidden"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	// hidden is the page's last reported document.hidden. Guarded by Hub.mu.
	hidden bool
}

// Hub fans scene events out to every connected browser and collects
// landmark and visibility messages from them. It implements scene.Renderer
// and scene.UI; none of its hook methods block.
type Hub struct {
	log        zerolog.Logger
	now        func() time.Time
	frames     chan engine.Frame
	visibility chan bool

	mu      sync.RWMutex
	clients map[*client]struct{}
	state   scene.State
	fps     float64
	latest  []byte
	// lastErr is the encoded error event replayed to clients that connect
	// after the failure.
	lastErr []byte
	errText string
	// visible is the last value delivered on the visibility channel.
	visible bool
}

// NewHub creates a Hub with no clients.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log.With().Str("component", "hub").Logger(),
		now:        time.Now,
		frames:     make(chan engine.Frame, frameBuffer),
		visibility: make(chan bool, frameBuffer),
		clients:    make(map[*client]struct{}),
		state:      *scene.NewState(),
		visible:    true,
	}
}

// Frames delivers landmark frames sent by browsers.
func (h *Hub) Frames() <-chan engine.Frame {
	return h.frames
}

// Visibility delivers false when every connected page is hidden and true
// once any page is visible again.
func (h *Hub) Visibility() <-chan bool {
	return h.visibility
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	if h.lastErr != nil {
		c.send <- h.lastErr
	}
	h.updateVisibilityLocked()
	h.mu.Unlock()

	h.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	go h.writeLoop(c)
	h.readLoop(c)

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.updateVisibilityLocked()
	h.mu.Unlock()

	h.log.Info().Str("remote", r.RemoteAddr).Msg("client disconnected")
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug().Err(err).Msg("write failed")
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(maxMessageLen)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Debug().Err(err).Msg("malformed message")
			continue
		}

		switch msg.Type {
		case "landmarks":
			h.pushFrame(frameFromHands(msg.Hands, h.now()))
		case "visibility":
			h.mu.Lock()
			c.hidden = msg.Hidden
			h.updateVisibilityLocked()
			h.mu.Unlock()
		default:
			h.log.Debug().Str("type", msg.Type).Msg("unknown message type")
		}
	}
}

// updateVisibilityLocked reports a change in overall visibility. The scene
// counts as visible unless every connected page is hidden. h.mu must be
// held for writing.
func (h *Hub) updateVisibilityLocked() {
	visible := len(h.clients) == 0
	for c := range h.clients {
		if !c.hidden {
			visible = true
			break
		}
	}
	if visible == h.visible {
		return
	}
	select {
	case h.visibility <- visible:
		h.visible = visible
	default:
		h.log.Warn().Bool("visible", visible).Msg("visibility event dropped")
	}
}

// pushFrame hands a frame to the scene loop, dropping it when the loop lags.
func (h *Hub) pushFrame(f engine.Frame) {
	select {
	case h.frames <- f:
	default:
		h.log.Debug().Msg("frame dropped")
	}
}

// frameFromHands keeps only the first hand. A missing or truncated hand
// becomes a no-hand frame.
func frameFromHands(hands []detector.WireHand, at time.Time) engine.Frame {
	f := engine.Frame{At: at}
	if len(hands) == 0 {
		return f
	}
	if lm, ok := hands[0].ToHandLandmarks(); ok {
		f.Hand = &lm
	}
	return f
}

func (h *Hub) broadcast(event map[string]any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", event["type"].(string)).Msg("encode event")
		return
	}
	h.sendLocked(msg)
}

// sendLocked queues msg for every client. Slow clients miss messages rather
// than stall the scene loop. h.mu must be held.
func (h *Hub) sendLocked(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Debug().Msg("client send buffer full")
		}
	}
}

// BroadcastState pushes a render-tick snapshot and keeps it for /api/state
// and newly connected clients.
func (h *Hub) BroadcastState(s scene.State, fps float64) {
	msg, err := json.Marshal(map[string]any{
		"type":  "state",
		"state": s,
		"fps":   fps,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("encode state")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state, h.fps, h.latest = s, fps, msg
	h.sendLocked(msg)
}

// State returns the most recent snapshot and frame rate.
func (h *Hub) State() (scene.State, float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.fps
}

// Error reports an upstream failure to the browsers. The failure is kept
// and sent to every client that connects later.
func (h *Hub) Error(err error) {
	msg, jerr := json.Marshal(map[string]any{"type": "error", "message": err.Error()})
	if jerr != nil {
		h.log.Error().Err(jerr).Msg("encode error event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr, h.errText = msg, err.Error()
	h.sendLocked(msg)
}

// LastError returns the message of the most recent upstream failure, or ""
// when there has been none.
func (h *Hub) LastError() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.errText
}

func (h *Hub) SetCursorWorldPosition(p scene.Point3) {
	h.broadcast(map[string]any{"type": "cursor", "position": p})
}

func (h *Hub) SpawnTrailBurst(p scene.Point3) {
	h.broadcast(map[string]any{"type": "trail", "position": p})
}

func (h *Hub) SpawnHeart(p scene.Point3) {
	h.broadcast(map[string]any{"type": "heart", "position": p})
}

func (h *Hub) RebuildTreeForTheme(index int, theme scene.Theme) {
	h.broadcast(map[string]any{"type": "theme", "theme": api.ThemeJSON(index, theme)})
}

func (h *Hub) PulseStar() {
	h.broadcast(map[string]any{"type": "pulseStar"})
}

func (h *Hub) PulseTree() {
	h.broadcast(map[string]any{"type": "pulseTree"})
}

func (h *Hub) SetOrnamentFlicker(active bool) {
	h.broadcast(map[string]any{"type": "flicker", "active": active})
}

// ShowFeedback implements scene.UI. Empty text clears the banner.
func (h *Hub) ShowFeedback(text string, d time.Duration) {
	h.broadcast(map[string]any{"type": "feedback", "text": text, "durationMs": d.Milliseconds()})
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.Close()
	}
}

var (
	_ scene.Renderer = (*Hub)(nil)
	_ scene.UI       = (*Hub)(nil)
)
