package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/christmasmagic/internal/capture"
	"github.com/ayusman/christmasmagic/internal/detector"
	"github.com/ayusman/christmasmagic/internal/scene"
	"github.com/ayusman/christmasmagic/internal/store"
)

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zerolog.New(io.Discard))
	ts := httptest.NewServer(New(Config{Hub: hub}))
	t.Cleanup(ts.Close)
	return hub, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitClients blocks until the hub has registered n clients.
func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event map[string]any
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return event
}

func TestHub_BroadcastsHooks(t *testing.T) {
	hub, ts := newHubServer(t)
	conn := dial(t, ts)
	waitClients(t, hub, 1)

	hub.ShowFeedback("Rainbow mode", 2*time.Second)
	hub.RebuildTreeForTheme(1, scene.DefaultThemes()[1])
	hub.SetOrnamentFlicker(true)
	hub.SpawnHeart(scene.Point3{X: 1, Y: 2, Z: 5})

	feedback := readEvent(t, conn)
	if feedback["type"] != "feedback" || feedback["text"] != "Rainbow mode" || feedback["durationMs"] != 2000.0 {
		t.Errorf("feedback event = %v", feedback)
	}

	theme := readEvent(t, conn)
	inner, _ := theme["theme"].(map[string]any)
	if theme["type"] != "theme" || inner["name"] != "Frozen" || inner["index"] != 1.0 {
		t.Errorf("theme event = %v", theme)
	}

	flicker := readEvent(t, conn)
	if flicker["type"] != "flicker" || flicker["active"] != true {
		t.Errorf("flicker event = %v", flicker)
	}

	heart := readEvent(t, conn)
	pos, _ := heart["position"].(map[string]any)
	if heart["type"] != "heart" || pos["z"] != 5.0 {
		t.Errorf("heart event = %v", heart)
	}
}

func TestHub_SendsLatestStateOnConnect(t *testing.T) {
	hub, ts := newHubServer(t)

	st := *scene.NewState()
	st.BGMPlaying = true
	hub.BroadcastState(st, 60)

	conn := dial(t, ts)
	event := readEvent(t, conn)

	if event["type"] != "state" || event["fps"] != 60.0 {
		t.Fatalf("state event = %v", event)
	}
	inner, _ := event["state"].(map[string]any)
	if inner["bgmPlaying"] != true || inner["lastGesture"] != "None" {
		t.Errorf("state payload = %v", inner)
	}
}

func TestHub_ReceivesLandmarks(t *testing.T) {
	hub, ts := newHubServer(t)
	conn := dial(t, ts)

	victory := detector.VictoryLandmarks()
	msg := map[string]any{
		"type":  "landmarks",
		"hands": []detector.WireHand{{Points: victory.Points[:], Handedness: "Right", Score: 0.9}},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write landmarks: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "landmarks", "hands": []any{}}); err != nil {
		t.Fatalf("write empty landmarks: %v", err)
	}

	for i, wantHand := range []bool{true, false} {
		select {
		case f := <-hub.Frames():
			if (f.Hand != nil) != wantHand {
				t.Errorf("frame %d hand present = %v, want %v", i, f.Hand != nil, wantHand)
			}
			if wantHand && f.Hand.Points[detector.IndexTip] != victory.Points[detector.IndexTip] {
				t.Errorf("index tip = %+v, want %+v", f.Hand.Points[detector.IndexTip], victory.Points[detector.IndexTip])
			}
			if f.At.IsZero() {
				t.Error("frame timestamp not set")
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d not delivered", i)
		}
	}
}

func TestHub_ReceivesVisibility(t *testing.T) {
	hub, ts := newHubServer(t)
	conn := dial(t, ts)

	conn.WriteJSON(map[string]any{"type": "visibility", "hidden": true})
	conn.WriteJSON(map[string]any{"type": "visibility", "hidden": false})

	for _, want := range []bool{false, true} {
		select {
		case visible := <-hub.Visibility():
			if visible != want {
				t.Errorf("visible = %v, want %v", visible, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("visibility not delivered")
		}
	}
}

func TestHub_ReplaysErrorOnConnect(t *testing.T) {
	hub, ts := newHubServer(t)

	// The failure happens before any browser is listening.
	hub.Error(errors.New("camera open failed"))

	conn := dial(t, ts)
	event := readEvent(t, conn)
	if event["type"] != "error" || event["message"] != "camera open failed" {
		t.Errorf("first event = %v, want the camera error", event)
	}
	if got := hub.LastError(); got != "camera open failed" {
		t.Errorf("LastError() = %q", got)
	}
}

func TestHub_VisibilityAcrossClients(t *testing.T) {
	hub, ts := newHubServer(t)
	first := dial(t, ts)
	second := dial(t, ts)
	waitClients(t, hub, 2)

	expect := func(want bool) {
		t.Helper()
		select {
		case visible := <-hub.Visibility():
			if visible != want {
				t.Errorf("visible = %v, want %v", visible, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("visibility %v not delivered", want)
		}
	}
	expectNone := func() {
		t.Helper()
		select {
		case visible := <-hub.Visibility():
			t.Errorf("unexpected visibility %v", visible)
		case <-time.After(100 * time.Millisecond):
		}
	}

	// One hidden tab does not pause the scene for the other.
	first.WriteJSON(map[string]any{"type": "visibility", "hidden": true})
	expectNone()

	second.WriteJSON(map[string]any{"type": "visibility", "hidden": true})
	expect(false)

	first.WriteJSON(map[string]any{"type": "visibility", "hidden": false})
	expect(true)

	// The visible tab leaves; only a hidden one remains.
	first.Close()
	waitClients(t, hub, 1)
	expect(false)

	// A newly opened page is visible until it says otherwise.
	dial(t, ts)
	waitClients(t, hub, 2)
	expect(true)
}

func TestHub_IgnoresMalformedMessages(t *testing.T) {
	hub, ts := newHubServer(t)
	conn := dial(t, ts)

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(map[string]any{"type": "dance"})
	conn.WriteJSON(map[string]any{"type": "landmarks"})

	select {
	case f := <-hub.Frames():
		if f.Hand != nil {
			t.Error("expected a no-hand frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("connection should survive malformed messages")
	}
}

func TestHub_Disconnect(t *testing.T) {
	hub, ts := newHubServer(t)
	conn := dial(t, ts)
	waitClients(t, hub, 1)

	conn.Close()
	waitClients(t, hub, 0)

	// Broadcasting with no clients must not panic or block.
	hub.PulseStar()
}

func TestStream_ServesPublishedFrames(t *testing.T) {
	frames := capture.NewFrameCache()
	ts := httptest.NewServer(New(Config{Frames: frames}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	go func() {
		time.Sleep(20 * time.Millisecond)
		frames.Publish([]byte("jpeg-bytes"))
	}()

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Fatalf("Content-Type = %s", ct)
	}

	r := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 4 {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}

	if lines[0] != "--frame" || lines[1] != "Content-Type: image/jpeg" || lines[2] != "Content-Length: 10" {
		t.Errorf("part headers = %q", lines[:3])
	}
}

func TestAPI_DispatchJournal(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	session, err := s.Sessions().Start("camera", time.Now())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Dispatches().Create(&store.Dispatch{SessionID: session.ID, Gesture: "Shaka", At: time.Now()})

	ts := httptest.NewServer(New(Config{Store: s}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/dispatches?limit=5")
	if err != nil {
		t.Fatalf("GET /api/dispatches error = %v", err)
	}
	defer resp.Body.Close()

	var listed struct {
		Dispatches []store.Dispatch `json:"dispatches"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)

	if len(listed.Dispatches) != 1 || listed.Dispatches[0].Gesture != "Shaka" {
		t.Errorf("dispatches = %+v, want one Shaka", listed.Dispatches)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
