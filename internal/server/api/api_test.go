package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/christmasmagic/internal/scene"
	"github.com/ayusman/christmasmagic/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func seedDispatches(t *testing.T, s *store.Store, gestures ...string) *store.Session {
	t.Helper()

	t0 := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)
	session, err := s.Sessions().Start("test", t0)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	for i, g := range gestures {
		d := &store.Dispatch{
			SessionID: session.ID,
			Gesture:   g,
			At:        t0.Add(time.Duration(i) * time.Second),
		}
		if err := s.Dispatches().Create(d); err != nil {
			t.Fatalf("failed to create dispatch: %v", err)
		}
	}
	return session
}

func TestGestureHandler_Catalogue(t *testing.T) {
	handler := NewGestureHandler("800ms")

	req := httptest.NewRequest(http.MethodGet, "/api/gestures", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listGesturesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Cooldown != "800ms" {
		t.Errorf("cooldown = %q, want 800ms", response.Cooldown)
	}
	if len(response.Gestures) != 8 {
		t.Fatalf("expected 8 gestures, got %d", len(response.Gestures))
	}

	byLabel := make(map[string]gestureResponse)
	for _, g := range response.Gestures {
		byLabel[g.Label] = g
	}

	tests := []struct {
		label   string
		fingers string
		locks   bool
	}{
		{"Fist", "-0000", true},
		{"Victory", "-1100", true},
		{"Point", "01000", false},
		{"Open", "-1111", true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			g, ok := byLabel[tt.label]
			if !ok {
				t.Fatalf("gesture %s missing from catalogue", tt.label)
			}
			if g.Fingers != tt.fingers {
				t.Errorf("fingers = %q, want %q", g.Fingers, tt.fingers)
			}
			if g.Locks != tt.locks {
				t.Errorf("locks = %v, want %v", g.Locks, tt.locks)
			}
			if g.Action == "" || g.Action == "nothing" {
				t.Errorf("action = %q, want a description", g.Action)
			}
		})
	}

	if _, ok := byLabel["None"]; ok {
		t.Error("None should not be listed")
	}
}

func TestHandlers_OnlyAllowGet(t *testing.T) {
	handlers := map[string]http.Handler{
		"/api/gestures":   NewGestureHandler("800ms"),
		"/api/themes":     NewThemeHandler(scene.DefaultThemes()),
		"/api/dispatches": NewDispatchHandler(newTestStore(t)),
	}

	for path, h := range handlers {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("%s %s: expected status %d, got %d", method, path, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	}
}

func TestThemeHandler_List(t *testing.T) {
	handler := NewThemeHandler(scene.DefaultThemes())

	req := httptest.NewRequest(http.MethodGet, "/api/themes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response listThemesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Themes) != 3 {
		t.Fatalf("expected 3 themes, got %d", len(response.Themes))
	}

	classic := response.Themes[0]
	if classic.Index != 0 || classic.Name != "Classic" {
		t.Errorf("first theme = %d/%s, want 0/Classic", classic.Index, classic.Name)
	}
	want := []string{"#2ecc71", "#f1c40f", "#e74c3c"}
	for i, c := range want {
		if classic.Colors[i] != c {
			t.Errorf("color %d = %s, want %s", i, classic.Colors[i], c)
		}
	}
	if response.Themes[1].Colors[1] != "#ffffff" {
		t.Errorf("Frozen white = %s, want #ffffff", response.Themes[1].Colors[1])
	}
}

func TestDispatchHandler_List(t *testing.T) {
	s := newTestStore(t)
	seedDispatches(t, s, "Victory", "Shaka", "OK")
	handler := NewDispatchHandler(s)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
		wantFirst string
	}{
		{"default limit", "", http.StatusOK, 3, "OK"},
		{"limited", "?limit=2", http.StatusOK, 2, "OK"},
		{"zero limit", "?limit=0", http.StatusBadRequest, 0, ""},
		{"non-numeric limit", "?limit=many", http.StatusBadRequest, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dispatches"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var response listDispatchesResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Dispatches) != tt.wantCount {
				t.Fatalf("expected %d dispatches, got %d", tt.wantCount, len(response.Dispatches))
			}
			if response.Dispatches[0].Gesture != tt.wantFirst {
				t.Errorf("newest gesture = %s, want %s", response.Dispatches[0].Gesture, tt.wantFirst)
			}
		})
	}
}

func TestDispatchHandler_EmptyJournal(t *testing.T) {
	handler := NewDispatchHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/dispatches", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["dispatches"]) != "[]" {
		t.Errorf("dispatches = %s, want []", raw["dispatches"])
	}
}

func TestDispatchHandler_Counts(t *testing.T) {
	s := newTestStore(t)
	session := seedDispatches(t, s, "Victory", "Victory", "Love")
	seedDispatches(t, s, "Victory")
	handler := NewDispatchHandler(s)

	t.Run("per session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dispatches/counts?session="+session.ID, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var response countsResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Counts["Victory"] != 2 || response.Counts["Love"] != 1 {
			t.Errorf("counts = %v, want Victory:2 Love:1", response.Counts)
		}
	})

	t.Run("whole journal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dispatches/counts", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var response countsResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Counts["Victory"] != 3 {
			t.Errorf("Victory count = %d, want 3", response.Counts["Victory"])
		}
	})

	t.Run("unknown subpath", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dispatches/nope", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}
