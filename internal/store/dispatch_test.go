package store

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)

func startSession(t *testing.T, s *Store) *Session {
	t.Helper()
	sess, err := s.Sessions().Start("camera", t0)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return sess
}

func TestSessionRepository_StartEnd(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)

	if sess.ID == "" {
		t.Fatal("session ID should be generated")
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Source != "camera" || !got.StartedAt.Equal(t0) {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.EndedAt != nil {
		t.Error("new session should not have ended")
	}

	end := t0.Add(time.Hour)
	if err := s.Sessions().End(sess.ID, end); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	got, err = s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(end) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, end)
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := s.Sessions().End("missing", t0); !errors.Is(err, ErrNotFound) {
		t.Errorf("End() error = %v, want ErrNotFound", err)
	}
}

func TestDispatchRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)

	gestures := []string{"Victory", "Shaka", "Open"}
	for i, g := range gestures {
		d := &Dispatch{
			SessionID: sess.ID,
			Gesture:   g,
			Fingers:   "-1100",
			At:        t0.Add(time.Duration(i) * time.Second),
		}
		if err := s.Dispatches().Create(d); err != nil {
			t.Fatalf("Create(%s) error = %v", g, err)
		}
		if d.ID == "" {
			t.Errorf("Create(%s) should assign an ID", g)
		}
	}

	list, err := s.Dispatches().ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListRecent(2) returned %d rows", len(list))
	}
	if list[0].Gesture != "Open" || list[1].Gesture != "Shaka" {
		t.Errorf("ListRecent order = %s, %s; want Open, Shaka", list[0].Gesture, list[1].Gesture)
	}
	if !list[0].At.Equal(t0.Add(2 * time.Second)) {
		t.Errorf("At = %v", list[0].At)
	}

	all, err := s.Dispatches().ListRecent(0)
	if err != nil {
		t.Fatalf("ListRecent(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRecent(0) returned %d rows, want 3", len(all))
	}
}

func TestDispatchRepository_UnknownSession(t *testing.T) {
	s := newTestStore(t)

	err := s.Dispatches().Create(&Dispatch{SessionID: "missing", Gesture: "OK", Fingers: "-0111", At: t0})
	if err == nil {
		t.Error("Create() should fail for an unknown session")
	}
}

func TestDispatchRepository_CountByGesture(t *testing.T) {
	s := newTestStore(t)
	first := startSession(t, s)
	second := startSession(t, s)

	add := func(sessionID, gesture string) {
		t.Helper()
		if err := s.Dispatches().Create(&Dispatch{SessionID: sessionID, Gesture: gesture, Fingers: "", At: t0}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	add(first.ID, "Victory")
	add(first.ID, "Victory")
	add(first.ID, "Love")
	add(second.ID, "Victory")

	counts, err := s.Dispatches().CountByGesture(first.ID)
	if err != nil {
		t.Fatalf("CountByGesture() error = %v", err)
	}
	if counts["Victory"] != 2 || counts["Love"] != 1 || len(counts) != 2 {
		t.Errorf("CountByGesture(first) = %v", counts)
	}

	counts, err = s.Dispatches().CountByGesture("")
	if err != nil {
		t.Fatalf("CountByGesture(all) error = %v", err)
	}
	if counts["Victory"] != 3 {
		t.Errorf("CountByGesture(all)[Victory] = %d, want 3", counts["Victory"])
	}
}
