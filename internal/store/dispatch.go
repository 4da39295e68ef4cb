package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps ListRecent when no positive limit is given.
const DefaultListLimit = 50

// Dispatch is one fired gesture.
type Dispatch struct {
	ID                 string    `json:"id"`
	SessionID          string    `json:"session_id"`
	Gesture            string    `json:"gesture"`
	Fingers            string    `json:"fingers"`
	ThumbIndexDistance float64   `json:"thumb_index_distance"`
	ThemeIndex         int       `json:"theme_index"`
	At                 time.Time `json:"at"`
}

// DispatchRepository is the append-only dispatch journal.
type DispatchRepository struct {
	db *sql.DB
}

// Dispatches returns the dispatch repository for this store.
func (s *Store) Dispatches() *DispatchRepository {
	return &DispatchRepository{db: s.db}
}

// Create appends a dispatch. An empty ID is filled in.
func (r *DispatchRepository) Create(d *Dispatch) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.At = d.At.UTC()
	_, err := r.db.Exec(
		`INSERT INTO dispatches (id, session_id, gesture, fingers, thumb_index_distance, theme_index, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.SessionID, d.Gesture, d.Fingers, d.ThumbIndexDistance, d.ThemeIndex, d.At,
	)
	return err
}

// ListRecent returns up to limit dispatches, newest first.
func (r *DispatchRepository) ListRecent(limit int) ([]*Dispatch, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.db.Query(
		`SELECT id, session_id, gesture, fingers, thumb_index_distance, theme_index, at
		 FROM dispatches ORDER BY at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dispatches []*Dispatch
	for rows.Next() {
		d := &Dispatch{}
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Gesture, &d.Fingers, &d.ThumbIndexDistance, &d.ThemeIndex, &d.At); err != nil {
			return nil, err
		}
		dispatches = append(dispatches, d)
	}
	return dispatches, rows.Err()
}

// CountByGesture returns how often each gesture fired in a session.
// An empty sessionID counts across all sessions.
func (r *DispatchRepository) CountByGesture(sessionID string) (map[string]int, error) {
	query := `SELECT gesture, COUNT(*) FROM dispatches GROUP BY gesture`
	args := []any{}
	if sessionID != "" {
		query = `SELECT gesture, COUNT(*) FROM dispatches WHERE session_id = ? GROUP BY gesture`
		args = append(args, sessionID)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gesture string
		var n int
		if err := rows.Scan(&gesture, &n); err != nil {
			return nil, err
		}
		counts[gesture] = n
	}
	return counts, rows.Err()
}
