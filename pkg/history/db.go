package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dicklesworthstone/refactor_tracker/pkg/model"
)

// DB handles transition-history persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the history database at the given path
func OpenDB(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	hdb := &DB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		suggestion_id TEXT NOT NULL,
		file_path TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		reviewer TEXT NOT NULL,
		notes TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_suggestion_id ON transitions(suggestion_id);

	CREATE TABLE IF NOT EXISTS review_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reviewer TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		summary TEXT DEFAULT '',
		items_reviewed INTEGER DEFAULT 0,
		items_approved INTEGER DEFAULT 0,
		items_rejected INTEGER DEFAULT 0,
		items_executed INTEGER DEFAULT 0,
		items_failed INTEGER DEFAULT 0
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordTransition inserts a new transition record
func (d *DB) RecordTransition(t *model.Transition) error {
	result, err := d.db.Exec(`
		INSERT INTO transitions (suggestion_id, file_path, from_status, to_status, reviewer, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.SuggestionID, t.FilePath, string(t.FromStatus), string(t.ToStatus), t.Reviewer, t.Notes, t.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// TransitionsForSuggestion returns all transitions for a suggestion, newest first
func (d *DB) TransitionsForSuggestion(suggestionID string) ([]model.Transition, error) {
	rows, err := d.db.Query(`
		SELECT id, suggestion_id, file_path, from_status, to_status, reviewer, notes, created_at
		FROM transitions
		WHERE suggestion_id = ?
		ORDER BY created_at DESC, id DESC
	`, suggestionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []model.Transition
	for rows.Next() {
		var t model.Transition
		var from, to string
		if err := rows.Scan(&t.ID, &t.SuggestionID, &t.FilePath, &from, &to, &t.Reviewer, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.FromStatus = model.Status(from)
		t.ToStatus = model.Status(to)
		transitions = append(transitions, t)
	}
	return transitions, rows.Err()
}

// StartSession creates a new review session
func (d *DB) StartSession(reviewer string) (*model.ReviewSession, error) {
	now := time.Now()
	result, err := d.db.Exec(`
		INSERT INTO review_sessions (reviewer, started_at)
		VALUES (?, ?)
	`, reviewer, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.ReviewSession{
		ID:        id,
		Reviewer:  reviewer,
		StartedAt: now,
	}, nil
}

// UpdateSessionCounters updates the decision counters for a session
func (d *DB) UpdateSessionCounters(session *model.ReviewSession) error {
	_, err := d.db.Exec(`
		UPDATE review_sessions
		SET items_reviewed = ?, items_approved = ?, items_rejected = ?, items_executed = ?, items_failed = ?
		WHERE id = ?
	`, session.ItemsReviewed, session.ItemsApproved, session.ItemsRejected, session.ItemsExecuted, session.ItemsFailed, session.ID)
	return err
}

// CompleteSession marks a session as complete
func (d *DB) CompleteSession(session *model.ReviewSession) error {
	now := time.Now()
	session.CompletedAt = &now
	_, err := d.db.Exec(`
		UPDATE review_sessions
		SET completed_at = ?, summary = ?, items_reviewed = ?, items_approved = ?, items_rejected = ?, items_executed = ?, items_failed = ?
		WHERE id = ?
	`, now, session.Summary, session.ItemsReviewed, session.ItemsApproved, session.ItemsRejected, session.ItemsExecuted, session.ItemsFailed, session.ID)
	return err
}

// GetSession retrieves a session by ID
func (d *DB) GetSession(id int64) (*model.ReviewSession, error) {
	var s model.ReviewSession
	var completedAt sql.NullTime
	err := d.db.QueryRow(`
		SELECT id, reviewer, started_at, completed_at, summary, items_reviewed, items_approved, items_rejected, items_executed, items_failed
		FROM review_sessions
		WHERE id = ?
	`, id).Scan(&s.ID, &s.Reviewer, &s.StartedAt, &completedAt, &s.Summary, &s.ItemsReviewed, &s.ItemsApproved, &s.ItemsRejected, &s.ItemsExecuted, &s.ItemsFailed)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return &s, nil
}
