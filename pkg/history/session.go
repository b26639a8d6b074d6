// Package history keeps an audit trail of review decisions in a sqlite
// database alongside the suggestion store. The store itself stays silent
// about transitions; the review tool records them here.
package history

import (
	"log"
	"path/filepath"
	"time"

	"github.com/Dicklesworthstone/refactor_tracker/pkg/model"
)

// SessionManager handles review session lifecycle
type SessionManager struct {
	db      *DB
	session *model.ReviewSession
	dbPath  string
}

// NewSessionManager creates a new session manager
// dbPath should be like ".refactor/history.db"
func NewSessionManager(dbPath string) (*SessionManager, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}

	return &SessionManager{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// StartSession creates a new review session for the given reviewer
func (sm *SessionManager) StartSession(reviewer string) error {
	session, err := sm.db.StartSession(reviewer)
	if err != nil {
		return err
	}
	sm.session = session
	return nil
}

// CurrentSession returns the current active session
func (sm *SessionManager) CurrentSession() *model.ReviewSession {
	return sm.session
}

// RecordDecision records a status transition and updates session counters
func (sm *SessionManager) RecordDecision(sg model.Suggestion, to model.Status, notes string) error {
	reviewer := ""
	if sm.session != nil {
		reviewer = sm.session.Reviewer
	}

	t := &model.Transition{
		SuggestionID: sg.ID,
		FilePath:     sg.FilePath,
		FromStatus:   sg.Status,
		ToStatus:     to,
		Reviewer:     reviewer,
		Notes:        notes,
		CreatedAt:    time.Now(),
	}

	if err := sm.db.RecordTransition(t); err != nil {
		return err
	}

	// Update session counters if we have an active session
	if sm.session != nil {
		sm.session.ItemsReviewed++
		switch to {
		case model.StatusApproved:
			sm.session.ItemsApproved++
		case model.StatusRejected:
			sm.session.ItemsRejected++
		case model.StatusExecuted:
			sm.session.ItemsExecuted++
		case model.StatusFailed:
			sm.session.ItemsFailed++
		}

		if err := sm.db.UpdateSessionCounters(sm.session); err != nil {
			log.Printf("Warning: failed to update session counters: %v", err)
		}
	}

	return nil
}

// GetTransitionHistory returns the transition history for a suggestion
func (sm *SessionManager) GetTransitionHistory(suggestionID string) ([]model.Transition, error) {
	return sm.db.TransitionsForSuggestion(suggestionID)
}

// CompleteSession marks the current session as complete
func (sm *SessionManager) CompleteSession(summary string) error {
	if sm.session == nil {
		return nil
	}

	sm.session.Summary = summary
	return sm.db.CompleteSession(sm.session)
}

// Close closes the database connection
func (sm *SessionManager) Close() error {
	return sm.db.Close()
}

// GetDefaultDBPath returns the default history database path
func GetDefaultDBPath() string {
	return filepath.Join(".refactor", "history.db")
}

// TryStartSession attempts to start a session, logging errors but not failing
func TryStartSession(reviewer string) *SessionManager {
	sm, err := NewSessionManager(GetDefaultDBPath())
	if err != nil {
		log.Printf("Warning: could not open history database: %v", err)
		return nil
	}

	if err := sm.StartSession(reviewer); err != nil {
		log.Printf("Warning: could not start review session: %v", err)
		sm.Close()
		return nil
	}

	return sm
}
