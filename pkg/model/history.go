package model

import "time"

// Transition records a single status change applied to a suggestion
type Transition struct {
	ID           int64     `json:"id"`
	SuggestionID string    `json:"suggestion_id"`
	FilePath     string    `json:"file_path"`
	FromStatus   Status    `json:"from_status"`
	ToStatus     Status    `json:"to_status"`
	Reviewer     string    `json:"reviewer"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewSession groups review decisions made together in one sitting
type ReviewSession struct {
	ID            int64      `json:"id"`
	Reviewer      string     `json:"reviewer"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Summary       string     `json:"summary"`
	ItemsReviewed int        `json:"items_reviewed"`
	ItemsApproved int        `json:"items_approved"`
	ItemsRejected int        `json:"items_rejected"`
	ItemsExecuted int        `json:"items_executed"`
	ItemsFailed   int        `json:"items_failed"`
}
