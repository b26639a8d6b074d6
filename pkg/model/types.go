package model

import (
	"fmt"
	"time"
)

// Suggestion represents a single AI-generated refactoring proposal tracked
// through its review lifecycle.
type Suggestion struct {
	ID              string         `json:"id" yaml:"id"`
	FilePath        string         `json:"file_path" yaml:"file_path"`
	Data            map[string]any `json:"data" yaml:"data"`
	Status          Status         `json:"status" yaml:"status"`
	CreatedAt       time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" yaml:"updated_at"`
	Metadata        map[string]any `json:"metadata" yaml:"metadata"`
	ExecutionResult map[string]any `json:"execution_result,omitempty" yaml:"execution_result,omitempty"`
}

// Clone creates a deep copy of the suggestion
func (s Suggestion) Clone() Suggestion {
	clone := s
	clone.Data = cloneMap(s.Data)
	clone.Metadata = cloneMap(s.Metadata)
	clone.ExecutionResult = cloneMap(s.ExecutionResult)
	return clone
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// Validate checks if the suggestion data is logically valid
func (s *Suggestion) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("suggestion ID cannot be empty")
	}
	if s.Data == nil {
		return fmt.Errorf("suggestion data cannot be nil")
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", s.Status)
	}
	if !s.UpdatedAt.IsZero() && !s.CreatedAt.IsZero() && s.UpdatedAt.Before(s.CreatedAt) {
		return fmt.Errorf("updated_at (%v) cannot be before created_at (%v)", s.UpdatedAt, s.CreatedAt)
	}
	return nil
}

// Age returns how long ago the suggestion was created, relative to now.
func (s *Suggestion) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// Status represents the current review lifecycle stage of a suggestion
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExecuted Status = "executed"
	StatusFailed   Status = "failed"
)

// AllStatuses lists every recognized status, in lifecycle order.
// Statistics pre-seeds its per-status counts from this list.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected, StatusExecuted, StatusFailed}
}

// IsValid returns true if the status is a recognized value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusExecuted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if the status represents a finished lifecycle
// (the execution collaborator has reported back, or the reviewer declined)
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusExecuted || s == StatusFailed
}

// AwaitsReview returns true if the suggestion still needs a human decision
func (s Status) AwaitsReview() bool {
	return s == StatusPending
}

// Statistics summarizes the contents of a suggestion store
type Statistics struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	ByFile   map[string]int `json:"by_file"`
}

// NewStatistics returns an empty Statistics with every status key present
// at zero, so absent statuses report 0 rather than missing.
func NewStatistics() Statistics {
	byStatus := make(map[Status]int, len(AllStatuses()))
	for _, st := range AllStatuses() {
		byStatus[st] = 0
	}
	return Statistics{
		ByStatus: byStatus,
		ByFile:   make(map[string]int),
	}
}
