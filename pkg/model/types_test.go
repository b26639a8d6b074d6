package model

import (
	"testing"
	"time"
)

func TestStatusIsValid(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusPending, true},
		{StatusApproved, true},
		{StatusRejected, true},
		{StatusExecuted, true},
		{StatusFailed, true},
		{Status("archived"), false},
		{Status(""), false},
		{Status("PENDING"), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.status, got, tt.valid)
		}
	}
}

func TestStatusLifecycleHelpers(t *testing.T) {
	if !StatusPending.AwaitsReview() {
		t.Error("pending should await review")
	}
	if StatusApproved.AwaitsReview() {
		t.Error("approved should not await review")
	}
	if StatusApproved.IsTerminal() {
		t.Error("approved is not terminal; execution still has to report back")
	}
	for _, st := range []Status{StatusRejected, StatusExecuted, StatusFailed} {
		if !st.IsTerminal() {
			t.Errorf("%s should be terminal", st)
		}
	}
}

func TestAllStatusesCoversEnum(t *testing.T) {
	all := AllStatuses()
	if len(all) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(all))
	}
	for _, st := range all {
		if !st.IsValid() {
			t.Errorf("AllStatuses returned invalid status %q", st)
		}
	}
}

func TestSuggestionClone(t *testing.T) {
	now := time.Now()
	orig := Suggestion{
		ID:       "ab12cd34",
		FilePath: "pkg/parser.go",
		Data: map[string]any{
			"diff":  "-a\n+b",
			"scope": map[string]any{"function": "Parse"},
		},
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]any{"strategy": "inline"},
	}

	clone := orig.Clone()
	clone.Data["diff"] = "tampered"
	clone.Data["scope"].(map[string]any)["function"] = "tampered"
	clone.Metadata["strategy"] = "tampered"

	if orig.Data["diff"] != "-a\n+b" {
		t.Error("Clone should deep-copy data")
	}
	if orig.Data["scope"].(map[string]any)["function"] != "Parse" {
		t.Error("Clone should deep-copy nested maps")
	}
	if orig.Metadata["strategy"] != "inline" {
		t.Error("Clone should deep-copy metadata")
	}
}

func TestSuggestionValidate(t *testing.T) {
	now := time.Now()
	valid := Suggestion{
		ID:        "ab12cd34",
		Data:      map[string]any{},
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid suggestion rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Suggestion)
	}{
		{"empty id", func(s *Suggestion) { s.ID = "" }},
		{"nil data", func(s *Suggestion) { s.Data = nil }},
		{"bad status", func(s *Suggestion) { s.Status = "archived" }},
		{"updated before created", func(s *Suggestion) { s.UpdatedAt = s.CreatedAt.Add(-time.Hour) }},
	}
	for _, tt := range tests {
		s := valid
		tt.mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestNewStatisticsSeedsAllStatuses(t *testing.T) {
	stats := NewStatistics()
	if stats.Total != 0 {
		t.Errorf("total = %d, want 0", stats.Total)
	}
	for _, st := range AllStatuses() {
		if count, ok := stats.ByStatus[st]; !ok || count != 0 {
			t.Errorf("status %s should be pre-seeded at 0", st)
		}
	}
	if stats.ByFile == nil || len(stats.ByFile) != 0 {
		t.Errorf("by-file map should start empty, got %v", stats.ByFile)
	}
}
