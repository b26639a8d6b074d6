package analysis

import (
	"testing"
	"time"

	"github.com/Dicklesworthstone/refactor_tracker/pkg/model"
)

func makeSuggestion(id, path string, status model.Status, age time.Duration) model.Suggestion {
	created := time.Now().Add(-age)
	return model.Suggestion{
		ID:        id,
		FilePath:  path,
		Data:      map[string]any{},
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCalculateStatusSummary(t *testing.T) {
	suggestions := []model.Suggestion{
		makeSuggestion("a1", "a.go", model.StatusPending, time.Hour),
		makeSuggestion("a2", "a.go", model.StatusApproved, time.Hour),
		makeSuggestion("a3", "a.go", model.StatusRejected, time.Hour),
		makeSuggestion("b1", "b.go", model.StatusExecuted, time.Hour),
		makeSuggestion("b2", "b.go", model.StatusFailed, time.Hour),
	}

	summary := CalculateStatusSummary(suggestions)
	if summary.Total != 5 {
		t.Errorf("total = %d, want 5", summary.Total)
	}
	if summary.Pending != 1 || summary.Approved != 1 || summary.Rejected != 1 || summary.Executed != 1 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Decided() != 4 {
		t.Errorf("decided = %d, want 4", summary.Decided())
	}
}

func TestApprovalRate(t *testing.T) {
	tests := []struct {
		name    string
		summary StatusSummary
		want    float64
	}{
		{"nothing decided", StatusSummary{Total: 3, Pending: 3}, 0},
		{"all approved", StatusSummary{Total: 2, Approved: 2}, 1},
		{"executed counts as approved", StatusSummary{Total: 4, Approved: 1, Executed: 1, Rejected: 2}, 0.5},
		{"all rejected", StatusSummary{Total: 2, Rejected: 2}, 0},
	}

	for _, tt := range tests {
		if got := tt.summary.ApprovalRate(); got != tt.want {
			t.Errorf("%s: approval rate = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestBuildFileReports(t *testing.T) {
	suggestions := []model.Suggestion{
		// a.go: one fresh pending, one stale pending -> critical
		makeSuggestion("a1", "a.go", model.StatusPending, time.Hour),
		makeSuggestion("a2", "a.go", model.StatusPending, 20*24*time.Hour),
		// b.go: fresh pending only -> warning
		makeSuggestion("b1", "b.go", model.StatusPending, time.Hour),
		// c.go: everything resolved -> healthy
		makeSuggestion("c1", "c.go", model.StatusExecuted, time.Hour),
	}

	reports := BuildFileReports(suggestions, DefaultFileReportConfig())
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}

	// Worst first.
	if reports[0].FilePath != "a.go" || reports[0].AttentionLevel != AttentionCritical {
		t.Errorf("expected a.go critical first, got %s (%s)", reports[0].FilePath, reports[0].AttentionLevel)
	}
	if reports[1].FilePath != "b.go" || reports[1].AttentionLevel != AttentionWarning {
		t.Errorf("expected b.go warning second, got %s (%s)", reports[1].FilePath, reports[1].AttentionLevel)
	}
	if reports[2].FilePath != "c.go" || reports[2].AttentionLevel != AttentionHealthy {
		t.Errorf("expected c.go healthy last, got %s (%s)", reports[2].FilePath, reports[2].AttentionLevel)
	}

	a := reports[0]
	if a.StaleCount != 1 {
		t.Errorf("a.go stale count = %d, want 1", a.StaleCount)
	}
	if a.OldestPending == nil {
		t.Fatal("a.go should report its oldest pending suggestion")
	}
	if age := time.Since(*a.OldestPending); age < 19*24*time.Hour {
		t.Errorf("oldest pending should be the stale one, age = %v", age)
	}
}

func TestBuildFileReportsIncludeIDs(t *testing.T) {
	suggestions := []model.Suggestion{
		makeSuggestion("a1", "a.go", model.StatusPending, time.Hour),
		makeSuggestion("a2", "a.go", model.StatusApproved, time.Hour),
	}

	cfg := DefaultFileReportConfig()
	cfg.IncludeIDs = true
	reports := BuildFileReports(suggestions, cfg)
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if len(reports[0].SuggestionIDs) != 2 {
		t.Errorf("expected 2 suggestion ids, got %v", reports[0].SuggestionIDs)
	}
}

func TestBuildFileReportsEmpty(t *testing.T) {
	reports := BuildFileReports(nil, DefaultFileReportConfig())
	if len(reports) != 0 {
		t.Errorf("expected no reports for empty input, got %d", len(reports))
	}
}
