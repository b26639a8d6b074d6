package analysis

import (
	"sort"
	"time"

	"github.com/Dicklesworthstone/refactor_tracker/pkg/model"
)

// StatusSummary contains aggregate lifecycle statistics
type StatusSummary struct {
	Total    int `json:"total" yaml:"total"`
	Pending  int `json:"pending" yaml:"pending"`
	Approved int `json:"approved" yaml:"approved"`
	Rejected int `json:"rejected" yaml:"rejected"`
	Executed int `json:"executed" yaml:"executed"`
	Failed   int `json:"failed" yaml:"failed"`
}

// CalculateStatusSummary calculates lifecycle statistics for a set of suggestions
func CalculateStatusSummary(suggestions []model.Suggestion) StatusSummary {
	summary := StatusSummary{
		Total: len(suggestions),
	}

	for _, sg := range suggestions {
		switch sg.Status {
		case model.StatusPending:
			summary.Pending++
		case model.StatusApproved:
			summary.Approved++
		case model.StatusRejected:
			summary.Rejected++
		case model.StatusExecuted:
			summary.Executed++
		case model.StatusFailed:
			summary.Failed++
		}
	}

	return summary
}

// Decided returns the number of suggestions that received a human decision
func (s StatusSummary) Decided() int {
	return s.Approved + s.Rejected + s.Executed + s.Failed
}

// ApprovalRate returns the fraction of decided suggestions that were approved
// or went on to execute. Returns 0 when nothing has been decided yet.
func (s StatusSummary) ApprovalRate() float64 {
	decided := s.Decided()
	if decided == 0 {
		return 0
	}
	return float64(s.Approved+s.Executed) / float64(decided)
}

// Attention level constants
const (
	AttentionHealthy  = "healthy"
	AttentionWarning  = "warning"
	AttentionCritical = "critical"
)

// DefaultStaleThresholdDays is how old a pending suggestion must be before it
// counts as stale.
const DefaultStaleThresholdDays = 14

// FileReportConfig controls per-file report generation
type FileReportConfig struct {
	StaleThresholdDays int  // Pending suggestions older than this are stale
	IncludeIDs         bool // Attach suggestion IDs to each report
}

// DefaultFileReportConfig returns the standard report configuration
func DefaultFileReportConfig() FileReportConfig {
	return FileReportConfig{
		StaleThresholdDays: DefaultStaleThresholdDays,
	}
}

// FileReport summarizes suggestion activity for a single source file
type FileReport struct {
	FilePath       string        `json:"file_path"`
	Summary        StatusSummary `json:"summary"`
	StaleCount     int           `json:"stale_count"`               // Pending suggestions older than threshold
	OldestPending  *time.Time    `json:"oldest_pending,omitempty"`  // Created time of oldest pending suggestion
	AttentionLevel string        `json:"attention_level"`           // "healthy", "warning", "critical"
	SuggestionIDs  []string      `json:"suggestion_ids,omitempty"`  // Populated when IncludeIDs is set
}

// BuildFileReports groups suggestions by file path and builds one report per
// file, ordered worst-first (critical before warning before healthy, larger
// backlogs first within a level).
func BuildFileReports(suggestions []model.Suggestion, cfg FileReportConfig) []FileReport {
	if cfg.StaleThresholdDays <= 0 {
		cfg.StaleThresholdDays = DefaultStaleThresholdDays
	}

	byFile := make(map[string][]model.Suggestion)
	for _, sg := range suggestions {
		byFile[sg.FilePath] = append(byFile[sg.FilePath], sg)
	}

	now := time.Now()
	reports := make([]FileReport, 0, len(byFile))
	for path, group := range byFile {
		reports = append(reports, buildFileReport(path, group, cfg, now))
	}

	sort.SliceStable(reports, func(i, j int) bool {
		ri, rj := attentionRank(reports[i].AttentionLevel), attentionRank(reports[j].AttentionLevel)
		if ri != rj {
			return ri < rj
		}
		return reports[i].Summary.Total > reports[j].Summary.Total
	})

	return reports
}

func buildFileReport(path string, group []model.Suggestion, cfg FileReportConfig, now time.Time) FileReport {
	report := FileReport{
		FilePath: path,
		Summary:  CalculateStatusSummary(group),
	}

	staleCutoff := time.Duration(cfg.StaleThresholdDays) * 24 * time.Hour
	for _, sg := range group {
		if cfg.IncludeIDs {
			report.SuggestionIDs = append(report.SuggestionIDs, sg.ID)
		}
		if sg.Status != model.StatusPending {
			continue
		}
		if now.Sub(sg.CreatedAt) >= staleCutoff {
			report.StaleCount++
		}
		created := sg.CreatedAt
		if report.OldestPending == nil || created.Before(*report.OldestPending) {
			report.OldestPending = &created
		}
	}

	report.AttentionLevel = attentionLevel(report)
	return report
}

// attentionLevel classifies a file's report. Failed executions or a stale
// backlog demand attention; anything with pending work is at least a warning.
func attentionLevel(r FileReport) string {
	if r.Summary.Failed > 0 || r.StaleCount > 0 {
		return AttentionCritical
	}
	if r.Summary.Pending > 0 {
		return AttentionWarning
	}
	return AttentionHealthy
}

func attentionRank(level string) int {
	switch level {
	case AttentionCritical:
		return 0
	case AttentionWarning:
		return 1
	default:
		return 2
	}
}
