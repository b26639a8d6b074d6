// Package export produces snapshot bundles of tracked suggestions for the
// execution collaborator or for archival outside the backing file.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/refactor_tracker/pkg/analysis"
	"github.com/Dicklesworthstone/refactor_tracker/pkg/model"
)

// Snapshot is a point-in-time view of the suggestion collection
type Snapshot struct {
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Summary     analysis.StatusSummary `json:"summary" yaml:"summary"`
	Suggestions []model.Suggestion     `json:"suggestions" yaml:"suggestions"`
}

// BuildSnapshot builds a snapshot from an already-listed set of suggestions
func BuildSnapshot(suggestions []model.Suggestion) Snapshot {
	return Snapshot{
		GeneratedAt: time.Now(),
		Summary:     analysis.CalculateStatusSummary(suggestions),
		Suggestions: suggestions,
	}
}

// WriteJSON writes the snapshot as an indented JSON document
func (s Snapshot) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// WriteYAML writes the snapshot as a YAML document
func (s Snapshot) WriteYAML(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable summary table of the snapshot
func (s Snapshot) WriteMarkdown(path string) error {
	var b strings.Builder

	b.WriteString("# Refactoring Suggestions\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total: %d (pending %d, approved %d, rejected %d, executed %d, failed %d)\n\n",
		s.Summary.Total, s.Summary.Pending, s.Summary.Approved,
		s.Summary.Rejected, s.Summary.Executed, s.Summary.Failed)

	b.WriteString("| ID | File | Status | Created | Updated |\n")
	b.WriteString("|----|------|--------|---------|--------|\n")
	for _, sg := range s.Suggestions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			sg.ID, sg.FilePath, sg.Status,
			sg.CreatedAt.Format("2006-01-02 15:04"),
			sg.UpdatedAt.Format("2006-01-02 15:04"))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteBundle writes all three snapshot formats into dir, creating it if
// needed. The formats are independent, so they are written concurrently.
func (s Snapshot) WriteBundle(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error { return s.WriteJSON(filepath.Join(dir, "suggestions.json")) })
	g.Go(func() error { return s.WriteYAML(filepath.Join(dir, "suggestions.yaml")) })
	g.Go(func() error { return s.WriteMarkdown(filepath.Join(dir, "suggestions.md")) })
	return g.Wait()
}
