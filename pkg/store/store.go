// Package store persists AI-generated refactoring suggestions through their
// review lifecycle. A Store owns an in-memory id-keyed collection mirrored to
// a single JSON document under the project's state directory; every mutation
// rewrites the file in full. The design assumes one active store instance per
// backing file — concurrent instances race on the final write (last write
// wins), which is a documented limitation rather than a supported mode.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Dicklesworthstone/refactor_tracker/pkg/model"
)

// StateDirName is the hidden per-project directory holding tracker state.
const StateDirName = ".refactor"

// DefaultFileName is the backing file name inside the state directory.
const DefaultFileName = "suggestions.json"

// maxIDAttempts bounds the collision-regeneration loop. With 16^8 possible
// tokens the cap is unreachable at any realistic store size, so observable
// behavior is unchanged in the common case.
const maxIDAttempts = 100

// Store tracks refactoring suggestions and mirrors them to a backing file.
type Store struct {
	mu          sync.Mutex
	path        string
	suggestions map[string]*model.Suggestion
	onCorrupt   func(error)
	fileName    string
}

// Option configures a Store during New.
type Option func(*Store)

// WithCorruptionHandler installs a callback invoked when the backing file
// exists but cannot be parsed. The store still recovers by starting from an
// empty collection and overwriting the file; the handler only makes the
// recovery observable.
func WithCorruptionHandler(fn func(error)) Option {
	return func(s *Store) { s.onCorrupt = fn }
}

// WithFileName overrides the backing file name inside the state directory.
func WithFileName(name string) Option {
	return func(s *Store) { s.fileName = name }
}

// New opens the suggestion store rooted at projectRoot, creating the state
// directory if needed. A missing backing file starts an empty collection and
// is written out immediately; an unparseable one is discarded and overwritten
// (self-healing from external corruption, at the cost of silent data loss).
// The backing file is guaranteed to exist once New returns successfully.
func New(projectRoot string, opts ...Option) (*Store, error) {
	if projectRoot == "" {
		var err error
		projectRoot, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
	}

	s := &Store{
		suggestions: make(map[string]*model.Suggestion),
		fileName:    DefaultFileName,
	}
	for _, opt := range opts {
		opt(s)
	}

	dir := filepath.Join(projectRoot, StateDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	s.path = filepath.Join(dir, s.fileName)

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the backing file, replacing the in-memory collection.
// External rewrites (the execution collaborator, another tool) become visible;
// the same self-healing rules as New apply.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the backing file into memory. Caller must hold mu (or be the
// sole owner during New).
func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.suggestions = make(map[string]*model.Suggestion)
		return s.persist()
	}
	if err != nil {
		return &IOError{Op: "read", Path: s.path, Err: err}
	}

	loaded := make(map[string]*model.Suggestion)
	if err := json.Unmarshal(raw, &loaded); err != nil {
		// Unreadable state is discarded and rebuilt empty rather than
		// surfaced as an error. The handler is the only trace.
		if s.onCorrupt != nil {
			s.onCorrupt(err)
		}
		s.suggestions = make(map[string]*model.Suggestion)
		return s.persist()
	}

	s.suggestions = loaded
	return nil
}

// persist rewrites the full backing file. Caller must hold mu.
func (s *Store) persist() error {
	f, err := os.Create(s.path)
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.suggestions); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Create records a new suggestion for filePath with status pending and
// returns its generated id. data is the opaque payload from the suggestion
// generator and must be a non-nil mapping; metadata is optional auxiliary
// data (nil defaults to an empty mapping).
func (s *Store) Create(filePath string, data, metadata map[string]any) (string, error) {
	if data == nil {
		return "", fmt.Errorf("data must be a mapping: %w", ErrInvalidSuggestion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID()
	if err != nil {
		return "", err
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	s.suggestions[id] = &model.Suggestion{
		ID:        id,
		FilePath:  filePath,
		Data:      data,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}

	if err := s.persist(); err != nil {
		return "", err
	}
	return id, nil
}

// newID draws random 8-character hex tokens until one not already present is
// found. The loop, not single-shot generation, is the uniqueness guarantee;
// collisions are astronomically unlikely at typical store sizes but not
// impossible. Caller must hold mu.
func (s *Store) newID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate suggestion id: %w", err)
		}
		id := hex.EncodeToString(buf)
		if _, exists := s.suggestions[id]; !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate suggestion id: exhausted %d attempts", maxIDAttempts)
}

// Get returns the suggestion with the given id. Lookup is exact; there is no
// prefix matching.
func (s *Store) Get(id string) (model.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sg, ok := s.suggestions[id]
	if !ok {
		return model.Suggestion{}, fmt.Errorf("suggestion %s: %w", id, ErrNotFound)
	}
	return sg.Clone(), nil
}

// ListOptions filters and truncates List results. A zero Status or empty
// FilePath leaves that filter off; both filters apply conjunctively when set.
// A positive Limit truncates after sorting.
type ListOptions struct {
	Status   model.Status
	FilePath string
	Limit    int
}

// List returns matching suggestions ordered by creation time, most recent
// first. An empty result is a valid outcome, not an error.
func (s *Store) List(opts ListOptions) []model.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]model.Suggestion, 0)
	for _, sg := range s.suggestions {
		if opts.Status != "" && sg.Status != opts.Status {
			continue
		}
		if opts.FilePath != "" && sg.FilePath != opts.FilePath {
			continue
		}
		results = append(results, sg.Clone())
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// UpdateStatus moves the suggestion to a new lifecycle status, refreshing
// updated_at. A non-empty result replaces the stored execution result; a nil
// or empty one leaves any prior result in place — there is deliberately no
// way to clear a result back to absent.
func (s *Store) UpdateStatus(id string, status model.Status, result map[string]any) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sg, ok := s.suggestions[id]
	if !ok {
		return fmt.Errorf("suggestion %s: %w", id, ErrNotFound)
	}

	sg.Status = status
	sg.UpdatedAt = time.Now()
	if len(result) > 0 {
		sg.ExecutionResult = result
	}

	return s.persist()
}

// Delete removes the suggestion with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suggestions[id]; !ok {
		return fmt.Errorf("suggestion %s: %w", id, ErrNotFound)
	}
	delete(s.suggestions, id)
	return s.persist()
}

// ClearOptions selects suggestions for bulk removal. A zero Status matches
// every status; a nil OlderThanDays matches every age. Both filters apply
// conjunctively when set, so no filters at all selects everything.
type ClearOptions struct {
	Status        model.Status
	OlderThanDays *int
}

// ClearCache removes every suggestion matching opts in one pass and returns
// the number removed. Age is measured in whole days since creation and a
// record is selected only when age >= OlderThanDays. When nothing matches,
// the backing file is not rewritten.
func (s *Store) ClearCache(opts ClearOptions) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	selected := make([]string, 0)
	for id, sg := range s.suggestions {
		if opts.Status != "" && sg.Status != opts.Status {
			continue
		}
		if opts.OlderThanDays != nil {
			ageDays := int(now.Sub(sg.CreatedAt).Hours() / 24)
			if ageDays < *opts.OlderThanDays {
				continue
			}
		}
		selected = append(selected, id)
	}

	if len(selected) == 0 {
		return 0, nil
	}

	for _, id := range selected {
		delete(s.suggestions, id)
	}
	if err := s.persist(); err != nil {
		return 0, err
	}
	return len(selected), nil
}

// Statistics reports the total record count, a count per status (every status
// key present, absent statuses at zero), and a count per file path seen.
func (s *Store) Statistics() model.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.NewStatistics()
	stats.Total = len(s.suggestions)
	for _, sg := range s.suggestions {
		stats.ByStatus[sg.Status]++
		stats.ByFile[sg.FilePath]++
	}
	return stats
}
