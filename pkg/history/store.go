/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: Request history for jsonlens. Keeps a bounded, newest-first list of past
executions and persists it as a JSON file so that later runs can diff against them.
Safe for concurrent use.
*/

package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/jsonlens/pkg/transport"
)

// ErrNotFound is returned when no entry matches
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded execution
type Entry struct {
	ID         string            `json:"id"`
	Request    transport.Request `json:"request"`
	Status     int               `json:"status"`
	DurationMS int64             `json:"durationMs"`
	Error      string            `json:"error,omitempty"`
	Body       json.RawMessage   `json:"body,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Store holds entries newest first
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
	path    string
}

// NewStore creates an in-memory store holding at most limit entries
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 100
	}
	return &Store{limit: limit}
}

// Open loads the store persisted at path. A missing file yields an empty store.
func Open(path string, limit int) (*Store, error) {
	s := NewStore(limit)
	s.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history %s: %w", path, err)
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	s.entries = entries
	return s, nil
}

// FromResult builds an entry from an execution result. Only JSON bodies are kept.
func FromResult(r *transport.Result) Entry {
	e := Entry{
		ID:         r.ID,
		Request:    r.Request,
		Status:     r.Status,
		DurationMS: r.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	if r.JSON != nil {
		if data, err := r.JSON.MarshalJSON(); err == nil {
			e.Body = data
		}
	}
	return e
}

// Add records an entry at the front, evicting the oldest past the limit. Missing ids and
// timestamps are filled in. The stored entry is returned.
func (s *Store) Add(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{e}, s.entries...)
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
	return e
}

// List returns a copy of all entries, newest first
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get finds an entry by id, or by a unique id prefix
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *Entry
	for i := range s.entries {
		e := &s.entries[i]
		if e.ID == id {
			return *e, nil
		}
		if id != "" && len(id) < len(e.ID) && e.ID[:len(id)] == id {
			if match != nil {
				return Entry{}, fmt.Errorf("ambiguous history id prefix %q", id)
			}
			match = e
		}
	}
	if match == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *match, nil
}

// Latest returns the newest entry for url that has a JSON body
func (s *Store) Latest(url string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Request.URL == url && len(e.Body) > 0 {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: no response recorded for %s", ErrNotFound, url)
}

// Clear removes every entry
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Save writes the store to the path it was opened from
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("history store has no path")
	}
	return s.SaveTo(s.path)
}

// SaveTo writes the store to path through a temporary file and rename
func (s *Store) SaveTo(path string) error {
	s.mu.RLock()
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}
