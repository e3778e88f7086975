package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

const sessionFile = "session.json"

// Overlay holds the edits made during a session. It patches the base client
// list at read time and is never a source of truth.
type Overlay struct {
	NewClients  []metrics.ClientRecord `json:"newClients,omitempty"`
	ArchivedIDs []string               `json:"archivedIds,omitempty"`
}

// Archived reports whether id is in the archived overlay.
func (o Overlay) Archived(id string) bool {
	return slices.Contains(o.ArchivedIDs, id)
}

func (o Overlay) clone() Overlay {
	return Overlay{
		NewClients:  slices.Clone(o.NewClients),
		ArchivedIDs: slices.Clone(o.ArchivedIDs),
	}
}

// SessionStorage persists the overlay for the lifetime of a session.
type SessionStorage interface {
	Load() (Overlay, error)
	Save(Overlay) error
	Clear() error
}

// SessionStore keeps the overlay as a single JSON blob in a directory.
type SessionStore struct {
	dir string
}

// NewSessionStore creates a store writing session.json under dir.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

// Path returns the location of the session blob.
func (s *SessionStore) Path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Load reads the overlay. A missing blob is an empty overlay.
func (s *SessionStore) Load() (Overlay, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Overlay{}, nil
		}
		return Overlay{}, fmt.Errorf("failed to read session: %w", err)
	}

	var overlay Overlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		return Overlay{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return overlay, nil
}

// Save writes the overlay, replacing any previous blob.
func (s *SessionStore) Save(overlay Overlay) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return os.WriteFile(s.Path(), data, 0600)
}

// Clear ends the session by discarding the blob.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// MemorySession keeps the overlay in process memory only.
type MemorySession struct {
	overlay Overlay
}

// NewMemorySession returns an empty in-memory session.
func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (m *MemorySession) Load() (Overlay, error) {
	return m.overlay.clone(), nil
}

func (m *MemorySession) Save(overlay Overlay) error {
	m.overlay = overlay.clone()
	return nil
}

func (m *MemorySession) Clear() error {
	m.overlay = Overlay{}
	return nil
}
