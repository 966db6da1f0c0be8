// Package settings stores per-owner notification preferences in a local
// JSON file under the user config directory.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/model"
)

// Store reads and writes notification preferences keyed by owner ID.
// Missing entries resolve to defaults; writes are atomic per file.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore uses dir when given, otherwise the platform config directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultDir()
	}
	return &Store{dir: dir}
}

func defaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "passnext")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "passnext")
}

func (s *Store) path() string { return filepath.Join(s.dir, "notifications.json") }

type prefsFile struct {
	Owners map[string]model.NotificationPrefs `json:"owners"`
}

func (s *Store) load() (prefsFile, error) {
	pf := prefsFile{Owners: map[string]model.NotificationPrefs{}}
	b, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return pf, nil
		}
		return pf, err
	}
	if err := json.Unmarshal(b, &pf); err != nil {
		return pf, fmt.Errorf("parse %s: %w", s.path(), err)
	}
	if pf.Owners == nil {
		pf.Owners = map[string]model.NotificationPrefs{}
	}
	return pf, nil
}

// Prefs returns the owner's preferences, falling back to defaults when the
// owner has never saved any.
func (s *Store) Prefs(_ context.Context, ownerID uuid.UUID) (model.NotificationPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.load()
	if err != nil {
		return model.DefaultNotificationPrefs(), err
	}
	if p, ok := pf.Owners[ownerID.String()]; ok {
		return p, nil
	}
	return model.DefaultNotificationPrefs(), nil
}

// SetPrefs replaces the owner's preferences.
func (s *Store) SetPrefs(_ context.Context, ownerID uuid.UUID, prefs model.NotificationPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.load()
	if err != nil {
		return err
	}
	pf.Owners[ownerID.String()] = prefs

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}
