// Package auth maps caller identities to permission and to a selected
// destination spreadsheet. The backing store is a small JSON allow-list
// file; a missing or malformed file denies everyone.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mlebedev/ledgerbot/internal/logging"
)

// User is one allow-list entry.
type User struct {
	UserID        int64  `json:"user_id"`
	SelectedSheet string `json:"selected_sheet,omitempty"`
}

type allowList struct {
	AllowedUsers []User `json:"allowed_users"`
}

// Store reads and updates the allow-list file. Reads go to disk every time:
// the file is tiny and an operator may edit it while the bot runs.
type Store struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

// NewStore creates an allow-list store for the given file path.
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) load() (allowList, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return allowList{}, fmt.Errorf("read allow-list: %w", err)
	}
	var list allowList
	if err := json.Unmarshal(data, &list); err != nil {
		return allowList{}, fmt.Errorf("parse allow-list: %w", err)
	}
	return list, nil
}

func (s *Store) save(list allowList) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode allow-list: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace allow-list: %w", err)
	}
	return nil
}

// IsAllowed reports whether the user may use the bot. Any load failure
// denies access.
func (s *Store) IsAllowed(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		s.logger.WithError(err).Warn("Allow-list unavailable, denying access")
		return false
	}
	for _, u := range list.AllowedUsers {
		if u.UserID == userID {
			return true
		}
	}
	return false
}

// Users returns all allow-list entries.
func (s *Store) Users() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return nil, err
	}
	return list.AllowedUsers, nil
}

// SelectedSheet returns the user's chosen destination, if the user is known
// and has one set.
func (s *Store) SelectedSheet(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return "", false
	}
	for _, u := range list.AllowedUsers {
		if u.UserID == userID {
			return u.SelectedSheet, u.SelectedSheet != ""
		}
	}
	return "", false
}

// SetSelectedSheet records the user's destination choice. Unknown users are
// rejected; the allow-list is only ever extended by the operator.
func (s *Store) SetSelectedSheet(userID int64, sheet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return err
	}
	for i := range list.AllowedUsers {
		if list.AllowedUsers[i].UserID == userID {
			list.AllowedUsers[i].SelectedSheet = sheet
			return s.save(list)
		}
	}
	return fmt.Errorf("user %d is not in the allow-list", userID)
}

// EnsureSelections assigns the first available sheet to every user whose
// selection is empty or no longer among the available names. Run at startup
// so every allowed user always has a valid destination.
func (s *Store) EnsureSelections(available []string) error {
	if len(available) == 0 {
		return fmt.Errorf("no available sheets to assign")
	}
	valid := make(map[string]bool, len(available))
	for _, name := range available {
		valid[name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	for i := range list.AllowedUsers {
		if !valid[list.AllowedUsers[i].SelectedSheet] {
			list.AllowedUsers[i].SelectedSheet = available[0]
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(list)
}
