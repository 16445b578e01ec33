// Package store persists the category/synonym knowledge base. The on-disk
// format is a single JSON document; writes replace the whole file atomically
// so a crash can never leave a truncated table behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mlebedev/ledgerbot/internal/logging"
)

// SynonymStore loads and saves the synonym table at a fixed path.
type SynonymStore struct {
	path   string
	logger logging.Logger
}

// NewSynonymStore creates a store for the given file path.
func NewSynonymStore(path string, logger logging.Logger) *SynonymStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SynonymStore{path: path, logger: logger}
}

// Path returns the location of the synonym file.
func (s *SynonymStore) Path() string {
	return s.path
}

// Ensure seeds the default table if no synonym file exists yet.
func (s *SynonymStore) Ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat synonym file: %w", err)
	}
	s.logger.WithField("path", s.path).Info("Seeding default synonym table")
	return s.Save(DefaultTable())
}

// Load reads and decodes the synonym table.
func (s *SynonymStore) Load() (SynonymTable, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return SynonymTable{}, fmt.Errorf("read synonym file: %w", err)
	}

	var table SynonymTable
	if err := json.Unmarshal(data, &table); err != nil {
		return SynonymTable{}, fmt.Errorf("parse synonym file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "path", Value: s.path},
		logging.Field{Key: "income_categories", Value: len(table.Income.Names)},
		logging.Field{Key: "expense_categories", Value: len(table.Expense.Names)},
	).Debug("Loaded synonym table")
	return table, nil
}

// Save writes the full table: encode to a temp file in the target directory,
// then rename over the destination.
func (s *SynonymStore) Save(table SynonymTable) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(table, "", "    ")
	if err != nil {
		return fmt.Errorf("encode synonym table: %w", err)
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
		return fmt.Errorf("replace synonym file: %w", err)
	}

	s.logger.WithField("path", s.path).Debug("Saved synonym table")
	return nil
}
