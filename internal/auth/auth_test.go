package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "allowed_users.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return NewStore(path, nil)
}

const twoUsers = `{
  "allowed_users": [
    {"user_id": 100, "selected_sheet": "Семья"},
    {"user_id": 200}
  ]
}`

func TestIsAllowed(t *testing.T) {
	s := newTestStore(t, twoUsers)

	assert.True(t, s.IsAllowed(100))
	assert.True(t, s.IsAllowed(200))
	assert.False(t, s.IsAllowed(300))
}

func TestIsAllowed_DeniesOnMissingFile(t *testing.T) {
	s := newTestStore(t, "")
	assert.False(t, s.IsAllowed(100))
}

func TestIsAllowed_DeniesOnMalformedFile(t *testing.T) {
	s := newTestStore(t, "{broken")
	assert.False(t, s.IsAllowed(100))
}

func TestUsers(t *testing.T) {
	s := newTestStore(t, twoUsers)

	users, err := s.Users()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(100), users[0].UserID)
	assert.Equal(t, "Семья", users[0].SelectedSheet)
	assert.Empty(t, users[1].SelectedSheet)
}

func TestSelectedSheet(t *testing.T) {
	s := newTestStore(t, twoUsers)

	sheet, ok := s.SelectedSheet(100)
	assert.True(t, ok)
	assert.Equal(t, "Семья", sheet)

	_, ok = s.SelectedSheet(200)
	assert.False(t, ok)

	_, ok = s.SelectedSheet(300)
	assert.False(t, ok)
}

func TestSetSelectedSheet(t *testing.T) {
	s := newTestStore(t, twoUsers)

	require.NoError(t, s.SetSelectedSheet(200, "Личное"))
	sheet, ok := s.SelectedSheet(200)
	assert.True(t, ok)
	assert.Equal(t, "Личное", sheet)

	err := s.SetSelectedSheet(300, "Личное")
	assert.Error(t, err)
}

func TestEnsureSelections(t *testing.T) {
	content := `{
  "allowed_users": [
    {"user_id": 100, "selected_sheet": "Семья"},
    {"user_id": 200},
    {"user_id": 300, "selected_sheet": "Удалённая"}
  ]
}`
	s := newTestStore(t, content)

	require.NoError(t, s.EnsureSelections([]string{"Семья", "Личное"}))

	sheet, _ := s.SelectedSheet(100)
	assert.Equal(t, "Семья", sheet, "valid selection kept")
	sheet, _ = s.SelectedSheet(200)
	assert.Equal(t, "Семья", sheet, "empty selection gets the first sheet")
	sheet, _ = s.SelectedSheet(300)
	assert.Equal(t, "Семья", sheet, "stale selection gets the first sheet")
}

func TestEnsureSelections_NoSheets(t *testing.T) {
	s := newTestStore(t, twoUsers)
	assert.Error(t, s.EnsureSelections(nil))
}
