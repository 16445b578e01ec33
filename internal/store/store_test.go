package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SynonymStore {
	t.Helper()
	return NewSynonymStore(filepath.Join(t.TempDir(), "categories.json"), nil)
}

func TestEnsure_SeedsDefaultsWhenMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Ensure()
	require.NoError(t, err)

	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTable().Keywords, table.Keywords)
	assert.Contains(t, table.Expense.Names, "Транспорт")
	assert.Contains(t, table.Income.Names, "Зарплата")
}

func TestEnsure_LeavesExistingFileAlone(t *testing.T) {
	s := newTestStore(t)
	content := `{"keywords":{"income":["нашёл"],"expense":[]},"income":{},"expense":{}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o600))

	err := s.Ensure()
	require.NoError(t, err)

	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"нашёл"}, table.Keywords.Income)
	assert.Empty(t, table.Expense.Names)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	original := DefaultTable()
	require.NoError(t, s.Save(original))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load()
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestSave_CreatesDataDirectory(t *testing.T) {
	dir := t.TempDir()
	s := NewSynonymStore(filepath.Join(dir, "nested", "data", "categories.json"), nil)

	require.NoError(t, s.Save(DefaultTable()))

	_, err := os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(DefaultTable()))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(s.Path()), entries[0].Name())
}

func TestCategorySynonyms_PreservesKeyOrder(t *testing.T) {
	doc := `{"Зарплата":["зп"],"Аванс":[],"Подарок":["дар","презент"]}`

	var cats CategorySynonyms
	require.NoError(t, json.Unmarshal([]byte(doc), &cats))
	assert.Equal(t, []string{"Зарплата", "Аванс", "Подарок"}, cats.Names)

	syns, ok := cats.Get("Подарок")
	assert.True(t, ok)
	assert.Equal(t, []string{"дар", "презент"}, syns)

	// Marshal emits the same order back.
	out, err := json.Marshal(cats)
	require.NoError(t, err)
	assert.Equal(t, doc, string(out))
}

func TestCategorySynonyms_Set(t *testing.T) {
	var cats CategorySynonyms
	cats.Set("Еда", []string{"продукты"})
	cats.Set("Транспорт", []string{"такси"})
	cats.Set("Еда", []string{"продукты", "обед"})

	assert.Equal(t, []string{"Еда", "Транспорт"}, cats.Names)
	syns, _ := cats.Get("Еда")
	assert.Equal(t, []string{"продукты", "обед"}, syns)
}

func TestCategorySynonyms_RejectsNonObject(t *testing.T) {
	var cats CategorySynonyms
	err := json.Unmarshal([]byte(`["not","an","object"]`), &cats)
	assert.Error(t, err)
}
