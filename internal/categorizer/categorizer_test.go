package categorizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlebedev/ledgerbot/internal/models"
	"mlebedev/ledgerbot/internal/store"
)

func newTestCategorizer(t *testing.T) *Categorizer {
	t.Helper()
	s := store.NewSynonymStore(filepath.Join(t.TempDir(), "categories.json"), nil)
	require.NoError(t, s.Ensure())
	return NewCategorizer(s, nil)
}

func TestNewCategorizer_EmptyIndexOnLoadFailure(t *testing.T) {
	s := store.NewSynonymStore(filepath.Join(t.TempDir(), "missing.json"), nil)
	c := NewCategorizer(s, nil)

	assert.Empty(t, c.Categories(models.TypeIncome))
	assert.Empty(t, c.Categories(models.TypeExpense))
	assert.Equal(t, models.TypeExpense, c.DetectType("получил зарплату"))
}

func TestDetectType(t *testing.T) {
	c := newTestCategorizer(t)

	tests := []struct {
		name string
		text string
		want models.TransactionType
	}{
		{"income keyword", "получил перевод от мамы", models.TypeIncome},
		{"expense keyword", "заплатил за такси", models.TypeExpense},
		{"no keyword defaults to expense", "хлеб 100", models.TypeExpense},
		{"first token wins", "получил сдачу когда заплатил", models.TypeIncome},
		{"punctuation stripped", "Получил, наконец-то!", models.TypeIncome},
		{"category self-keyword implies type", "зарплата 50000", models.TypeIncome},
		{"case insensitive", "ПОЛУЧИЛ 100", models.TypeIncome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetectType(tt.text))
		})
	}
}

func TestDetectCategory(t *testing.T) {
	c := newTestCategorizer(t)

	tests := []struct {
		name   string
		txType models.TransactionType
		text   string
		want   string
	}{
		{"synonym match", models.TypeExpense, "заплатил за такси 350", "Транспорт"},
		{"self-keyword match", models.TypeExpense, "еда 200", "Еда"},
		{"no match", models.TypeExpense, "купил хлеб 100", ""},
		{"income table only", models.TypeIncome, "такси 350", ""},
		{"first token wins", models.TypeExpense, "аптека после кино", "Здоровье"},
		{"substring does not match", models.TypeExpense, "таксист 350", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetectCategory(tt.txType, tt.text))
		})
	}
}

func TestDetectType_SharedCategoryNameIsStable(t *testing.T) {
	// "Перевод" is a category of both types in the default table. Its
	// self-keyword must resolve to the same type on every index rebuild.
	s := store.NewSynonymStore(filepath.Join(t.TempDir(), "categories.json"), nil)
	require.NoError(t, s.Ensure())

	for i := 0; i < 300; i++ {
		c := NewCategorizer(s, nil)
		require.Equal(t, models.TypeExpense, c.DetectType("перевод 1000"))
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	c := newTestCategorizer(t)

	cats := c.Categories(models.TypeExpense)
	require.NotEmpty(t, cats)
	cats[0] = "mutated"

	assert.NotEqual(t, "mutated", c.Categories(models.TypeExpense)[0])
}

func TestAddCategory(t *testing.T) {
	c := newTestCategorizer(t)

	added, err := c.AddCategory(models.TypeExpense, "Образование")
	require.NoError(t, err)
	assert.True(t, added)

	assert.Contains(t, c.Categories(models.TypeExpense), "Образование")
	assert.Equal(t, models.TypeExpense, c.DetectType("образование 5000"))
	assert.Equal(t, "Образование", c.DetectCategory(models.TypeExpense, "образование 5000"))

	// Duplicate is a no-op.
	added, err = c.AddCategory(models.TypeExpense, "Образование")
	require.NoError(t, err)
	assert.False(t, added)

	// Invalid inputs are rejected without error.
	added, err = c.AddCategory(models.TransactionType("debt"), "Долг")
	require.NoError(t, err)
	assert.False(t, added)
	added, err = c.AddCategory(models.TypeIncome, "")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddCategory_Persists(t *testing.T) {
	s := store.NewSynonymStore(filepath.Join(t.TempDir(), "categories.json"), nil)
	require.NoError(t, s.Ensure())
	c := NewCategorizer(s, nil)

	_, err := c.AddCategory(models.TypeIncome, "Кэшбэк")
	require.NoError(t, err)

	fresh := NewCategorizer(s, nil)
	assert.Contains(t, fresh.Categories(models.TypeIncome), "Кэшбэк")
	assert.Equal(t, models.TypeIncome, fresh.DetectType("кэшбэк 300"))
}

func TestAddKeyword(t *testing.T) {
	c := newTestCategorizer(t)

	added, err := c.AddKeyword(models.TypeExpense, "Маршрутка", "Транспорт")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Транспорт", c.DetectCategory(models.TypeExpense, "маршрутка 45"))

	// Unknown category is rejected.
	added, err = c.AddKeyword(models.TypeExpense, "ипотека", "Жильё")
	require.NoError(t, err)
	assert.False(t, added)

	// Invalid type and empty keyword are rejected.
	added, err = c.AddKeyword(models.TransactionType("debt"), "долг", "Транспорт")
	require.NoError(t, err)
	assert.False(t, added)
	added, err = c.AddKeyword(models.TypeExpense, "", "Транспорт")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddKeyword_ReassignsExistingWord(t *testing.T) {
	c := newTestCategorizer(t)

	added, err := c.AddKeyword(models.TypeExpense, "кафе", "Еда")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Еда", c.DetectCategory(models.TypeExpense, "обед в кафе 700"))
}

func TestSnapshot_OmitsSelfKeyword(t *testing.T) {
	c := newTestCategorizer(t)

	table := c.Snapshot()
	syns, ok := table.Expense.Get("Транспорт")
	require.True(t, ok)
	assert.NotContains(t, syns, "транспорт")
	assert.Contains(t, syns, "такси")
}

func TestSnapshot_RoundTripStable(t *testing.T) {
	dir := t.TempDir()
	s := store.NewSynonymStore(filepath.Join(dir, "categories.json"), nil)
	require.NoError(t, s.Ensure())
	c := NewCategorizer(s, nil)

	first := c.Snapshot()
	require.NoError(t, s.Save(first))
	second := NewCategorizer(s, nil).Snapshot()
	assert.Equal(t, first, second)
}

func TestReload_ReplacesIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.json")
	s := store.NewSynonymStore(path, nil)
	require.NoError(t, s.Ensure())
	c := NewCategorizer(s, nil)

	content := `{"keywords":{"income":["выиграл"],"expense":[]},"income":{"Лотерея":[]},"expense":{}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, c.Reload())

	assert.Equal(t, models.TypeIncome, c.DetectType("выиграл 1000"))
	assert.Equal(t, []string{"Лотерея"}, c.Categories(models.TypeIncome))
	assert.Empty(t, c.Categories(models.TypeExpense))
}
