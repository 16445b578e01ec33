package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlebedev/ledgerbot/internal/config"
	"mlebedev/ledgerbot/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Speech.SampleRate = 48000
	cfg.Data.Directory = t.TempDir()
	cfg.Data.CategoriesFile = "categories.json"
	cfg.Data.AllowedUsersFile = "allowed_users.json"
	return &cfg
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

func TestNewContainer_WiresServices(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Config())
	assert.NotNil(t, c.Store())
	assert.NotNil(t, c.Categorizer())
	assert.NotNil(t, c.Parser())
	assert.NotNil(t, c.Auth())
	assert.NotNil(t, c.Speech())
}

func TestNewContainer_SeedsAndIndexesDefaults(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	// The synonym file was seeded and the index built from it.
	table, err := c.Store().Load()
	require.NoError(t, err)
	assert.NotEmpty(t, table.Expense.Names)

	record := c.Parser().Parse("заплатил за такси 350 рублей")
	assert.Equal(t, models.TypeExpense, record.Type)
	assert.Equal(t, "Транспорт", record.Category)
}

func TestBot_RequiresToken(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)

	_, err = c.Bot(nil)
	assert.Error(t, err)
}
