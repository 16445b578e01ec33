package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(date, typ, category, amount, source, comment string) []interface{} {
	return []interface{}{date, typ, category, amount, source, comment}
}

func TestComputeMonthlyStatistics(t *testing.T) {
	values := [][]interface{}{
		row("2025-03-01 10:00:00", "Доход", "Зарплата", "50000", "Текст", "получил зарплату 50000"),
		row("2025-03-02 12:15:00", "Расход", "Транспорт", "350", "Голос", "такси 350"),
		row("2025-03-03 09:30:00", "Расход", "Еда", "1200,50", "Текст", "продукты"),
		row("2025-03-04 19:00:00", "Расход", "Транспорт", "45", "Текст", "метро 45"),
		row("2025-03-05 20:00:00", "Расход", "Развлечения", "700", "Голос", "кино 700"),
	}

	stats := ComputeMonthlyStatistics(values, 5)

	assert.Equal(t, "50000", stats.TotalIncome.String())
	assert.Equal(t, "2295.5", stats.TotalExpense.String())
	assert.Equal(t, "459.1", stats.AvgDailyExpense.String())

	require.Len(t, stats.TopExpenses, 3)
	assert.Equal(t, "Еда", stats.TopExpenses[0].Category)
	assert.Equal(t, "1200.5", stats.TopExpenses[0].Amount.String())
	assert.Equal(t, "Развлечения", stats.TopExpenses[1].Category)
	assert.Equal(t, "700", stats.TopExpenses[1].Amount.String())
	assert.Equal(t, "Транспорт", stats.TopExpenses[2].Category)
	assert.Equal(t, "395", stats.TopExpenses[2].Amount.String())
}

func TestComputeMonthlyStatistics_SkipsBadRows(t *testing.T) {
	values := [][]interface{}{
		{"2025-03-01 10:00:00", "Расход"},
		row("2025-03-02 12:15:00", "Расход", "Еда", "not a number", "Текст", ""),
		row("2025-03-03 12:15:00", "Расход", "Еда", "100", "Текст", ""),
	}

	stats := ComputeMonthlyStatistics(values, 1)
	assert.Equal(t, "100", stats.TotalExpense.String())
	assert.True(t, stats.TotalIncome.IsZero())
}

func TestComputeMonthlyStatistics_Empty(t *testing.T) {
	stats := ComputeMonthlyStatistics(nil, 10)

	assert.True(t, stats.TotalIncome.IsZero())
	assert.True(t, stats.TotalExpense.IsZero())
	assert.True(t, stats.AvgDailyExpense.IsZero())
	assert.Empty(t, stats.TopExpenses)
}

func TestComputeMonthlyStatistics_TieBreakByName(t *testing.T) {
	values := [][]interface{}{
		row("d", "Расход", "Б", "100", "", ""),
		row("d", "Расход", "А", "100", "", ""),
	}

	stats := ComputeMonthlyStatistics(values, 1)
	require.Len(t, stats.TopExpenses, 2)
	assert.Equal(t, "А", stats.TopExpenses[0].Category)
	assert.Equal(t, "Б", stats.TopExpenses[1].Category)
}

func TestRowsFromValues(t *testing.T) {
	values := [][]interface{}{
		row("2025-03-02 12:15:00", "Расход", "Транспорт", "350", "Голос", "такси 350"),
		{"2025-03-03 09:30:00", "Расход", "Еда", "1200,50"},
		{"short"},
		row("2025-03-04 09:30:00", "Расход", "Еда", "oops", "Текст", ""),
	}

	rows := RowsFromValues(values)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-03-02 12:15:00", rows[0].Date)
	assert.Equal(t, "Расход", rows[0].Type)
	assert.Equal(t, "Транспорт", rows[0].Category)
	assert.Equal(t, "350", rows[0].Amount.String())
	assert.Equal(t, "Голос", rows[0].Source)
	assert.Equal(t, "такси 350", rows[0].Comment)

	assert.Equal(t, "1200.5", rows[1].Amount.String())
	assert.Empty(t, rows[1].Source)
	assert.Empty(t, rows[1].Comment)
}

func TestParseCellAmount(t *testing.T) {
	amount, err := parseCellAmount(" 1200,50 ")
	require.NoError(t, err)
	assert.Equal(t, "1200.5", amount.String())

	amount, err = parseCellAmount(350)
	require.NoError(t, err)
	assert.Equal(t, "350", amount.String())

	_, err = parseCellAmount("abc")
	assert.Error(t, err)
}
