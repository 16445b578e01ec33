package sheets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"mlebedev/ledgerbot/internal/models"
)

// ComputeMonthlyStatistics aggregates ledger rows into the monthly summary.
// Rows are the raw sheet values in column order date, type, category, amount,
// source, comment. Rows that are too short or carry an unparseable amount are
// skipped. daysElapsed is the day of month used for the daily average.
func ComputeMonthlyStatistics(values [][]interface{}, daysElapsed int) models.MonthlyStatistics {
	stats := models.MonthlyStatistics{}
	expensesByCategory := make(map[string]decimal.Decimal)

	for _, row := range values {
		if len(row) < 4 {
			continue
		}
		amount, err := parseCellAmount(row[3])
		if err != nil {
			continue
		}

		if fmt.Sprint(row[1]) == models.TypeIncome.Label() {
			stats.TotalIncome = stats.TotalIncome.Add(amount)
			continue
		}
		stats.TotalExpense = stats.TotalExpense.Add(amount)
		category := fmt.Sprint(row[2])
		expensesByCategory[category] = expensesByCategory[category].Add(amount)
	}

	for category, amount := range expensesByCategory {
		stats.TopExpenses = append(stats.TopExpenses, models.CategoryAmount{
			Category: category,
			Amount:   amount,
		})
	}
	sort.Slice(stats.TopExpenses, func(i, j int) bool {
		if !stats.TopExpenses[i].Amount.Equal(stats.TopExpenses[j].Amount) {
			return stats.TopExpenses[i].Amount.GreaterThan(stats.TopExpenses[j].Amount)
		}
		return stats.TopExpenses[i].Category < stats.TopExpenses[j].Category
	})
	if len(stats.TopExpenses) > 3 {
		stats.TopExpenses = stats.TopExpenses[:3]
	}

	if daysElapsed > 0 {
		stats.AvgDailyExpense = stats.TotalExpense.Div(decimal.NewFromInt(int64(daysElapsed)))
	}
	return stats
}

// parseCellAmount converts a sheet cell to a decimal, accepting a comma as
// the decimal separator.
func parseCellAmount(cell interface{}) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(fmt.Sprint(cell)), ",", ".")
	return decimal.NewFromString(s)
}
