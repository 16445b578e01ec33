package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SheetHeaders is the header row written to every month sheet, in column
// order A..F.
var SheetHeaders = []string{"Дата", "Тип", "Категория", "Сумма", "Источник", "Комментарий"}

// Transaction sources as shown in the ledger.
const (
	SourceVoice = "Голос"
	SourceText  = "Текст"
	SourceQR    = "QR"
)

// LedgerRow is one confirmed transaction as it appears in the spreadsheet.
// The CSV tags drive the export command.
type LedgerRow struct {
	Date     string          `csv:"Дата"`
	Type     string          `csv:"Тип"`
	Category string          `csv:"Категория"`
	Amount   decimal.Decimal `csv:"Сумма"`
	Source   string          `csv:"Источник"`
	Comment  string          `csv:"Комментарий"`
}

// NewLedgerRow builds a ledger row from a confirmed record. The record must
// carry an amount; callers enforce that before confirmation.
func NewLedgerRow(r TransactionRecord, source string, at time.Time) LedgerRow {
	return LedgerRow{
		Date:     at.Format("2006-01-02 15:04:05"),
		Type:     r.Type.Label(),
		Category: r.Category,
		Amount:   r.Amount.Decimal,
		Source:   source,
		Comment:  r.Comment,
	}
}

// CategoryAmount pairs a category with an aggregated amount.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// MonthlyStatistics summarizes the current month's ledger.
type MonthlyStatistics struct {
	TotalIncome     decimal.Decimal
	TotalExpense    decimal.Decimal
	TopExpenses     []CategoryAmount // at most 3, sorted descending by amount
	AvgDailyExpense decimal.Decimal
}
