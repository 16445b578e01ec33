// Package models defines the domain types shared across the application:
// transaction types, inferred transaction records, ledger rows, and monthly
// statistics.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the income/expense classification of a ledger entry.
type TransactionType string

const (
	// TypeIncome marks money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money going out.
	TypeExpense TransactionType = "expense"
)

// TransactionTypes lists all valid transaction types in a stable order.
var TransactionTypes = []TransactionType{TypeIncome, TypeExpense}

// ParseTransactionType converts a string tag to a TransactionType.
// The second return value is false for anything other than income/expense.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeIncome:
		return TypeIncome, true
	case TypeExpense:
		return TypeExpense, true
	}
	return "", false
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the Russian display name used in the chat UI and the ledger.
func (t TransactionType) Label() string {
	if t == TypeIncome {
		return "Доход"
	}
	return "Расход"
}

// TransactionRecord is the result of running the inference pipeline over one
// line of natural-language text. Amount and Category may be absent; absence is
// explicit (NullDecimal validity flag, empty category string) and must never
// be replaced with a sentinel value downstream.
type TransactionRecord struct {
	Type     TransactionType
	Amount   decimal.NullDecimal
	Category string
	Comment  string
}

// HasAmount reports whether an amount was recognized in the input.
func (r TransactionRecord) HasAmount() bool {
	return r.Amount.Valid
}

// HasCategory reports whether a category was recognized in the input.
func (r TransactionRecord) HasCategory() bool {
	return r.Category != ""
}
