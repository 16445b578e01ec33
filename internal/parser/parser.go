// Package parser turns one line of free-form natural-language text, usually
// the output of a speech-to-text call, into a structured transaction record.
// Parsing is a pure function of the text and the current keyword index; it
// performs no I/O.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"mlebedev/ledgerbot/internal/logging"
	"mlebedev/ledgerbot/internal/models"
)

// amountPattern matches the first amount in the text: digits, optional
// space-separated groups of exactly three digits, optionally a comma or
// period followed by exactly two digits. "500.5" does not match its decimal
// part; "500" still matches as an integer.
var amountPattern = regexp.MustCompile(`\d+(?: \d{3})*(?:[.,]\d{2})?`)

// KeywordIndex is the lookup surface the parser needs from the categorizer.
type KeywordIndex interface {
	DetectType(text string) models.TransactionType
	DetectCategory(txType models.TransactionType, text string) string
}

// Parser infers transaction records from text.
type Parser struct {
	index  KeywordIndex
	logger logging.Logger
}

// New creates a Parser over the given keyword index.
func New(index KeywordIndex, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Parser{index: index, logger: logger}
}

// Parse infers type, amount, and category from one line of text.
//
// The text is lowercased and a single trailing period is stripped; the
// result is echoed back verbatim as the comment. Type always resolves
// (expense when no keyword matches). Amount and category may be absent and
// are reported as such: the caller prompts for a missing category and must
// reject the transaction entirely when the amount is missing.
func (p *Parser) Parse(text string) models.TransactionRecord {
	normalized := strings.TrimSuffix(strings.ToLower(text), ".")

	record := models.TransactionRecord{
		Comment: normalized,
	}

	record.Type = p.index.DetectType(normalized)
	record.Amount = extractAmount(normalized)
	record.Category = p.index.DetectCategory(record.Type, normalized)

	p.logger.WithFields(
		logging.Field{Key: "type", Value: string(record.Type)},
		logging.Field{Key: "category", Value: record.Category},
		logging.Field{Key: "has_amount", Value: record.Amount.Valid},
	).Debug("Parsed transaction text")

	return record
}

// extractAmount takes the first amount-shaped match, treats a comma as the
// decimal point, and drops thousands-grouping spaces.
func extractAmount(text string) decimal.NullDecimal {
	match := amountPattern.FindString(text)
	if match == "" {
		return decimal.NullDecimal{}
	}

	cleaned := strings.ReplaceAll(strings.ReplaceAll(match, ",", "."), " ", "")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: value, Valid: true}
}
