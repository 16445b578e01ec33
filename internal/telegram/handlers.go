package telegram

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v3"

	"mlebedev/ledgerbot/internal/models"
	"mlebedev/ledgerbot/internal/qr"
)

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(msgWelcome)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(msgHelp)
}

func (b *Bot) handleStats(c tele.Context) error {
	spreadsheetID, err := b.spreadsheetFor(c.Sender().ID)
	if err != nil {
		b.logger.WithError(err).Error("Failed to resolve user spreadsheet")
		return c.Send(msgStatsError)
	}

	stats, err := b.ledger.MonthlyStatistics(context.Background(), spreadsheetID)
	if err != nil {
		b.logger.WithError(err).Error("Failed to get monthly statistics")
		return c.Send(msgStatsError)
	}
	return c.Send(statsMessage(stats))
}

func (b *Bot) handleCategories(c tele.Context) error {
	return c.Send(categoriesMessage(
		b.categories.Categories(models.TypeIncome),
		b.categories.Categories(models.TypeExpense),
	))
}

// handleAddCategory handles "/add_category <доход|расход> <название>".
func (b *Bot) handleAddCategory(c tele.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send("Использование: /add_category <доход|расход> <название>")
	}
	txType, ok := typeFromRussian(args[0])
	if !ok {
		return c.Send("Тип должен быть «доход» или «расход».")
	}

	added, err := b.categories.AddCategory(txType, args[1])
	if err != nil {
		b.logger.WithError(err).Error("Failed to persist category")
		return c.Send("❌ Не удалось сохранить категорию.")
	}
	if !added {
		return c.Send(fmt.Sprintf("Категория «%s» уже существует.", args[1]))
	}
	return c.Send(fmt.Sprintf("✅ Категория «%s» добавлена.", args[1]))
}

// handleAddKeyword handles "/add_keyword <доход|расход> <слово> <категория>".
func (b *Bot) handleAddKeyword(c tele.Context) error {
	args := c.Args()
	if len(args) != 3 {
		return c.Send("Использование: /add_keyword <доход|расход> <слово> <категория>")
	}
	txType, ok := typeFromRussian(args[0])
	if !ok {
		return c.Send("Тип должен быть «доход» или «расход».")
	}

	added, err := b.categories.AddKeyword(txType, args[1], args[2])
	if err != nil {
		b.logger.WithError(err).Error("Failed to persist keyword")
		return c.Send("❌ Не удалось сохранить ключевое слово.")
	}
	if !added {
		return c.Send(fmt.Sprintf("Категория «%s» не найдена.", args[2]))
	}
	return c.Send(fmt.Sprintf("✅ Слово «%s» теперь относится к категории «%s».", strings.ToLower(args[1]), args[2]))
}

func typeFromRussian(s string) (models.TransactionType, bool) {
	switch strings.ToLower(s) {
	case "доход", "доходы":
		return models.TypeIncome, true
	case "расход", "расходы":
		return models.TypeExpense, true
	}
	return models.ParseTransactionType(s)
}

func (b *Bot) handleSelectTable(c tele.Context) error {
	current, _ := b.authorizer.SelectedSheet(c.Sender().ID)

	var rows [][]tele.InlineButton
	for _, name := range b.sheetTitles() {
		text := name
		if name == current {
			text = "✅ " + name
		}
		rows = append(rows, []tele.InlineButton{{
			Text: text,
			Data: callbackSelectTable + name,
		}})
	}
	return c.Send(msgChooseTable, &tele.ReplyMarkup{InlineKeyboard: rows})
}

// sheetTitles returns the selectable sheet names in a stable order, matching
// the order the spreadsheets were configured in.
func (b *Bot) sheetTitles() []string {
	titles := make([]string, 0, len(b.sheetChoices))
	seen := make(map[string]bool)
	for _, id := range b.spreadsheetIDs {
		for title, choiceID := range b.sheetChoices {
			if choiceID == id && !seen[title] {
				titles = append(titles, title)
				seen[title] = true
			}
		}
	}
	return titles
}

func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if qr.LooksLikePayload(text) {
		return b.processReceiptPayload(c, text)
	}
	return b.processTransactionText(c, text, models.SourceText)
}

// processReceiptPayload turns a pasted receipt QR payload into a pending
// expense. Receipts carry no category, so the category keyboard always
// follows.
func (b *Bot) processReceiptPayload(c tele.Context, payload string) error {
	receipt, err := qr.ParsePayload(payload)
	if err != nil {
		b.logger.WithError(err).Warn("Failed to parse receipt payload")
		return c.Send(msgReceiptFailed)
	}

	comment := "чек"
	if !receipt.Timestamp.IsZero() {
		comment = "чек от " + receipt.Timestamp.Format("02.01.2006 15:04")
	}
	record := models.TransactionRecord{
		Type:    models.TypeExpense,
		Amount:  decimal.NullDecimal{Decimal: receipt.Sum, Valid: true},
		Comment: comment,
	}
	return b.continueTransaction(c, record, models.SourceQR)
}

func (b *Bot) handleVoice(c tele.Context) error {
	voice := c.Message().Voice
	if voice == nil {
		return nil
	}

	reader, err := b.bot.File(&voice.File)
	if err != nil {
		b.logger.WithError(err).Error("Failed to download voice file")
		return c.Send(msgVoiceError)
	}
	defer func() { _ = reader.Close() }()

	audio, err := io.ReadAll(reader)
	if err != nil {
		b.logger.WithError(err).Error("Failed to read voice file")
		return c.Send(msgVoiceError)
	}

	text, err := b.speech.Transcribe(context.Background(), audio)
	if err != nil {
		b.logger.WithError(err).Error("Transcription failed")
		return c.Send(msgVoiceError)
	}
	if text == "" {
		return c.Send(msgVoiceFailed)
	}

	b.logger.WithField("text", text).Info("Transcribed voice message")
	return b.processTransactionText(c, text, models.SourceVoice)
}

func (b *Bot) handlePhoto(c tele.Context) error {
	return c.Send(msgPhotoPending)
}

// TODO: delete the last appended row instead of replying with a stub.
func (b *Bot) handleDelete(c tele.Context) error {
	return c.Send(msgDeletePending)
}

// processTransactionText runs inference over one line of input and drives
// the follow-up conversation. Records without an amount are rejected
// outright; records without a category prompt for one before confirmation.
func (b *Bot) processTransactionText(c tele.Context, text, source string) error {
	record := b.parser.Parse(text)
	b.logger.WithField("type", string(record.Type)).
		WithField("category", record.Category).
		WithField("has_amount", record.HasAmount()).
		Info("Parsed transaction")

	if !record.HasAmount() {
		return c.Send(msgNoAmount)
	}
	return b.continueTransaction(c, record, source)
}

// continueTransaction stores the pending record and asks for a category when
// one is missing, otherwise goes straight to confirmation.
func (b *Bot) continueTransaction(c tele.Context, record models.TransactionRecord, source string) error {
	b.state.set(c.Sender().ID, pendingTransaction{record: record, source: source})

	if !record.HasCategory() {
		var rows [][]tele.InlineButton
		for _, category := range b.categories.Categories(record.Type) {
			rows = append(rows, []tele.InlineButton{{
				Text: category,
				Data: callbackCategory + category,
			}})
		}
		return c.Send(categoryPrompt(record), &tele.ReplyMarkup{InlineKeyboard: rows})
	}

	return b.sendConfirmation(c, record)
}

func (b *Bot) sendConfirmation(c tele.Context, record models.TransactionRecord) error {
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
		{Text: "✅ Да", Data: callbackConfirmYes},
		{Text: "❌ Нет", Data: callbackConfirmNo},
	}}}

	// Category selection arrives as a callback; edit that message instead
	// of stacking a new one.
	if c.Callback() != nil {
		return c.Edit(confirmPrompt(record), markup)
	}
	return c.Send(confirmPrompt(record), markup)
}
