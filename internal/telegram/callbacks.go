package telegram

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"mlebedev/ledgerbot/internal/models"
)

// Callback data prefixes. Telebot prepends "\f" to inline button data.
const (
	callbackCategory    = "category_"
	callbackConfirmYes  = "confirm_yes"
	callbackConfirmNo   = "confirm_no"
	callbackSelectTable = "select_table_"
)

func (b *Bot) handleCallback(c tele.Context) error {
	data := strings.TrimPrefix(c.Callback().Data, "\f")

	switch {
	case strings.HasPrefix(data, callbackCategory):
		return b.handleCategoryChoice(c, strings.TrimPrefix(data, callbackCategory))
	case data == callbackConfirmYes || data == callbackConfirmNo:
		return b.handleConfirmation(c, data == callbackConfirmYes)
	case strings.HasPrefix(data, callbackSelectTable):
		return b.handleTableChoice(c, strings.TrimPrefix(data, callbackSelectTable))
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) handleCategoryChoice(c tele.Context, category string) error {
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}

	pending, ok := b.state.setCategory(c.Sender().ID, category)
	if !ok {
		// The pending record is gone, e.g. after a restart. Nothing to do
		// but drop the stale keyboard.
		return c.Edit(msgCanceled)
	}
	return b.sendConfirmation(c, pending.record)
}

func (b *Bot) handleConfirmation(c tele.Context, confirmed bool) error {
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}

	userID := c.Sender().ID
	pending, ok := b.state.get(userID)
	if !ok {
		return c.Edit(msgCanceled)
	}
	b.state.clear(userID)

	base := "Транзакция:\n\n" + transactionSummary(pending.record) + "\n\n"
	if !confirmed {
		return c.Edit(base + msgCanceled)
	}

	spreadsheetID, err := b.spreadsheetFor(userID)
	if err != nil {
		b.logger.WithError(err).Error("Failed to resolve user spreadsheet")
		return c.Edit(base + msgSaveError)
	}

	row := models.NewLedgerRow(pending.record, pending.source, time.Now())
	if err := b.ledger.AddTransaction(context.Background(), spreadsheetID, row); err != nil {
		b.logger.WithError(err).Error("Failed to save transaction")
		return c.Edit(base + msgSaveError)
	}
	return c.Edit(base + msgSaved)
}

func (b *Bot) handleTableChoice(c tele.Context, name string) error {
	if _, ok := b.sheetChoices[name]; !ok {
		return c.Respond(&tele.CallbackResponse{Text: msgUnknownChoice, ShowAlert: true})
	}
	if err := b.authorizer.SetSelectedSheet(c.Sender().ID, name); err != nil {
		b.logger.WithError(err).Error("Failed to store sheet selection")
		return c.Respond(&tele.CallbackResponse{Text: msgUnknownChoice, ShowAlert: true})
	}
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}
	return c.Edit("Готово. Все новые транзакции будут записываться в таблицу: " + name)
}
