// Package telegram is the chat transport: it owns the conversation state
// machine (pending category choice, pending confirmation) and drives the
// inference core, the speech client, and the ledger from user messages.
package telegram

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v3"

	"mlebedev/ledgerbot/internal/logging"
	"mlebedev/ledgerbot/internal/models"
	"mlebedev/ledgerbot/internal/sheets"
)

// Transcriber converts voice audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Ledger is the persistence surface the bot needs.
type Ledger interface {
	AddTransaction(ctx context.Context, spreadsheetID string, row models.LedgerRow) error
	MonthlyStatistics(ctx context.Context, spreadsheetID string) (models.MonthlyStatistics, error)
	AvailableSheets(ctx context.Context, spreadsheetIDs []string) ([]sheets.SpreadsheetInfo, error)
	EnsureSummarySheet(ctx context.Context, spreadsheetID string) error
}

// Authorizer guards access and tracks each user's destination choice.
type Authorizer interface {
	IsAllowed(userID int64) bool
	SelectedSheet(userID int64) (string, bool)
	SetSelectedSheet(userID int64, sheet string) error
	EnsureSelections(available []string) error
}

// TransactionParser is the inference entry point.
type TransactionParser interface {
	Parse(text string) models.TransactionRecord
}

// CategoryProvider lists categories for the "choose a category" keyboard and
// accepts user-added categories and keywords.
type CategoryProvider interface {
	Categories(txType models.TransactionType) []string
	AddCategory(txType models.TransactionType, name string) (bool, error)
	AddKeyword(txType models.TransactionType, keyword, category string) (bool, error)
}

// Bot wires the Telegram API to the application services.
type Bot struct {
	bot        *tele.Bot
	parser     TransactionParser
	categories CategoryProvider
	ledger     Ledger
	authorizer Authorizer
	speech     Transcriber
	logger     logging.Logger

	spreadsheetIDs []string
	// Title -> spreadsheet id, resolved at startup.
	sheetChoices map[string]string
	// First resolved title, the default destination for new users.
	defaultSheet string

	state *conversationState
}

// New creates the bot. Long polling starts on Start.
func New(
	token string,
	parser TransactionParser,
	categories CategoryProvider,
	ledger Ledger,
	authorizer Authorizer,
	speech Transcriber,
	spreadsheetIDs []string,
	logger logging.Logger,
) (*Bot, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		bot:            b,
		parser:         parser,
		categories:     categories,
		ledger:         ledger,
		authorizer:     authorizer,
		speech:         speech,
		logger:         logger,
		spreadsheetIDs: spreadsheetIDs,
		state:          newConversationState(),
	}
	bot.register()
	return bot, nil
}

func (b *Bot) register() {
	b.bot.Use(b.requireAuth)

	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleHelp)
	b.bot.Handle("/stats", b.handleStats)
	b.bot.Handle("/categories", b.handleCategories)
	b.bot.Handle("/add_category", b.handleAddCategory)
	b.bot.Handle("/add_keyword", b.handleAddKeyword)
	b.bot.Handle("/delete", b.handleDelete)
	b.bot.Handle("/select_table", b.handleSelectTable)

	b.bot.Handle(tele.OnText, b.handleText)
	b.bot.Handle(tele.OnVoice, b.handleVoice)
	b.bot.Handle(tele.OnPhoto, b.handlePhoto)
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// requireAuth rejects every update from users outside the allow-list,
// callbacks included.
func (b *Bot) requireAuth(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || !b.authorizer.IsAllowed(sender.ID) {
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{
					Text:      msgNoAccess,
					ShowAlert: true,
				})
			}
			return c.Send(msgNoAccessHelp)
		}
		return next(c)
	}
}

// Start resolves the destination spreadsheets, makes sure every user has a
// valid selection and every spreadsheet a summary sheet, then polls until
// the context is canceled.
func (b *Bot) Start(ctx context.Context) error {
	infos, err := b.ledger.AvailableSheets(ctx, b.spreadsheetIDs)
	if err != nil {
		return err
	}

	b.sheetChoices = make(map[string]string, len(infos))
	titles := make([]string, 0, len(infos))
	for _, info := range infos {
		b.sheetChoices[info.Title] = info.ID
		titles = append(titles, info.Title)
	}
	b.defaultSheet = titles[0]

	if err := b.authorizer.EnsureSelections(titles); err != nil {
		b.logger.WithError(err).Warn("Failed to initialize user sheet selections")
	}
	for _, info := range infos {
		if err := b.ledger.EnsureSummarySheet(ctx, info.ID); err != nil {
			b.logger.WithError(err).WithField("spreadsheet", info.ID).Warn("Failed to ensure summary sheet")
		}
	}

	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()

	b.logger.WithField("sheets", titles).Info("Bot polling started")
	b.bot.Start()
	return nil
}

// spreadsheetFor resolves the user's destination spreadsheet id, assigning
// the default sheet when the stored selection is missing or stale.
func (b *Bot) spreadsheetFor(userID int64) (string, error) {
	name, ok := b.authorizer.SelectedSheet(userID)
	if !ok || b.sheetChoices[name] == "" {
		name = b.defaultSheet
		if err := b.authorizer.SetSelectedSheet(userID, name); err != nil {
			return "", err
		}
	}
	return b.sheetChoices[name], nil
}
