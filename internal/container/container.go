// Package container centralizes the creation and wiring of application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"mlebedev/ledgerbot/internal/auth"
	"mlebedev/ledgerbot/internal/categorizer"
	"mlebedev/ledgerbot/internal/config"
	"mlebedev/ledgerbot/internal/logging"
	"mlebedev/ledgerbot/internal/parser"
	"mlebedev/ledgerbot/internal/sheets"
	"mlebedev/ledgerbot/internal/speech"
	"mlebedev/ledgerbot/internal/store"
	"mlebedev/ledgerbot/internal/telegram"
)

// Container holds the application dependencies. It is immutable after
// creation; fields are reached through getters only.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.SynonymStore
	categorizer *categorizer.Categorizer
	parser      *parser.Parser
	authStore   *auth.Store
	speech      *speech.Client
}

// NewContainer wires the local components: store, categorizer, parser, auth,
// speech. The Sheets client and the bot dial external services and are
// created separately via Sheets and Bot.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	synonymStore := store.NewSynonymStore(cfg.CategoriesPath(), logger)
	if err := synonymStore.Ensure(); err != nil {
		logger.WithError(err).Warn("Failed to seed default synonym table")
	}

	cat := categorizer.NewCategorizer(synonymStore, logger)

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       synonymStore,
		categorizer: cat,
		parser:      parser.New(cat, logger),
		authStore:   auth.NewStore(cfg.AllowedUsersPath(), logger),
		speech: speech.NewClient(speech.Options{
			AuthKey:            cfg.Speech.AuthKey,
			APIURL:             cfg.Speech.APIURL,
			AuthURL:            cfg.Speech.AuthURL,
			SampleRate:         cfg.Speech.SampleRate,
			InsecureSkipVerify: cfg.Speech.InsecureSkipVerify,
		}, logger, nil),
	}, nil
}

// Sheets creates the ledger persistence client.
func (c *Container) Sheets(ctx context.Context) (*sheets.Client, error) {
	return sheets.NewClient(ctx, c.config.Sheets.CredentialsFile, c.logger)
}

// Bot creates the Telegram transport on top of the container's services.
func (c *Container) Bot(ledger telegram.Ledger) (*telegram.Bot, error) {
	if c.config.Bot.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	return telegram.New(
		c.config.Bot.Token,
		c.parser,
		c.categorizer,
		ledger,
		c.authStore,
		c.speech,
		c.config.Sheets.SpreadsheetIDs,
		c.logger,
	)
}

// Logger returns the application logger.
func (c *Container) Logger() logging.Logger { return c.logger }

// Config returns the application configuration.
func (c *Container) Config() *config.Config { return c.config }

// Store returns the synonym-table store.
func (c *Container) Store() *store.SynonymStore { return c.store }

// Categorizer returns the keyword index.
func (c *Container) Categorizer() *categorizer.Categorizer { return c.categorizer }

// Parser returns the transaction parser.
func (c *Container) Parser() *parser.Parser { return c.parser }

// Auth returns the allow-list store.
func (c *Container) Auth() *auth.Store { return c.authStore }

// Speech returns the speech-to-text client.
func (c *Container) Speech() *speech.Client { return c.speech }
