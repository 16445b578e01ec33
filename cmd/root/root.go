// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mlebedev/ledgerbot/internal/config"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the application configuration, loaded in PersistentPreRunE and
	// available to every subcommand.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "ledgerbot",
		Short: "A Telegram bot that turns voice and text into ledger entries.",
		Long: `ledgerbot listens for voice, text, and receipt-photo messages, infers the
transaction type, category, and amount from the text, and appends confirmed
transactions to a month-partitioned Google Sheets ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledgerbot!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			level, err := logrus.ParseLevel(cfg.Log.Level)
			if err != nil {
				level = logrus.InfoLevel
			}
			Log.SetLevel(level)
			if cfg.Log.Format == "json" {
				Log.SetFormatter(&logrus.JSONFormatter{})
			} else {
				Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			}
			return nil
		},
	}
)
