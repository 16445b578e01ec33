// Package serve runs the Telegram bot until interrupted.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mlebedev/ledgerbot/cmd/root"
	"mlebedev/ledgerbot/internal/container"
)

// Cmd is the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Starts long polling for Telegram updates. Voice messages are transcribed,
text is parsed into a transaction, and confirmed transactions are appended to
the user's selected spreadsheet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := container.NewContainer(root.Cfg)
		if err != nil {
			return err
		}

		ledger, err := c.Sheets(ctx)
		if err != nil {
			return err
		}

		bot, err := c.Bot(ledger)
		if err != nil {
			return err
		}
		return bot.Start(ctx)
	},
}
