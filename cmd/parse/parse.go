// Package parse provides a one-shot inference command, mostly useful for
// checking how a phrase will be interpreted before saying it to the bot.
package parse

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mlebedev/ledgerbot/cmd/root"
	"mlebedev/ledgerbot/internal/container"
)

// Cmd is the parse command.
var Cmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse a transaction phrase and print the inferred record",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := container.NewContainer(root.Cfg)
		if err != nil {
			return err
		}

		record := c.Parser().Parse(strings.Join(args, " "))

		fmt.Printf("type:     %s\n", record.Type)
		if record.HasAmount() {
			fmt.Printf("amount:   %s\n", record.Amount.Decimal.String())
		} else {
			fmt.Printf("amount:   (none)\n")
		}
		if record.HasCategory() {
			fmt.Printf("category: %s\n", record.Category)
		} else {
			fmt.Printf("category: (none)\n")
		}
		fmt.Printf("comment:  %s\n", record.Comment)
		return nil
	},
}
