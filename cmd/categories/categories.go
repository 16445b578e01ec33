// Package categories manages the category/keyword knowledge base from the
// command line.
package categories

import (
	"fmt"

	"github.com/spf13/cobra"

	"mlebedev/ledgerbot/cmd/root"
	"mlebedev/ledgerbot/internal/container"
	"mlebedev/ledgerbot/internal/models"
)

// Cmd is the categories command group.
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Inspect and edit the category knowledge base",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and their keywords per transaction type",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := container.NewContainer(root.Cfg)
		if err != nil {
			return err
		}

		table := c.Categorizer().Snapshot()
		for _, section := range []struct {
			txType models.TransactionType
			names  []string
			lookup func(string) ([]string, bool)
		}{
			{models.TypeIncome, table.Income.Names, table.Income.Get},
			{models.TypeExpense, table.Expense.Names, table.Expense.Get},
		} {
			fmt.Printf("%s:\n", section.txType)
			for _, name := range section.names {
				synonyms, _ := section.lookup(name)
				fmt.Printf("  %s: %v\n", name, synonyms)
			}
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <income|expense> <name>",
	Short: "Add a new category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		txType, ok := models.ParseTransactionType(args[0])
		if !ok {
			return fmt.Errorf("invalid transaction type %q (must be income or expense)", args[0])
		}

		c, err := container.NewContainer(root.Cfg)
		if err != nil {
			return err
		}

		added, err := c.Categorizer().AddCategory(txType, args[1])
		if err != nil {
			return fmt.Errorf("category added in memory but saving failed: %w", err)
		}
		if !added {
			return fmt.Errorf("category %q already exists for %s", args[1], txType)
		}
		fmt.Printf("Added %s category %q\n", txType, args[1])
		return nil
	},
}

var addKeywordCmd = &cobra.Command{
	Use:   "add-keyword <income|expense> <keyword> <category>",
	Short: "Map a keyword to an existing category",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		txType, ok := models.ParseTransactionType(args[0])
		if !ok {
			return fmt.Errorf("invalid transaction type %q (must be income or expense)", args[0])
		}

		c, err := container.NewContainer(root.Cfg)
		if err != nil {
			return err
		}

		added, err := c.Categorizer().AddKeyword(txType, args[1], args[2])
		if err != nil {
			return fmt.Errorf("keyword added in memory but saving failed: %w", err)
		}
		if !added {
			return fmt.Errorf("category %q is not registered for %s", args[2], txType)
		}
		fmt.Printf("Keyword %q now maps to %q\n", args[1], args[2])
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(addKeywordCmd)
}
