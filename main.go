package main

import (
	"fmt"
	"os"

	"mlebedev/ledgerbot/cmd/categories"
	"mlebedev/ledgerbot/cmd/export"
	"mlebedev/ledgerbot/cmd/parse"
	"mlebedev/ledgerbot/cmd/root"
	"mlebedev/ledgerbot/cmd/serve"
	"mlebedev/ledgerbot/cmd/stats"
)

func init() {
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
