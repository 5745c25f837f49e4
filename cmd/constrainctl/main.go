// Command constrainctl is a small demo/debug CLI over the two constraint
// engines this module provides: regex and lr1. It is not a general
// grammar-authoring tool — the lr1 subcommand drives the bundled JSON-
// subset grammar fixture (see internal/fixture), since authoring
// arbitrary grammars from the command line is out of this module's
// scope.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "constrainctl",
		Usage: "drive the regex and lr1 constraint engines against a byte prefix",
		Commands: []*cli.Command{
			regexCommand(),
			lr1Command(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
