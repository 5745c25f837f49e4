package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/coregx/constrain/internal/fixture"
	"github.com/coregx/constrain/lr1constraint"
	"github.com/coregx/constrain/lr1parse"
)

func lr1Command() *cli.Command {
	return &cli.Command{
		Name:      "lr1",
		Usage:     "reset an LR1Constraint over the bundled JSON-subset grammar and a byte prefix",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug-tree",
				Usage: "also prefix-parse the input and print its parse tree",
			},
		},
		Action: runLR1,
	}
}

func runLR1(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 1 {
		return cli.Exit("usage: constrainctl lr1 [--debug-tree] <prefix>", 1)
	}
	prefix := []byte(args[0])

	table, err := fixture.JSONGrammar()
	if err != nil {
		return fmt.Errorf("building grammar: %w", err)
	}
	lexer, err := fixture.JSONLexer()
	if err != nil {
		return fmt.Errorf("building lexer: %w", err)
	}
	v, err := fixture.JSONVocab()
	if err != nil {
		return fmt.Errorf("building vocab: %w", err)
	}

	c, err := lr1constraint.New(table, lexer, v)
	if err != nil {
		return fmt.Errorf("building constraint: %w", err)
	}
	c.Reset(prefix)
	fmt.Printf("invalid: %v\n", c.IsInvalid())
	fmt.Printf("match:   %v\n", c.IsMatch())
	printAdmissibleBytes(v, c.Get())

	if cmd.Bool("debug-tree") {
		p := lr1parse.NewParser(table, lexer)
		tree, suffix, err := p.PrefixParse(prefix, true, true)
		if err != nil {
			return fmt.Errorf("prefix-parsing: %w", err)
		}
		fmt.Println("parse tree:")
		fmt.Println(tree.Repr())
		fmt.Printf("unparsed suffix: %q\n", suffix)
	}
	return nil
}
