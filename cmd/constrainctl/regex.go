package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/coregx/constrain/internal/fixture"
	"github.com/coregx/constrain/regexconstraint"
	"github.com/coregx/constrain/vocab"
)

func regexCommand() *cli.Command {
	return &cli.Command{
		Name:      "regex",
		Usage:     "reset a RegexConstraint over a pattern and a byte prefix, then print the admissible next bytes",
		ArgsUsage: "<pattern> <prefix>",
		Action:    runRegex,
	}
}

func runRegex(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return cli.Exit("usage: constrainctl regex <pattern> <prefix>", 1)
	}
	pattern, prefix := args[0], args[1]

	v, err := fixture.ByteLevelVocab()
	if err != nil {
		return fmt.Errorf("building vocab: %w", err)
	}
	c, err := regexconstraint.New(pattern, v)
	if err != nil {
		return fmt.Errorf("compiling pattern: %w", err)
	}

	c.Reset([]byte(prefix))
	fmt.Printf("invalid: %v\n", c.IsInvalid())
	fmt.Printf("match:   %v\n", c.IsMatch())
	printAdmissibleBytes(v, c.Get())
	return nil
}

func printAdmissibleBytes(v *vocab.ByteVocab, ids []vocab.TokenID) {
	fmt.Printf("admissible next bytes (%d):", len(ids))
	for _, id := range ids {
		b, err := v.Bytes(id)
		if err != nil {
			continue
		}
		fmt.Printf(" %q", b)
	}
	fmt.Println()
}
