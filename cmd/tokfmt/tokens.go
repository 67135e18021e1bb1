package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nokaze/tokfmt/tester"
)

func init() {
	cmd := &cobra.Command{
		Use:     "tokens <fixture file path>",
		Short:   "Tokenize a fixture's source text and print the actual token stream",
		Example: `  tokfmt tokens testdata/expr.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokens,
	}
	rootCmd.AddCommand(cmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("Cannot open the fixture %v: %w", args[0], err)
	}
	defer f.Close()
	fx, err := tester.ParseFixture(f)
	if err != nil {
		return err
	}
	logger.Infof("lexing %v bytes with %v kinds", len(fx.Source), len(fx.Entries))

	toks, err := tester.LexFixture(fx)
	if err != nil {
		return err
	}
	for _, tok := range toks {
		out, err := fx.Format.Format(tok)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, out)
	}
	return nil
}
