package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/nokaze/tokfmt/tester"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <token list file path>",
		Short:   "Parse a token list written in the token notation and dump the records",
		Example: `  tokfmt show tokens.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("Cannot open the token list %v: %w", args[0], err)
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	// Without a vocabulary only the integer kind notation resolves, so a
	// dumpable list spells kinds as numbers, e.g. 3(foo)@1.
	toks, err := tester.DefaultFormat().ParseList(string(src), true)
	if err != nil {
		return err
	}
	spew.Fdump(os.Stdout, toks)
	return nil
}
