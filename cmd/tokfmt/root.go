package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var logger = commonlog.GetLogger("tokfmt")

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tokfmt",
	Short: "Run lexer test fixtures written in the token notation",
	Long: `tokfmt works with token streams written in a compact notation:
- Runs test fixtures that pair a lexical specification with an expected
  token stream and reports field-wise differences.
- Tokenizes a fixture's source text and prints the actual token stream,
  primarily to bootstrap or repair the expected part of a fixture.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbosity := 0
		if verbose {
			verbosity = 1
		}
		commonlog.Configure(verbosity, nil)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log per-fixture progress")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
