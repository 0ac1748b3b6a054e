package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gitlab.com/yarbelk/slimwc/lib"
	"gitlab.com/yarbelk/slimwc/lib/wc"
)

var revision = "local"

// exitCode of the function that ran; cobra only knows about errors
var exitCode int

var rootCmd = &cobra.Command{
	Use:           "slimwc [function [arguments]...]",
	Short:         "slimwc is a multi-call binary for text counting tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.ErrOrStderr(), `
Usage: slimwc [function [arguments]...]
   or: function [arguments]...

The currently supported functions are:

%s
`, lib.RegisteredFunctions())
		exitCode = 1
		return nil
	},
}

func newFunctionCmd(fn lib.Function, run func(args []string) int) *cobra.Command {
	return &cobra.Command{
		Use:   fn.Name + " [arguments]...",
		Short: fn.Short,
		// each function parses its own flags, the same way its stand alone binary does
		DisableFlagParsing: true,
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = run(args)
		},
	}
}

func main() {
	wc.Revision = revision
	runners := map[string]func(args []string) int{
		"wc": func(args []string) int { return wc.Run(args, wc.Std()) },
	}

	// called through a link named after a function: slimwc behaves as that function
	if run, ok := runners[filepath.Base(os.Args[0])]; ok {
		os.Exit(run(os.Args[1:]))
	}

	for _, fn := range lib.RegisteredFunctions() {
		if run, ok := runners[fn.Name]; ok {
			rootCmd.AddCommand(newFunctionCmd(fn, run))
		}
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
