package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.hammerjs.dev/hammer/errext"
	"go.hammerjs.dev/hammer/errext/exitcodes"
	"go.hammerjs.dev/hammer/internal/js/parser"
)

func getParseCmd(gs *globalState) *cobra.Command {
	flags := configFlagSet()

	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an ES5 source file into ESTree JSON",
		Long: `Parse reads ES5 source (from a file, or "-" for stdin), parses it, and
prints the resulting ESTree-shaped AST as JSON to stdout.`,
		Args: exactArgsWithMsg(1, "specify one script to parse"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(gs, flags, args[0])
		},
	}
	parseCmd.Flags().AddFlagSet(flags)
	return parseCmd
}

func runParse(gs *globalState, flags *pflag.FlagSet, filename string) error {
	conf, err := getConsolidatedConfig(gs.fs, flags)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, "check your config file and flags"), exitcodes.InvalidConfig)
	}

	src, _, err := readSource(filename, gs.logger)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.ScriptNotFound)
	}

	out, parseErr := parser.ParseOptions(string(src.Data), filename, parser.Options{
		AllowAccessors: conf.AllowAccessors.Bool,
		IndentWidth:    int(conf.IndentWidth.Int64),
	})
	if parseErr != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(parseErr, "check the script for a syntax error near the reported line"),
			exitcodes.SyntaxError)
	}

	fprintf(gs.stdOut, "%s\n", out)
	return nil
}
