package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.hammerjs.dev/hammer/errext"
	"go.hammerjs.dev/hammer/errext/exitcodes"
	"go.hammerjs.dev/hammer/sandbox"
)

func getRunCmd(gs *globalState) *cobra.Command {
	flags := configFlagSet()

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a driver script against the host sandbox",
		Long: `Run reads a driver script (from a file, or "-" for stdin) and executes
it in the sandbox, with fs, Stream, system and Reflect.parse available as
globals.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(gs, flags, args[0], args[1:])
		},
	}
	runCmd.Flags().AddFlagSet(flags)
	return runCmd
}

// runRun runs filename in the sandbox, exposing scriptArgs (anything after
// the filename on the command line) as system.args.
func runRun(gs *globalState, flags *pflag.FlagSet, filename string, scriptArgs []string) error {
	conf, err := getConsolidatedConfig(gs.fs, flags)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, "check your config file and flags"), exitcodes.InvalidConfig)
	}

	src, _, err := readSource(filename, gs.logger)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.ScriptNotFound)
	}

	code, err := sandbox.Run(gs.ctx, string(src.Data), filename, sandbox.Options{
		FS:           afero.NewOsFs(),
		Root:         conf.SandboxRoot.String,
		Stdout:       gs.stdOut,
		AllowExecute: conf.SandboxAllowExecute.Bool,
		Args:         scriptArgs,
		Logger:       gs.logger,
	})
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, "the driver script raised an uncaught exception"),
			exitcodes.SandboxError)
	}
	if code != 0 {
		return &sandbox.ExitError{Code: code}
	}
	return nil
}
