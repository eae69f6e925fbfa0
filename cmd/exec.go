package cmd

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/logging"
)

var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Run a command with JAVA_HOME/PATH set to the resolved JDK",
	Long:  `Resolve and install the JDK described by --vendor/--version (or --jdk), activate it for a single child process, and run the given command with that environment. On success, exec's own exit status is the child's exit status, per spec.md §6.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		opts.Progress = progressBar(opts)

		scope, err := cjdk.JavaEnv(opts)
		if err != nil {
			return err
		}

		var exitCode int
		runErr := scope.Use(func() error {
			child := exec.Command(args[0], args[1:]...)
			child.Stdin = os.Stdin
			child.Stdout = os.Stdout
			child.Stderr = os.Stderr
			child.Env = os.Environ()

			runErr := child.Run()
			if exitErr, ok := runErr.(*exec.ExitError); ok {
				exitCode = exitErr.ExitCode()
				return nil
			}
			return runErr
		})
		if runErr != nil {
			return runErr
		}

		logging.LogDebug("child exited with status %d", exitCode)
		os.Exit(exitCode)
		return nil
	},
}
