package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/logging"
)

var javaHomeCmd = &cobra.Command{
	Use:   "java-home",
	Short: "Print the JAVA_HOME of the resolved, installed JDK",
	Long:  `Resolve and install the JDK described by --vendor/--version (or --jdk), printing only its JAVA_HOME path so a shell can capture it, e.g. JAVA_HOME=$(cjdkgo java-home --jdk temurin:17).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		opts.Progress = progressBar(opts)

		home, err := cjdk.JavaHome(opts)
		if err != nil {
			return err
		}
		logging.LogOutput("%s", home)
		return nil
	},
}
