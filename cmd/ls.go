package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/logging"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List installed JDKs in the cache",
	Long:  `List every JDK cjdkgo has installed under the current cache directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}

		jdks, err := cjdk.ListJDKs(opts)
		if err != nil {
			return err
		}

		if len(jdks) == 0 {
			logging.LogOutput("No JDKs installed in %s", opts.CacheDir)
			return nil
		}

		logging.LogOutput("Installed JDKs:")
		for _, j := range jdks {
			logging.LogOutput("  %s  %s", j.InstallKey, j.Path)
		}
		return nil
	},
}
