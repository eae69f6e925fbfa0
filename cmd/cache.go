package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/config"
	"cjdkgo/internal/logging"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Ensure the resolved JDK is installed, printing its path",
	Long:  `Resolve --vendor/--version (or --jdk) against the index and install it if not already cached, printing the resulting JDK home directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		opts.Progress = progressBar(opts)

		home, err := cjdk.CacheJDK(opts)
		if err != nil {
			return err
		}
		logging.LogOutput("%s", home)
		return nil
	},
}

// progressBar returns a textual progress callback throttled to roughly one
// line per 5MB, or nil when --no-progress / CJDK_HIDE_PROGRESS_BARS is set.
func progressBar(opts config.Options) config.ProgressFunc {
	if opts.HideProgressBars {
		return nil
	}
	const step = 5 * 1024 * 1024
	var lastReported int64
	return func(label string, bytesSoFar, total int64) {
		if bytesSoFar-lastReported < step && bytesSoFar != total {
			return
		}
		lastReported = bytesSoFar
		if total > 0 {
			logging.LogOutput("⬇ %s: %d/%d bytes", label, bytesSoFar, total)
		} else {
			logging.LogOutput("⬇ %s: %d bytes", label, bytesSoFar)
		}
	}
}
