package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/cache"
	"cjdkgo/internal/cjdkerr"
	"cjdkgo/internal/logging"
)

var clearCacheScope string

func init() {
	clearCacheCmd.Flags().StringVar(&clearCacheScope, "scope", "", "Cache root to clear: jdks, index, files, pkgs, or all")
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove a cache root",
	Long:  `Remove R/v0/<scope> recursively, where scope is jdks, index, files, pkgs, or all. An install or file whose lock is currently held by another process is skipped and logged rather than retried, per spec.md §7.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}

		scope, err := cache.ParseScope(clearCacheScope)
		if err != nil {
			return cjdkerr.NewConfigError("%v", err)
		}

		if err := cjdk.ClearCache(opts, scope); err != nil {
			return err
		}

		logging.LogOutput("cleared %s in %s", scope, opts.CacheDir)
		return nil
	},
}
