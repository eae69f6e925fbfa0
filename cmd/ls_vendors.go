package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/logging"
)

var lsVendorsCmd = &cobra.Command{
	Use:   "ls-vendors",
	Short: "List vendors available for the current os/arch",
	Long:  `List the JDK vendors the index offers for the resolved os/arch, per --os/--arch or their CJDK_OS/CJDK_ARCH env equivalents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}

		vendors, err := cjdk.ListVendors(opts)
		if err != nil {
			return err
		}

		if len(vendors) == 0 {
			logging.LogOutput("No vendors found for os=%s arch=%s", opts.OS, opts.Arch)
			return nil
		}

		logging.LogOutput("Available vendors for os=%s arch=%s:", opts.OS, opts.Arch)
		for _, v := range vendors {
			logging.LogOutput("  %s", v)
		}
		return nil
	},
}
