package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/fetch"
	"cjdkgo/internal/index"
	"cjdkgo/internal/logging"
)

var (
	cachePackageType   string
	cachePackageSHA1   string
	cachePackageSHA256 string
	cachePackageSHA512 string
	cachePackageMD5    string
)

func init() {
	cachePackageCmd.Flags().StringVar(&cachePackageType, "type", "", "Archive type: tgz, tbz2, txz, zip, tar (default: inferred from url's extension)")
	cachePackageCmd.Flags().StringVar(&cachePackageSHA1, "sha1", "", "Expected SHA-1 digest of the downloaded archive")
	cachePackageCmd.Flags().StringVar(&cachePackageSHA256, "sha256", "", "Expected SHA-256 digest of the downloaded archive")
	cachePackageCmd.Flags().StringVar(&cachePackageSHA512, "sha512", "", "Expected SHA-512 digest of the downloaded archive")
	cachePackageCmd.Flags().StringVar(&cachePackageMD5, "md5", "", "Expected MD5 digest of the downloaded archive")
}

var cachePackageCmd = &cobra.Command{
	Use:   "cache-package <url>",
	Short: "Download and extract an arbitrary archive, caching it once",
	Long:  `Download and extract url into the pkgs/ cache root exactly once, using the same atomic-install protocol as java-home/cache. --type picks the archive format when it can't be inferred from the url.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		opts.Progress = progressBar(opts)

		archiveType := index.ArchiveType(cachePackageType)
		if archiveType == "" {
			var err error
			archiveType, err = index.ParseArchiveType(args[0])
			if err != nil {
				return err
			}
		}

		checksums := fetch.Checksums{
			SHA1:   cachePackageSHA1,
			SHA256: cachePackageSHA256,
			SHA512: cachePackageSHA512,
			MD5:    cachePackageMD5,
		}

		path, err := cjdk.CachePackage(opts, args[0], archiveType, checksums)
		if err != nil {
			return err
		}
		logging.LogOutput("%s", path)
		return nil
	},
}
