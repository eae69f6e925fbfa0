package cmd

import (
	"github.com/spf13/cobra"

	"cjdkgo/cjdk"
	"cjdkgo/internal/fetch"
	"cjdkgo/internal/logging"
)

var (
	cacheFileSHA1   string
	cacheFileSHA256 string
	cacheFileSHA512 string
	cacheFileMD5    string
)

func init() {
	cacheFileCmd.Flags().StringVar(&cacheFileSHA1, "sha1", "", "Expected SHA-1 digest of the downloaded file")
	cacheFileCmd.Flags().StringVar(&cacheFileSHA256, "sha256", "", "Expected SHA-256 digest of the downloaded file")
	cacheFileCmd.Flags().StringVar(&cacheFileSHA512, "sha512", "", "Expected SHA-512 digest of the downloaded file")
	cacheFileCmd.Flags().StringVar(&cacheFileMD5, "md5", "", "Expected MD5 digest of the downloaded file")
}

var cacheFileCmd = &cobra.Command{
	Use:   "cache-file <url>",
	Short: "Download and cache a single file, verifying it once",
	Long:  `Download url into the files/ cache root exactly once, verifying it against any supplied checksum. Subsequent calls with the same url return the cached path without re-downloading.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		opts.Progress = progressBar(opts)

		checksums := fetch.Checksums{
			SHA1:   cacheFileSHA1,
			SHA256: cacheFileSHA256,
			SHA512: cacheFileSHA512,
			MD5:    cacheFileMD5,
		}

		path, err := cjdk.CacheFile(opts, args[0], checksums)
		if err != nil {
			return err
		}
		logging.LogOutput("%s", path)
		return nil
	},
}
