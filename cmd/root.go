package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"cjdkgo/config"
	"cjdkgo/internal/cjdkerr"
	"cjdkgo/internal/logging"
)

// Persistent flags shared by every subcommand, mirroring the teacher's
// rootCmd.PersistentFlags() idiom.
var (
	flagVendor     string
	flagVersion    string
	flagJDK        string
	flagCacheDir   string
	flagIndexURL   string
	flagIndexTTL   *time.Duration
	flagOS         string
	flagArch       string
	flagNoProgress bool

	jsonLogs bool
	logLevel string
	logPath  string
)

// durationPtrFlag is a pflag.Value wrapping a **time.Duration, leaving the
// target nil until the flag is actually passed. This lets --index-ttl 0
// survive as a real zero instead of being indistinguishable from "the flag
// was never given" (spec.md's "index-ttl 0 means always refetch").
type durationPtrFlag struct {
	target **time.Duration
}

func (f durationPtrFlag) String() string {
	if f.target == nil || *f.target == nil {
		return ""
	}
	return (*f.target).String()
}

func (f durationPtrFlag) Set(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*f.target = &d
	return nil
}

func (f durationPtrFlag) Type() string { return "duration" }

var rootCmd = &cobra.Command{
	Use:           "cjdkgo",
	Short:         "cjdkgo - per-user JDK cache and launcher",
	Long:          `cjdkgo resolves vendor:version specifiers against a remote index, caches JDK installs once per machine, and exposes them as a path, a child-process environment, or a scoped shell-style env mutation.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetPreLogLevel(logLevel)
		if err := logging.InitLogger(logPath, logLevel, jsonLogs); err != nil {
			return cjdkerr.NewConfigError("failed to initialize logger: %v", err)
		}
		return nil
	},
}

func init() {
	logging.PreLog("DEBUG", "initializing cjdkgo...")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(lsVendorsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(javaHomeCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(cacheFileCmd)
	rootCmd.AddCommand(cachePackageCmd)
	rootCmd.AddCommand(clearCacheCmd)

	rootCmd.PersistentFlags().StringVar(&flagVendor, "vendor", "", "Vendor identifier (default: adoptium; env CJDK_VENDOR)")
	rootCmd.PersistentFlags().StringVar(&flagVersion, "version", "", "Version expression (default: any)")
	rootCmd.PersistentFlags().StringVar(&flagJDK, "jdk", "", "Shorthand vendor:version; mutually exclusive with --vendor/--version")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "Override cache base directory (env CJDK_CACHE_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagIndexURL, "index-url", "", "Override index URL (env CJDK_INDEX_URL)")
	rootCmd.PersistentFlags().Var(durationPtrFlag{&flagIndexTTL}, "index-ttl", "How long a fetched index stays fresh; 0 means always refetch (default 24h; env CJDK_INDEX_TTL)")
	rootCmd.PersistentFlags().StringVar(&flagOS, "os", "", "Target OS, defaults to host (env CJDK_OS)")
	rootCmd.PersistentFlags().StringVar(&flagArch, "arch", "", "Target arch, defaults to host (env CJDK_ARCH)")
	rootCmd.PersistentFlags().BoolVar(&flagNoProgress, "no-progress", false, "Hide download progress bars (env CJDK_HIDE_PROGRESS_BARS)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log verbosity: DEBUG, INFO, ERROR")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-path", "", "Directory to write a log file into, in addition to stdout")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Output logs in JSON-lines format")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ExitWithError(err)
	}
}

// resolveOptions merges the persistent flags with CJDK_* environment
// variables via config.Resolve, which applies the --jdk shorthand and
// rejects it when combined with --vendor/--version, per spec.md §7's
// ConfigError case "jdk with vendor".
func resolveOptions() (config.Options, error) {
	cli := config.Options{
		Vendor:           flagVendor,
		Version:          flagVersion,
		JDK:              flagJDK,
		CacheDir:         flagCacheDir,
		IndexURL:         flagIndexURL,
		IndexTTL:         flagIndexTTL,
		OS:               flagOS,
		Arch:             flagArch,
		HideProgressBars: flagNoProgress,
	}

	env := config.FromEnv(os.Environ())
	return config.Resolve(cli, env)
}
