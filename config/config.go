// Package config resolves cjdkgo's runtime configuration: CLI flags,
// CJDK_* environment variables, and an optional cjdk.toml project file,
// in that order of precedence, the way strigo's LoadConfig layered a TOML
// file over environment and CLI inputs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml"

	"cjdkgo/internal/cjdkerr"
	"cjdkgo/internal/logging"
	"cjdkgo/internal/resolver"
)

// DefaultIndexURL is cjdkgo's built-in JDK index, used when neither a CLI
// flag, environment variable, nor project file supplies one.
const DefaultIndexURL = "https://raw.githubusercontent.com/coursier/jvm-index/master/index.json"

// DefaultIndexTTL is how long a fetched index is considered fresh.
const DefaultIndexTTL = 24 * time.Hour

// ProgressFunc reports download progress for a single archive: bytesSoFar
// out of total (total is 0 if unknown).
type ProgressFunc func(label string, bytesSoFar, total int64)

// Options is the fully-resolved configuration for one cjdkgo operation.
// JDK is a vendor:version shorthand, mutually exclusive with Vendor/Version;
// Resolve splits it and clears it, so a fully-resolved Options never carries
// both forms.
//
// IndexTTL is a pointer on the cliOpts/envOpts overlays Resolve accepts, so
// it can distinguish "not specified" (nil) from an explicit zero, which
// spec.md gives the distinct meaning "always refetch". On the Options
// Resolve returns, IndexTTL is always non-nil.
type Options struct {
	Vendor  string
	Version string
	JDK     string

	CacheDir string
	IndexURL string
	IndexTTL *time.Duration

	OS   string
	Arch string

	HideProgressBars bool
	Progress         ProgressFunc
}

// ProjectFile mirrors strigo.toml's [general] idiom, but scoped to the
// handful of settings a cjdk.toml project file can usefully pin: vendor,
// index URL, and TTL defaults shared by a team.
type ProjectFile struct {
	Vendor   string `toml:"vendor"`
	IndexURL string `toml:"index_url"`
	IndexTTL string `toml:"index_ttl"`
}

// ExpandTilde expands a leading "~" to the user's home directory.
func ExpandTilde(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// FromEnv reads CJDK_* variables out of environ (the format of
// os.Environ()) into an Options overlay. Unset variables leave their
// field at its zero value, letting Resolve apply defaults afterward.
func FromEnv(environ []string) Options {
	lookup := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			lookup[k] = v
		}
	}

	var opts Options
	opts.Vendor = lookup["CJDK_VENDOR"]
	opts.CacheDir = lookup["CJDK_CACHE_DIR"]
	opts.IndexURL = lookup["CJDK_INDEX_URL"]
	opts.OS = lookup["CJDK_OS"]
	opts.Arch = lookup["CJDK_ARCH"]

	if raw, ok := lookup["CJDK_INDEX_TTL"]; ok {
		if d, err := time.ParseDuration(raw); err == nil {
			opts.IndexTTL = &d
		} else {
			logging.PreLog("ERROR", "invalid CJDK_INDEX_TTL %q, ignoring: %v", raw, err)
		}
	}
	if raw, ok := lookup["CJDK_HIDE_PROGRESS_BARS"]; ok {
		if b, err := strconv.ParseBool(raw); err == nil {
			opts.HideProgressBars = b
		}
	}
	return opts
}

// loadProjectFile reads an optional cjdk.toml from the current directory.
// A missing file is not an error; a malformed one is logged and ignored,
// mirroring strigo's tolerance for an absent config in favor of defaults.
func loadProjectFile(path string) ProjectFile {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectFile{}
	}
	var pf ProjectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		logging.PreLog("ERROR", "failed to parse %s, ignoring: %v", path, err)
		return ProjectFile{}
	}
	logging.PreLog("DEBUG", "loaded project defaults from %s", path)
	return pf
}

// Resolve merges cliOpts over envOpts over an optional cjdk.toml over
// built-in defaults, applying every default in one place per spec.md §9's
// "dynamic-typed config bag -> single struct" note.
func Resolve(cliOpts, envOpts Options) (Options, error) {
	proj := loadProjectFile("cjdk.toml")

	vendor := cliOpts.Vendor
	version := cliOpts.Version
	if cliOpts.JDK != "" {
		if cliOpts.Vendor != "" || cliOpts.Version != "" {
			return Options{}, cjdkerr.NewConfigError("jdk is mutually exclusive with vendor/version")
		}
		v, ver, ok := strings.Cut(cliOpts.JDK, ":")
		if !ok {
			return Options{}, cjdkerr.NewConfigError("jdk must be in vendor:version form, got %q", cliOpts.JDK)
		}
		vendor, version = v, ver
	}

	resolvedTTL := firstSetDuration(DefaultIndexTTL, cliOpts.IndexTTL, envOpts.IndexTTL, parseDurationPtr(proj.IndexTTL))

	resolved := Options{
		Vendor:           firstNonEmpty(vendor, envOpts.Vendor, proj.Vendor, resolver.DefaultVendor),
		Version:          version,
		CacheDir:         firstNonEmpty(cliOpts.CacheDir, envOpts.CacheDir, defaultCacheDir()),
		IndexURL:         firstNonEmpty(cliOpts.IndexURL, envOpts.IndexURL, proj.IndexURL, DefaultIndexURL),
		IndexTTL:         &resolvedTTL,
		OS:               firstNonEmpty(cliOpts.OS, envOpts.OS, runtime.GOOS),
		Arch:             firstNonEmpty(cliOpts.Arch, envOpts.Arch, runtime.GOARCH),
		HideProgressBars: cliOpts.HideProgressBars || envOpts.HideProgressBars,
		Progress:         cliOpts.Progress,
	}

	expanded, err := ExpandTilde(resolved.CacheDir)
	if err != nil {
		return Options{}, cjdkerr.NewConfigError("failed to resolve cache directory: %v", err)
	}
	resolved.CacheDir = expanded

	if resolved.IndexURL == "" {
		return Options{}, cjdkerr.NewConfigError("index URL must not be empty")
	}
	if *resolved.IndexTTL < 0 {
		return Options{}, cjdkerr.NewConfigError("index ttl must not be negative, got %s", *resolved.IndexTTL)
	}

	return resolved, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cjdkgo")
	}
	return filepath.Join(dir, "cjdkgo")
}

// parseDurationPtr parses an optional cjdk.toml index_ttl string. An empty
// string means unset; a value that fails to parse is logged and treated as
// unset, same as an invalid CJDK_INDEX_TTL.
func parseDurationPtr(s string) *time.Duration {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		logging.PreLog("ERROR", "invalid index_ttl %q in cjdk.toml, ignoring: %v", s, err)
		return nil
	}
	return &d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstSetDuration returns the first non-nil value in values, or
// defaultValue if every source left it unset. Unlike a "first non-zero"
// scan, a pointer that is set to zero wins over an unset one, letting an
// explicit --index-ttl 0 mean "always refetch" rather than falling through
// to the default.
func firstSetDuration(defaultValue time.Duration, values ...*time.Duration) time.Duration {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return defaultValue
}
