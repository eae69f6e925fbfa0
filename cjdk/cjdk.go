// Package cjdk is the public operations façade of spec.md §2/§6: it
// composes config, indexfetch, index, resolver, fetch, extract and cache
// into the handful of operations the cmd/ CLI and external callers use.
// Mirrors how cmd/install.go and cmd/use.go in the teacher compose config,
// repository, and downloader.
package cjdk

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cjdkgo/config"
	"cjdkgo/internal/cache"
	"cjdkgo/internal/cjdkerr"
	"cjdkgo/internal/extract"
	"cjdkgo/internal/fetch"
	"cjdkgo/internal/index"
	"cjdkgo/internal/indexfetch"
	"cjdkgo/internal/logging"
	"cjdkgo/internal/resolver"
)

// loadIndex fetches and parses the index for opts, the common first step
// of CacheJDK (and so JavaHome/JavaEnv) and ListVendors.
func loadIndex(opts config.Options) (*index.Index, error) {
	fetcher := indexfetch.New(opts.CacheDir, *opts.IndexTTL)
	data, err := fetcher.Fetch(opts.IndexURL)
	if err != nil {
		return nil, cjdkerr.NewInstallError(err, "failed to fetch index from %s", opts.IndexURL)
	}
	idx, err := index.Build(data, nil)
	if err != nil {
		return nil, cjdkerr.NewInstallError(err, "failed to parse index")
	}

	vendorsPath := indexfetch.VendorMetadataPath(opts.CacheDir, opts.IndexURL)
	if cache.VendorShapeChanged(vendorsPath, idx.AllVendors()) {
		logging.LogDebug("vendor shape differs from last recorded fetch at %s", vendorsPath)
	}

	return idx, nil
}

// CacheJDK resolves opts.Vendor/opts.Version against the index and
// ensures that JDK is installed, returning its Java home directory.
func CacheJDK(opts config.Options) (string, error) {
	idx, err := loadIndex(opts)
	if err != nil {
		return "", err
	}

	desc, err := resolver.Resolve(idx, opts.Vendor, opts.OS, opts.Arch, opts.Version)
	if err != nil {
		return "", err
	}

	layout := cache.NewLayout(opts.CacheDir)
	key := cache.NewInstallKey(string(desc.ArchiveType), desc.URL)

	client := fetch.New()
	label := fmt.Sprintf("%s:%s", desc.Vendor, desc.Version)
	installDir, err := cache.InstallJDK(layout, key, func(partialDir string) error {
		return downloadAndExtractChecked(client, desc.URL, desc.ArchiveType, partialDir, fetch.Checksums{}, progressFor(opts, label))
	})
	if err != nil {
		return "", cjdkerr.NewInstallError(err, "failed to install %s:%s", desc.Vendor, desc.Version)
	}
	return installDir, nil
}

// JavaHome is an alias for CacheJDK: the "return a path" half of the
// two-use façade spec.md §9 describes, sharing the same resolve-and-install
// core as JavaEnv.
func JavaHome(opts config.Options) (string, error) {
	return CacheJDK(opts)
}

// JavaEnv resolves and installs the JDK described by opts, then returns a
// scope that activates it as JAVA_HOME/PATH until Close.
func JavaEnv(opts config.Options) (*EnvScope, error) {
	home, err := CacheJDK(opts)
	if err != nil {
		return nil, err
	}
	return activateEnv(home)
}

// CacheFile downloads url (with optional checksum verification) into the
// cache's files/ root, returning the path to the cached file as-is, with
// no extraction.
func CacheFile(opts config.Options, url string, checksums fetch.Checksums) (string, error) {
	layout := cache.NewLayout(opts.CacheDir)
	nameHash := cache.NewInstallKey("file", url)
	filename := filepath.Base(url)

	client := fetch.New()
	dir, err := cache.InstallFile(layout, string(nameHash), func(partialDir string) error {
		dest := filepath.Join(partialDir, filename)
		return client.ToFileWithProgress(url, dest, checksums, progressFor(opts, filename))
	})
	if err != nil {
		return "", cjdkerr.NewInstallError(err, "failed to cache file %s", url)
	}
	return filepath.Join(dir, filename), nil
}

// CachePackage downloads and extracts an arbitrary archive (not
// necessarily a JDK) into the cache's pkgs/ root, returning the extracted
// directory.
func CachePackage(opts config.Options, url string, archiveType index.ArchiveType, checksums fetch.Checksums) (string, error) {
	switch archiveType {
	case index.Tgz, index.Tbz2, index.Txz, index.Zip, index.Tar:
	default:
		return "", cjdkerr.NewConfigError("unknown archive type %q for %s", archiveType, url)
	}

	layout := cache.NewLayout(opts.CacheDir)
	key := cache.NewInstallKey(string(archiveType), url)

	client := fetch.New()
	dir, err := cache.InstallPackage(layout, key, func(partialDir string) error {
		return downloadAndExtractChecked(client, url, archiveType, partialDir, checksums, progressFor(opts, filepath.Base(url)))
	})
	if err != nil {
		return "", cjdkerr.NewInstallError(err, "failed to cache package %s", url)
	}
	return dir, nil
}

func downloadAndExtractChecked(client *fetch.Client, url string, archiveType index.ArchiveType, partialDir string, checksums fetch.Checksums, onProgress fetch.ProgressFunc) error {
	downloadPath := filepath.Join(filepath.Dir(partialDir), filepath.Base(partialDir)+".download")
	if err := client.ToFileWithProgress(url, downloadPath, checksums, onProgress); err != nil {
		return err
	}
	defer os.Remove(downloadPath)

	return extract.Archive(archiveType, downloadPath, partialDir)
}

// progressFor adapts opts.Progress (labeled, per-operation) into the
// unlabeled fetch.ProgressFunc a Client expects, honoring HideProgressBars
// and a nil callback by reporting nothing.
func progressFor(opts config.Options, label string) fetch.ProgressFunc {
	if opts.HideProgressBars || opts.Progress == nil {
		return nil
	}
	return func(bytesSoFar, total int64) {
		opts.Progress(label, bytesSoFar, total)
	}
}

// ListVendors returns the vendors available for opts.OS/opts.Arch.
func ListVendors(opts config.Options) ([]string, error) {
	idx, err := loadIndex(opts)
	if err != nil {
		return nil, err
	}
	return resolver.Vendors(idx, opts.OS, opts.Arch), nil
}

// JDKInfo describes one installed JDK for ListJDKs.
type JDKInfo struct {
	InstallKey cache.InstallKey
	Path       string
}

// ListJDKs returns every installed JDK in opts.CacheDir.
func ListJDKs(opts config.Options) ([]JDKInfo, error) {
	layout := cache.NewLayout(opts.CacheDir)
	keys, err := cache.ListInstalled(layout)
	if err != nil {
		return nil, err
	}
	infos := make([]JDKInfo, 0, len(keys))
	for _, k := range keys {
		infos = append(infos, JDKInfo{InstallKey: k, Path: layout.InstallDir(k)})
	}
	return infos, nil
}

// ClearCache deletes the given cache root (jdks, index, files, pkgs, or
// all) under opts.CacheDir.
func ClearCache(opts config.Options, scope cache.Scope) error {
	layout := cache.NewLayout(opts.CacheDir)
	return cache.ClearCache(layout, scope)
}

// envMu serializes concurrent EnvScope mutations within this process,
// grounded on the teacher's defer-heavy cleanup idiom in cmd/install.go's
// failure paths, generalized here to guard a shared mutable resource
// (process environment) instead of a single cleanup path.
var envMu sync.Mutex

// EnvScope is a scoped JAVA_HOME/PATH mutation. Close restores the
// environment exactly as it was before the scope began.
type EnvScope struct {
	prevJavaHome string
	hadJavaHome  bool
	prevPath     string
	closed       bool
}

// activateEnv mutates JAVA_HOME and prepends javaHome/bin to PATH for the
// current process, returning a scope that restores both on Close.
func activateEnv(javaHome string) (*EnvScope, error) {
	envMu.Lock()

	prevJavaHome, hadJavaHome := os.LookupEnv("JAVA_HOME")
	prevPath := os.Getenv("PATH")

	if err := os.Setenv("JAVA_HOME", javaHome); err != nil {
		envMu.Unlock()
		return nil, fmt.Errorf("failed to set JAVA_HOME: %w", err)
	}
	newPath := filepath.Join(javaHome, "bin") + string(os.PathListSeparator) + prevPath
	if err := os.Setenv("PATH", newPath); err != nil {
		os.Setenv("JAVA_HOME", prevJavaHome)
		envMu.Unlock()
		return nil, fmt.Errorf("failed to set PATH: %w", err)
	}

	logging.LogDebug("activated JAVA_HOME=%s", javaHome)
	return &EnvScope{prevJavaHome: prevJavaHome, hadJavaHome: hadJavaHome, prevPath: prevPath}, nil
}

// Close restores JAVA_HOME and PATH to their pre-scope values. Safe to
// call more than once.
func (s *EnvScope) Close() error {
	if s == nil || s.closed {
		return nil
	}
	defer envMu.Unlock()
	s.closed = true

	if s.hadJavaHome {
		os.Setenv("JAVA_HOME", s.prevJavaHome)
	} else {
		os.Unsetenv("JAVA_HOME")
	}
	return os.Setenv("PATH", s.prevPath)
}

// Use runs fn with the scope active, guaranteeing restoration afterward
// regardless of whether fn panics or returns an error — the try/finally
// shape spec.md §5 requires for JavaEnv.
func (s *EnvScope) Use(fn func() error) error {
	defer s.Close()
	return fn()
}
