// Package cache implements the content-addressed install cache described
// in spec.md §3/§4.6: per-InstallKey atomic installs, cross-process advisory
// locking, and best-effort scope-based cleanup. It generalizes
// downloader/cache/manager.go's directory-layout-and-cleanup idiom from a
// fixed sdkType/distribution/version tree to a content-addressed one.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// InstallKey is the lowercase hex sha1 of "<archiveType>+<url>", identifying
// one installable archive independent of which vendor/version label it was
// resolved under.
type InstallKey string

// NewInstallKey derives the InstallKey for an archive of the given type at
// the given URL.
func NewInstallKey(archiveType, url string) InstallKey {
	sum := sha1.Sum([]byte(string(archiveType) + "+" + url))
	return InstallKey(hex.EncodeToString(sum[:]))
}

// Scope names one of the cache's top-level v0 roots that ClearCache can
// target, per spec.md §4.6.
type Scope string

const (
	ScopeJDKs  Scope = "jdks"
	ScopeIndex Scope = "index"
	ScopeFiles Scope = "files"
	ScopePkgs  Scope = "pkgs"
	ScopeAll   Scope = "all"
)

// ParseScope validates s against the five recognized scope names.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeJDKs, ScopeIndex, ScopeFiles, ScopePkgs, ScopeAll:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("unknown cache scope %q, want one of jdks, index, files, pkgs, all", s)
	}
}
