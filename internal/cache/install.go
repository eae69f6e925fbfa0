package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cjdkgo/internal/logging"
)

// FetchExtract materializes an install into partialDir: download, verify,
// and extract. The cache package calls it under lock and handles atomic
// publish; it knows nothing about HTTP or archive formats.
type FetchExtract func(partialDir string) error

// Install runs the protocol of spec.md §4.6: stat, lock, re-stat under
// lock, clear a stale .partial, fetch+extract, atomic rename, unlock.
// Returns the published install directory. If the install already exists
// it returns immediately without acquiring the lock.
//
// installDir/partialDir/lockPath are supplied by the caller so the same
// protocol serves jdks/, pkgs/, and files/ roots alike (spec.md §4.6's
// cache_file and cache_package reuse).
func Install(installDir, partialDir, lockPath string, fetch FetchExtract) (string, error) {
	if dirExists(installDir) {
		return installDir, nil
	}

	lock, err := AcquireLock(lockPath)
	if err != nil {
		return "", fmt.Errorf("failed to lock install at %s: %w", installDir, err)
	}
	defer lock.Release()

	if dirExists(installDir) {
		// Another process finished the install while we waited for the lock.
		return installDir, nil
	}

	if dirExists(partialDir) {
		logging.LogDebug("🧹 clearing stale partial install at %s", partialDir)
		if err := os.RemoveAll(partialDir); err != nil {
			return "", fmt.Errorf("failed to clear stale partial install: %w", err)
		}
	}
	if err := os.MkdirAll(partialDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create partial install dir: %w", err)
	}

	if err := fetch(partialDir); err != nil {
		os.RemoveAll(partialDir)
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(installDir), 0755); err != nil {
		os.RemoveAll(partialDir)
		return "", fmt.Errorf("failed to create install root: %w", err)
	}
	if err := os.Rename(partialDir, installDir); err != nil {
		os.RemoveAll(partialDir)
		return "", fmt.Errorf("failed to publish install: %w", err)
	}

	logging.LogInfo("✅ installed at %s", installDir)
	return installDir, nil
}

// InstallJDK runs Install against layout's jdks/ root for key.
func InstallJDK(layout Layout, key InstallKey, fetch FetchExtract) (string, error) {
	return Install(layout.InstallDir(key), layout.PartialDir(key), layout.LockPath(key), fetch)
}

// InstallPackage runs Install against layout's pkgs/ root for key.
func InstallPackage(layout Layout, key InstallKey, fetch FetchExtract) (string, error) {
	return Install(layout.PackageDir(key), layout.PackagePartialDir(key), layout.PackageLockPath(key), fetch)
}

// InstallFile runs Install against layout's files/ root for nameHash.
func InstallFile(layout Layout, nameHash string, fetch FetchExtract) (string, error) {
	dir := layout.FileDir(nameHash)
	return Install(dir, dir+".partial", layout.FileLockPath(nameHash), fetch)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListInstalled returns the InstallKeys of every fully-published install
// under layout's jdks root. Partial and lock entries are excluded.
func ListInstalled(layout Layout) ([]InstallKey, error) {
	entries, err := os.ReadDir(layout.JdksRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list installs: %w", err)
	}

	var keys []InstallKey
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".partial") {
			continue
		}
		keys = append(keys, InstallKey(name))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// ClearCache deletes R/v0/<scope> recursively, per spec.md §4.6. ScopeAll
// clears every root in turn. jdks/pkgs/files entries are skipped (not
// force-removed) when another process holds their lock; the index root is
// always removed whole, without consulting its per-URL lock files. Best-effort: a
// failure clearing one entry is logged and does not abort the sweep.
func ClearCache(layout Layout, scope Scope) error {
	switch scope {
	case ScopeAll:
		for _, s := range []Scope{ScopeJDKs, ScopePkgs, ScopeFiles, ScopeIndex} {
			if err := ClearCache(layout, s); err != nil {
				return err
			}
		}
		return nil
	case ScopeJDKs:
		return clearLockedEntries(layout.JdksRoot())
	case ScopePkgs:
		return clearLockedEntries(layout.PkgsRoot())
	case ScopeFiles:
		return clearLockedEntries(layout.FilesRoot())
	case ScopeIndex:
		if err := os.RemoveAll(layout.IndexRoot()); err != nil {
			return fmt.Errorf("failed to clear index cache: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown cache scope %q", scope)
	}
}

// clearLockedEntries removes every published (non-.partial) entry directly
// under root, skipping and logging any entry whose <name>.lock is held by
// another process.
func clearLockedEntries(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list %s: %w", root, err)
	}

	for _, e := range entries {
		if !e.IsDir() || strings.HasSuffix(e.Name(), ".partial") {
			continue
		}
		name := e.Name()

		lock, err := TryAcquireLock(filepath.Join(root, name+".lock"))
		if err != nil {
			if err == ErrLocked {
				logging.LogInfo("⚠️  skipping %s: in use", name)
				continue
			}
			logging.LogError("failed to lock %s: %v", name, err)
			continue
		}

		if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
			logging.LogError("failed to remove %s: %v", name, err)
		}
		lock.Release()
		os.Remove(filepath.Join(root, name+".lock"))
	}
	return nil
}
