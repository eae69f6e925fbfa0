package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstallKeyDeterministic(t *testing.T) {
	a := NewInstallKey("tgz", "https://example.org/jdk.tar.gz")
	b := NewInstallKey("tgz", "https://example.org/jdk.tar.gz")
	assert.Equal(t, a, b)

	c := NewInstallKey("zip", "https://example.org/jdk.tar.gz")
	assert.NotEqual(t, a, c, "different archive type must change the key")
}

func TestInstallJDKPublishesAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)
	key := NewInstallKey("tgz", "https://example.org/jdk.tar.gz")

	calls := 0
	fetch := func(partialDir string) error {
		calls++
		return os.WriteFile(filepath.Join(partialDir, "marker"), []byte("ok"), 0644)
	}

	path, err := InstallJDK(layout, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, layout.InstallDir(key), path)
	assert.FileExists(t, filepath.Join(path, "marker"))
	assert.Equal(t, 1, calls)

	// Second install call must be a no-op: no fetch, same path.
	path2, err := InstallJDK(layout, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, path, path2)
	assert.Equal(t, 1, calls, "fetch must not run again once installed")
}

func TestInstallFailureCleansUpPartial(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)
	key := NewInstallKey("tgz", "https://example.org/broken.tar.gz")

	fetch := func(partialDir string) error {
		return assert.AnError
	}

	_, err := InstallJDK(layout, key, fetch)
	require.Error(t, err)
	assert.NoDirExists(t, layout.PartialDir(key))
	assert.NoDirExists(t, layout.InstallDir(key))
}

func TestInstallClearsStalePartial(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)
	key := NewInstallKey("tgz", "https://example.org/jdk.tar.gz")

	require.NoError(t, os.MkdirAll(layout.PartialDir(key), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(layout.PartialDir(key), "stale"), []byte("x"), 0644))

	fetch := func(partialDir string) error {
		// A fresh fetch should start from an empty partial dir.
		_, err := os.Stat(filepath.Join(partialDir, "stale"))
		assert.True(t, os.IsNotExist(err))
		return os.WriteFile(filepath.Join(partialDir, "marker"), []byte("ok"), 0644)
	}

	_, err := InstallJDK(layout, key, fetch)
	require.NoError(t, err)
}

func TestListInstalledExcludesPartials(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)

	key1 := NewInstallKey("tgz", "https://example.org/a.tar.gz")
	key2 := NewInstallKey("tgz", "https://example.org/b.tar.gz")

	_, err := InstallJDK(layout, key1, func(p string) error { return nil })
	require.NoError(t, err)
	_, err = InstallJDK(layout, key2, func(p string) error { return nil })
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(layout.PartialDir(NewInstallKey("tgz", "https://example.org/c.tar.gz")), 0755))

	keys, err := ListInstalled(layout)
	require.NoError(t, err)
	assert.ElementsMatch(t, []InstallKey{key1, key2}, keys)
}

func TestClearCacheJDKsLeavesIndexUntouched(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)

	key1 := NewInstallKey("tgz", "https://example.org/a.tar.gz")
	key2 := NewInstallKey("tgz", "https://example.org/b.tar.gz")
	_, err := InstallJDK(layout, key1, func(p string) error { return nil })
	require.NoError(t, err)
	_, err = InstallJDK(layout, key2, func(p string) error { return nil })
	require.NoError(t, err)

	indexFile := filepath.Join(layout.IndexRoot(), "abc", "index.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(indexFile), 0755))
	require.NoError(t, os.WriteFile(indexFile, []byte("{}"), 0644))

	require.NoError(t, ClearCache(layout, ScopeJDKs))

	keys, err := ListInstalled(layout)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.FileExists(t, indexFile, "clearing jdks must not touch the index root")
}

func TestClearCacheSkipsLockedInstall(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)

	key := NewInstallKey("tgz", "https://example.org/a.tar.gz")
	_, err := InstallJDK(layout, key, func(p string) error { return nil })
	require.NoError(t, err)

	lock, err := AcquireLock(layout.LockPath(key))
	require.NoError(t, err)
	defer lock.Release()

	require.NoError(t, ClearCache(layout, ScopeJDKs))

	keys, err := ListInstalled(layout)
	require.NoError(t, err)
	assert.Equal(t, []InstallKey{key}, keys, "a locked install must survive clearCache")
}

func TestClearCacheAllClearsEveryRoot(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir)

	key1 := NewInstallKey("tgz", "https://example.org/a.tar.gz")
	_, err := InstallJDK(layout, key1, func(p string) error { return nil })
	require.NoError(t, err)

	indexFile := filepath.Join(layout.IndexRoot(), "abc", "index.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(indexFile), 0755))
	require.NoError(t, os.WriteFile(indexFile, []byte("{}"), 0644))

	require.NoError(t, ClearCache(layout, ScopeAll))

	keys, err := ListInstalled(layout)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NoDirExists(t, layout.IndexRoot())
}

func TestParseScopeRejectsUnknown(t *testing.T) {
	_, err := ParseScope("bogus")
	assert.Error(t, err)
}
