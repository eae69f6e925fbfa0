package extract

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cjdkgo/internal/index"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	defer gw.Close()
	tw := tar.NewWriter(gw)
	defer tw.Close()

	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestArchiveTgzStripsWrapperDirectory(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "jdk.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"jdk-17.0.5+8/bin/java":   "binary",
		"jdk-17.0.5+8/release":    "JAVA_VERSION=17",
		"jdk-17.0.5+8/lib/a.jar":  "jar-bytes",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, Archive(index.Tgz, archivePath, dest))

	assert.FileExists(t, filepath.Join(dest, "bin", "java"))
	assert.FileExists(t, filepath.Join(dest, "release"))
	assert.NoDirExists(t, filepath.Join(dest, "jdk-17.0.5+8"))
}

func TestArchiveZipStripsWrapperDirectory(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "jdk.zip")
	writeZip(t, archivePath, map[string]string{
		"jdk-21/bin/java": "binary",
		"jdk-21/release":  "JAVA_VERSION=21",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, Archive(index.Zip, archivePath, dest))

	assert.FileExists(t, filepath.Join(dest, "bin", "java"))
	assert.FileExists(t, filepath.Join(dest, "release"))
}

func TestArchiveNoStripWhenMultipleTopLevelEntries(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "flat.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"bin/java": "binary",
		"release":  "JAVA_VERSION=17",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, Archive(index.Tgz, archivePath, dest))

	assert.FileExists(t, filepath.Join(dest, "bin", "java"))
	assert.FileExists(t, filepath.Join(dest, "release"))
}

func TestSafeJoinRejectsTraversal(t *testing.T) {
	dest := t.TempDir()
	_, ok := safeJoin(dest, "../../etc/passwd")
	assert.False(t, ok)
}

func TestSafeJoinRejectsAbsolutePath(t *testing.T) {
	dest := t.TempDir()
	_, ok := safeJoin(dest, "/etc/passwd")
	assert.False(t, ok)
}

func TestSafeJoinRejectsWindowsDriveLetter(t *testing.T) {
	dest := t.TempDir()
	_, ok := safeJoin(dest, `C:\Windows\System32\evil.dll`)
	assert.False(t, ok)
}

func TestSafeJoinAllowsNormalEntry(t *testing.T) {
	dest := t.TempDir()
	target, ok := safeJoin(dest, "bin/java")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dest, "bin", "java"), target)
}

func TestArchiveTarSlipEntryAborts(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"../../outside.txt": "escaped",
		"safe.txt":          "fine",
	})

	dest := filepath.Join(dir, "out")
	err := Archive(index.Tgz, archivePath, dest)
	require.Error(t, err)

	// "../../outside.txt" relative to dir/out resolves to dir's parent.
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "outside.txt"), "a path-escaping entry must never be written")
}

func TestArchiveZipSlipEntryAborts(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	writeZip(t, archivePath, map[string]string{
		"../../outside.txt": "escaped",
		"safe.txt":          "fine",
	})

	dest := filepath.Join(dir, "out")
	err := Archive(index.Zip, archivePath, dest)
	require.Error(t, err)

	// "../../outside.txt" relative to dir/out resolves to dir's parent.
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "outside.txt"), "a path-escaping entry must never be written")
}
