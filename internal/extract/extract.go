// Package extract unpacks tgz/tbz2/txz/zip/tar archives, rejecting
// zip-slip/tar-slip path escapes and symlink targets that would land
// outside the destination, and lifting a single top-level wrapper
// directory per spec.md §4.5.
//
// The path-safety check and the strip-one-level rule are grounded on
// MarcoAntonioRussoDEV-Jenvy/internal/cmd/extract.go's extractZip/
// extractTarGz (clean-path-prefix check) and findJDKRootDir/
// flattenJDKDirectory (single-top-level-directory lift), generalized here
// to also reject symlinks that escape dest and Windows drive-letter
// absolute paths.
package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"cjdkgo/internal/index"
)

// Archive unpacks src (an archive of the given type) into dest, then lifts
// a single top-level wrapper directory if the archive contained exactly
// one.
func Archive(archiveType index.ArchiveType, src, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory: %w", err)
	}

	var err error
	switch archiveType {
	case index.Tgz:
		err = extractTar(src, dest, gzipReader)
	case index.Tbz2:
		err = extractTar(src, dest, bzip2Reader)
	case index.Txz:
		err = extractTar(src, dest, xzReader)
	case index.Tar:
		err = extractTar(src, dest, plainReader)
	case index.Zip:
		err = extractZip(src, dest)
	default:
		return fmt.Errorf("unsupported archive type: %s", archiveType)
	}
	if err != nil {
		return err
	}

	return stripOneLevel(dest)
}

func plainReader(f *os.File) (io.Reader, func() error, error) { return f, func() error { return nil }, nil }

func gzipReader(f *os.File) (io.Reader, func() error, error) {
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return gr, gr.Close, nil
}

func bzip2Reader(f *os.File) (io.Reader, func() error, error) {
	return bzip2.NewReader(f), func() error { return nil }, nil
}

func xzReader(f *os.File) (io.Reader, func() error, error) {
	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xz stream: %w", err)
	}
	return xr, func() error { return nil }, nil
}

func extractTar(src, dest string, wrap func(*os.File) (io.Reader, func() error, error)) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	r, closeWrap, err := wrap(f)
	if err != nil {
		return err
	}
	defer closeWrap()

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}

		target, ok := safeJoin(dest, header.Name)
		if !ok {
			return fmt.Errorf("archive entry %q escapes extraction directory", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeSymlink:
			if !safeSymlinkTarget(dest, target, header.Linkname) {
				return fmt.Errorf("symlink entry %q targets outside extraction directory", header.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory for symlink: %w", err)
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file %s: %w", target, err)
			}
			_, copyErr := io.Copy(out, tr)
			closeErr := out.Close()
			if copyErr != nil {
				return fmt.Errorf("failed to write file %s: %w", target, copyErr)
			}
			if closeErr != nil {
				return fmt.Errorf("failed to close file %s: %w", target, closeErr)
			}
		}
	}
}

func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, ok := safeJoin(dest, f.Name)
		if !ok {
			return fmt.Errorf("archive entry %q escapes extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open zip entry %s: %w", f.Name, err)
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return fmt.Errorf("failed to create file %s: %w", target, err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		closeErr := out.Close()
		if copyErr != nil {
			return fmt.Errorf("failed to write file %s: %w", target, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close file %s: %w", target, closeErr)
		}
	}
	return nil
}

// safeJoin joins dest with a (possibly hostile) archive entry name,
// rejecting anything that would resolve outside dest: ".." traversal,
// an absolute path, or (on any platform) a Windows drive-letter path
// such as "C:\evil".
func safeJoin(dest, name string) (string, bool) {
	if len(name) >= 2 && name[1] == ':' {
		return "", false // drive-letter absolute path
	}
	cleaned := filepath.Clean(strings.ReplaceAll(name, "\\", "/"))
	if filepath.IsAbs(cleaned) {
		return "", false
	}
	target := filepath.Join(dest, cleaned)
	destPrefix := filepath.Clean(dest) + string(os.PathSeparator)
	if !strings.HasPrefix(target+string(os.PathSeparator), destPrefix) && target != filepath.Clean(dest) {
		return "", false
	}
	return target, true
}

// safeSymlinkTarget reports whether a symlink at linkPath pointing at
// linkname (which may be relative to linkPath's directory) stays inside
// the extraction directory dest.
func safeSymlinkTarget(dest, linkPath, linkname string) bool {
	if filepath.IsAbs(linkname) {
		return false
	}
	resolved := filepath.Join(filepath.Dir(linkPath), linkname)
	root := filepath.Clean(dest)
	return resolved == root || strings.HasPrefix(resolved, root+string(os.PathSeparator))
}

// stripOneLevel lifts the contents of dest's single top-level directory up
// into dest itself, matching JDK archives that wrap everything in a
// "jdk-17.0.5+8/" directory. A no-op if dest doesn't contain exactly one
// entry, or that entry isn't a directory.
func stripOneLevel(dest string) error {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return fmt.Errorf("failed to read extracted directory: %w", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	wrapper := filepath.Join(dest, entries[0].Name())
	inner, err := os.ReadDir(wrapper)
	if err != nil {
		return fmt.Errorf("failed to read wrapper directory: %w", err)
	}

	for _, e := range inner {
		if err := os.Rename(filepath.Join(wrapper, e.Name()), filepath.Join(dest, e.Name())); err != nil {
			return fmt.Errorf("failed to lift %s out of wrapper directory: %w", e.Name(), err)
		}
	}
	return os.Remove(wrapper)
}
