package cache

import "path/filepath"

// Layout resolves the on-disk paths of the v0 cache schema rooted at Dir,
// per spec.md §3:
//
//	v0/jdks/<InstallKey>/
//	v0/jdks/<InstallKey>.partial/
//	v0/jdks/<InstallKey>.lock
//	v0/index/<urlHash>/index.json
//	v0/index/<urlHash>/fetched-at
//	v0/files/<nameHash>/<filename>
//	v0/pkgs/<InstallKey>/
type Layout struct {
	Dir string
}

func NewLayout(dir string) Layout { return Layout{Dir: filepath.Join(dir, "v0")} }

func (l Layout) JdksRoot() string { return filepath.Join(l.Dir, "jdks") }
func (l Layout) PkgsRoot() string { return filepath.Join(l.Dir, "pkgs") }
func (l Layout) FilesRoot() string { return filepath.Join(l.Dir, "files") }
func (l Layout) IndexRoot() string { return filepath.Join(l.Dir, "index") }

func (l Layout) InstallDir(key InstallKey) string {
	return filepath.Join(l.JdksRoot(), string(key))
}

func (l Layout) PartialDir(key InstallKey) string {
	return filepath.Join(l.JdksRoot(), string(key)+".partial")
}

func (l Layout) LockPath(key InstallKey) string {
	return filepath.Join(l.JdksRoot(), string(key)+".lock")
}

func (l Layout) PackageDir(key InstallKey) string {
	return filepath.Join(l.PkgsRoot(), string(key))
}

func (l Layout) PackagePartialDir(key InstallKey) string {
	return filepath.Join(l.PkgsRoot(), string(key)+".partial")
}

func (l Layout) PackageLockPath(key InstallKey) string {
	return filepath.Join(l.PkgsRoot(), string(key)+".lock")
}

func (l Layout) FileDir(nameHash string) string {
	return filepath.Join(l.FilesRoot(), nameHash)
}

func (l Layout) FileLockPath(nameHash string) string {
	return filepath.Join(l.FilesRoot(), nameHash+".lock")
}
