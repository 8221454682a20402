package store

import (
	"path/filepath"
	"strings"
)

const (
	GlobalFilename   = "KPlayerPrefs_Global.dat"
	RegistryFilename = "KPlayerPrefs_ProfilesConfig.dat"
	ProfilesDirname  = "KPlayerPrefs_Profiles"
	LegacyFilename   = "KPlayerPrefs.dat"
	BackupSuffix     = ".migrated_backup"
	FileExt          = ".dat"
)

// Layout maps store files to paths under a data directory.
type Layout struct {
	Dir string
}

func (l Layout) GlobalPath() string   { return filepath.Join(l.Dir, GlobalFilename) }
func (l Layout) RegistryPath() string { return filepath.Join(l.Dir, RegistryFilename) }
func (l Layout) ProfilesDir() string  { return filepath.Join(l.Dir, ProfilesDirname) }
func (l Layout) LegacyPath() string   { return filepath.Join(l.Dir, LegacyFilename) }
func (l Layout) BackupPath() string   { return l.LegacyPath() + BackupSuffix }

// ProfilePath returns the data file for the named profile. The name must
// already have passed domain.ValidateProfileName.
func (l Layout) ProfilePath(name string) string {
	return filepath.Join(l.ProfilesDir(), name+FileExt)
}

// ProfileNameOf is the inverse of ProfilePath. ok is false for paths
// outside the profiles directory or without the .dat extension.
func (l Layout) ProfileNameOf(path string) (name string, ok bool) {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(l.ProfilesDir()) {
		return "", false
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, FileExt) || len(base) == len(FileExt) {
		return "", false
	}
	return strings.TrimSuffix(base, FileExt), true
}
