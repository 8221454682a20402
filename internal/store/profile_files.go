package store

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/kairosolo/kprefs/internal/domain"
)

// ProfileFileStore manages the per-profile data files under
// KPlayerPrefs_Profiles/.
type ProfileFileStore struct {
	layout Layout
	mu     sync.Mutex
}

// NewProfileFileStore returns a ProfileFileStore for layout.
func NewProfileFileStore(layout Layout) *ProfileFileStore {
	return &ProfileFileStore{layout: layout}
}

// ProfilePath returns the data file for name.
func (s *ProfileFileStore) ProfilePath(name string) string {
	return s.layout.ProfilePath(name)
}

// RemoveProfile deletes the data file for name, if any.
func (s *ProfileFileStore) RemoveProfile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.layout.ProfilePath(name)); err != nil {
		return fmt.Errorf("remove profile %q: %w", name, err)
	}
	return nil
}

// RenameProfile moves the data file of oldName to newName. A missing
// source is not an error. An existing destination is replaced.
func (s *ProfileFileStore) RenameProfile(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, dst := s.layout.ProfilePath(oldName), s.layout.ProfilePath(newName)
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("rename profile %q to %q: %w", oldName, newName, err)
	}
	return nil
}

// CopyProfile duplicates the data file of src as dst. A missing source is
// not an error.
func (s *ProfileFileStore) CopyProfile(src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := copyFile(s.layout.ProfilePath(src), s.layout.ProfilePath(dst)); err != nil {
		return fmt.Errorf("copy profile %q to %q: %w", src, dst, err)
	}
	return nil
}

// Compile-time assertion that ProfileFileStore implements domain.ProfileFiles.
var _ domain.ProfileFiles = (*ProfileFileStore)(nil)
