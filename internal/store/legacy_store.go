package store

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/kairosolo/kprefs/internal/domain"
)

// LegacyFileStore handles KPlayerPrefs.dat, the single file used before
// profiles existed.
type LegacyFileStore struct {
	layout Layout
	mu     sync.Mutex
}

// NewLegacyFileStore returns a LegacyFileStore for layout.
func NewLegacyFileStore(layout Layout) *LegacyFileStore {
	return &LegacyFileStore{layout: layout}
}

func (s *LegacyFileStore) Pending() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	legacy, err := exists(s.layout.LegacyPath())
	if err != nil || !legacy {
		return false, err
	}
	registry, err := exists(s.layout.RegistryPath())
	if err != nil {
		return false, err
	}
	return !registry, nil
}

func (s *LegacyFileStore) ReadLegacy() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.ReadFile(s.layout.LegacyPath())
}

func (s *LegacyFileStore) AdoptAsProfile(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.layout.ProfilePath(name)
	taken, err := exists(dst)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s: %w", dst, os.ErrExist)
	}
	return writeFile(dst, data)
}

func (s *LegacyFileStore) Retire() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.layout.BackupPath()
	if err := os.Rename(s.layout.LegacyPath(), dst); err != nil {
		return "", err
	}
	return dst, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Compile-time assertion that LegacyFileStore implements domain.LegacyStore.
var _ domain.LegacyStore = (*LegacyFileStore)(nil)
