package store

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/domain"
)

// RegistryFileStore persists the profile registry in a single sealed file.
type RegistryFileStore struct {
	path  string
	codec *codec.Codec
	log   *zap.Logger
	mu    sync.Mutex
}

// NewRegistryFileStore returns a RegistryFileStore writing to path. Metadata
// entries that fail to decode are logged on log and otherwise tolerated.
func NewRegistryFileStore(path string, c *codec.Codec, log *zap.Logger) *RegistryFileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistryFileStore{path: path, codec: c, log: log}
}

// LoadRegistry returns the stored registry. found is false when the file
// does not exist (or is empty). Invariants are left to the caller.
func (s *RegistryFileStore) LoadRegistry() (domain.Registry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path)
	if err != nil {
		return domain.Registry{}, false, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return domain.Registry{}, false, nil
	}

	reg, warnings, err := s.codec.DecodeRegistry(b)
	if err != nil {
		return domain.Registry{}, true, fmt.Errorf("decode %s: %w", s.path, err)
	}
	for _, w := range warnings {
		s.log.Warn("registry entry degraded", zap.String("path", s.path), zap.Error(w))
	}
	return reg, true, nil
}

// SaveRegistry seals reg and replaces the registry file.
func (s *RegistryFileStore) SaveRegistry(reg domain.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.codec.EncodeRegistry(reg)
	if err != nil {
		return fmt.Errorf("encode registry: %w: %w", domain.ErrParse, err)
	}
	if err := writeFile(s.path, b); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Compile-time assertion that RegistryFileStore implements domain.RegistryStore.
var _ domain.RegistryStore = (*RegistryFileStore)(nil)
