package store

import (
	"fmt"
	"sync"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/domain"
)

// RecordFileStore reads and writes sealed namespace records.
type RecordFileStore struct {
	codec *codec.Codec
	mu    sync.Mutex
}

// NewRecordFileStore returns a RecordFileStore sealing with c.
func NewRecordFileStore(c *codec.Codec) *RecordFileStore {
	return &RecordFileStore{codec: c}
}

// LoadRecord decodes the record at path. A missing or empty file yields an
// empty record.
func (s *RecordFileStore) LoadRecord(path string) (domain.Record, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	rec, warnings, err := s.codec.Decode(b)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, warnings, nil
}

// SaveRecord seals rec and replaces the file at path.
func (s *RecordFileStore) SaveRecord(path string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", path, domain.ErrParse, err)
	}
	if err := writeFile(path, b); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Compile-time assertion that RecordFileStore implements domain.RecordStore.
var _ domain.RecordStore = (*RecordFileStore)(nil)
