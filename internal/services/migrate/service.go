package migrate

import (
	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/domain"
)

// Result describes what Run did.
type Result int

const (
	// NotNeeded means there was no legacy file or a registry already exists.
	NotNeeded Result = iota
	// Migrated means the legacy data now backs the Default profile.
	Migrated
	// Failed means a legacy file was found but could not be migrated.
	Failed
)

func (r Result) String() string {
	switch r {
	case NotNeeded:
		return "not needed"
	case Migrated:
		return "migrated"
	default:
		return "failed"
	}
}

// Service performs the one-time legacy migration.
type Service struct {
	legacy domain.LegacyStore
	codec  *codec.Codec
	log    *zap.Logger
}

// New constructs a migration Service. The codec is only used to check
// that the legacy file decrypts before it is adopted.
func New(legacy domain.LegacyStore, c *codec.Codec, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{legacy: legacy, codec: c, log: log}
}

// Run migrates the legacy file if one is pending. It must be called before
// the profile registry is loaded, since loading writes the registry.
func (s *Service) Run() Result {
	pending, err := s.legacy.Pending()
	if err != nil {
		s.log.Warn("could not check for legacy data", zap.Error(err))
		return Failed
	}
	if !pending {
		return NotNeeded
	}

	s.log.Info("migrating legacy data to the profile layout")

	data, err := s.legacy.ReadLegacy()
	if err != nil {
		s.log.Warn("failed to read legacy data", zap.Error(err))
		return Failed
	}

	rec, warnings, err := s.codec.Decode(data)
	if err != nil {
		s.log.Warn("legacy data is unreadable; leaving it in place", zap.Error(err))
		return Failed
	}
	for _, w := range warnings {
		s.log.Warn("legacy entry degraded", zap.Error(w))
	}

	if err := s.legacy.AdoptAsProfile(domain.DefaultProfile, data); err != nil {
		s.log.Warn("failed to write Default profile from legacy data", zap.Error(err))
		return Failed
	}

	backup, err := s.legacy.Retire()
	if err != nil {
		s.log.Warn("legacy data migrated but the legacy file could not be renamed", zap.Error(err))
		return Migrated
	}

	s.log.Info("legacy data migrated", zap.Int("keys", len(rec)), zap.String("backup", backup))
	return Migrated
}
