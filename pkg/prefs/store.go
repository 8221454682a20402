package prefs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/crypto"
	"github.com/kairosolo/kprefs/internal/domain"
	"github.com/kairosolo/kprefs/internal/events"
	"github.com/kairosolo/kprefs/internal/services/migrate"
	"github.com/kairosolo/kprefs/internal/services/profile"
	"github.com/kairosolo/kprefs/internal/store"
	"github.com/kairosolo/kprefs/internal/telemetry"
)

// DefaultProfile is the profile that always exists.
const DefaultProfile = domain.DefaultProfile

// ErrReentrantMutation is returned when an event handler tries to mutate
// the store that is dispatching to it.
var ErrReentrantMutation = errors.New("store mutated from inside an event handler")

// Options configures Open.
type Options struct {
	// Dir is the data directory. It is created if missing.
	Dir string
	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
	// Clock supplies timestamps. Nil means time.Now.
	Clock func() time.Time
}

// Subscription identifies an event handler registered on a Store.
type Subscription = events.Subscription

// Store is an open preference store. Create one with Open.
type Store struct {
	layout   store.Layout
	codec    *codec.Codec
	records  domain.RecordStore
	profiles *profile.Service
	bus      *events.Bus
	stats    *telemetry.Recorder
	log      *zap.Logger
	now      func() time.Time

	global      domain.Record
	dispatching int
}

// Open loads or initializes the store rooted at opts.Dir.
//
// Unreadable files never make Open fail: a corrupt registry or global file
// is logged and replaced by an empty one. Open fails only when the data
// directory itself cannot be created.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("prefs: Options.Dir is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("prefs: create data dir: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	layout := store.Layout{Dir: opts.Dir}
	c := codec.New(crypto.DefaultKey(), now)

	s := &Store{
		layout:  layout,
		codec:   c,
		records: store.NewRecordFileStore(c),
		bus:     events.NewBus(log.Named("events")),
		stats:   telemetry.NewRecorder(nil),
		log:     log,
		now:     now,
	}

	migrate.New(store.NewLegacyFileStore(layout), c, log.Named("migrate")).Run()

	s.profiles = profile.New(
		store.NewRegistryFileStore(layout.RegistryPath(), c, log.Named("registry")),
		store.NewProfileFileStore(layout),
		sink{s},
		now,
		log.Named("profile"),
	)
	if err := s.profiles.Load(); err != nil {
		log.Warn("profile registry could not be written; continuing in memory", zap.Error(err))
	}

	s.global = s.loadRecord(layout.GlobalPath(), "global")
	log.Debug("store opened",
		zap.String("dir", opts.Dir),
		zap.String("active", s.profiles.Active()),
		zap.Int("global_keys", len(s.global)))
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.layout.Dir }

// Global returns the namespace shared by every profile.
func (s *Store) Global() *Namespace { return &Namespace{s: s, scope: scopeGlobal} }

// Active returns a namespace that always resolves to the profile active at
// the time of each call.
func (s *Store) Active() *Namespace { return &Namespace{s: s, scope: scopeActive} }

// Profile returns a namespace pinned to name, whether or not it is active.
// Reads from a profile that does not exist return defaults; writes fail
// with domain.ErrProfileNotFound.
func (s *Store) Profile(name string) *Namespace {
	return &Namespace{s: s, scope: scopeProfile, profile: name}
}

// Save flushes the global namespace and the profile registry to disk.
// Profile namespaces are written on every mutation and need no flush.
func (s *Store) Save() error {
	if err := s.saveRecord(s.layout.GlobalPath(), s.global); err != nil {
		return err
	}
	return s.profiles.Save()
}

// ---------- Profiles ----------

// ActiveProfile returns the name of the active profile.
func (s *Store) ActiveProfile() string { return s.profiles.Active() }

// CreateProfile registers a new empty profile.
func (s *Store) CreateProfile(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.profiles.Create(name)
}

// SetActiveProfile switches the active profile.
func (s *Store) SetActiveProfile(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.profiles.SetActive(name)
}

// DeleteProfile removes a profile and its data. Default cannot be deleted.
func (s *Store) DeleteProfile(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.profiles.Delete(name)
}

// RenameProfile renames a profile and its data file.
func (s *Store) RenameProfile(oldName, newName string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.profiles.Rename(oldName, newName)
}

// CopyProfile creates dst with a copy of src's data.
func (s *Store) CopyProfile(src, dst string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.profiles.Copy(src, dst)
}

// DeleteAllProfiles removes every profile except Default and returns the
// deleted names.
func (s *Store) DeleteAllProfiles() ([]string, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.profiles.DeleteAll()
}

// ProfileExists reports whether name is a registered profile.
func (s *Store) ProfileExists(name string) bool { return s.profiles.Exists(name) }

// ProfileNames lists profiles in creation order.
func (s *Store) ProfileNames() []string { return s.profiles.Names() }

// ProfileCount returns the number of profiles, Default included.
func (s *Store) ProfileCount() int { return s.profiles.Count() }

// ProfileInfo describes one profile.
func (s *Store) ProfileInfo(name string) (domain.ProfileInfo, bool) { return s.profiles.Info(name) }

// ProfileInfos describes every profile in creation order.
func (s *Store) ProfileInfos() []domain.ProfileInfo { return s.profiles.Infos() }

// Metadata returns a copy of a profile's metadata.
func (s *Store) Metadata(name string) domain.Record { return s.profiles.Metadata(name) }

// SetMetadata stores one metadata value on a profile. Passing the zero
// Value removes the key.
func (s *Store) SetMetadata(name, key string, v domain.Value) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.profiles.SetMetadata(name, key, v)
}

// ---------- Events ----------

// OnDataChanged registers fn to run after any successful mutation.
func (s *Store) OnDataChanged(fn func()) Subscription { return s.bus.OnDataChanged(fn) }

// OnActiveProfileChanged registers fn to run after a profile switch.
func (s *Store) OnActiveProfileChanged(fn func(name string)) Subscription {
	return s.bus.OnActiveProfileChanged(fn)
}

// Unsubscribe removes a handler. It reports whether one was registered.
func (s *Store) Unsubscribe(id Subscription) bool { return s.bus.Unsubscribe(id) }

// sink forwards service events to the bus while marking the store as
// dispatching.
type sink struct{ s *Store }

func (k sink) DataChanged() {
	k.s.dispatching++
	defer func() { k.s.dispatching-- }()
	k.s.bus.DataChanged()
}

func (k sink) ActiveProfileChanged(name string) {
	k.s.dispatching++
	defer func() { k.s.dispatching-- }()
	k.s.bus.ActiveProfileChanged(name)
}

func (s *Store) guard() error {
	if s.dispatching > 0 {
		s.log.Error("mutation attempted from an event handler")
		return ErrReentrantMutation
	}
	return nil
}

// ---------- Persistence ----------

// loadRecord reads one namespace file. Failures degrade to an empty record.
func (s *Store) loadRecord(path, ns string) domain.Record {
	done := s.stats.Load()
	rec, warnings, err := s.records.LoadRecord(path)
	done(err)
	if err != nil {
		s.log.Error("namespace file unreadable; treating it as empty", zap.String("namespace", ns), zap.Error(err))
		return domain.Record{}
	}
	for _, w := range warnings {
		s.log.Warn("entry reset to default", zap.String("namespace", ns), zap.Error(w))
	}
	return rec
}

func (s *Store) saveRecord(path string, rec domain.Record) error {
	done := s.stats.Save()
	err := s.records.SaveRecord(path, rec)
	done(err)
	if err != nil {
		s.log.Error("failed to save namespace", zap.String("path", path), zap.Error(err))
		return domain.WriteError(err)
	}
	return nil
}

// Compile-time assertion that sink implements domain.EventSink.
var _ domain.EventSink = sink{}
