package profile

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/domain"
)

// Service performs profile lifecycle operations against a RegistryStore.
//
// Every operation validates first and mutates second, so a rejected call
// leaves both memory and disk untouched. When persisting fails the
// in-memory registry is rolled back to the last saved state.
//
// Service is not safe for concurrent use.
type Service struct {
	store  domain.RegistryStore
	files  domain.ProfileFiles
	events domain.EventSink
	now    func() time.Time
	log    *zap.Logger

	reg domain.Registry
}

// New constructs a profile Service. Call Load before anything else.
func New(
	store domain.RegistryStore,
	files domain.ProfileFiles,
	events domain.EventSink,
	now func() time.Time,
	log *zap.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		files:  files,
		events: events,
		now:    now,
		log:    log,
		reg:    domain.NewRegistry(now()),
	}
}

// Load reads the registry from disk and repairs it.
//
// A missing file yields a fresh registry; an unreadable one is logged and
// replaced by a fresh registry. Either way the result is persisted. The
// returned error only reports a failure to write the repaired registry;
// the in-memory registry is usable regardless.
func (s *Service) Load() error {
	reg, found, err := s.store.LoadRegistry()
	switch {
	case err != nil:
		s.log.Error("profile registry unreadable; starting with a fresh registry", zap.Error(err))
		s.reg = domain.NewRegistry(s.now())
		return s.persist()
	case !found:
		s.log.Debug("no profile registry on disk; creating one")
		s.reg = domain.NewRegistry(s.now())
		return s.persist()
	}

	s.reg = reg
	if s.heal() {
		return s.persist()
	}
	return nil
}

// heal enforces the registry invariants in place and reports whether
// anything changed.
func (s *Service) heal() bool {
	changed := false
	now := s.now()

	seen := make(map[string]bool, len(s.reg.Profiles))
	kept := s.reg.Profiles[:0]
	for _, p := range s.reg.Profiles {
		if err := domain.ValidateProfileName(p.Name); err != nil {
			s.log.Warn("dropping profile with unusable name", zap.String("profile", p.Name), zap.Error(err))
			changed = true
			continue
		}
		if seen[p.Name] {
			s.log.Warn("dropping duplicate profile entry", zap.String("profile", p.Name))
			changed = true
			continue
		}
		seen[p.Name] = true
		if p.Metadata == nil {
			p.Metadata = domain.Record{}
		}
		kept = append(kept, p)
	}
	s.reg.Profiles = kept

	if !seen[domain.DefaultProfile] {
		s.log.Warn("Default profile missing from registry; recreating it")
		def := domain.ProfileInfo{Name: domain.DefaultProfile, Created: now, LastAccess: now, Metadata: domain.Record{}}
		s.reg.Profiles = append([]domain.ProfileInfo{def}, s.reg.Profiles...)
		changed = true
	}

	if s.reg.Index(s.reg.Active) < 0 {
		s.log.Warn("active profile does not resolve; falling back to Default", zap.String("profile", s.reg.Active))
		s.reg.Active = domain.DefaultProfile
		changed = true
	}
	return changed
}

// Create registers a new, empty profile. Its data file is created lazily
// on first write.
func (s *Service) Create(name string) error {
	if err := s.create(name); err != nil {
		return err
	}
	s.events.DataChanged()
	return nil
}

func (s *Service) create(name string) error {
	if err := domain.ValidateProfileName(name); err != nil {
		s.log.Error("cannot create profile", zap.String("profile", name), zap.Error(err))
		return err
	}
	if s.Exists(name) {
		s.log.Warn("profile already exists", zap.String("profile", name))
		return fmt.Errorf("create %q: %w", name, domain.ErrProfileExists)
	}

	now := s.now()
	prev := s.reg.Clone()
	s.reg.Profiles = append(s.reg.Profiles, domain.ProfileInfo{
		Name: name, Created: now, LastAccess: now, Metadata: domain.Record{},
	})
	if err := s.commit(prev); err != nil {
		return err
	}

	s.log.Debug("profile created", zap.String("profile", name))
	return nil
}

// SetActive switches the active profile. Switching to the profile that is
// already active is a no-op.
func (s *Service) SetActive(name string) error {
	i := s.reg.Index(name)
	if i < 0 {
		s.log.Error("cannot switch to missing profile", zap.String("profile", name))
		return fmt.Errorf("set active %q: %w", name, domain.ErrProfileNotFound)
	}
	if s.reg.Active == name {
		return nil
	}

	now := s.now()
	prev := s.reg.Clone()
	previous := s.reg.Active
	s.reg.Active = name
	s.reg.LastAccessed = now
	s.reg.Profiles[i].LastAccess = now
	if err := s.commit(prev); err != nil {
		return err
	}

	s.log.Debug("active profile changed", zap.String("from", previous), zap.String("to", name))
	s.events.ActiveProfileChanged(name)
	s.events.DataChanged()
	return nil
}

// Delete removes a profile and its data file. Deleting the active profile
// first switches to Default. The Default profile cannot be deleted.
func (s *Service) Delete(name string) error {
	if name == domain.DefaultProfile {
		s.log.Error("cannot delete the Default profile")
		return fmt.Errorf("delete %q: %w", name, domain.ErrDefaultProfile)
	}
	if !s.Exists(name) {
		s.log.Warn("cannot delete missing profile", zap.String("profile", name))
		return fmt.Errorf("delete %q: %w", name, domain.ErrProfileNotFound)
	}

	if s.reg.Active == name {
		if err := s.SetActive(domain.DefaultProfile); err != nil {
			return err
		}
	}

	prev := s.reg.Clone()
	s.reg.Profiles = removeAt(s.reg.Profiles, s.reg.Index(name))
	if err := s.commit(prev); err != nil {
		return err
	}
	if err := s.files.RemoveProfile(name); err != nil {
		s.log.Error("profile removed from registry but its data file remains", zap.String("profile", name), zap.Error(err))
	}

	s.log.Debug("profile deleted", zap.String("profile", name))
	s.events.DataChanged()
	return nil
}

// DeleteAll removes every profile except Default and leaves Default active.
// It returns the names that were deleted.
func (s *Service) DeleteAll() ([]string, error) {
	var deleted []string
	for _, name := range s.Names() {
		if name == domain.DefaultProfile {
			continue
		}
		if err := s.Delete(name); err != nil {
			return deleted, err
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// Rename gives a profile a new name and moves its data file. The active
// profile reference follows the rename.
func (s *Service) Rename(oldName, newName string) error {
	if oldName == domain.DefaultProfile {
		s.log.Error("cannot rename the Default profile")
		return fmt.Errorf("rename %q: %w", oldName, domain.ErrDefaultProfile)
	}
	i := s.reg.Index(oldName)
	if i < 0 {
		s.log.Error("cannot rename missing profile", zap.String("profile", oldName))
		return fmt.Errorf("rename %q: %w", oldName, domain.ErrProfileNotFound)
	}
	if err := domain.ValidateProfileName(newName); err != nil {
		s.log.Error("cannot rename profile", zap.String("profile", oldName), zap.Error(err))
		return err
	}
	if s.Exists(newName) {
		s.log.Error("rename target already exists", zap.String("profile", newName))
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, domain.ErrProfileExists)
	}

	if err := s.files.RenameProfile(oldName, newName); err != nil {
		s.log.Error("failed to rename profile file", zap.String("profile", oldName), zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	prev := s.reg.Clone()
	s.reg.Profiles[i].Name = newName
	if s.reg.Active == oldName {
		s.reg.Active = newName
	}
	if err := s.commit(prev); err != nil {
		if rerr := s.files.RenameProfile(newName, oldName); rerr != nil {
			s.log.Error("failed to restore profile file after aborted rename", zap.String("profile", oldName), zap.Error(rerr))
		}
		return err
	}

	s.log.Debug("profile renamed", zap.String("from", oldName), zap.String("to", newName))
	s.events.DataChanged()
	return nil
}

// Copy creates dst as a duplicate of src, including its data file when
// one exists. Metadata is not copied.
func (s *Service) Copy(src, dst string) error {
	if !s.Exists(src) {
		s.log.Error("copy source does not exist", zap.String("profile", src))
		return fmt.Errorf("copy %q: %w", src, domain.ErrProfileNotFound)
	}
	if s.Exists(dst) {
		s.log.Error("copy target already exists", zap.String("profile", dst))
		return fmt.Errorf("copy to %q: %w", dst, domain.ErrProfileExists)
	}

	if err := s.create(dst); err != nil {
		return err
	}
	if err := s.files.CopyProfile(src, dst); err != nil {
		s.log.Error("profile created but its data could not be copied", zap.String("from", src), zap.String("to", dst), zap.Error(err))
		s.events.DataChanged()
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	s.log.Debug("profile copied", zap.String("from", src), zap.String("to", dst))
	s.events.DataChanged()
	return nil
}

// Metadata returns a copy of the metadata of name, or an empty record when
// the profile does not exist.
func (s *Service) Metadata(name string) domain.Record {
	i := s.reg.Index(name)
	if i < 0 {
		return domain.Record{}
	}
	return s.reg.Profiles[i].Metadata.Clone()
}

// SetMetadata stores one metadata entry on a profile. An invalid value
// deletes the key instead.
func (s *Service) SetMetadata(name, key string, v domain.Value) error {
	i := s.reg.Index(name)
	if i < 0 {
		return fmt.Errorf("set metadata on %q: %w", name, domain.ErrProfileNotFound)
	}

	prev := s.reg.Clone()
	md := s.reg.Profiles[i].Metadata
	if md == nil {
		md = domain.Record{}
		s.reg.Profiles[i].Metadata = md
	}
	if !v.IsValid() {
		if _, ok := md[key]; !ok {
			return nil
		}
		delete(md, key)
	} else {
		if old, ok := md[key]; ok && old.Equal(v) {
			return nil
		}
		md[key] = v
	}
	return s.commit(prev)
}

// Active returns the name of the active profile.
func (s *Service) Active() string { return s.reg.Active }

// Exists reports whether a profile named name is registered.
func (s *Service) Exists(name string) bool { return s.reg.Index(name) >= 0 }

// Names returns the profile names in creation order.
func (s *Service) Names() []string { return s.reg.Names() }

// Count returns the number of profiles, Default included.
func (s *Service) Count() int { return len(s.reg.Profiles) }

// Info returns a copy of the named profile's description.
func (s *Service) Info(name string) (domain.ProfileInfo, bool) {
	i := s.reg.Index(name)
	if i < 0 {
		return domain.ProfileInfo{}, false
	}
	return s.reg.Profiles[i].Clone(), true
}

// Infos returns copies of every profile description in creation order.
func (s *Service) Infos() []domain.ProfileInfo {
	return s.reg.Clone().Profiles
}

// Registry returns a copy of the whole registry.
func (s *Service) Registry() domain.Registry { return s.reg.Clone() }

// Save writes the registry to disk as it is.
func (s *Service) Save() error { return s.persist() }

func (s *Service) persist() error {
	if err := s.store.SaveRegistry(s.reg); err != nil {
		s.log.Error("failed to save profile registry", zap.Error(err))
		return domain.WriteError(err)
	}
	return nil
}

// commit persists the current registry, restoring prev on failure.
func (s *Service) commit(prev domain.Registry) error {
	if err := s.persist(); err != nil {
		s.reg = prev
		return err
	}
	return nil
}

func removeAt(ps []domain.ProfileInfo, i int) []domain.ProfileInfo {
	out := make([]domain.ProfileInfo, 0, len(ps)-1)
	out = append(out, ps[:i]...)
	return append(out, ps[i+1:]...)
}
