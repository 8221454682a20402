package profile_test

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/crypto"
	"github.com/kairosolo/kprefs/internal/domain"
	"github.com/kairosolo/kprefs/internal/services/profile"
	"github.com/kairosolo/kprefs/internal/store"
)

type recorder struct {
	data   int
	active []string
}

func (r *recorder) DataChanged()                     { r.data++ }
func (r *recorder) ActiveProfileChanged(name string) { r.active = append(r.active, name) }

type fixture struct {
	layout store.Layout
	reg    *store.RegistryFileStore
	files  *store.ProfileFileStore
	events *recorder
	logs   *observer.ObservedLogs
	svc    *profile.Service
}

func clock() func() time.Time {
	t := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newFixture(t *testing.T, dir string) *fixture {
	t.Helper()
	layout := store.Layout{Dir: dir}
	c := codec.New(crypto.DefaultKey(), nil)
	core, logs := observer.New(zapcore.DebugLevel)

	f := &fixture{
		layout: layout,
		reg:    store.NewRegistryFileStore(layout.RegistryPath(), c, nil),
		files:  store.NewProfileFileStore(layout),
		events: &recorder{},
		logs:   logs,
	}
	f.svc = profile.New(f.reg, f.files, f.events, clock(), zap.New(core))
	require.NoError(t, f.svc.Load())
	return f
}

func TestLoad_FreshDirectoryCreatesRegistry(t *testing.T) {
	f := newFixture(t, t.TempDir())

	assert.Equal(t, domain.DefaultProfile, f.svc.Active())
	assert.Equal(t, []string{domain.DefaultProfile}, f.svc.Names())
	_, err := os.Stat(f.layout.RegistryPath())
	require.NoError(t, err)
}

func TestLoad_HealsMissingDefaultAndDanglingActive(t *testing.T) {
	dir := t.TempDir()
	layout := store.Layout{Dir: dir}
	rs := store.NewRegistryFileStore(layout.RegistryPath(), codec.New(crypto.DefaultKey(), nil), nil)

	now := time.Now()
	broken := domain.Registry{
		Active: "Ghost",
		Profiles: []domain.ProfileInfo{
			{Name: "Alice", Created: now, LastAccess: now},
			{Name: "Alice", Created: now, LastAccess: now},
			{Name: "../evil", Created: now, LastAccess: now},
		},
	}
	require.NoError(t, rs.SaveRegistry(broken))

	f := newFixture(t, dir)
	assert.Equal(t, []string{domain.DefaultProfile, "Alice"}, f.svc.Names())
	assert.Equal(t, domain.DefaultProfile, f.svc.Active())
	assert.GreaterOrEqual(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len(), 3)

	reread, found, err := rs.LoadRegistry()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{domain.DefaultProfile, "Alice"}, reread.Names())
	assert.Equal(t, domain.DefaultProfile, reread.Active)
}

func TestLoad_CorruptRegistryStartsFresh(t *testing.T) {
	dir := t.TempDir()
	layout := store.Layout{Dir: dir}
	require.NoError(t, os.WriteFile(layout.RegistryPath(), []byte("garbage garbage garbage"), 0o600))

	f := newFixture(t, dir)
	assert.Equal(t, []string{domain.DefaultProfile}, f.svc.Names())
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestCreate(t *testing.T) {
	f := newFixture(t, t.TempDir())

	require.NoError(t, f.svc.Create("Player2"))
	assert.True(t, f.svc.Exists("Player2"))
	assert.Equal(t, 2, f.svc.Count())
	assert.Equal(t, 1, f.events.data)

	_, err := os.Stat(f.layout.ProfilePath("Player2"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "data file is created lazily")

	assert.ErrorIs(t, f.svc.Create("Player2"), domain.ErrProfileExists)
	assert.ErrorIs(t, f.svc.Create(""), domain.ErrInvalidProfileName)
	assert.ErrorIs(t, f.svc.Create("a/b"), domain.ErrInvalidProfileName)
	assert.Equal(t, 2, f.svc.Count())
}

func TestSetActive(t *testing.T) {
	f := newFixture(t, t.TempDir())
	require.NoError(t, f.svc.Create("P"))
	before, _ := f.svc.Info("P")

	require.NoError(t, f.svc.SetActive("P"))
	assert.Equal(t, "P", f.svc.Active())
	assert.Equal(t, []string{"P"}, f.events.active)
	assert.Equal(t, 2, f.events.data)

	after, _ := f.svc.Info("P")
	assert.True(t, after.LastAccess.After(before.LastAccess))

	require.NoError(t, f.svc.SetActive("P"))
	assert.Len(t, f.events.active, 1, "switching to the active profile is a no-op")

	assert.ErrorIs(t, f.svc.SetActive("nope"), domain.ErrProfileNotFound)
	assert.Equal(t, "P", f.svc.Active())
}

func TestDelete(t *testing.T) {
	f := newFixture(t, t.TempDir())
	require.NoError(t, f.svc.Create("P"))
	require.NoError(t, f.svc.SetActive("P"))
	require.NoError(t, os.MkdirAll(f.layout.ProfilesDir(), 0o700))
	require.NoError(t, os.WriteFile(f.layout.ProfilePath("P"), []byte("x"), 0o600))

	require.NoError(t, f.svc.Delete("P"))
	assert.False(t, f.svc.Exists("P"))
	assert.Equal(t, domain.DefaultProfile, f.svc.Active())
	assert.Equal(t, []string{"P", domain.DefaultProfile}, f.events.active)
	_, err := os.Stat(f.layout.ProfilePath("P"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.ErrorIs(t, f.svc.Delete("P"), domain.ErrProfileNotFound)
}

func TestDelete_DefaultIsRejectedWithoutSideEffects(t *testing.T) {
	f := newFixture(t, t.TempDir())
	before := f.svc.Registry()

	assert.ErrorIs(t, f.svc.Delete(domain.DefaultProfile), domain.ErrDefaultProfile)
	assert.ErrorIs(t, f.svc.Rename(domain.DefaultProfile, "X"), domain.ErrDefaultProfile)
	assert.Equal(t, before.Names(), f.svc.Names())
	assert.Zero(t, f.events.data)
}

func TestRename(t *testing.T) {
	f := newFixture(t, t.TempDir())
	require.NoError(t, f.svc.Create("Old"))
	require.NoError(t, f.svc.Create("Taken"))
	require.NoError(t, f.svc.SetActive("Old"))
	require.NoError(t, os.MkdirAll(f.layout.ProfilesDir(), 0o700))
	require.NoError(t, os.WriteFile(f.layout.ProfilePath("Old"), []byte("data"), 0o600))

	assert.ErrorIs(t, f.svc.Rename("Old", "Taken"), domain.ErrProfileExists)
	assert.ErrorIs(t, f.svc.Rename("Missing", "X"), domain.ErrProfileNotFound)
	assert.ErrorIs(t, f.svc.Rename("Old", domain.DefaultProfile), domain.ErrProfileExists)

	require.NoError(t, f.svc.Rename("Old", "New"))
	assert.Equal(t, "New", f.svc.Active())
	assert.Equal(t, []string{domain.DefaultProfile, "New", "Taken"}, f.svc.Names())

	b, err := os.ReadFile(f.layout.ProfilePath("New"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}

func TestCopy(t *testing.T) {
	f := newFixture(t, t.TempDir())
	require.NoError(t, f.svc.Create("Src"))
	require.NoError(t, os.MkdirAll(f.layout.ProfilesDir(), 0o700))
	require.NoError(t, os.WriteFile(f.layout.ProfilePath("Src"), []byte("payload"), 0o600))

	before := f.events.data
	require.NoError(t, f.svc.Copy("Src", "Dst"))
	assert.Equal(t, before+1, f.events.data, "copy emits DataChanged once")
	b, err := os.ReadFile(f.layout.ProfilePath("Dst"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	assert.ErrorIs(t, f.svc.Copy("Src", "Dst"), domain.ErrProfileExists)
	assert.ErrorIs(t, f.svc.Copy("Nope", "Other"), domain.ErrProfileNotFound)
	assert.False(t, f.svc.Exists("Other"))
}

func TestDeleteAll(t *testing.T) {
	f := newFixture(t, t.TempDir())
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, f.svc.Create(n))
	}
	require.NoError(t, f.svc.SetActive("B"))

	deleted, err := f.svc.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, deleted)
	assert.Equal(t, []string{domain.DefaultProfile}, f.svc.Names())
	assert.Equal(t, domain.DefaultProfile, f.svc.Active())
}

func TestMetadata(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir)
	require.NoError(t, f.svc.Create("P"))

	require.NoError(t, f.svc.SetMetadata("P", "avatar", domain.StringValue("fox")))
	assert.ErrorIs(t, f.svc.SetMetadata("nope", "k", domain.IntValue(1)), domain.ErrProfileNotFound)

	md := f.svc.Metadata("P")
	md["avatar"] = domain.StringValue("mutated")
	s, _ := f.svc.Metadata("P")["avatar"].Str()
	assert.Equal(t, "fox", s, "Metadata returns a copy")

	reloaded := newFixture(t, dir)
	s, _ = reloaded.svc.Metadata("P")["avatar"].Str()
	assert.Equal(t, "fox", s)

	require.NoError(t, reloaded.svc.SetMetadata("P", "avatar", domain.Value{}))
	assert.Empty(t, reloaded.svc.Metadata("P"))
	assert.Empty(t, reloaded.svc.Metadata("nope"))
}

type failingStore struct {
	domain.RegistryStore
	fail bool
	err  error
}

func (s *failingStore) SaveRegistry(reg domain.Registry) error {
	if s.fail {
		if s.err != nil {
			return s.err
		}
		return errors.New("disk full")
	}
	return s.RegistryStore.SaveRegistry(reg)
}

func TestWriteFailureRollsBack(t *testing.T) {
	layout := store.Layout{Dir: t.TempDir()}
	fs := &failingStore{RegistryStore: store.NewRegistryFileStore(layout.RegistryPath(), codec.New(crypto.DefaultKey(), nil), nil)}
	events := &recorder{}
	svc := profile.New(fs, store.NewProfileFileStore(layout), events, nil, nil)
	require.NoError(t, svc.Load())
	require.NoError(t, svc.Create("P"))

	fs.fail = true
	assert.ErrorIs(t, svc.Create("Q"), domain.ErrIO)
	assert.False(t, svc.Exists("Q"))
	assert.ErrorIs(t, svc.SetActive("P"), domain.ErrIO)
	assert.Equal(t, domain.DefaultProfile, svc.Active())
	assert.Empty(t, events.active)

	fs.err = fmt.Errorf("encode registry: %w: bad value", domain.ErrParse)
	err := svc.Create("R")
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.NotErrorIs(t, err, domain.ErrIO)
	assert.False(t, svc.Exists("R"))
}

func TestInvariantsHoldAcrossOperations(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ops := []func() error{
		func() error { return f.svc.Create("A") },
		func() error { return f.svc.SetActive("A") },
		func() error { return f.svc.Rename("A", "B") },
		func() error { return f.svc.Delete(domain.DefaultProfile) },
		func() error { return f.svc.Copy("B", "C") },
		func() error { return f.svc.SetActive("C") },
		func() error { return f.svc.Delete("C") },
		func() error { return f.svc.Rename(domain.DefaultProfile, "Z") },
		func() error { return f.svc.Delete("B") },
	}
	for i, op := range ops {
		_ = op()
		assert.True(t, f.svc.Exists(domain.DefaultProfile), "step %d", i)
		assert.True(t, f.svc.Exists(f.svc.Active()), "step %d: active %q", i, f.svc.Active())
	}
}
