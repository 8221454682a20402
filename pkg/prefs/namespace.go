package prefs

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/domain"
)

type scope int

const (
	scopeGlobal scope = iota
	scopeActive
	scopeProfile
)

// GlobalName is what Namespace.Name reports for the global namespace.
const GlobalName = "global"

// Namespace is an isolated key space: the global one or one profile's.
// Namespaces are cheap handles; obtain them from Store.Global, Store.Active
// or Store.Profile.
//
// Getters never fail. A missing key, or a key holding a different type,
// yields the supplied default. Setters persist before returning.
type Namespace struct {
	s       *Store
	scope   scope
	profile string
}

// Name returns "global" or the profile name the namespace resolves to now.
func (n *Namespace) Name() string {
	switch n.scope {
	case scopeGlobal:
		return GlobalName
	case scopeActive:
		return n.s.profiles.Active()
	default:
		return n.profile
	}
}

// IsGlobal reports whether n is the global namespace.
func (n *Namespace) IsGlobal() bool { return n.scope == scopeGlobal }

// ---------- Typed getters ----------

func (n *Namespace) GetInt(key string, def int32) int32 {
	if v, ok := n.lookup(key).Int(); ok {
		return v
	}
	return def
}

func (n *Namespace) GetFloat(key string, def float32) float32 {
	if v, ok := n.lookup(key).Float(); ok {
		return v
	}
	return def
}

func (n *Namespace) GetBool(key string, def bool) bool {
	if v, ok := n.lookup(key).Bool(); ok {
		return v
	}
	return def
}

func (n *Namespace) GetString(key, def string) string {
	if v, ok := n.lookup(key).Str(); ok {
		return v
	}
	return def
}

func (n *Namespace) GetVec2(key string, def domain.Vec2) domain.Vec2 {
	if v, ok := n.lookup(key).Vec2(); ok {
		return v
	}
	return def
}

func (n *Namespace) GetVec3(key string, def domain.Vec3) domain.Vec3 {
	if v, ok := n.lookup(key).Vec3(); ok {
		return v
	}
	return def
}

func (n *Namespace) GetColor(key string, def domain.Color) domain.Color {
	if v, ok := n.lookup(key).Color(); ok {
		return v
	}
	return def
}

// GetTime returns a timestamp entry as a UTC time.
func (n *Namespace) GetTime(key string, def time.Time) time.Time {
	if v, ok := n.lookup(key).Timestamp(); ok {
		return v.Time()
	}
	return def
}

// Get returns the raw value stored under key.
func (n *Namespace) Get(key string) (domain.Value, bool) {
	v, ok := n.read()[key]
	return v, ok
}

// ---------- Typed setters ----------

func (n *Namespace) SetInt(key string, v int32) error     { return n.Set(key, domain.IntValue(v)) }
func (n *Namespace) SetFloat(key string, v float32) error { return n.Set(key, domain.FloatValue(v)) }
func (n *Namespace) SetBool(key string, v bool) error     { return n.Set(key, domain.BoolValue(v)) }
func (n *Namespace) SetString(key, v string) error        { return n.Set(key, domain.StringValue(v)) }
func (n *Namespace) SetVec2(key string, v domain.Vec2) error {
	return n.Set(key, domain.Vec2Value(v))
}
func (n *Namespace) SetVec3(key string, v domain.Vec3) error {
	return n.Set(key, domain.Vec3Value(v))
}
func (n *Namespace) SetColor(key string, v domain.Color) error {
	return n.Set(key, domain.ColorValue(v))
}
func (n *Namespace) SetTime(key string, v time.Time) error {
	return n.Set(key, domain.TimeValue(v))
}

// Set stores v under key, replacing any previous value of any type.
func (n *Namespace) Set(key string, v domain.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("set %q: invalid value", key)
	}
	return n.mutate(func(rec domain.Record) bool {
		rec[key] = v
		return true
	})
}

// ---------- Queries ----------

// HasKey reports whether key is present with any type.
func (n *Namespace) HasKey(key string) bool {
	_, ok := n.read()[key]
	return ok
}

// Keys returns every key in sorted order.
func (n *Namespace) Keys() []string { return n.read().Keys() }

// All returns a copy of the namespace contents.
func (n *Namespace) All() domain.Record { return n.read().Clone() }

// Len returns the number of keys.
func (n *Namespace) Len() int { return len(n.read()) }

// ---------- Deletion ----------

// DeleteKey removes key. Deleting an absent key writes nothing.
func (n *Namespace) DeleteKey(key string) error { return n.DeleteKeys(key) }

// DeleteKeys removes every listed key that is present, in one write.
func (n *Namespace) DeleteKeys(keys ...string) error {
	return n.mutate(func(rec domain.Record) bool {
		changed := false
		for _, k := range keys {
			if _, ok := rec[k]; ok {
				delete(rec, k)
				changed = true
			}
		}
		return changed
	})
}

// DeleteAll empties the namespace. An already empty namespace is not
// written.
func (n *Namespace) DeleteAll() error {
	return n.mutate(func(rec domain.Record) bool {
		if len(rec) == 0 {
			return false
		}
		clear(rec)
		return true
	})
}

// ---------- Internals ----------

func (n *Namespace) lookup(key string) domain.Value { return n.read()[key] }

// read returns the current record. The global record is shared and must
// not be modified by callers.
func (n *Namespace) read() domain.Record {
	if n.scope == scopeGlobal {
		return n.s.global
	}
	name := n.Name()
	if !n.s.profiles.Exists(name) {
		n.s.log.Error("profile does not exist", zap.String("profile", name))
		return domain.Record{}
	}
	return n.s.loadRecord(n.s.layout.ProfilePath(name), name)
}

// mutate applies fn to a private copy of the record and persists the copy
// when fn reports a change. The in-memory global record is replaced only
// after the write succeeded.
func (n *Namespace) mutate(fn func(rec domain.Record) bool) error {
	if err := n.s.guard(); err != nil {
		return err
	}

	var path string
	var rec domain.Record
	if n.scope == scopeGlobal {
		path = n.s.layout.GlobalPath()
		rec = n.s.global.Clone()
	} else {
		name := n.Name()
		if !n.s.profiles.Exists(name) {
			n.s.log.Error("cannot write to missing profile", zap.String("profile", name))
			return fmt.Errorf("write %q: %w", name, domain.ErrProfileNotFound)
		}
		path = n.s.layout.ProfilePath(name)
		rec = n.s.loadRecord(path, name)
	}

	if !fn(rec) {
		return nil
	}
	if err := n.s.saveRecord(path, rec); err != nil {
		return err
	}
	if n.scope == scopeGlobal {
		n.s.global = rec
	}
	sink{n.s}.DataChanged()
	return nil
}
