package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultProfile names the profile that always exists and can never be
// deleted or renamed.
const DefaultProfile = "Default"

// ProfileInfo describes one named data partition.
type ProfileInfo struct {
	Name       string
	Created    time.Time
	LastAccess time.Time
	Metadata   Record
}

// Clone returns a deep copy of p.
func (p ProfileInfo) Clone() ProfileInfo {
	p.Metadata = p.Metadata.Clone()
	return p
}

// Registry is the persisted set of profiles and the active selection.
//
// Invariants (enforced by the profile service, not by this type):
//   - Profiles contains exactly one entry named DefaultProfile.
//   - Active names a member of Profiles.
//   - Names are unique (case-sensitive).
type Registry struct {
	Active       string
	Profiles     []ProfileInfo
	LastAccessed time.Time
}

// NewRegistry returns a registry holding only the Default profile.
func NewRegistry(now time.Time) Registry {
	return Registry{
		Active:       DefaultProfile,
		Profiles:     []ProfileInfo{{Name: DefaultProfile, Created: now, LastAccess: now, Metadata: Record{}}},
		LastAccessed: now,
	}
}

// Index returns the position of name in Profiles, or -1.
func (r *Registry) Index(name string) int {
	for i := range r.Profiles {
		if r.Profiles[i].Name == name {
			return i
		}
	}
	return -1
}

// Names returns the profile names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.Profiles))
	for i, p := range r.Profiles {
		out[i] = p.Name
	}
	return out
}

// Clone returns a deep copy of r.
func (r Registry) Clone() Registry {
	profiles := make([]ProfileInfo, len(r.Profiles))
	for i, p := range r.Profiles {
		profiles[i] = p.Clone()
	}
	r.Profiles = profiles
	return r
}

// ValidateProfileName rejects names that cannot be used as a file name.
func ValidateProfileName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidProfileName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidProfileName, name)
	}
	return nil
}
