package domain

// RecordStore loads and saves namespace records by file path.
//
// LoadRecord treats a missing or empty file as an empty record. Per-entry
// decode problems are returned as warnings next to a usable record; the
// error result is reserved for failures that lose the whole file.
type RecordStore interface {
	LoadRecord(path string) (rec Record, warnings []error, err error)
	SaveRecord(path string, rec Record) error
}

// RegistryStore persists the profile registry.
type RegistryStore interface {
	// LoadRegistry reports found=false when no registry file exists yet.
	LoadRegistry() (reg Registry, found bool, err error)
	SaveRegistry(reg Registry) error
}

// ProfileFiles manages the backing file of each profile namespace.
// A missing source file is never an error.
type ProfileFiles interface {
	ProfilePath(name string) string
	RemoveProfile(name string) error
	RenameProfile(oldName, newName string) error
	CopyProfile(src, dst string) error
}

// EventSink receives change notifications from the services.
type EventSink interface {
	DataChanged()
	ActiveProfileChanged(name string)
}

// LegacyStore exposes the pre-profile single-file store to migration.
type LegacyStore interface {
	// Pending reports whether a legacy file exists and no registry has
	// been written yet.
	Pending() (bool, error)
	ReadLegacy() ([]byte, error)
	// AdoptAsProfile writes data verbatim as the named profile's file. It
	// fails if that file already exists.
	AdoptAsProfile(name string, data []byte) error
	// Retire renames the legacy file with the backup suffix and returns
	// the new path.
	Retire() (string, error)
}
