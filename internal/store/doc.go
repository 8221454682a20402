// Package store provides file-based persistence for kprefs.
//
// It contains concrete implementations of the domain storage interfaces.
// Every file is sealed with the codec before it touches disk and replaced
// atomically (temp file, then rename). All methods are concurrency-safe via
// internal locking.
//
// On-disk layout under the data directory:
//   - KPlayerPrefs_Global.dat          global namespace (RecordFileStore)
//   - KPlayerPrefs_ProfilesConfig.dat  profile registry (RegistryFileStore)
//   - KPlayerPrefs_Profiles/<name>.dat one file per profile (ProfileFileStore)
//   - KPlayerPrefs.dat                 legacy single-file layout, read once by migration
package store
