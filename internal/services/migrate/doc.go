// Package migrate converts the legacy single-file store into the profile
// layout.
//
// Migration runs at most once: only when KPlayerPrefs.dat exists and no
// profile registry has been written. The legacy file becomes the Default
// profile's data file unchanged and is then kept as a backup. Nothing in
// this package is fatal; failures are logged and startup continues.
package migrate
