// Package app wires application dependencies for the kprefs CLI.
//
// It resolves Config from a YAML file, the environment and defaults, builds
// the logger, and opens the preference store, exposing them via Wire for
// commands to use.
package app
