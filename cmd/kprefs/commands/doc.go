// Package commands defines the kprefs CLI, an inspector for preference
// store directories.
//
// Commands
//
//   - profiles   List, create, switch, delete, rename, copy and inspect profiles
//   - get        Print one value
//   - set        Store a typed value
//   - del        Delete keys
//   - keys       List keys, optionally filtered
//   - dump       Print every entry with its type
//   - clear      Delete every key in a namespace
//   - export     Write a namespace to a plaintext JSON or YAML file
//   - import     Load a namespace from an exported file
//   - stats      Print store statistics
//   - watch      Follow changes made to the store files
//
// Data commands act on the active profile unless --global or --profile is
// given.
//
// # Implementation
//
// The root command resolves configuration and opens the store before any
// subcommand runs, so handlers share one Wire.
package commands
