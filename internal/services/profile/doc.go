// Package profile maintains the profile registry.
//
// It owns the in-memory Registry, persists it after every mutation and
// keeps its invariants: the Default profile always exists and the active
// profile always names a member of the registry. A registry read from disk
// that breaks either invariant is repaired on Load and written back.
package profile
