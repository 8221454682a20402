// Package prefs is an encrypted, multi-profile, typed key-value store.
//
// A Store owns one global namespace and one namespace per profile. Every
// namespace is backed by its own AES-encrypted file under the directory
// given to Open, and every mutation is written to disk before it returns.
// Exactly one profile is active at a time; the "Default" profile always
// exists.
//
//	s, err := prefs.Open(prefs.Options{Dir: dataDir})
//	if err != nil {
//		return err
//	}
//	_ = s.Global().SetInt("Volume", 7)
//	level := s.Active().GetInt("Level", 1)
//
// The encryption key is derived from constants embedded in the binary. The
// files are obfuscated, not confidential.
//
// A Store is meant for a single goroutine. Event handlers run
// synchronously inside the mutating call; a handler may read from the store
// but any mutation it attempts fails with ErrReentrantMutation.
package prefs
