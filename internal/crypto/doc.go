// Package crypto implements the symmetric envelope used for every kprefs file.
//
// Contents
//
//   - PBKDF2-HMAC-SHA1 key derivation with a per-process cache (DeriveKey, DefaultKey)
//   - AES-256-CBC with PKCS#7 padding and a random 16-byte IV prefix (Encrypt, Decrypt)
//   - Best-effort memory wiping for cached key material (Wipe)
//
// # Notes
//
// The store encrypts with a password and salt compiled into the binary. That
// gives obfuscation, not confidentiality: anyone holding the binary can derive
// the key. The constants are part of the file format and are kept as is so
// existing save files stay readable.
package crypto
