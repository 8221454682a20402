package crypto

import (
	"crypto/sha1"
	"encoding/binary"
	"runtime"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length produced by DeriveKey.
	KeySize = 32

	// DefaultIterations is the PBKDF2 round count used for store files.
	DefaultIterations = 10000
)

// Embedded key material. Changing any of these breaks every existing file.
var (
	defaultPassword = []byte("KAIROSOLO_SECURE_KEY_2024")
	defaultSalt     = []byte{
		0x4B, 0x41, 0x49, 0x52, 0x4F, 0x53, 0x4F, 0x4C,
		0x4F, 0x53, 0x45, 0x43, 0x55, 0x52, 0x45, 0x21,
	}
)

var (
	keyMu    sync.Mutex
	keyCache = map[string][]byte{}
)

// DeriveKey runs PBKDF2-HMAC-SHA1 over password and salt and returns a
// KeySize-byte key. Results are cached for the life of the process, so only
// the first call for a given (password, salt, iterations) pays the cost.
//
// The returned slice is shared with the cache and must not be modified.
func DeriveKey(password, salt []byte, iterations int) []byte {
	id := cacheID(password, salt, iterations)

	keyMu.Lock()
	defer keyMu.Unlock()

	if k, ok := keyCache[id]; ok {
		return k
	}
	k := pbkdf2.Key(password, salt, iterations, KeySize, sha1.New)
	keyCache[id] = k
	return k
}

// DefaultKey returns the key derived from the embedded password and salt.
func DefaultKey() []byte {
	return DeriveKey(defaultPassword, defaultSalt, DefaultIterations)
}

// ResetKeyCache wipes and forgets every cached key. Slices previously
// returned by DeriveKey are zeroed in place.
func ResetKeyCache() {
	keyMu.Lock()
	defer keyMu.Unlock()

	for id, k := range keyCache {
		Wipe(k)
		delete(keyCache, id)
	}
}

// Wipe zeroes b. This is best-effort; the KeepAlive stops the compiler from
// treating the write as dead.
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(&b)
}

func cacheID(password, salt []byte, iterations int) string {
	buf := make([]byte, 0, len(password)+len(salt)+12)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(password)))
	buf = append(buf, password...)
	buf = append(buf, salt...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(iterations))
	return string(buf)
}
