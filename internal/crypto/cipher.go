package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// IVSize is the length of the initialization vector prepended to ciphertexts.
const IVSize = aes.BlockSize

var (
	// ErrMalformed is returned when a ciphertext is too short to hold an IV
	// and at least one byte of payload.
	ErrMalformed = errors.New("crypto: malformed ciphertext")

	// ErrDecryptFailed is returned when the payload does not decrypt to a
	// correctly padded plaintext (wrong key or corrupted data).
	ErrDecryptFailed = errors.New("crypto: decrypt failed")
)

// Encrypt seals plaintext with AES-CBC under key and returns IV || ciphertext.
// A fresh random IV is drawn for every call. An empty plaintext still yields
// one full padding block.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}

	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, IVSize+len(padded))
	iv := out[:IVSize]
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("crypto: generate iv: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[IVSize:], padded)
	return out, nil
}

// Decrypt reverses Encrypt. The leading IVSize bytes are taken as the IV.
func Decrypt(key, data []byte) ([]byte, error) {
	if len(data) < IVSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the iv", ErrMalformed, len(data))
	}
	if len(data) == IVSize {
		return nil, fmt.Errorf("%w: no payload after iv", ErrMalformed)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}

	iv, payload := data[:IVSize], data[IVSize:]
	if len(payload)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: payload is not a whole number of blocks", ErrDecryptFailed)
	}

	plain := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, payload)

	out, err := unpad(plain, aes.BlockSize)
	if err != nil {
		Wipe(plain)
		return nil, err
	}
	return out, nil
}

// pad applies PKCS#7 padding.
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips and verifies PKCS#7 padding.
func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryptFailed)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryptFailed)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryptFailed)
		}
	}
	return b[:len(b)-n], nil
}
