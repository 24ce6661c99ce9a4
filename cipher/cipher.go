// Package cipher wraps the two symmetric primitives cojson-core needs: the
// raw (unauthenticated) XSalsa20 stream cipher used for transaction payload
// encryption, and XSalsa20-Poly1305 (NaCl secretbox) used by the sealed-box
// primitive. Neither function panics on malformed input; length mismatches
// are reported as errors.
package cipher

import (
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/salsa20"

	"github.com/cojson-dev/cojson-core/coreerrors"
)

const (
	// KeySize is the width of an XSalsa20/secretbox key in bytes.
	KeySize = 32
	// NonceSize is the width of an XSalsa20/secretbox nonce in bytes.
	NonceSize = 24
	// Overhead is the number of authentication-tag bytes secretbox appends.
	Overhead = secretbox.Overhead
)

func checkLengths(key, nonce []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: expected %d, got %d", coreerrors.ErrInvalidKeyLength, KeySize, len(key))
	}
	if len(nonce) != NonceSize {
		return fmt.Errorf("%w: expected %d, got %d", coreerrors.ErrInvalidNonceLength, NonceSize, len(nonce))
	}
	return nil
}

// XSalsa20EncryptRaw XORs plaintext with the XSalsa20 keystream derived from
// key and nonce. The output has the same length as plaintext and carries no
// authentication; callers are responsible for authenticating the result
// themselves if that is required.
func XSalsa20EncryptRaw(key, nonce, plaintext []byte) ([]byte, error) {
	if err := checkLengths(key, nonce); err != nil {
		return nil, err
	}
	var k [KeySize]byte
	var n [NonceSize]byte
	copy(k[:], key)
	copy(n[:], nonce)

	out := make([]byte, len(plaintext))
	salsa20.XORKeyStream(out, plaintext, n[:], &k)
	return out, nil
}

// XSalsa20DecryptRaw reverses XSalsa20EncryptRaw; XSalsa20 is a stream
// cipher, so decryption is the identical XOR operation.
func XSalsa20DecryptRaw(key, nonce, ciphertext []byte) ([]byte, error) {
	return XSalsa20EncryptRaw(key, nonce, ciphertext)
}

// XSalsa20Poly1305Seal authenticates and encrypts plaintext under key and
// nonce, producing ciphertext len(plaintext)+Overhead bytes long.
func XSalsa20Poly1305Seal(key, nonce, plaintext []byte) ([]byte, error) {
	if err := checkLengths(key, nonce); err != nil {
		return nil, err
	}
	var k [KeySize]byte
	var n [NonceSize]byte
	copy(k[:], key)
	copy(n[:], nonce)

	return secretbox.Seal(nil, plaintext, &n, &k), nil
}

// XSalsa20Poly1305Open verifies and decrypts ciphertext produced by
// XSalsa20Poly1305Seal. ErrWrongTag is returned when authentication fails.
func XSalsa20Poly1305Open(key, nonce, ciphertext []byte) ([]byte, error) {
	if err := checkLengths(key, nonce); err != nil {
		return nil, err
	}
	var k [KeySize]byte
	var n [NonceSize]byte
	copy(k[:], key)
	copy(n[:], nonce)

	out, ok := secretbox.Open(nil, ciphertext, &n, &k)
	if !ok {
		return nil, coreerrors.ErrWrongTag
	}
	return out, nil
}
