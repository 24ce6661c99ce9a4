// Package ed25519x wraps stdlib Ed25519 over the raw 32/64-byte material
// cojson-core's typed-key API encodes as tagged strings.
package ed25519x

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/cojson-dev/cojson-core/coreerrors"
)

// SeedSize is the width of an Ed25519 signing seed in bytes.
const SeedSize = ed25519.SeedSize

// PublicKeySize is the width of an Ed25519 public key in bytes.
const PublicKeySize = ed25519.PublicKeySize

// SignatureSize is the width of an Ed25519 signature in bytes.
const SignatureSize = ed25519.SignatureSize

// NewSigningKey generates a cryptographically secure random 32-byte seed.
func NewSigningKey() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("ed25519x: generate seed: %w", err)
	}
	return seed, nil
}

// VerifyingKeyFromSigning derives the 32-byte public key for a signing seed.
func VerifyingKeyFromSigning(signing [32]byte) [32]byte {
	priv := ed25519.NewKeyFromSeed(signing[:])
	var pub [32]byte
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	return pub
}

// Sign signs msg with the private key derived from the given 32-byte seed.
func Sign(signing [32]byte, msg []byte) [64]byte {
	priv := ed25519.NewKeyFromSeed(signing[:])
	var sig [64]byte
	copy(sig[:], ed25519.Sign(priv, msg))
	return sig
}

// Verify reports whether sig is a valid Ed25519 signature over msg under the
// given 32-byte public key. It returns an error when verifying does not
// decode to a point on the curve; stdlib ed25519.Verify would otherwise just
// return false for such a key, indistinguishable from a bad signature.
func Verify(verifying [32]byte, msg []byte, sig [64]byte) (bool, error) {
	if _, err := new(edwards25519.Point).SetBytes(verifying[:]); err != nil {
		return false, fmt.Errorf("%w: %v", coreerrors.ErrInvalidVerifyingKey, err)
	}
	return ed25519.Verify(ed25519.PublicKey(verifying[:]), msg, sig[:]), nil
}
