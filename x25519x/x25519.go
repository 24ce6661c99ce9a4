// Package x25519x wraps X25519 key generation, public-key derivation, and
// Diffie-Hellman agreement over raw 32-byte material.
package x25519x

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/cojson-dev/cojson-core/coreerrors"
)

// KeySize is the width of an X25519 private or public key in bytes.
const KeySize = 32

// NewPrivateKey generates a cryptographically secure random X25519 private
// key.
func NewPrivateKey() ([32]byte, error) {
	var out [32]byte
	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return out, fmt.Errorf("x25519x: generate key: %w", err)
	}
	copy(out[:], priv.Bytes())
	return out, nil
}

// PublicFromPrivate derives the public key for a private key.
func PublicFromPrivate(priv [32]byte) ([32]byte, error) {
	var out [32]byte
	pk, err := ecdh.X25519().NewPrivateKey(priv[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", coreerrors.ErrInvalidPublicKey, err)
	}
	copy(out[:], pk.PublicKey().Bytes())
	return out, nil
}

// DiffieHellman computes the shared secret between priv and a peer's public
// key. No clamping beyond what crypto/ecdh's X25519 implementation already
// mandates per RFC 7748.
func DiffieHellman(priv, pub [32]byte) ([32]byte, error) {
	var out [32]byte
	curve := ecdh.X25519()

	pk, err := curve.NewPrivateKey(priv[:])
	if err != nil {
		return out, fmt.Errorf("x25519x: invalid private key: %w", err)
	}
	peer, err := curve.NewPublicKey(pub[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", coreerrors.ErrInvalidPublicKey, err)
	}

	shared, err := pk.ECDH(peer)
	if err != nil {
		return out, fmt.Errorf("x25519x: diffie-hellman: %w", err)
	}
	copy(out[:], shared)
	return out, nil
}

// FromEd25519Seed converts an Ed25519 signing seed into the corresponding
// X25519 private scalar, per RFC 8032 §5.1.5: hash the seed with SHA-512 and
// clamp the low 32 bytes.
func FromEd25519Seed(seed [32]byte) [32]byte {
	priv := ed25519.NewKeyFromSeed(seed[:])
	h := sha512.Sum512(priv.Seed())
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64

	var out [32]byte
	copy(out[:], h[:32])
	return out
}

// FromEd25519PublicKey converts an Ed25519 verifying key into the
// corresponding X25519 public key by decompressing the Edwards point and
// taking its Montgomery-form u-coordinate. This lets a party holding only a
// signer identity derive the sealer identity that shares its private key,
// without generating and distributing a second key pair.
func FromEd25519PublicKey(pub [32]byte) ([32]byte, error) {
	var out [32]byte
	p, err := new(edwards25519.Point).SetBytes(pub[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", coreerrors.ErrInvalidVerifyingKey, err)
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}
