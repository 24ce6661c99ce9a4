// Package hash wraps BLAKE3 hashing for cojson-core: one-shot digests,
// context-prefixed digests, an incremental hasher with structural clone, and
// the deterministic 24-byte nonce derivation used by the nonce generator and
// sealed-box primitives.
package hash

import (
	"github.com/zeebo/blake3"
)

// Size is the width of a BLAKE3 digest in bytes.
const Size = 32

// NonceSize is the width of a derived nonce in bytes.
const NonceSize = 24

// Once returns the BLAKE3 digest of data.
func Once(data []byte) [Size]byte {
	return blake3.Sum256(data)
}

// OnceWithContext returns the BLAKE3 digest of context concatenated with
// data; equivalent to Once(append(context, data...)) but avoids the
// allocation for the common case of a small fixed context.
func OnceWithContext(data, context []byte) [Size]byte {
	h := blake3.New()
	h.Write(context)
	h.Write(data)
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hasher is an incremental BLAKE3 hasher. The zero value is not usable; use
// New.
type Hasher struct {
	h *blake3.Hasher
}

// New returns a fresh, empty incremental hasher.
func New() *Hasher {
	return &Hasher{h: blake3.New()}
}

// Write feeds bytes into the running hash state.
func (h *Hasher) Write(p []byte) {
	h.h.Write(p)
}

// Sum32 finalizes the current state into a 32-byte digest without
// disturbing it; further Write calls continue from where they left off.
func (h *Hasher) Sum32() [Size]byte {
	var out [Size]byte
	copy(out[:], h.h.Sum(nil))
	return out
}

// Clone returns an independent copy of h; mutating the clone does not affect
// the original and vice versa.
func (h *Hasher) Clone() *Hasher {
	return &Hasher{h: h.h.Clone()}
}

// DeriveNonce24 derives a 24-byte nonce from arbitrary material as the first
// 24 bytes of the standard (non-XOF) BLAKE3 digest of material. This is
// deterministic: identical material always yields the identical nonce.
//
// Some historical session logs derived this nonce from a BLAKE3
// extendable-output stream instead. This package pins to the standard
// digest; callers needing to interoperate with logs produced the other way
// must add a versioned selector rather than changing this function.
func DeriveNonce24(material []byte) [NonceSize]byte {
	digest := Once(material)
	var nonce [NonceSize]byte
	copy(nonce[:], digest[:NonceSize])
	return nonce
}
