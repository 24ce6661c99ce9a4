// Package cryptocache bounds the cost of repeatedly decoding the same
// tagged-string secrets: a SessionLog replaying thousands of transactions
// against the same encryption key or signing key would otherwise re-run
// base58 decoding on every single one. Signer entries hold the decoded
// 32-byte seed, so Ed25519 key expansion still runs on each signing.
package cryptocache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/ed25519x"
)

const (
	keySecretTag    = "keySecret"
	signerSecretTag = "signerSecret"
)

// Capacities bounds the two LRU caches New builds. A caller that doesn't
// have its own config can pass nil to New and get DefaultCapacities.
type Capacities struct {
	KeySecret    int
	SignerSecret int
}

// DefaultCapacities matches the reference implementation: a session log
// only ever rotates through a small handful of encryption/signing keys at
// once, so caching more than the current and previous key buys nothing.
var DefaultCapacities = Capacities{KeySecret: 2, SignerSecret: 2}

// Cache memoizes the decoded form of "keySecret_z..." and "signerSecret_z..."
// tagged strings. It is safe for concurrent use; golang-lru/v2's Cache type
// guards its internal state with its own mutex.
type Cache struct {
	mu sync.Mutex

	keySecrets    *lru.Cache[string, [32]byte]
	signerSecrets *lru.Cache[string, [32]byte]
}

// New builds an empty Cache sized by capacities. A nil capacities, or any
// non-positive field within it, falls back to DefaultCapacities for that
// field — the zero value of Capacities is usable.
func New(capacities *Capacities) (*Cache, error) {
	c := DefaultCapacities
	if capacities != nil {
		if capacities.KeySecret > 0 {
			c.KeySecret = capacities.KeySecret
		}
		if capacities.SignerSecret > 0 {
			c.SignerSecret = capacities.SignerSecret
		}
	}

	keySecrets, err := lru.New[string, [32]byte](c.KeySecret)
	if err != nil {
		return nil, fmt.Errorf("cryptocache: new key secret cache: %w", err)
	}
	signerSecrets, err := lru.New[string, [32]byte](c.SignerSecret)
	if err != nil {
		return nil, fmt.Errorf("cryptocache: new signer secret cache: %w", err)
	}
	return &Cache{keySecrets: keySecrets, signerSecrets: signerSecrets}, nil
}

// KeySecret decodes keySecretTagged into its 32-byte XSalsa20 key, reusing a
// previously decoded result when available.
func (c *Cache) KeySecret(keySecretTagged string) ([32]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.keySecrets.Get(keySecretTagged); ok {
		return key, nil
	}
	key, err := codec.DecodeFixed32(keySecretTag, keySecretTagged)
	if err != nil {
		return key, fmt.Errorf("cryptocache: decode key secret: %w", err)
	}
	c.keySecrets.Add(keySecretTagged, key)
	return key, nil
}

// SignerSecret decodes signerSecretTagged into its 32-byte Ed25519 seed,
// reusing a previously decoded result when available.
func (c *Cache) SignerSecret(signerSecretTagged string) ([32]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seed, ok := c.signerSecrets.Get(signerSecretTagged); ok {
		return seed, nil
	}
	seed, err := codec.DecodeFixed32(signerSecretTag, signerSecretTagged)
	if err != nil {
		return seed, fmt.Errorf("cryptocache: decode signer secret: %w", err)
	}
	c.signerSecrets.Add(signerSecretTagged, seed)
	return seed, nil
}

// SigningKey decodes signerSecretTagged and derives its Ed25519 verifying
// key in one call, the pairing the SessionLog needs on every signed append.
func (c *Cache) SigningKey(signerSecretTagged string) (seed, verifying [32]byte, err error) {
	seed, err = c.SignerSecret(signerSecretTagged)
	if err != nil {
		return seed, verifying, err
	}
	verifying = ed25519x.VerifyingKeyFromSigning(seed)
	return seed, verifying, nil
}
