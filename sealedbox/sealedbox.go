// Package sealedbox implements the X25519 + XSalsa20-Poly1305 sealed-box
// construction over tagged string key material: "sealerSecret_z<base58>" for
// private keys and "sealer_z<base58>" for the corresponding public IDs.
package sealedbox

import (
	"fmt"

	"github.com/cojson-dev/cojson-core/cipher"
	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/hash"
	"github.com/cojson-dev/cojson-core/x25519x"
)

const (
	sealerSecretTag = "sealerSecret"
	sealerIDTag     = "sealer"
	signerSecretTag = "signerSecret"
	signerIDTag     = "signer"
)

// SealerSecretFromSignerSecret converts a "signerSecret_z..." Ed25519 seed
// into the "sealerSecret_z..." X25519 key sharing the same underlying
// identity, so a party that only has a signer key pair can still receive
// sealed messages without generating and distributing a second key pair.
func SealerSecretFromSignerSecret(signerSecretTagged string) (string, error) {
	seed, err := codec.DecodeFixed32(signerSecretTag, signerSecretTagged)
	if err != nil {
		return "", fmt.Errorf("sealedbox: decode signer secret: %w", err)
	}
	sealerSecret := x25519x.FromEd25519Seed(seed)
	return codec.EncodeTagged(sealerSecretTag, sealerSecret[:]), nil
}

// SealerIDFromSignerID converts a "signer_z..." Ed25519 verifying key into
// the "sealer_z..." X25519 public key sharing the same underlying identity —
// the public-key mirror of SealerSecretFromSignerSecret.
func SealerIDFromSignerID(signerIDTagged string) (string, error) {
	pub, err := codec.DecodeFixed32(signerIDTag, signerIDTagged)
	if err != nil {
		return "", fmt.Errorf("sealedbox: decode signer id: %w", err)
	}
	sealerID, err := x25519x.FromEd25519PublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("sealedbox: convert signer id: %w", err)
	}
	return codec.EncodeTagged(sealerIDTag, sealerID[:]), nil
}

// SealerIDFromSecret derives the "sealer_z..." public ID for a
// "sealerSecret_z..." private key.
func SealerIDFromSecret(sealerSecretTagged string) (string, error) {
	secret, err := codec.DecodeFixed32(sealerSecretTag, sealerSecretTagged)
	if err != nil {
		return "", fmt.Errorf("sealedbox: decode sealer secret: %w", err)
	}
	pub, err := x25519x.PublicFromPrivate(secret)
	if err != nil {
		return "", fmt.Errorf("sealedbox: derive sealer id: %w", err)
	}
	return codec.EncodeTagged(sealerIDTag, pub[:]), nil
}

// Seal encrypts msg for recipientIDTagged using the sender's secret key,
// deriving the nonce from nonceMaterial via hash.DeriveNonce24. The
// recipient opens it with their own secret key and the sender's ID (see
// Unseal). The shared secret is the same in both directions, so the sender's
// secret key together with the recipient's ID opens it as well.
func Seal(msg []byte, senderSecretTagged, recipientIDTagged string, nonceMaterial []byte) ([]byte, error) {
	senderSecret, err := codec.DecodeFixed32(sealerSecretTag, senderSecretTagged)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: decode sender secret: %w", err)
	}
	recipientID, err := codec.DecodeFixed32(sealerIDTag, recipientIDTagged)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: decode recipient id: %w", err)
	}

	shared, err := x25519x.DiffieHellman(senderSecret, recipientID)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: diffie-hellman: %w", err)
	}
	nonce := hash.DeriveNonce24(nonceMaterial)

	sealed, err := cipher.XSalsa20Poly1305Seal(shared[:], nonce[:], msg)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: seal: %w", err)
	}
	return sealed, nil
}

// Unseal decrypts a message produced by Seal. The caller supplies its own
// secret key (recipientSecretTagged) and the sender's public ID
// (senderIDTagged) — the mirror image of the arguments Seal took. Because
// X25519 Diffie-Hellman is commutative, this recomputes the same shared
// secret Seal derived without either side ever transmitting it.
func Unseal(sealed []byte, recipientSecretTagged, senderIDTagged string, nonceMaterial []byte) ([]byte, error) {
	recipientSecret, err := codec.DecodeFixed32(sealerSecretTag, recipientSecretTagged)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: decode recipient secret: %w", err)
	}
	senderID, err := codec.DecodeFixed32(sealerIDTag, senderIDTagged)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: decode sender id: %w", err)
	}

	shared, err := x25519x.DiffieHellman(recipientSecret, senderID)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: diffie-hellman: %w", err)
	}
	nonce := hash.DeriveNonce24(nonceMaterial)

	msg, err := cipher.XSalsa20Poly1305Open(shared[:], nonce[:], sealed)
	if err != nil {
		return nil, fmt.Errorf("sealedbox: unseal: %w", err)
	}
	return msg, nil
}
