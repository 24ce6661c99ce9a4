// Package keys is cojson-core's typed-key API: sign, verify, derive-id,
// encrypt, and decrypt, all addressed by tagged strings rather than raw
// key bytes. It wraps codec, hash, cipher, and ed25519x so callers never
// see base58 or curve primitives directly.
package keys

import (
	"fmt"

	"github.com/cojson-dev/cojson-core/cipher"
	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/ed25519x"
	"github.com/cojson-dev/cojson-core/hash"
	"github.com/cojson-dev/cojson-core/sealedbox"
)

const (
	keySecretTag    = "keySecret"
	signerSecretTag = "signerSecret"
	signerIDTag     = "signer"
	signatureTag    = "signature"
)

// SignerIDFromSecret derives the "signer_z..." public ID for a
// "signerSecret_z..." private key.
func SignerIDFromSecret(signerSecretTagged string) (string, error) {
	secret, err := codec.DecodeFixed32(signerSecretTag, signerSecretTagged)
	if err != nil {
		return "", fmt.Errorf("keys: decode signer secret: %w", err)
	}
	verifying := ed25519x.VerifyingKeyFromSigning(secret)
	return codec.EncodeTagged(signerIDTag, verifying[:]), nil
}

// SealerIDFromSecret derives the "sealer_z..." public ID for a
// "sealerSecret_z..." private key. It exists alongside SignerIDFromSecret so
// callers holding only a tagged secret never need to reach into the
// sealedbox package directly.
func SealerIDFromSecret(sealerSecretTagged string) (string, error) {
	return sealedbox.SealerIDFromSecret(sealerSecretTagged)
}

// Sign signs msg with the Ed25519 key behind signerSecretTagged and returns
// the signature as a "signature_z..." tagged string.
func Sign(msg []byte, signerSecretTagged string) (string, error) {
	secret, err := codec.DecodeFixed32(signerSecretTag, signerSecretTagged)
	if err != nil {
		return "", fmt.Errorf("keys: decode signer secret: %w", err)
	}
	sig := ed25519x.Sign(secret, msg)
	return codec.EncodeTagged(signatureTag, sig[:]), nil
}

// Verify reports whether sigTagged is a valid signature over msg under
// signerIDTagged.
func Verify(sigTagged string, msg []byte, signerIDTagged string) (bool, error) {
	sig, err := codec.DecodeFixed64(signatureTag, sigTagged)
	if err != nil {
		return false, fmt.Errorf("keys: decode signature: %w", err)
	}
	verifying, err := codec.DecodeFixed32(signerIDTag, signerIDTagged)
	if err != nil {
		return false, fmt.Errorf("keys: decode signer id: %w", err)
	}
	return ed25519x.Verify(verifying, msg, sig)
}

// Encrypt encrypts plaintext with the raw XSalsa20 stream cipher, deriving
// the nonce from nonceMaterial. This is the unauthenticated primitive: the
// caller is responsible for authenticating the result (the SessionLog does
// so by chaining it into the signed hash).
func Encrypt(plaintext []byte, keySecretTagged string, nonceMaterial []byte) ([]byte, error) {
	key, err := codec.DecodeFixed32(keySecretTag, keySecretTagged)
	if err != nil {
		return nil, fmt.Errorf("keys: decode key secret: %w", err)
	}
	nonce := hash.DeriveNonce24(nonceMaterial)
	ciphertext, err := cipher.XSalsa20EncryptRaw(key[:], nonce[:], plaintext)
	if err != nil {
		return nil, fmt.Errorf("keys: encrypt: %w", err)
	}
	return ciphertext, nil
}

// Decrypt is Encrypt's inverse: XSalsa20 is its own inverse as a stream
// cipher, so this derives the same nonce and XORs again.
func Decrypt(ciphertext []byte, keySecretTagged string, nonceMaterial []byte) ([]byte, error) {
	key, err := codec.DecodeFixed32(keySecretTag, keySecretTagged)
	if err != nil {
		return nil, fmt.Errorf("keys: decode key secret: %w", err)
	}
	nonce := hash.DeriveNonce24(nonceMaterial)
	plaintext, err := cipher.XSalsa20DecryptRaw(key[:], nonce[:], ciphertext)
	if err != nil {
		return nil, fmt.Errorf("keys: decrypt: %w", err)
	}
	return plaintext, nil
}
