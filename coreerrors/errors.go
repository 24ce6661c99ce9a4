// Package coreerrors defines the sentinel error values shared across the
// cojson-core packages (codec, hash, cipher, keys, sessionlog, compress).
//
// Components wrap these sentinels with fmt.Errorf("...: %w", ...) at the
// point of detection; callers use errors.Is/errors.As to recover the kind.
package coreerrors

import "errors"

var (
	// ErrTransactionNotFound is returned when a decrypt operation targets an
	// out-of-range transaction index.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidEncryptedPrefix is returned when a ciphertext string lacks
	// the "encrypted_U" tag.
	ErrInvalidEncryptedPrefix = errors.New("invalid encrypted prefix")

	// ErrInvalidDecodingPrefix is returned when a tagged string has no "_z"
	// substring at all.
	ErrInvalidDecodingPrefix = errors.New("invalid decoding prefix")

	// ErrInvalidPrefix is returned when a tagged string's prefix does not
	// match the tag expected by the caller.
	ErrInvalidPrefix = errors.New("invalid prefix")

	// ErrInvalidBase58 is returned when the body of a tagged string fails to
	// base58-decode.
	ErrInvalidBase58 = errors.New("invalid base58")

	// ErrInvalidKeyLength is returned when a decoded key's byte length does
	// not match the width required by its kind.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidNonceLength is returned when a nonce is not exactly 24 bytes.
	ErrInvalidNonceLength = errors.New("invalid nonce length")

	// ErrInvalidSignatureLength is returned when a signature is not exactly
	// 64 bytes.
	ErrInvalidSignatureLength = errors.New("invalid signature length")

	// ErrInvalidVerifyingKey is returned when raw bytes do not decode to a
	// valid Ed25519 curve point.
	ErrInvalidVerifyingKey = errors.New("invalid verifying key")

	// ErrInvalidPublicKey is returned when raw bytes do not decode to a
	// valid X25519 public point.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrCipherError signals that constructing the underlying stream cipher
	// failed; this should never happen at runtime given fixed key/nonce
	// widths, but is surfaced rather than panicking.
	ErrCipherError = errors.New("cipher construction failed")

	// ErrWrongTag is returned when XSalsa20-Poly1305 authentication fails.
	ErrWrongTag = errors.New("authentication tag mismatch")

	// ErrSignatureVerification is returned when a SessionLog signature fails
	// to verify. Use AsSignatureVerification to recover the candidate hash.
	ErrSignatureVerification = errors.New("signature verification failed")

	// ErrBase64Decode wraps a failure decoding a url-safe base64 ciphertext.
	ErrBase64Decode = errors.New("base64 decode failed")

	// ErrUTF8 is returned when decrypted bytes are not valid UTF-8,
	// typically indicating the wrong key was used.
	ErrUTF8 = errors.New("invalid utf-8")

	// ErrJSON wraps a failure parsing or producing transaction JSON.
	ErrJSON = errors.New("json error")

	// ErrInvalidToken is returned when a compressed stream's token encodes
	// an offset of zero or an offset reaching further back than anything
	// decompressed so far.
	ErrInvalidToken = errors.New("invalid compression token")

	// ErrUnexpectedEOF is returned when a compressed stream ends in the
	// middle of a literal run or a match's offset bytes.
	ErrUnexpectedEOF = errors.New("unexpected end of compressed stream")
)

// SignatureVerificationError carries the candidate "hash_z..." identifier
// that a failed signature check was verified against, so callers can debug
// mismatches without recomputing the hash themselves.
type SignatureVerificationError struct {
	Hash string
}

func (e *SignatureVerificationError) Error() string {
	return "signature verification failed: " + e.Hash
}

func (e *SignatureVerificationError) Unwrap() error {
	return ErrSignatureVerification
}

// NewSignatureVerificationError constructs the typed error carrying the
// tagged hash that was checked.
func NewSignatureVerificationError(hashZ string) error {
	return &SignatureVerificationError{Hash: hashZ}
}
