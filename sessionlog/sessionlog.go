// Package sessionlog implements the append-only, hash-chained, Ed25519-signed
// transaction log for one session of one collaborative object. It is the
// core state machine: every mutation either commits in full or leaves the
// log exactly as it was.
package sessionlog

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cojson-dev/cojson-core/cipher"
	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/coreerrors"
	"github.com/cojson-dev/cojson-core/cryptocache"
	"github.com/cojson-dev/cojson-core/ed25519x"
	"github.com/cojson-dev/cojson-core/hash"
	"github.com/cojson-dev/cojson-core/nonce"
)

const (
	signerIDTag     = "signer"
	signatureTag    = "signature"
	encryptedPrefix = "encrypted_U"

	coIDPrefix      = "co_"
	sessionIDPrefix = "sess_"
)

// NewCoID generates an opaque collaborative-object identifier for a caller
// that doesn't already have one of its own.
func NewCoID() string {
	return coIDPrefix + uuid.NewString()
}

// NewSessionID generates an opaque session identifier for a caller that
// doesn't already have one of its own.
func NewSessionID() string {
	return sessionIDPrefix + uuid.NewString()
}

// SessionLog is the hash-chained, signature-verified transaction log for a
// single (co_id, session_id) pair. The zero value is not usable; build one
// with New or Rehydrate.
type SessionLog struct {
	coID      string
	sessionID string
	publicKey *[32]byte

	hasher           *hash.Hasher
	transactionsJSON []string
	lastSignature    string

	cache           *cryptocache.Cache
	cacheCapacities *cryptocache.Capacities
}

// New constructs an empty SessionLog for (coID, sessionID). If signerID is
// non-nil it is decoded as a "signer_z..." verifying key and stored for
// later TryAdd signature checks; construction fails only if
// signerID is malformed. cacheCapacities bounds the per-log decoded-secret
// cache; pass nil to use cryptocache.DefaultCapacities.
func New(coID, sessionID string, signerID *string, cacheCapacities *cryptocache.Capacities) (*SessionLog, error) {
	cache, err := cryptocache.New(cacheCapacities)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: new: %w", err)
	}

	sl := &SessionLog{
		coID:            coID,
		sessionID:       sessionID,
		hasher:          hash.New(),
		cache:           cache,
		cacheCapacities: cacheCapacities,
	}

	if signerID != nil {
		pub, err := codec.DecodeFixed32(signerIDTag, *signerID)
		if err != nil {
			return nil, fmt.Errorf("sessionlog: decode signer id: %w", err)
		}
		sl.publicKey = &pub
	}

	return sl, nil
}

// Rehydrate reconstructs a SessionLog from persisted state, replaying the
// stored transaction strings through TryAdd with skipVerify=true so the
// hasher state matches the caller's records without re-checking every past
// signature. cacheCapacities is as in New.
func Rehydrate(coID, sessionID string, signerID *string, txs []string, lastSignature *string, cacheCapacities *cryptocache.Capacities) (*SessionLog, error) {
	sl, err := New(coID, sessionID, signerID, cacheCapacities)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return sl, nil
	}

	sig := ""
	if lastSignature != nil {
		sig = *lastSignature
	}
	if err := sl.TryAdd(txs, sig, true); err != nil {
		return nil, fmt.Errorf("sessionlog: rehydrate: %w", err)
	}
	return sl, nil
}

// Clone returns an independent snapshot: a deep copy of the transaction
// list, a structural clone of the incremental hasher, and the same public
// key/last signature. The clone gets a fresh crypto cache, sized the same as
// the original's, and derives nonces independently — caches are per-instance
// performance state, not part of the logical snapshot.
func (sl *SessionLog) Clone() *SessionLog {
	cache, err := cryptocache.New(sl.cacheCapacities)
	if err != nil {
		// cryptocache.New only fails if an explicit capacity is invalid,
		// which New would already have rejected when this log was built.
		panic(fmt.Sprintf("sessionlog: clone: %v", err))
	}

	txs := make([]string, len(sl.transactionsJSON))
	copy(txs, sl.transactionsJSON)

	clone := &SessionLog{
		coID:             sl.coID,
		sessionID:        sl.sessionID,
		hasher:           sl.hasher.Clone(),
		transactionsJSON: txs,
		lastSignature:    sl.lastSignature,
		cache:            cache,
		cacheCapacities:  sl.cacheCapacities,
	}
	if sl.publicKey != nil {
		pub := *sl.publicKey
		clone.publicKey = &pub
	}
	return clone
}

// CoID returns the collaborative-object identifier this log is bound to.
func (sl *SessionLog) CoID() string { return sl.coID }

// SessionID returns the session identifier this log is bound to.
func (sl *SessionLog) SessionID() string { return sl.sessionID }

// TransactionsJSON returns the exact, already-serialized transaction
// strings committed so far, in order.
func (sl *SessionLog) TransactionsJSON() []string {
	out := make([]string, len(sl.transactionsJSON))
	copy(out, sl.transactionsJSON)
	return out
}

// LastSignature returns the most recently committed signature, or "" if
// none has been committed yet.
func (sl *SessionLog) LastSignature() string {
	return sl.lastSignature
}

func signedMessage(h [32]byte) []byte {
	return []byte(`"` + codec.EncodeTagged("hash", h[:]) + `"`)
}

// TryAdd appends a batch of already-serialized transaction strings. Each
// entry must be the exact bytes its producer hashed; they are fed into the
// hasher unmodified, never re-serialized.
//
// If skipVerify is false, the signature is checked against the hash the
// batch would produce before anything is committed — on any failure the log
// is left completely unchanged. If skipVerify is true, the batch is
// committed unconditionally and the hasher is still advanced over every
// transaction's bytes.
func (sl *SessionLog) TryAdd(transactions []string, newSignature string, skipVerify bool) error {
	candidate := sl.hasher.Clone()
	for _, tx := range transactions {
		candidate.Write([]byte(tx))
	}

	if !skipVerify {
		h := candidate.Sum32()
		msg := signedMessage(h)

		if sl.publicKey == nil {
			return coreerrors.NewSignatureVerificationError(codec.EncodeTagged("hash", h[:]))
		}

		sig, err := codec.DecodeFixed64(signatureTag, newSignature)
		if err != nil {
			return fmt.Errorf("sessionlog: decode signature: %w", err)
		}
		ok, err := ed25519x.Verify(*sl.publicKey, msg, sig)
		if err != nil {
			return fmt.Errorf("sessionlog: verify: %w", err)
		}
		if !ok {
			return coreerrors.NewSignatureVerificationError(codec.EncodeTagged("hash", h[:]))
		}
	}

	sl.hasher = candidate
	sl.transactionsJSON = append(sl.transactionsJSON, transactions...)
	sl.lastSignature = newSignature
	return nil
}

// encryptTagged encrypts plaintext with the given key/nonce and wraps it in
// the "encrypted_U<url-safe-base64>" tag.
func encryptTagged(key [32]byte, n [24]byte, plaintext string) (string, error) {
	ciphertext, err := cipher.XSalsa20EncryptRaw(key[:], n[:], []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("sessionlog: encrypt: %w", err)
	}
	return encryptedPrefix + base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// decryptTagged reverses encryptTagged, accepting both padded and unpadded
// url-safe base64 per the wire format's tolerance.
func decryptTagged(key [32]byte, n [24]byte, tagged string) (string, error) {
	if !strings.HasPrefix(tagged, encryptedPrefix) {
		return "", coreerrors.ErrInvalidEncryptedPrefix
	}
	body := strings.TrimRight(tagged[len(encryptedPrefix):], "=")

	ciphertext, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", coreerrors.ErrBase64Decode, err)
	}

	plaintext, err := cipher.XSalsa20DecryptRaw(key[:], n[:], ciphertext)
	if err != nil {
		return "", fmt.Errorf("sessionlog: decrypt: %w", err)
	}
	if !utf8.Valid(plaintext) {
		return "", coreerrors.ErrUTF8
	}
	return string(plaintext), nil
}

// AddNewPrivateTransaction encrypts changesJSON (and meta, if supplied)
// under keySecret with the nonce derived for this transaction's index,
// appends the resulting transaction, and signs the new hash with
// signerSecret.
func (sl *SessionLog) AddNewPrivateTransaction(changesJSON string, keyID, keySecret string, signerSecret string, madeAt uint64, meta *string) (PrivateTransactionResult, error) {
	txIndex := uint32(len(sl.transactionsJSON))

	key, err := sl.cache.KeySecret(keySecret)
	if err != nil {
		return PrivateTransactionResult{}, fmt.Errorf("sessionlog: key secret: %w", err)
	}
	n, err := nonce.Derive(sl.coID, sl.sessionID, txIndex)
	if err != nil {
		return PrivateTransactionResult{}, fmt.Errorf("sessionlog: derive nonce: %w", err)
	}

	encryptedChanges, err := encryptTagged(key, n, changesJSON)
	if err != nil {
		return PrivateTransactionResult{}, err
	}

	var encryptedMeta *string
	if meta != nil {
		em, err := encryptTagged(key, n, *meta)
		if err != nil {
			return PrivateTransactionResult{}, err
		}
		encryptedMeta = &em
	}

	tx := PrivateTransaction{
		EncryptedChanges: encryptedChanges,
		KeyUsed:          keyID,
		MadeAt:           madeAt,
		Meta:             encryptedMeta,
		Privacy:          "private",
	}

	sig, err := sl.commitTransaction(tx, signerSecret)
	if err != nil {
		return PrivateTransactionResult{}, err
	}

	return PrivateTransactionResult{
		Signature:        sig,
		EncryptedChanges: encryptedChanges,
		Meta:             encryptedMeta,
	}, nil
}

// AddNewTrustingTransaction appends changesJSON (and meta, if supplied) in
// the clear, signs the new hash with signerSecret, and returns just the new
// signature.
func (sl *SessionLog) AddNewTrustingTransaction(changesJSON string, signerSecret string, madeAt uint64, meta *string) (string, error) {
	tx := TrustingTransaction{
		Changes: changesJSON,
		MadeAt:  madeAt,
		Meta:    meta,
		Privacy: "trusting",
	}
	return sl.commitTransaction(tx, signerSecret)
}

// commitTransaction serializes tx canonically, advances the hasher over its
// bytes, appends it to the log, signs the resulting hash, and records the
// new signature.
func (sl *SessionLog) commitTransaction(tx any, signerSecret string) (string, error) {
	txJSON, err := marshalCanonical(tx)
	if err != nil {
		return "", err
	}

	seed, err := sl.cache.SignerSecret(signerSecret)
	if err != nil {
		return "", fmt.Errorf("sessionlog: signer secret: %w", err)
	}

	sl.hasher.Write([]byte(txJSON))
	sl.transactionsJSON = append(sl.transactionsJSON, txJSON)

	h := sl.hasher.Sum32()
	msg := signedMessage(h)

	sig := ed25519x.Sign(seed, msg)
	sigTagged := codec.EncodeTagged(signatureTag, sig[:])

	sl.lastSignature = sigTagged
	return sigTagged, nil
}

// DecryptNextTransactionChangesJSON returns the plaintext changes for the
// transaction at txIndex: verbatim for a trusting transaction, decrypted
// with keySecret for a private one.
func (sl *SessionLog) DecryptNextTransactionChangesJSON(txIndex int, keySecret string) (string, error) {
	tx, err := sl.transactionAt(txIndex)
	if err != nil {
		return "", err
	}

	if tx.Trusting != nil {
		return tx.Trusting.Changes, nil
	}

	key, err := sl.cache.KeySecret(keySecret)
	if err != nil {
		return "", fmt.Errorf("sessionlog: key secret: %w", err)
	}
	n, err := nonce.Derive(sl.coID, sl.sessionID, uint32(txIndex))
	if err != nil {
		return "", fmt.Errorf("sessionlog: derive nonce: %w", err)
	}
	return decryptTagged(key, n, tx.Private.EncryptedChanges)
}

// DecryptNextTransactionMetaJSON returns the plaintext meta for the
// transaction at txIndex, or nil if it has none.
func (sl *SessionLog) DecryptNextTransactionMetaJSON(txIndex int, keySecret string) (*string, error) {
	tx, err := sl.transactionAt(txIndex)
	if err != nil {
		return nil, err
	}

	if tx.Trusting != nil {
		return tx.Trusting.Meta, nil
	}
	if tx.Private.Meta == nil {
		return nil, nil
	}

	key, err := sl.cache.KeySecret(keySecret)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: key secret: %w", err)
	}
	n, err := nonce.Derive(sl.coID, sl.sessionID, uint32(txIndex))
	if err != nil {
		return nil, fmt.Errorf("sessionlog: derive nonce: %w", err)
	}
	meta, err := decryptTagged(key, n, *tx.Private.Meta)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (sl *SessionLog) transactionAt(txIndex int) (Transaction, error) {
	if txIndex < 0 || txIndex >= len(sl.transactionsJSON) {
		return Transaction{}, fmt.Errorf("%w: %d", coreerrors.ErrTransactionNotFound, txIndex)
	}
	return parseTransaction(sl.transactionsJSON[txIndex])
}
