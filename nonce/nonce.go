// Package nonce derives the deterministic 24-byte encryption nonce each
// SessionLog transaction uses, binding it to the CoValue ID, the session
// ID, and the transaction's index so no two transactions in the same
// object ever reuse a nonce.
package nonce

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cojson-dev/cojson-core/hash"
)

// txRef mirrors the wire shape of a transaction reference: session plus
// index. Field order matters — it fixes the byte-for-byte serialization
// that feeds DeriveNonce24, so this type's JSON tags must never be
// reordered or renamed.
type txRef struct {
	SessionID string `json:"sessionID"`
	TxIndex   uint32 `json:"txIndex"`
}

// material is the canonical nonce-derivation payload: {"in":"<co_id>","tx":{"sessionID":"<session_id>","txIndex":<tx_index>}}.
type material struct {
	In string `json:"in"`
	Tx txRef  `json:"tx"`
}

// Material serializes the canonical JSON nonce material for (coID,
// sessionID, txIndex) without deriving the nonce, for callers that need the
// exact bytes (tests, cross-implementation vectors).
func Material(coID, sessionID string, txIndex uint32) ([]byte, error) {
	m := material{In: coID, Tx: txRef{SessionID: sessionID, TxIndex: txIndex}}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("nonce: marshal material: %w", err)
	}
	// json.Encoder.Encode appends a trailing newline; the canonical
	// material has none.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Derive computes the 24-byte transaction nonce for (coID, sessionID,
// txIndex).
func Derive(coID, sessionID string, txIndex uint32) ([24]byte, error) {
	var out [24]byte
	b, err := Material(coID, sessionID, txIndex)
	if err != nil {
		return out, err
	}
	return hash.DeriveNonce24(b), nil
}
