package sessionlog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cojson-dev/cojson-core/coreerrors"
)

// PrivateTransaction is a transaction whose changes (and, optionally, meta)
// are encrypted with the XSalsa20 stream cipher under a session key. Field
// order is load-bearing: it fixes the exact bytes the SessionLog hasher
// chains, so it must never change.
type PrivateTransaction struct {
	EncryptedChanges string  `json:"encryptedChanges"`
	KeyUsed          string  `json:"keyUsed"`
	MadeAt           uint64  `json:"madeAt"`
	Meta             *string `json:"meta,omitempty"`
	Privacy          string  `json:"privacy"`
}

// TrustingTransaction is a transaction whose changes are stored in the
// clear. Field order is load-bearing in the same way as PrivateTransaction.
type TrustingTransaction struct {
	Changes string  `json:"changes"`
	MadeAt  uint64  `json:"madeAt"`
	Meta    *string `json:"meta,omitempty"`
	Privacy string  `json:"privacy"`
}

// Transaction is the discriminated union of the two transaction kinds,
// discriminated by the "privacy" field ("private" or "trusting").
type Transaction struct {
	Private  *PrivateTransaction
	Trusting *TrustingTransaction
}

type privacyPeek struct {
	Privacy string `json:"privacy"`
}

// PrivateTransactionResult is the binding-facing result of appending a
// private transaction: the new signature, the encrypted changes actually
// stored, and the encrypted meta if one was supplied.
type PrivateTransactionResult struct {
	Signature        string  `json:"signature"`
	EncryptedChanges string  `json:"encrypted_changes"`
	Meta             *string `json:"meta,omitempty"`
}

// parseTransaction decodes a stored transaction JSON string into its
// concrete variant.
func parseTransaction(txJSON string) (Transaction, error) {
	var peek privacyPeek
	if err := json.Unmarshal([]byte(txJSON), &peek); err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", coreerrors.ErrJSON, err)
	}

	switch peek.Privacy {
	case "private":
		var pt PrivateTransaction
		if err := json.Unmarshal([]byte(txJSON), &pt); err != nil {
			return Transaction{}, fmt.Errorf("%w: %v", coreerrors.ErrJSON, err)
		}
		return Transaction{Private: &pt}, nil
	case "trusting":
		var tt TrustingTransaction
		if err := json.Unmarshal([]byte(txJSON), &tt); err != nil {
			return Transaction{}, fmt.Errorf("%w: %v", coreerrors.ErrJSON, err)
		}
		return Transaction{Trusting: &tt}, nil
	default:
		return Transaction{}, fmt.Errorf("%w: unknown privacy %q", coreerrors.ErrJSON, peek.Privacy)
	}
}

// marshalCanonical serializes v with no HTML-escaping and no trailing
// newline, matching the wire format a non-Go implementation of the same
// struct would produce with a general-purpose JSON serializer.
func marshalCanonical(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("%w: %v", coreerrors.ErrJSON, err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
