// Package codec implements the "<tag>_z<base58>" tagged-string encoding used
// throughout cojson-core for keys, identifiers, signatures, and hashes.
package codec

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/cojson-dev/cojson-core/coreerrors"
)

const infix = "_z"

// EncodeTagged returns tag + "_z" + base58(body). The caller supplies tag
// without the "_z" suffix; EncodeTagged appends it.
func EncodeTagged(tag string, body []byte) string {
	return tag + infix + base58.Encode(body)
}

// DecodeTagged requires s to start with expectedTag + "_z" and base58-decodes
// everything after it. A mismatched prefix returns ErrInvalidPrefix.
func DecodeTagged(expectedTag, s string) ([]byte, error) {
	prefix := expectedTag + infix
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("%w: expected %q", coreerrors.ErrInvalidPrefix, expectedTag)
	}
	if len(s) == len(prefix) {
		// EncodeTagged of an empty body yields an empty base58 string.
		return []byte{}, nil
	}
	body, err := base58.Decode(s[len(prefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreerrors.ErrInvalidBase58, err)
	}
	return body, nil
}

// DecodeZ is the permissive form: it finds the first "_z" substring anywhere
// in s and base58-decodes whatever follows, ignoring the tag itself.
func DecodeZ(s string) ([]byte, error) {
	idx := strings.Index(s, infix)
	if idx < 0 {
		return nil, coreerrors.ErrInvalidDecodingPrefix
	}
	body, err := base58.Decode(s[idx+len(infix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreerrors.ErrInvalidBase58, err)
	}
	return body, nil
}

// DecodeFixed32 decodes a tagged string and requires the body to be exactly
// 32 bytes.
func DecodeFixed32(expectedTag, s string) ([32]byte, error) {
	var out [32]byte
	body, err := DecodeTagged(expectedTag, s)
	if err != nil {
		return out, err
	}
	if len(body) != 32 {
		return out, fmt.Errorf("%w: expected 32, got %d", coreerrors.ErrInvalidKeyLength, len(body))
	}
	copy(out[:], body)
	return out, nil
}

// DecodeFixed64 decodes a tagged string and requires the body to be exactly
// 64 bytes.
func DecodeFixed64(expectedTag, s string) ([64]byte, error) {
	var out [64]byte
	body, err := DecodeTagged(expectedTag, s)
	if err != nil {
		return out, err
	}
	if len(body) != 64 {
		return out, fmt.Errorf("%w: expected 64, got %d", coreerrors.ErrInvalidKeyLength, len(body))
	}
	copy(out[:], body)
	return out, nil
}
