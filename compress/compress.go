// Package compress implements the LZ77-style compressor used to shrink a
// SessionLog's transaction bytes before they are persisted or shipped over
// the wire. It favors cheap, stateful, streaming compression of many small
// chunks over a single large call: a Compressor keeps a growing history
// across calls to CompressChunk, so later chunks can reference matches in
// earlier ones.
package compress

import (
	"encoding/binary"

	"github.com/cojson-dev/cojson-core/coreerrors"
)

const (
	minMatchLen = 4
	maxMatchLen = 15 + 3
	maxLiterals = 15

	hashLog       = 16
	hashTableSize = 1 << hashLog

	knuthMultPrime = 2654435761
)

func hash(data []byte) uint32 {
	val := binary.LittleEndian.Uint32(data)
	return (val * knuthMultPrime) >> (32 - hashLog)
}

// Compressor is a streaming LZ77 encoder. The zero value is not usable; use
// New. A Compressor's history only grows — Reset starts a fresh one when
// the caller is done referencing prior chunks.
type Compressor struct {
	hashTable [hashTableSize]uint32
	history   []byte
}

// New returns an empty Compressor.
func New() *Compressor {
	return &Compressor{}
}

// Reset discards all history and hash-table state, so subsequent chunks are
// compressed as if this were a brand-new Compressor.
func (c *Compressor) Reset() {
	for i := range c.hashTable {
		c.hashTable[i] = 0
	}
	c.history = c.history[:0]
}

func emitSequence(out []byte, literals []byte, matchLen int, offset uint16) []byte {
	for len(literals) > maxLiterals {
		out = append(out, byte(maxLiterals)<<4)
		out = append(out, literals[:maxLiterals]...)
		literals = literals[maxLiterals:]
	}

	matchLenToken := byte(0)
	if matchLen > 0 {
		matchLenToken = byte(matchLen - 3)
	}
	token := byte(len(literals))<<4 | matchLenToken
	out = append(out, token)
	out = append(out, literals...)

	if matchLen > 0 {
		out = binary.LittleEndian.AppendUint16(out, offset)
	}
	return out
}

// CompressChunk appends chunk to the compressor's running history and
// returns the compressed bytes for just this chunk. Matches may reach back
// into history contributed by earlier calls.
func (c *Compressor) CompressChunk(chunk []byte) []byte {
	out := make([]byte, 0, len(chunk))

	chunkStart := len(c.history)
	c.history = append(c.history, chunk...)

	cursor := chunkStart
	literalAnchor := chunkStart

	for cursor < len(c.history) {
		var bestOffset uint16
		var bestLen int
		haveMatch := false

		if len(c.history)-cursor >= minMatchLen {
			h := hash(c.history[cursor : cursor+4])
			matchPos := int(c.hashTable[h])

			if matchPos < cursor && cursor-matchPos < 1<<16-1 {
				if bytesEqual(c.history[matchPos:matchPos+minMatchLen], c.history[cursor:cursor+minMatchLen]) {
					matchLen := minMatchLen
					for cursor+matchLen < len(c.history) &&
						matchLen < maxMatchLen &&
						c.history[matchPos+matchLen] == c.history[cursor+matchLen] {
						matchLen++
					}
					bestOffset = uint16(cursor - matchPos)
					bestLen = matchLen
					haveMatch = true
				}
			}
			c.hashTable[h] = uint32(cursor)
		}

		if haveMatch {
			literals := c.history[literalAnchor:cursor]
			out = emitSequence(out, literals, bestLen, bestOffset)
			cursor += bestLen
			literalAnchor = cursor
		} else {
			cursor++
		}
	}

	if literalAnchor < cursor {
		out = emitSequence(out, c.history[literalAnchor:cursor], 0, 0)
	}

	return out
}

func bytesEqual(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compress is a convenience one-shot wrapper around a fresh Compressor.
func Compress(input []byte) []byte {
	return New().CompressChunk(input)
}

// Decompress reverses a stream produced by Compressor.CompressChunk calls
// (concatenated in order), returning coreerrors.ErrInvalidToken for a
// malformed offset and coreerrors.ErrUnexpectedEOF for a stream that ends
// mid-literal-run or mid-offset.
func Decompress(input []byte) ([]byte, error) {
	out := make([]byte, 0, len(input)*2)
	i := 0

	for i < len(input) {
		token := input[i]
		i++

		literalLen := int(token >> 4)
		matchLenToken := int(token & 0x0F)

		if i+literalLen > len(input) {
			return nil, coreerrors.ErrUnexpectedEOF
		}
		out = append(out, input[i:i+literalLen]...)
		i += literalLen

		if matchLenToken > 0 {
			if i+2 > len(input) {
				return nil, coreerrors.ErrUnexpectedEOF
			}
			offset := int(binary.LittleEndian.Uint16(input[i : i+2]))
			i += 2

			if offset == 0 || offset > len(out) {
				return nil, coreerrors.ErrInvalidToken
			}

			matchLen := matchLenToken + 3
			matchStart := len(out) - offset

			for k := 0; k < matchLen; k++ {
				out = append(out, out[matchStart+k])
			}
		}
	}

	return out, nil
}
