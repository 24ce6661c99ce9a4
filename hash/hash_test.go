package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncrementalHasherVector(t *testing.T) {
	// Feeding [1,2,3,4,5] then [6,7,8,9,10] must finalize to a fixed digest.
	h := New()
	h.Write([]byte{1, 2, 3, 4, 5})
	h.Write([]byte{6, 7, 8, 9, 10})
	got := h.Sum32()

	want, err := hex.DecodeString("A5838D45024527ECC4F4B4D5937CDE2744DF36B0F261C865CC4F15E9383301C7")
	require.NoError(t, err)
	require.Equal(t, want, got[:])
}

func TestHasherCloneIsIndependent(t *testing.T) {
	h := New()
	h.Write([]byte("shared prefix"))

	clone := h.Clone()
	clone.Write([]byte("only in clone"))
	h.Write([]byte("only in original"))

	require.NotEqual(t, h.Sum32(), clone.Sum32())

	reference := New()
	reference.Write([]byte("shared prefix"))
	reference.Write([]byte("only in original"))
	require.Equal(t, reference.Sum32(), h.Sum32())
}

func TestOnceMatchesOnceWithContext(t *testing.T) {
	context := []byte("ctx")
	data := []byte("payload")

	want := Once(append(append([]byte{}, context...), data...))
	got := OnceWithContext(data, context)
	require.Equal(t, want, got)
}

func TestDeriveNonce24Deterministic(t *testing.T) {
	material := []byte(`{"in":"co_X","tx":{"sessionID":"sess_Y","txIndex":7}}`)
	n1 := DeriveNonce24(material)
	n2 := DeriveNonce24(material)
	require.Equal(t, n1, n2)
	require.Len(t, n1, 24)
}

func TestDeriveNonce24DiffersOnInput(t *testing.T) {
	a := DeriveNonce24([]byte("a"))
	b := DeriveNonce24([]byte("b"))
	require.NotEqual(t, a, b)
}
