package nonce

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterialMatchesCanonicalLayout(t *testing.T) {
	b, err := Material("co_X", "sess_Y", 7)
	require.NoError(t, err)
	require.Equal(t, `{"in":"co_X","tx":{"sessionID":"sess_Y","txIndex":7}}`, string(b))
	require.Len(t, b, 53)
}

func TestDeriveIsDeterministic(t *testing.T) {
	a, err := Derive("co_X", "sess_Y", 7)
	require.NoError(t, err)
	b, err := Derive("co_X", "sess_Y", 7)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDeriveDiffersByTxIndex(t *testing.T) {
	a, err := Derive("co_X", "sess_Y", 0)
	require.NoError(t, err)
	b, err := Derive("co_X", "sess_Y", 1)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDeriveDiffersBySessionID(t *testing.T) {
	a, err := Derive("co_X", "sess_Y", 0)
	require.NoError(t, err)
	b, err := Derive("co_X", "sess_Z", 0)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDeriveDiffersByCoID(t *testing.T) {
	a, err := Derive("co_X", "sess_Y", 0)
	require.NoError(t, err)
	b, err := Derive("co_Z", "sess_Y", 0)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
