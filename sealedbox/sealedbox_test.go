package sealedbox

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/ed25519x"
	"github.com/cojson-dev/cojson-core/x25519x"
)

func newSealerKeypair(t *testing.T) (secretTagged, idTagged string) {
	t.Helper()
	secret, err := x25519x.NewPrivateKey()
	require.NoError(t, err)
	secretTagged = codec.EncodeTagged(sealerSecretTag, secret[:])
	idTagged, err = SealerIDFromSecret(secretTagged)
	require.NoError(t, err)
	return secretTagged, idTagged
}

func TestSealUnsealRoundTrip(t *testing.T) {
	senderSecret, senderID := newSealerKeypair(t)
	recipientSecret, recipientID := newSealerKeypair(t)

	msg := []byte("a secret for the recipient only")
	nonceMaterial := []byte(`{"in":"co_X","tx":{"sessionID":"sess_Y","txIndex":7}}`)

	sealed, err := Seal(msg, senderSecret, recipientID, nonceMaterial)
	require.NoError(t, err)
	require.NotEqual(t, msg, sealed)

	opened, err := Unseal(sealed, recipientSecret, senderID, nonceMaterial)
	require.NoError(t, err)
	require.Equal(t, msg, opened)
}

func TestSealerIDFromSecretMatchesDerivedPublicKey(t *testing.T) {
	secret, err := x25519x.NewPrivateKey()
	require.NoError(t, err)
	secretTagged := codec.EncodeTagged(sealerSecretTag, secret[:])

	id, err := SealerIDFromSecret(secretTagged)
	require.NoError(t, err)
	require.Contains(t, id, "sealer_z")

	pub, err := x25519x.PublicFromPrivate(secret)
	require.NoError(t, err)
	require.Equal(t, codec.EncodeTagged(sealerIDTag, pub[:]), id)
}

func TestSealProducesDistinctCiphertextForDistinctNonceMaterial(t *testing.T) {
	senderSecret, _ := newSealerKeypair(t)
	_, recipientID := newSealerKeypair(t)

	sealedA, err := Seal([]byte("payload"), senderSecret, recipientID, []byte("nonce-material-a"))
	require.NoError(t, err)
	sealedB, err := Seal([]byte("payload"), senderSecret, recipientID, []byte("nonce-material-b"))
	require.NoError(t, err)

	require.NotEqual(t, sealedA, sealedB)
}

func TestUnsealRejectsWrongNonceMaterial(t *testing.T) {
	senderSecret, senderID := newSealerKeypair(t)
	recipientSecret, recipientID := newSealerKeypair(t)

	sealed, err := Seal([]byte("payload"), senderSecret, recipientID, []byte("nonce-material-a"))
	require.NoError(t, err)

	_, err = Unseal(sealed, recipientSecret, senderID, []byte("nonce-material-b"))
	require.Error(t, err)
}

func TestUnsealRejectsTamperedCiphertext(t *testing.T) {
	senderSecret, senderID := newSealerKeypair(t)
	recipientSecret, recipientID := newSealerKeypair(t)
	nonceMaterial := []byte("fixed nonce material")

	sealed, err := Seal([]byte("payload"), senderSecret, recipientID, nonceMaterial)
	require.NoError(t, err)
	sealed[0] ^= 0xFF

	_, err = Unseal(sealed, recipientSecret, senderID, nonceMaterial)
	require.Error(t, err)
}

func TestSealUnsealRoundTripUsingKeysDerivedFromSignerIdentity(t *testing.T) {
	senderSeed, err := ed25519x.NewSigningKey()
	require.NoError(t, err)
	senderSignerID := codec.EncodeTagged("signer", mustVerifyingKey(t, senderSeed)[:])
	senderSignerSecret := codec.EncodeTagged("signerSecret", senderSeed[:])

	recipientSeed, err := ed25519x.NewSigningKey()
	require.NoError(t, err)
	recipientSignerID := codec.EncodeTagged("signer", mustVerifyingKey(t, recipientSeed)[:])
	recipientSignerSecret := codec.EncodeTagged("signerSecret", recipientSeed[:])

	senderSealerSecret, err := SealerSecretFromSignerSecret(senderSignerSecret)
	require.NoError(t, err)
	senderSealerID, err := SealerIDFromSignerID(senderSignerID)
	require.NoError(t, err)

	recipientSealerSecret, err := SealerSecretFromSignerSecret(recipientSignerSecret)
	require.NoError(t, err)
	recipientSealerID, err := SealerIDFromSignerID(recipientSignerID)
	require.NoError(t, err)

	require.Equal(t, senderSealerID, mustSealerIDFromSecret(t, senderSealerSecret))
	require.Equal(t, recipientSealerID, mustSealerIDFromSecret(t, recipientSealerSecret))

	msg := []byte("sealed using keys derived from a single signer identity")
	nonceMaterial := []byte("derived-key-direction-matrix")

	sealed, err := Seal(msg, senderSealerSecret, recipientSealerID, nonceMaterial)
	require.NoError(t, err)

	opened, err := Unseal(sealed, recipientSealerSecret, senderSealerID, nonceMaterial)
	require.NoError(t, err)
	require.Equal(t, msg, opened)
}

func mustVerifyingKey(t *testing.T, seed [32]byte) [32]byte {
	t.Helper()
	return ed25519x.VerifyingKeyFromSigning(seed)
}

func mustSealerIDFromSecret(t *testing.T, secretTagged string) string {
	t.Helper()
	id, err := SealerIDFromSecret(secretTagged)
	require.NoError(t, err)
	return id
}

func TestUnsealRejectsWrongRecipientSecret(t *testing.T) {
	senderSecret, _ := newSealerKeypair(t)
	_, recipientID := newSealerKeypair(t)
	wrongSecret, _ := newSealerKeypair(t)
	nonceMaterial := []byte("fixed nonce material")

	sealed, err := Seal([]byte("payload"), senderSecret, recipientID, nonceMaterial)
	require.NoError(t, err)

	wrongSenderID, err := SealerIDFromSecret(senderSecret)
	require.NoError(t, err)

	_, err = Unseal(sealed, wrongSecret, wrongSenderID, nonceMaterial)
	require.Error(t, err)
}
