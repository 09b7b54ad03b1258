package vault_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/pkg/vault"
)

func testKey(t *testing.T) string {
	t.Helper()
	key, err := vault.NewKey()
	require.NoError(t, err)
	return key
}

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()
	key := testKey(t)

	for _, plaintext := range []string{
		"access-sandbox-1234",
		"",
		"unicode ✓ and spaces",
	} {
		p, err := vault.Seal(plaintext, key)
		require.NoError(t, err)
		got, err := vault.Open(p, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestSealDrawsFreshNonce(t *testing.T) {
	t.Parallel()
	key := testKey(t)

	first, err := vault.Seal("same plaintext", key)
	require.NoError(t, err)
	second, err := vault.Seal("same plaintext", key)
	require.NoError(t, err)

	assert.NotEqual(t, first.IV, second.IV, "nonce must be fresh per seal")
	assert.NotEqual(t, first.Cipher, second.Cipher, "ciphertext must differ for identical inputs")
}

func TestOpenWithWrongKeyFails(t *testing.T) {
	t.Parallel()
	p, err := vault.Seal("secret", testKey(t))
	require.NoError(t, err)

	_, err = vault.Open(p, testKey(t))
	assert.Error(t, err, "wrong key must never yield plaintext")
}

func TestOpenTamperedCiphertextFails(t *testing.T) {
	t.Parallel()
	key := testKey(t)
	p, err := vault.Seal("secret", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(p.Cipher)
	require.NoError(t, err)
	raw[0] ^= 0xff
	p.Cipher = base64.StdEncoding.EncodeToString(raw)

	_, err = vault.Open(p, key)
	assert.Error(t, err)
}

func TestOpenTamperedTagFails(t *testing.T) {
	t.Parallel()
	key := testKey(t)
	p, err := vault.Seal("secret", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(p.Tag)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	p.Tag = base64.StdEncoding.EncodeToString(raw)

	_, err = vault.Open(p, key)
	assert.Error(t, err)
}

func TestKeyLengthIsEnforced(t *testing.T) {
	t.Parallel()
	short := base64.StdEncoding.EncodeToString(make([]byte, 16))

	_, err := vault.Seal("secret", short)
	assert.ErrorContains(t, err, "32 bytes")

	_, err = vault.Open(vault.Payload{}, "not base64!!")
	assert.Error(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()
	key := testKey(t)
	p, err := vault.Seal("secret", key)
	require.NoError(t, err)

	blob, err := vault.Serialize(p)
	require.NoError(t, err)
	back, err := vault.Deserialize(blob)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	got, err := vault.Open(back, key)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := vault.Deserialize("{not json")
	assert.Error(t, err)
}
