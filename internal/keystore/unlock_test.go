package keystore

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func newTestUnlocker() *Unlocker {
	return NewUnlocker(WithScrypt(ethkeystore.LightScryptN, ethkeystore.LightScryptP))
}

func TestUnlocker_RoundTripRecoversAddress(t *testing.T) {
	u := newTestUnlocker()

	keys := []string{testKeyHex, "0x" + testKeyHex}
	for i := 0; i < 2; i++ {
		k, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys = append(keys, hex.EncodeToString(crypto.FromECDSA(k)))
	}

	for _, raw := range keys {
		expectedKey, err := ParsePrivateKey(raw)
		require.NoError(t, err)
		expected := crypto.PubkeyToAddress(expectedKey.PublicKey)

		blob, err := u.Encrypt(raw, "correct horse")
		require.NoError(t, err)

		signer, err := u.Decrypt(blob, "correct horse")
		require.NoError(t, err)
		assert.Equal(t, expected, signer.Address)
		assert.Equal(t, expected, crypto.PubkeyToAddress(signer.Key.PublicKey))

		recorded, err := ParseAddress(blob)
		require.NoError(t, err)
		assert.Equal(t, expected, recorded)
	}
}

func TestUnlocker_WrongPassphrase(t *testing.T) {
	u := newTestUnlocker()

	blob, err := u.Encrypt(testKeyHex, "p1")
	require.NoError(t, err)

	for _, pass := range []string{"p2", "", "P1", "p1 "} {
		_, err := u.Decrypt(blob, pass)
		assert.ErrorIs(t, err, ErrWrongPassphrase, pass)
	}
}

func TestUnlocker_InvalidKeyFormat(t *testing.T) {
	u := newTestUnlocker()

	for _, raw := range []string{"", "0x", "not-hex", "abcd", testKeyHex + "00", "0000000000000000000000000000000000000000000000000000000000000000"} {
		_, err := u.Encrypt(raw, "pass")
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, raw)
	}
}

func TestUnlocker_CorruptKeystore(t *testing.T) {
	u := newTestUnlocker()

	blob, err := u.Encrypt(testKeyHex, "pass")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(blob, &doc))
	doc["crypto"].(map[string]any)["kdf"] = "rot13"
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = u.Decrypt(tampered, "pass")
	assert.ErrorIs(t, err, ErrCorruptKeystore)

	_, err = u.Decrypt([]byte("{"), "pass")
	assert.ErrorIs(t, err, ErrCorruptKeystore)
}
