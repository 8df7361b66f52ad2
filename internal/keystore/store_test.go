package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEnvelope = `{"address":"008aeeda4d805471df9b2a5b0f38a0c3bcba786b","crypto":{"cipher":"aes-128-ctr","ciphertext":"00","cipherparams":{"iv":"00"},"kdf":"scrypt","kdfparams":{},"mac":"00"},"id":"e13b209c-3b2f-4327-bab0-3bef2e51630d","version":3}`

func TestNewStore_CreatesDirIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "renex-cli")

	s, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), s.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = NewStore(dir)
	assert.NoError(t, err)
}

func TestStore_SaveReplacesWholesale(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save([]byte(`{"first":"a much longer document than the second one"}`)))
	require.NoError(t, s.Save([]byte(`{"second":1}`)))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"second":1}`, string(got))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestRead_NotFound(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Address(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Address()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save([]byte(sampleEnvelope)))
	addr, err := s.Address()
	require.NoError(t, err)
	assert.Equal(t, "0x008AeEda4D805471dF9b2A5B0f38A0C3bCBA786b", addr.Hex())
}

func TestStore_Import(t *testing.T) {
	srcDir := t.TempDir()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("copies a valid envelope", func(t *testing.T) {
		src := filepath.Join(srcDir, "UTC--2018-key.json")
		require.NoError(t, os.WriteFile(src, []byte(sampleEnvelope), 0o644))

		require.NoError(t, s.Import(src))
		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, sampleEnvelope, string(got))
	})

	t.Run("missing source", func(t *testing.T) {
		err := s.Import(filepath.Join(srcDir, "nope.json"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects non keystore and keeps the current one", func(t *testing.T) {
		src := filepath.Join(srcDir, "notes.txt")
		require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

		err := s.Import(src)
		assert.ErrorIs(t, err, ErrCorruptKeystore)

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, sampleEnvelope, string(got))
	})
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "garbage"},
		{name: "no crypto section", blob: `{"address":"008aeeda4d805471df9b2a5b0f38a0c3bcba786b","version":3}`},
		{name: "bad address", blob: `{"address":"zz","crypto":{},"version":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress([]byte(tt.blob))
			assert.ErrorIs(t, err, ErrCorruptKeystore)
		})
	}
}
