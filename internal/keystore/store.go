// Package keystore keeps the trader's encrypted private key on disk and turns it into a signer.
package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// FileName is the keystore file name inside the data directory.
const FileName = "keystore.json"

var (
	// ErrNotFound is returned when no keystore has been stored yet.
	ErrNotFound = errors.New("keystore not found")
	// ErrCorruptKeystore is returned for files that are not a valid encrypted key envelope.
	ErrCorruptKeystore = errors.New("corrupt keystore")
)

// Store owns the single keystore file under a per-user data directory.
type Store struct {
	path string
}

// NewStore creates the data directory if needed and returns a store for dir/keystore.json.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return &Store{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the keystore file location.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the keystore with blob.
func (s *Store) Save(blob []byte) error {
	return Write(s.path, blob)
}

// Load returns the raw keystore content.
func (s *Store) Load() ([]byte, error) {
	return Read(s.path)
}

// Import copies an existing keystore file into place without re-encrypting it.
func (s *Store) Import(src string) error {
	return Copy(src, s.path)
}

// Address returns the trader address recorded in the keystore, without decrypting it.
func (s *Store) Address() (common.Address, error) {
	blob, err := Read(s.path)
	if err != nil {
		return common.Address{}, err
	}
	return ParseAddress(blob)
}

// Write persists blob at path as a single unit: the content goes to a temp file in the
// same directory which is synced and then renamed over path.
func Write(path string, blob []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create keystore temp file")
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write keystore temp file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod keystore temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "sync keystore temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close keystore temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "persist keystore")
	}
	committed = true

	return nil
}

// Read returns the file content at path or ErrNotFound.
func Read(path string) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNotFound, "no keystore at %s", path)
		}
		return nil, errors.Wrap(err, "read keystore")
	}
	return blob, nil
}

// Copy duplicates the keystore at src to dst. The source must look like an encrypted
// key envelope so that a wrong file is never installed.
func Copy(src, dst string) error {
	blob, err := Read(src)
	if err != nil {
		return err
	}
	if _, err := ParseAddress(blob); err != nil {
		return err
	}
	return Write(dst, blob)
}

type envelopeHeader struct {
	Address string          `json:"address"`
	Crypto  json.RawMessage `json:"crypto"`
	Version int             `json:"version"`
}

// ParseAddress extracts the address field of a V3 envelope.
func ParseAddress(blob []byte) (common.Address, error) {
	var header envelopeHeader
	if err := json.Unmarshal(blob, &header); err != nil {
		return common.Address{}, errors.Wrapf(ErrCorruptKeystore, "decode keystore: %v", err)
	}
	if len(header.Crypto) == 0 {
		return common.Address{}, errors.Wrap(ErrCorruptKeystore, "missing crypto section")
	}
	if !common.IsHexAddress(header.Address) {
		return common.Address{}, errors.Wrapf(ErrCorruptKeystore, "invalid address %q", header.Address)
	}
	return common.HexToAddress(header.Address), nil
}
