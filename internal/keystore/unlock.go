package keystore

import (
	"crypto/ecdsa"
	"strings"

	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidKeyFormat is returned when the raw private key is not a hex-encoded secp256k1 key.
	ErrInvalidKeyFormat = errors.New("invalid private key format")
	// ErrWrongPassphrase is returned when the envelope MAC does not validate.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// Signer is a decrypted private key together with the address it controls.
type Signer struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// Unlocker converts between raw private keys and encrypted V3 envelopes.
type Unlocker struct {
	scryptN int
	scryptP int
}

// Option configures the Unlocker.
type Option func(*Unlocker)

// WithScrypt sets the scrypt cost parameters used for new envelopes.
func WithScrypt(n, p int) Option {
	return func(u *Unlocker) {
		u.scryptN = n
		u.scryptP = p
	}
}

// NewUnlocker creates an Unlocker with the standard wallet scrypt parameters.
func NewUnlocker(opts ...Option) *Unlocker {
	u := &Unlocker{
		scryptN: ethkeystore.StandardScryptN,
		scryptP: ethkeystore.StandardScryptP,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ParsePrivateKey decodes a hex private key with or without 0x prefix.
func ParsePrivateKey(rawHex string) (*ecdsa.PrivateKey, error) {
	key := strings.TrimSpace(rawHex)
	if len(key) >= 2 && (key[:2] == "0x" || key[:2] == "0X") {
		key = key[2:]
	}

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyFormat, err.Error())
	}
	return privateKey, nil
}

// Encrypt seals rawHex with passphrase into a V3 envelope.
func (u *Unlocker) Encrypt(rawHex, passphrase string) ([]byte, error) {
	privateKey, err := ParsePrivateKey(rawHex)
	if err != nil {
		return nil, err
	}

	key := &ethkeystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}

	blob, err := ethkeystore.EncryptKey(key, passphrase, u.scryptN, u.scryptP)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt key")
	}
	return blob, nil
}

// Decrypt opens a V3 envelope with passphrase.
func (u *Unlocker) Decrypt(blob []byte, passphrase string) (*Signer, error) {
	if _, err := ParseAddress(blob); err != nil {
		return nil, err
	}

	key, err := ethkeystore.DecryptKey(blob, passphrase)
	if err != nil {
		if errors.Is(err, ethkeystore.ErrDecrypt) {
			return nil, ErrWrongPassphrase
		}
		return nil, errors.Wrapf(ErrCorruptKeystore, "decrypt key: %v", err)
	}

	return &Signer{Key: key.PrivateKey, Address: key.Address}, nil
}
