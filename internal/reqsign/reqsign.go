// Package reqsign signs JSON-RPC request bodies with the trader's key and verifies them.
package reqsign

import (
	"crypto/ecdsa"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Headers attached to every signed request.
const (
	HeaderAddress   = "X-Renex-Address"
	HeaderNonce     = "X-Renex-Nonce"
	HeaderSignature = "X-Renex-Signature"
)

// ErrBadSignature is returned by Verify for missing, malformed or forged signatures.
var ErrBadSignature = errors.New("bad request signature")

// Sign sets the signature headers for body on header.
func Sign(header http.Header, body []byte, nonce string, key *ecdsa.PrivateKey) error {
	sig, err := crypto.Sign(digest(nonce, body), key)
	if err != nil {
		return errors.Wrap(err, "sign request")
	}

	header.Set(HeaderAddress, crypto.PubkeyToAddress(key.PublicKey).Hex())
	header.Set(HeaderNonce, nonce)
	header.Set(HeaderSignature, hexutil.Encode(sig))
	return nil
}

// Verify recovers the signer of body and checks it against the declared address.
func Verify(header http.Header, body []byte) (common.Address, error) {
	declared := header.Get(HeaderAddress)
	if !common.IsHexAddress(declared) {
		return common.Address{}, errors.Wrap(ErrBadSignature, "missing address")
	}

	sig, err := hexutil.Decode(header.Get(HeaderSignature))
	if err != nil {
		return common.Address{}, errors.Wrapf(ErrBadSignature, "decode signature: %v", err)
	}

	pub, err := crypto.SigToPub(digest(header.Get(HeaderNonce), body), sig)
	if err != nil {
		return common.Address{}, errors.Wrapf(ErrBadSignature, "recover key: %v", err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if recovered != common.HexToAddress(declared) {
		return common.Address{}, errors.Wrapf(ErrBadSignature, "signed by %s, declared %s", recovered.Hex(), declared)
	}
	return recovered, nil
}

func digest(nonce string, body []byte) []byte {
	return crypto.Keccak256([]byte(nonce), body)
}
