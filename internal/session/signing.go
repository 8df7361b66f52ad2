package session

import (
	"bytes"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/renexcli/internal/keystore"
	"github.com/vadiminshakov/renexcli/internal/reqsign"
)

// signingTransport signs the body of each request with the trader's key before passing
// it to base.
type signingTransport struct {
	base   http.RoundTripper
	signer *keystore.Signer
	nonce  func() string
}

func newSigningTransport(base http.RoundTripper, signer *keystore.Signer) *signingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &signingTransport{
		base:   base,
		signer: signer,
		nonce:  func() string { return uuid.NewString() },
	}
}

// RoundTrip implements http.RoundTripper.
func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, "read request body")
		}
		body = b
	}

	signed := req.Clone(req.Context())
	if err := reqsign.Sign(signed.Header, body, t.nonce(), t.signer.Key); err != nil {
		return nil, err
	}

	signed.Body = io.NopCloser(bytes.NewReader(body))
	signed.ContentLength = int64(len(body))
	signed.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	return t.base.RoundTrip(signed)
}
