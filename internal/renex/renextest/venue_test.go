package renextest

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/renexcli/internal/reqsign"
)

// signWith signs every outgoing request with key.
type signWith struct {
	key *ecdsa.PrivateKey
}

func (s signWith) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err := reqsign.Sign(req.Header, body, "nonce", s.key); err != nil {
		return nil, err
	}
	return http.DefaultTransport.RoundTrip(req)
}

func dial(t *testing.T, url string, rt http.RoundTripper) *rpc.Client {
	t.Helper()
	client, err := rpc.DialOptions(context.Background(), url, rpc.WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestHandler_SignedMethods(t *testing.T) {
	venue := NewVenue()
	srv := httptest.NewServer(venue.Handler())
	defer srv.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	trader := crypto.PubkeyToAddress(key.PublicKey).Hex()
	venue.Fund(trader, "ETH", decimal.Zero, decimal.NewFromInt(5))

	ctx := context.Background()
	var txHash string

	t.Run("unsigned is rejected", func(t *testing.T) {
		err := dial(t, srv.URL, http.DefaultTransport).CallContext(ctx, &txHash, "renex_withdraw", trader, "ETH", "1")
		var rpcErr rpc.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, errUnauthorized, rpcErr.ErrorCode())
	})

	t.Run("signed by someone else is rejected", func(t *testing.T) {
		err := dial(t, srv.URL, signWith{key: other}).CallContext(ctx, &txHash, "renex_withdraw", trader, "ETH", "1")
		var rpcErr rpc.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, errUnauthorized, rpcErr.ErrorCode())
	})

	t.Run("signed by the trader is served", func(t *testing.T) {
		err := dial(t, srv.URL, signWith{key: key}).CallContext(ctx, &txHash, "renex_withdraw", trader, "ETH", "1")
		require.NoError(t, err)
		assert.NotEmpty(t, txHash)
	})

	t.Run("reads need no signature", func(t *testing.T) {
		var orders []any
		require.NoError(t, dial(t, srv.URL, http.DefaultTransport).CallContext(ctx, &orders, "renex_traderOrders", trader))
	})

	assert.Equal(t, []string{"renex_withdraw", "renex_traderOrders"}, venue.Calls())
	require.Len(t, venue.Signers(), 1)
	assert.Equal(t, trader, venue.Signers()[0].Hex())
	assert.Equal(t, 1, venue.Unsigned())
}
