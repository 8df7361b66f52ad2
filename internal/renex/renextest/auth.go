package renextest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/renexcli/internal/reqsign"
)

// errUnauthorized is the JSON-RPC error code for rejected signatures.
const errUnauthorized = -32001

var signedMethods = map[string]bool{
	"renex_deposit":     true,
	"renex_withdraw":    true,
	"renex_openOrder":   true,
	"renex_cancelOrder": true,
}

type rpcCall struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// Handler serves the venue over HTTP. Signed methods require a valid request signature
// by the trader named in the first parameter; other methods accept unsigned requests.
func (v *Venue) Handler() http.Handler {
	srv := v.Server()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		calls, err := decodeCalls(body)
		if err != nil {
			srv.ServeHTTP(w, r)
			return
		}

		if err := v.authorize(r.Header, body, calls); err != nil {
			writeRPCError(w, calls[0].ID, err)
			return
		}
		srv.ServeHTTP(w, r)
	})
}

// Signers returns the verified signer of every signed request, in order.
func (v *Venue) Signers() []common.Address {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]common.Address, len(v.signers))
	copy(out, v.signers)
	return out
}

// Unsigned returns the number of requests served without a signature.
func (v *Venue) Unsigned() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.unsigned
}

func (v *Venue) authorize(header http.Header, body []byte, calls []rpcCall) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if header.Get(reqsign.HeaderSignature) == "" {
		for _, c := range calls {
			if signedMethods[c.Method] {
				return errors.Errorf("%s requires a signed request", c.Method)
			}
		}
		v.unsigned++
		return nil
	}

	signer, err := reqsign.Verify(header, body)
	if err != nil {
		return err
	}
	for _, c := range calls {
		if !signedMethods[c.Method] {
			continue
		}
		trader, err := firstParam(c)
		if err != nil {
			return err
		}
		if !strings.EqualFold(trader, signer.Hex()) {
			return errors.Errorf("request for %s signed by %s", trader, signer.Hex())
		}
	}

	v.signers = append(v.signers, signer)
	return nil
}

func decodeCalls(body []byte) ([]rpcCall, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var calls []rpcCall
		if err := json.Unmarshal(trimmed, &calls); err != nil {
			return nil, err
		}
		if len(calls) == 0 {
			return nil, errors.New("empty batch")
		}
		return calls, nil
	}

	var call rpcCall
	if err := json.Unmarshal(trimmed, &call); err != nil {
		return nil, err
	}
	return []rpcCall{call}, nil
}

func firstParam(c rpcCall) (string, error) {
	if len(c.Params) == 0 {
		return "", errors.Errorf("%s: missing trader", c.Method)
	}
	var trader string
	if err := json.Unmarshal(c.Params[0], &trader); err != nil {
		return "", errors.Errorf("%s: trader must be a string", c.Method)
	}
	return trader, nil
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, err error) {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    errUnauthorized,
			"message": err.Error(),
		},
	})
}
