package renex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

var (
	// ErrSigningRequired is returned when an operation that must be signed runs in a read-only session.
	ErrSigningRequired = errors.New("signing required: unlock the keystore for this operation")
	// ErrRPCFailure wraps transport failures talking to the RPC endpoint.
	ErrRPCFailure = errors.New("rpc failure")
	// ErrSDKOperation wraps failures reported by the venue itself.
	ErrSDKOperation = errors.New("venue operation failed")
)

// classify tags err as a venue error when the endpoint answered with a JSON-RPC error
// object and as a transport error otherwise.
func classify(method string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: %w: %w", method, ErrSDKOperation, err)
	}
	return fmt.Errorf("%s: %w: %w", method, ErrRPCFailure, err)
}
