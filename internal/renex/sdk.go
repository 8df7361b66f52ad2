// Package renex is the client side of the RenEx venue API, spoken as JSON-RPC over the
// session transport.
package renex

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

// SDK is the set of venue operations the CLI relies on.
type SDK interface {
	// Address is the trader the session acts for.
	Address() common.Address
	FetchBalances(ctx context.Context, tokens []domain.Token) (map[string]domain.Balance, error)
	Deposit(ctx context.Context, token domain.Token, amount decimal.Decimal) (string, error)
	Withdraw(ctx context.Context, token domain.Token, amount decimal.Decimal) (string, error)
	OpenOrder(ctx context.Context, order domain.OrderRequest) (domain.TraderOrder, error)
	CancelOrder(ctx context.Context, orderID string) error
	// FetchTraderOrders returns cached orders unless refresh asks for the venue's current view.
	FetchTraderOrders(ctx context.Context, refresh bool) ([]domain.TraderOrder, error)
	// FetchBalanceActions returns cached actions unless refresh asks for the venue's current view.
	FetchBalanceActions(ctx context.Context, refresh bool) ([]domain.BalanceAction, error)
}

// Caller performs a single JSON-RPC call. *rpc.Client satisfies it.
type Caller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// History is the local cache of orders and balance actions.
type History interface {
	SaveOrders(orders ...domain.TraderOrder) error
	SaveBalanceActions(actions ...domain.BalanceAction) error
	Orders() ([]domain.TraderOrder, error)
	BalanceActions() ([]domain.BalanceAction, error)
}

// JSON-RPC methods exposed by the venue.
const (
	MethodBalances       = "renex_balances"
	MethodDeposit        = "renex_deposit"
	MethodWithdraw       = "renex_withdraw"
	MethodOpenOrder      = "renex_openOrder"
	MethodCancelOrder    = "renex_cancelOrder"
	MethodTraderOrders   = "renex_traderOrders"
	MethodBalanceActions = "renex_balanceActions"
)
