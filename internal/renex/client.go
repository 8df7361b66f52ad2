package renex

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

// Options fixed per session.
type Options struct {
	Network       string
	AutoNormalize bool
	// CanSign reports whether outbound requests are signed by the trader's key.
	CanSign bool
}

// Client implements SDK over a JSON-RPC Caller.
type Client struct {
	caller  Caller
	history History
	address common.Address
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

var _ SDK = (*Client)(nil)

// NewClient creates a venue client acting for address. history may be nil.
func NewClient(caller Caller, history History, address common.Address, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		caller:  caller,
		history: history,
		address: address,
		opts:    opts,
		logger:  logger.With(zap.String("network", opts.Network), zap.String("trader", address.Hex())),
		now:     time.Now,
	}
}

// Address implements SDK.
func (c *Client) Address() common.Address {
	return c.address
}

// FetchBalances implements SDK.
func (c *Client) FetchBalances(ctx context.Context, tokens []domain.Token) (map[string]domain.Balance, error) {
	codes := make([]string, 0, len(tokens))
	for _, t := range tokens {
		codes = append(codes, t.Code)
	}

	balances := make(map[string]domain.Balance, len(codes))
	if err := c.call(ctx, &balances, MethodBalances, c.address.Hex(), codes); err != nil {
		return nil, err
	}
	for _, code := range codes {
		if _, ok := balances[code]; !ok {
			return nil, fmt.Errorf("%s: %w: no balance reported for %s", MethodBalances, ErrSDKOperation, code)
		}
	}
	return balances, nil
}

// Deposit implements SDK.
func (c *Client) Deposit(ctx context.Context, token domain.Token, amount decimal.Decimal) (string, error) {
	return c.balanceAction(ctx, MethodDeposit, domain.BalanceActionDeposit, token, amount)
}

// Withdraw implements SDK.
func (c *Client) Withdraw(ctx context.Context, token domain.Token, amount decimal.Decimal) (string, error) {
	return c.balanceAction(ctx, MethodWithdraw, domain.BalanceActionWithdraw, token, amount)
}

func (c *Client) balanceAction(ctx context.Context, method string, kind domain.BalanceActionType,
	token domain.Token, amount decimal.Decimal) (string, error) {
	if !c.opts.CanSign {
		return "", ErrSigningRequired
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be greater than zero", ErrSDKOperation)
	}

	var txHash string
	if err := c.call(ctx, &txHash, method, c.address.Hex(), token.Code, amount.String()); err != nil {
		return "", err
	}

	c.remember(func(h History) error {
		return h.SaveBalanceActions(domain.BalanceAction{
			ID:     txHash,
			Trader: c.address.Hex(),
			Action: kind,
			Token:  token.Code,
			Amount: amount,
			TxHash: txHash,
			Status: domain.StatusPending,
			Time:   c.now().UTC(),
		})
	})

	return txHash, nil
}

// OpenOrder implements SDK.
func (c *Client) OpenOrder(ctx context.Context, order domain.OrderRequest) (domain.TraderOrder, error) {
	if !c.opts.CanSign {
		return domain.TraderOrder{}, ErrSigningRequired
	}

	prepared, err := prepareOrder(order, c.opts.AutoNormalize)
	if err != nil {
		return domain.TraderOrder{}, err
	}

	var opened domain.TraderOrder
	if err := c.call(ctx, &opened, MethodOpenOrder, c.address.Hex(), prepared); err != nil {
		return domain.TraderOrder{}, err
	}

	c.remember(func(h History) error { return h.SaveOrders(opened) })

	return opened, nil
}

// CancelOrder implements SDK.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	if !c.opts.CanSign {
		return ErrSigningRequired
	}

	if err := c.call(ctx, nil, MethodCancelOrder, c.address.Hex(), orderID); err != nil {
		return err
	}

	c.remember(func(h History) error {
		cached, err := h.Orders()
		if err != nil {
			return err
		}
		for _, o := range cached {
			if o.ID == orderID {
				o.Status = domain.StatusCanceled
				return h.SaveOrders(o)
			}
		}
		return nil
	})

	return nil
}

// FetchTraderOrders implements SDK.
func (c *Client) FetchTraderOrders(ctx context.Context, refresh bool) ([]domain.TraderOrder, error) {
	if !refresh && c.history != nil {
		return c.history.Orders()
	}

	var orders []domain.TraderOrder
	if err := c.call(ctx, &orders, MethodTraderOrders, c.address.Hex()); err != nil {
		return nil, err
	}

	c.remember(func(h History) error { return h.SaveOrders(orders...) })

	return orders, nil
}

// FetchBalanceActions implements SDK.
func (c *Client) FetchBalanceActions(ctx context.Context, refresh bool) ([]domain.BalanceAction, error) {
	if !refresh && c.history != nil {
		return c.history.BalanceActions()
	}

	var actions []domain.BalanceAction
	if err := c.call(ctx, &actions, MethodBalanceActions, c.address.Hex()); err != nil {
		return nil, err
	}

	c.remember(func(h History) error { return h.SaveBalanceActions(actions...) })

	return actions, nil
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	c.logger.Debug("rpc call", zap.String("method", method))

	if err := c.caller.CallContext(ctx, result, method, args...); err != nil {
		c.logger.Debug("rpc call failed", zap.String("method", method), zap.Error(err))
		return classify(method, err)
	}
	return nil
}

// remember updates the local cache. A cache failure never fails the venue operation
// that already succeeded.
func (c *Client) remember(fn func(h History) error) {
	if c.history == nil {
		return
	}
	if err := fn(c.history); err != nil {
		c.logger.Warn("failed to update local history", zap.Error(err))
	}
}
