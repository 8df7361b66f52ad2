// Package renextest provides an in-memory venue that serves the renex JSON-RPC namespace.
package renextest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

// Venue keeps per-trader balances, orders and balance actions in memory.
type Venue struct {
	mu       sync.Mutex
	balances map[string]map[string]domain.Balance
	orders   map[string][]domain.TraderOrder
	actions  map[string][]domain.BalanceAction
	failures map[string]error
	calls    []string
	signers  []common.Address
	unsigned int
	seq      int
	now      func() time.Time
}

// NewVenue creates an empty venue.
func NewVenue() *Venue {
	return &Venue{
		balances: make(map[string]map[string]domain.Balance),
		orders:   make(map[string][]domain.TraderOrder),
		actions:  make(map[string][]domain.BalanceAction),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// Server returns a JSON-RPC server exposing the venue under the renex namespace.
func (v *Venue) Server() *rpc.Server {
	srv := rpc.NewServer()
	if err := srv.RegisterName("renex", &service{venue: v}); err != nil {
		panic(err)
	}
	return srv
}

// Fund sets the wallet (non-deposited) and venue (free) balances of trader.
func (v *Venue) Fund(trader, token string, wallet, free decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	b := v.balanceLocked(trader, token)
	b.Nondeposited = wallet
	b.Free = free
	v.setBalanceLocked(trader, token, b)
}

// AddOrder appends an order to trader's order list as if it was opened elsewhere.
func (v *Venue) AddOrder(order domain.TraderOrder) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := strings.ToLower(order.Trader)
	v.orders[key] = append(v.orders[key], order)
}

// FailNext makes the next call of method return err.
func (v *Venue) FailNext(method string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failures[method] = err
}

// Calls returns the methods served so far, in order.
func (v *Venue) Calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, len(v.calls))
	copy(out, v.calls)
	return out
}

func (v *Venue) enter(method string) error {
	v.calls = append(v.calls, method)
	if err, ok := v.failures[method]; ok {
		delete(v.failures, method)
		return err
	}
	return nil
}

func (v *Venue) balanceLocked(trader, token string) domain.Balance {
	return v.balances[strings.ToLower(trader)][token]
}

func (v *Venue) setBalanceLocked(trader, token string, b domain.Balance) {
	key := strings.ToLower(trader)
	if v.balances[key] == nil {
		v.balances[key] = make(map[string]domain.Balance)
	}
	v.balances[key][token] = b
}

func (v *Venue) nextID(kind string) string {
	v.seq++
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("%s-%d", kind, v.seq))).Hex()
}

// service is the rpc receiver. Method names map to renex_<lowerCamel>.
type service struct {
	venue *Venue
}

func (s *service) Balances(trader string, tokens []string) (map[string]domain.Balance, error) {
	v := s.venue
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter("renex_balances"); err != nil {
		return nil, err
	}

	out := make(map[string]domain.Balance, len(tokens))
	for _, t := range tokens {
		out[t] = v.balanceLocked(trader, t)
	}
	return out, nil
}

func (s *service) Deposit(trader, token, amount string) (string, error) {
	return s.move("renex_deposit", domain.BalanceActionDeposit, trader, token, amount)
}

func (s *service) Withdraw(trader, token, amount string) (string, error) {
	return s.move("renex_withdraw", domain.BalanceActionWithdraw, trader, token, amount)
}

func (s *service) move(method string, kind domain.BalanceActionType, trader, token, amount string) (string, error) {
	v := s.venue
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(method); err != nil {
		return "", err
	}

	qty, err := decimal.NewFromString(amount)
	if err != nil || !qty.IsPositive() {
		return "", errors.Errorf("invalid amount %q", amount)
	}

	b := v.balanceLocked(trader, token)
	switch kind {
	case domain.BalanceActionDeposit:
		if b.Nondeposited.LessThan(qty) {
			return "", errors.Errorf("insufficient %s in wallet", token)
		}
		b.Nondeposited = b.Nondeposited.Sub(qty)
		b.Free = b.Free.Add(qty)
	case domain.BalanceActionWithdraw:
		if b.Free.LessThan(qty) {
			return "", errors.Errorf("insufficient free %s", token)
		}
		b.Free = b.Free.Sub(qty)
		b.Nondeposited = b.Nondeposited.Add(qty)
	}
	v.setBalanceLocked(trader, token, b)

	txHash := v.nextID(string(kind))
	key := strings.ToLower(trader)
	v.actions[key] = append(v.actions[key], domain.BalanceAction{
		ID:     txHash,
		Trader: trader,
		Action: kind,
		Token:  token,
		Amount: qty,
		TxHash: txHash,
		Status: domain.StatusDone,
		Time:   v.now().UTC(),
	})

	return txHash, nil
}

func (s *service) OpenOrder(trader string, order domain.OrderRequest) (domain.TraderOrder, error) {
	v := s.venue
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter("renex_openOrder"); err != nil {
		return domain.TraderOrder{}, err
	}
	if !order.Side.IsValid() {
		return domain.TraderOrder{}, errors.Errorf("invalid side %q", order.Side)
	}

	opened := domain.TraderOrder{
		ID:          v.nextID("order"),
		Trader:      trader,
		Status:      domain.StatusOpen,
		Time:        v.now().UTC(),
		OrderInputs: order,
	}
	key := strings.ToLower(trader)
	v.orders[key] = append(v.orders[key], opened)

	return opened, nil
}

func (s *service) CancelOrder(trader, orderID string) error {
	v := s.venue
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter("renex_cancelOrder"); err != nil {
		return err
	}

	key := strings.ToLower(trader)
	for i, o := range v.orders[key] {
		if o.ID != orderID {
			continue
		}
		if o.Status != domain.StatusOpen {
			return errors.Errorf("order %s is %s", orderID, o.Status)
		}
		v.orders[key][i].Status = domain.StatusCanceled
		return nil
	}
	return errors.Errorf("order %s not found", orderID)
}

func (s *service) TraderOrders(trader string) ([]domain.TraderOrder, error) {
	v := s.venue
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter("renex_traderOrders"); err != nil {
		return nil, err
	}

	out := make([]domain.TraderOrder, len(v.orders[strings.ToLower(trader)]))
	copy(out, v.orders[strings.ToLower(trader)])
	return out, nil
}

func (s *service) BalanceActions(trader string) ([]domain.BalanceAction, error) {
	v := s.venue
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter("renex_balanceActions"); err != nil {
		return nil, err
	}

	out := make([]domain.BalanceAction, len(v.actions[strings.ToLower(trader)]))
	copy(out, v.actions[strings.ToLower(trader)])
	return out, nil
}
