package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance breakdown of a single token.
type Balance struct {
	// Free can be used for new orders or withdrawn.
	Free decimal.Decimal `json:"free"`
	// Used is locked in open orders.
	Used decimal.Decimal `json:"used"`
	// Nondeposited is held by the wallet but not deposited into the venue.
	Nondeposited decimal.Decimal `json:"nondeposited"`
}

// BalanceActionType deposit or withdrawal.
type BalanceActionType string

const (
	BalanceActionDeposit  BalanceActionType = "deposit"
	BalanceActionWithdraw BalanceActionType = "withdraw"
)

// BalanceAction is a historical deposit or withdrawal.
type BalanceAction struct {
	ID     string            `json:"id"`
	Trader string            `json:"trader"`
	Action BalanceActionType `json:"action"`
	Token  string            `json:"token"`
	Amount decimal.Decimal   `json:"amount"`
	TxHash string            `json:"txHash"`
	Status Status            `json:"status"`
	Time   time.Time         `json:"time"`
}
