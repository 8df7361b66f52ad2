package domain

import (
	"fmt"
	"time"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// IsValid checks if the Side value is valid.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// String returns the string representation.
func (s Side) String() string {
	return string(s)
}

// OrderRequest is what the trader submits to open an order.
// Price is quoted in ETH per unit of the base token, volume in base token units.
type OrderRequest struct {
	Symbol string `json:"symbol"`
	Side   Side   `json:"side"`
	Price  string `json:"price"`
	Volume string `json:"volume"`
}

// NewOrderRequest builds an order for token against the quote currency.
func NewOrderRequest(token Token, side Side, price, volume string) (OrderRequest, error) {
	if !side.IsValid() {
		return OrderRequest{}, fmt.Errorf("invalid side %q", side)
	}
	return OrderRequest{
		Symbol: NewPair(token).String(),
		Side:   side,
		Price:  price,
		Volume: volume,
	}, nil
}

// TraderOrder is the venue's view of an order submitted by the trader.
type TraderOrder struct {
	ID          string       `json:"id"`
	Trader      string       `json:"trader"`
	Status      Status       `json:"status"`
	Time        time.Time    `json:"time"`
	OrderInputs OrderRequest `json:"orderInputs"`
}
