// Package domain defines the core data structures shared by the venue client, the history cache and the CLI.
package domain

import (
	"fmt"
	"strings"
)

// QuoteCurrency is the quote side of every pair traded through the venue.
const QuoteCurrency = "ETH"

// Pair cryptocurrency trading pair.
type Pair struct {
	// From base currency symbol.
	From string
	// To quote currency symbol.
	To string
}

// NewPair returns the pair that trades token against the quote currency.
func NewPair(token Token) Pair {
	return Pair{From: token.Code, To: QuoteCurrency}
}

// String returns the venue symbol, e.g. REN/ETH.
func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.From, p.To)
}

// ParsePair parses a venue symbol of the form BASE/QUOTE.
func ParsePair(symbol string) (Pair, error) {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid symbol %q", symbol)
	}
	return Pair{From: parts[0], To: parts[1]}, nil
}
