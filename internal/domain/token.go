package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidToken is returned for token codes outside the supported registry.
var ErrInvalidToken = errors.New("invalid token")

// Token is a currency known to the venue.
type Token struct {
	Code     string
	Decimals int32
	// Tradable is false for the quote currency, which cannot be bought or sold against itself.
	Tradable bool
}

var registry = []Token{
	{Code: "ETH", Decimals: 18},
	{Code: "DGX", Decimals: 9, Tradable: true},
	{Code: "TUSD", Decimals: 18, Tradable: true},
	{Code: "REN", Decimals: 18, Tradable: true},
	{Code: "ZRX", Decimals: 18, Tradable: true},
	{Code: "OMG", Decimals: 18, Tradable: true},
}

// Tokens returns the supported tokens in registry order.
func Tokens() []Token {
	out := make([]Token, len(registry))
	copy(out, registry)
	return out
}

// LookupToken upper-cases code and resolves it against the registry.
func LookupToken(code string) (Token, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, t := range registry {
		if t.Code == normalized {
			return t, nil
		}
	}
	return Token{}, errors.Wrapf(ErrInvalidToken, "%q is not supported", code)
}

// LookupTradableToken is LookupToken restricted to tokens that can be traded against the quote currency.
func LookupTradableToken(code string) (Token, error) {
	t, err := LookupToken(code)
	if err != nil {
		return Token{}, err
	}
	if !t.Tradable {
		return Token{}, errors.Wrapf(ErrInvalidToken, "%s cannot be traded against %s", t.Code, QuoteCurrency)
	}
	return t, nil
}
